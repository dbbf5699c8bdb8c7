package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrdesk/leave_service/internal/apperr"
	"github.com/hrdesk/leave_service/internal/entity"
	"github.com/hrdesk/leave_service/internal/leave"
	"github.com/jackc/pgx/v5"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type LeaveController struct {
	deps *Dependens
}

func NewLeaveController(deps *Dependens) *LeaveController {
	return &LeaveController{
		deps: deps,
	}
}

func (c *LeaveController) getRequest(id uint64) (*entity.LeaveRequest, error) {
	rows, err := c.deps.DB.Query(context.Background(), "SELECT * FROM leave_requests WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error querying leave request", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave request")
	}
	defer rows.Close()

	request, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Leave request not found", slog.Any("id", id))
			return nil, apperr.NotFoundf("Leave request not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave request")
	}

	return &request, nil
}

// requestsByStatus loads an employee's requests in the given statuses,
// optionally excluding one request id (the one under review).
func (c *LeaveController) requestsByStatus(employeeID uint64, statuses []entity.LeaveStatus, excludeID uint64) ([]entity.LeaveRequest, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query := "SELECT * FROM leave_requests WHERE employee_id = $1 AND status = ANY($2)"
	args := []any{employeeID, names}

	if excludeID != 0 {
		query += " AND id != $3"
		args = append(args, excludeID)
	}

	rows, err := c.deps.DB.Query(context.Background(), query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying leave requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave requests")
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave requests")
	}

	return requests, nil
}

// SubmitLeaveRequest validates an application against the employee's current
// balance and existing pending/approved requests, then creates it as PENDING.
func (c *LeaveController) SubmitLeaveRequest(req entity.SubmitLeaveRequest) (*entity.SubmitLeaveResult, error) {
	if req.EmployeeID == 0 || req.StartDate == "" || req.EndDate == "" || req.Reason == "" {
		return nil, apperr.Validationf("Missing required fields: employee_id, start_date, end_date, reason")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperr.Validationf("Reason cannot be empty")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validationf("Invalid date format")
	}

	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, apperr.Validationf("Invalid date format")
	}

	var employee entity.Employee
	empRows, err := c.deps.DB.Query(context.Background(), "SELECT * FROM employees WHERE id = $1", req.EmployeeID)
	if err != nil {
		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to create leave request")
	}
	defer empRows.Close()

	employee, err = pgx.CollectOneRow(empRows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("Employee not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to create leave request")
	}

	approved, err := c.requestsByStatus(req.EmployeeID, []entity.LeaveStatus{entity.StatusApproved}, 0)
	if err != nil {
		return nil, err
	}

	requestedDays := leave.InclusiveDays(start, end)
	availableBalance := leave.AvailableBalance(employee.LeaveBalance, approved)

	if err = leave.ValidateApplication(start, end, employee.JoiningDate, c.deps.Now(), requestedDays, availableBalance); err != nil {
		return nil, err
	}

	open, err := c.requestsByStatus(req.EmployeeID,
		[]entity.LeaveStatus{entity.StatusPending, entity.StatusApproved}, 0)
	if err != nil {
		return nil, err
	}

	if conflicts := leave.Overlapping(start, end, open); len(conflicts) > 0 {
		c.deps.Logger.Warn("Overlapping leave request rejected",
			slog.Any("employee_id", req.EmployeeID), slog.Int("conflicts", len(conflicts)))
		return nil, apperr.ConflictWith(conflicts, "Leave request overlaps with existing pending or approved leave")
	}

	now := c.deps.Now()
	request := entity.LeaveRequest{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
		Status:     entity.StatusPending,
		AppliedAt:  now,
	}

	query := `INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status, applied_at)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id`

	if err = c.deps.DB.QueryRow(context.Background(), query,
		request.EmployeeID, request.StartDate, request.EndDate, request.Reason, request.Status, request.AppliedAt,
	).Scan(&request.ID); err != nil {
		c.deps.Logger.Error("Error inserting leave request", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to create leave request")
	}

	c.invalidateStats(req.EmployeeID, start.Year())

	c.deps.Logger.Info("Leave request submitted",
		slog.Any("id", request.ID),
		slog.Any("employee_id", req.EmployeeID),
		slog.Int("requested_days", requestedDays))

	return &entity.SubmitLeaveResult{
		LeaveRequest:     request,
		RequestedDays:    requestedDays,
		AvailableBalance: availableBalance - requestedDays,
	}, nil
}

// GetLeaveRequestByID returns one request together with its day count.
func (c *LeaveController) GetLeaveRequestByID(id uint64) (*entity.LeaveRequestDetail, error) {
	request, err := c.getRequest(id)
	if err != nil {
		return nil, err
	}

	return &entity.LeaveRequestDetail{
		LeaveRequest: *request,
		LeaveDays:    leave.InclusiveDays(request.StartDate, request.EndDate),
	}, nil
}

// ReviewLeaveRequest moves a PENDING request to APPROVED or REJECTED. The
// transition is irrevocable; approvals re-check balance and overlaps against
// the other APPROVED requests, rejections need no checks. The status
// precondition is re-evaluated inside the UPDATE itself so a lost
// double-review race surfaces as a normal already-reviewed failure.
func (c *LeaveController) ReviewLeaveRequest(id uint64, req entity.ReviewLeaveRequest) (*entity.LeaveRequest, error) {
	if !req.Status.IsReviewTarget() {
		return nil, apperr.Validationf("Status must be either APPROVED or REJECTED")
	}

	if strings.TrimSpace(req.ReviewedBy) == "" {
		return nil, apperr.Validationf("reviewed_by field is required")
	}

	request, err := c.getRequest(id)
	if err != nil {
		return nil, err
	}

	if request.Status != entity.StatusPending {
		return nil, apperr.Conflictf("Leave request has already been %s", strings.ToLower(string(request.Status)))
	}

	if req.Status == entity.StatusApproved {
		if err = c.checkApproval(request); err != nil {
			return nil, err
		}
	}

	var comments *string
	if req.Comments != nil {
		trimmed := strings.TrimSpace(*req.Comments)
		if trimmed != "" {
			comments = &trimmed
		}
	}

	now := c.deps.Now()
	query := `UPDATE leave_requests
              SET status = $1, reviewed_by = $2, reviewed_at = $3, comments = $4
              WHERE id = $5 AND status = $6
              RETURNING *`

	rows, err := c.deps.DB.Query(context.Background(), query,
		req.Status, req.ReviewedBy, now, comments, id, entity.StatusPending)
	if err != nil {
		c.deps.Logger.Error("Error updating leave request", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to update leave request")
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race to a concurrent review; report the winner's state.
			if current, getErr := c.getRequest(id); getErr == nil {
				return nil, apperr.Conflictf("Leave request has already been %s", strings.ToLower(string(current.Status)))
			}
			return nil, apperr.NotFoundf("Leave request not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to update leave request")
	}

	c.invalidateStats(updated.EmployeeID, updated.StartDate.Year())

	c.deps.Logger.Info("Leave request reviewed",
		slog.Any("id", id),
		slog.String("status", string(updated.Status)),
		slog.String("reviewed_by", req.ReviewedBy))

	return &updated, nil
}

// checkApproval runs the approval-only gates: balance sufficiency and overlap
// against the employee's other APPROVED requests, excluding the request under
// review from both.
func (c *LeaveController) checkApproval(request *entity.LeaveRequest) error {
	var balance int
	if err := c.deps.DB.QueryRow(context.Background(),
		"SELECT leave_balance FROM employees WHERE id = $1", request.EmployeeID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFoundf("Employee not found")
		}

		c.deps.Logger.Error("Error querying employee balance", slog.String("error", err.Error()))
		return apperr.Unexpected(err, "Failed to update leave request")
	}

	otherApproved, err := c.requestsByStatus(request.EmployeeID,
		[]entity.LeaveStatus{entity.StatusApproved}, request.ID)
	if err != nil {
		return err
	}

	requestedDays := leave.InclusiveDays(request.StartDate, request.EndDate)
	availableBalance := leave.AvailableBalance(balance, otherApproved)

	if requestedDays > availableBalance {
		return apperr.Validationf("Cannot approve: Insufficient leave balance. Available: %d days, Requested: %d days",
			availableBalance, requestedDays)
	}

	if conflicts := leave.Overlapping(request.StartDate, request.EndDate, otherApproved); len(conflicts) > 0 {
		return apperr.ConflictWith(conflicts, "Cannot approve: Leave request overlaps with existing approved leave")
	}

	return nil
}

// CancelLeaveRequest deletes a request that is still PENDING.
func (c *LeaveController) CancelLeaveRequest(id uint64) error {
	request, err := c.getRequest(id)
	if err != nil {
		return err
	}

	if request.Status != entity.StatusPending {
		return apperr.Validationf("Cannot cancel %s leave request", strings.ToLower(string(request.Status)))
	}

	result, err := c.deps.DB.Exec(context.Background(),
		"DELETE FROM leave_requests WHERE id = $1 AND status = $2", id, entity.StatusPending)
	if err != nil {
		c.deps.Logger.Error("Error deleting leave request", slog.String("error", err.Error()))
		return apperr.Unexpected(err, "Failed to cancel leave request")
	}

	if result.RowsAffected() == 0 {
		// Reviewed between the read and the delete.
		if current, getErr := c.getRequest(id); getErr == nil {
			return apperr.Validationf("Cannot cancel %s leave request", strings.ToLower(string(current.Status)))
		}
		return apperr.NotFoundf("Leave request not found")
	}

	c.invalidateStats(request.EmployeeID, request.StartDate.Year())

	c.deps.Logger.Info("Leave request cancelled", slog.Any("id", id))

	return nil
}

// ListLeaveRequests pages through requests, newest application first.
func (c *LeaveController) ListLeaveRequests(params entity.ListLeaveParams) (*entity.LeaveRequestPage, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}

	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1

	if params.EmployeeID != nil {
		if _, err := c.getEmployeeExists(*params.EmployeeID); err != nil {
			return nil, err
		}

		where += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *params.EmployeeID)
		argIdx++
	}

	if params.Status != nil && params.Status.Valid() {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *params.Status)
		argIdx++
	}

	var total int
	if err := c.deps.DB.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM leave_requests"+where, args...).Scan(&total); err != nil {
		c.deps.Logger.Error("Error counting leave requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave requests")
	}

	query := fmt.Sprintf("SELECT * FROM leave_requests%s ORDER BY applied_at DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := c.deps.DB.Query(context.Background(), query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying leave requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave requests")
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave requests")
	}

	return &entity.LeaveRequestPage{
		LeaveRequests: requests,
		Pagination: entity.Pagination{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

func (c *LeaveController) getEmployeeExists(id uint64) (bool, error) {
	var exists int
	if err := c.deps.DB.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM employees WHERE id = $1", id).Scan(&exists); err != nil {
		c.deps.Logger.Error("Error checking employee", slog.String("error", err.Error()))
		return false, apperr.Unexpected(err, "Failed to fetch leave requests")
	}

	if exists == 0 {
		return false, apperr.NotFoundf("Employee not found")
	}

	return true, nil
}

// invalidateStats drops the cached stats touched by a mutation. Cache misses
// after this simply recompute; failures only cost staleness, so they are
// logged and ignored.
func (c *LeaveController) invalidateStats(employeeID uint64, year int) {
	keys := []string{
		employeeStatsKey(year, employeeID),
		companyStatsKey(year),
	}

	if err := c.deps.Redis.Del(context.Background(), keys...).Err(); err != nil {
		c.deps.Logger.Warn("Error invalidating stats cache", slog.String("error", err.Error()))
	}
}
