package controllers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hrdesk/leave_service/internal/apperr"
	"github.com/hrdesk/leave_service/internal/entity"
	"github.com/hrdesk/leave_service/internal/leave"
	"github.com/jackc/pgx/v5"
)

type EmployeeController struct {
	deps *Dependens
}

func NewEmployeeController(deps *Dependens) *EmployeeController {
	return &EmployeeController{
		deps: deps,
	}
}

// parseDate accepts a bare calendar date or a full timestamp and normalizes
// the result to midnight UTC, so day arithmetic never sees time-of-day drift.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return leave.Midnight(t), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}

	return leave.Midnight(t), nil
}

func (c *EmployeeController) GetEmployees() ([]entity.Employee, error) {
	rows, err := c.deps.DB.Query(context.Background(), "SELECT * FROM employees ORDER BY created_at DESC")
	if err != nil {
		c.deps.Logger.Error("Error querying employees", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employees")
	}
	defer rows.Close()

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employees")
	}

	return employees, nil
}

func (c *EmployeeController) getEmployee(id uint64) (*entity.Employee, error) {
	rows, err := c.deps.DB.Query(context.Background(), "SELECT * FROM employees WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee")
	}
	defer rows.Close()

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
			return nil, apperr.NotFoundf("Employee not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee")
	}

	return &employee, nil
}

// GetEmployeeByID returns the employee with their leave requests, newest
// application first.
func (c *EmployeeController) GetEmployeeByID(id uint64) (*entity.EmployeeDetail, error) {
	employee, err := c.getEmployee(id)
	if err != nil {
		return nil, err
	}

	rows, err := c.deps.DB.Query(context.Background(),
		"SELECT * FROM leave_requests WHERE employee_id = $1 ORDER BY applied_at DESC", id)
	if err != nil {
		c.deps.Logger.Error("Error querying leave requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee")
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee")
	}

	return &entity.EmployeeDetail{Employee: *employee, LeaveRequests: requests}, nil
}

func (c *EmployeeController) CreateEmployee(req entity.CreateEmployeeRequest) (*entity.Employee, error) {
	if req.Name == "" || req.Email == "" || req.Department == "" || req.JoiningDate == "" {
		c.deps.Logger.Warn("Missing required employee fields", slog.Any("req", req))
		return nil, apperr.Validationf("Missing required fields: name, email, department, joining_date")
	}

	if !leave.ValidEmail(req.Email) {
		return nil, apperr.Validationf("Invalid email format")
	}

	joiningDate, err := parseDate(req.JoiningDate)
	if err != nil {
		return nil, apperr.Validationf("Invalid joining date format")
	}

	if err = leave.ValidateJoiningDate(joiningDate, c.deps.Now()); err != nil {
		return nil, err
	}

	balance := entity.DefaultLeaveBalance
	if req.LeaveBalance != nil {
		balance = *req.LeaveBalance
	}

	if balance < 0 {
		return nil, apperr.Validationf("Leave balance cannot be negative")
	}

	var exists int
	if err = c.deps.DB.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM employees WHERE email = $1", req.Email).Scan(&exists); err != nil {
		c.deps.Logger.Error("Error checking email uniqueness", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to create employee")
	}

	if exists > 0 {
		c.deps.Logger.Warn("Employee already exists", slog.String("email", req.Email))
		return nil, apperr.Conflictf("Employee with this email already exists")
	}

	now := c.deps.Now()
	emp := entity.Employee{
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
		JoiningDate:  joiningDate,
		LeaveBalance: balance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `INSERT INTO employees (name, email, department, joining_date, leave_balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id`

	if err = c.deps.DB.QueryRow(context.Background(), query,
		emp.Name, emp.Email, emp.Department, emp.JoiningDate, emp.LeaveBalance, now, now,
	).Scan(&emp.ID); err != nil {
		c.deps.Logger.Error("Error inserting employee", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to create employee")
	}

	c.deps.Logger.Info("Employee created", slog.Any("id", emp.ID), slog.String("email", emp.Email))

	return &emp, nil
}

func (c *EmployeeController) UpdateEmployee(id uint64, req entity.UpdateEmployeeRequest) (*entity.Employee, error) {
	emp, err := c.getEmployee(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperr.Validationf("Name cannot be empty")
		}
		emp.Name = *req.Name
	}

	if req.Email != nil {
		if !leave.ValidEmail(*req.Email) {
			return nil, apperr.Validationf("Invalid email format")
		}

		var exists int
		if err = c.deps.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM employees WHERE email = $1 AND id != $2", *req.Email, id).Scan(&exists); err != nil {
			c.deps.Logger.Error("Error checking email uniqueness", slog.String("error", err.Error()))
			return nil, apperr.Unexpected(err, "Failed to update employee")
		}

		if exists > 0 {
			c.deps.Logger.Warn("Email already exists", slog.String("email", *req.Email))
			return nil, apperr.Conflictf("Email already exists for another employee")
		}

		emp.Email = *req.Email
	}

	if req.Department != nil {
		if strings.TrimSpace(*req.Department) == "" {
			return nil, apperr.Validationf("Department cannot be empty")
		}
		emp.Department = *req.Department
	}

	if req.JoiningDate != nil {
		joiningDate, parseErr := parseDate(*req.JoiningDate)
		if parseErr != nil {
			return nil, apperr.Validationf("Invalid joining date format")
		}

		if err = leave.ValidateJoiningDate(joiningDate, c.deps.Now()); err != nil {
			return nil, err
		}

		emp.JoiningDate = joiningDate
	}

	if req.LeaveBalance != nil {
		if *req.LeaveBalance < 0 {
			return nil, apperr.Validationf("Leave balance cannot be negative")
		}
		emp.LeaveBalance = *req.LeaveBalance
	}

	emp.UpdatedAt = c.deps.Now()

	query := `UPDATE employees
              SET name = $1, email = $2, department = $3, joining_date = $4, leave_balance = $5, updated_at = $6
              WHERE id = $7
              RETURNING *`

	rows, err := c.deps.DB.Query(context.Background(), query,
		emp.Name, emp.Email, emp.Department, emp.JoiningDate, emp.LeaveBalance, emp.UpdatedAt, id)
	if err != nil {
		c.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to update employee")
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("Employee not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to update employee")
	}

	if req.LeaveBalance != nil {
		c.dropStatsCache(id)
	}

	return &updated, nil
}

// DeleteEmployee removes the employee and cascades to all their requests.
func (c *EmployeeController) DeleteEmployee(id uint64) error {
	if _, err := c.deps.DB.Exec(context.Background(),
		"DELETE FROM leave_requests WHERE employee_id = $1", id); err != nil {
		c.deps.Logger.Error("Error deleting leave requests", slog.String("error", err.Error()))
		return apperr.Unexpected(err, "Failed to delete employee")
	}

	result, err := c.deps.DB.Exec(context.Background(), "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		c.deps.Logger.Error("Error deleting employee", slog.String("error", err.Error()))
		return apperr.Unexpected(err, "Failed to delete employee")
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Employee not found", slog.Any("id", id))
		return apperr.NotFoundf("Employee not found")
	}

	c.dropStatsCache(id)

	return nil
}

// dropStatsCache invalidates the current-year stats entries touched by an
// employee mutation. Older years age out via the cache TTL.
func (c *EmployeeController) dropStatsCache(id uint64) {
	year := c.deps.Now().Year()
	if err := c.deps.Redis.Del(context.Background(),
		employeeStatsKey(year, id), companyStatsKey(year)).Err(); err != nil {
		c.deps.Logger.Warn("Error invalidating stats cache", slog.String("error", err.Error()))
	}
}

// GetEmployeeBalance reports the display view of an employee's balance.
// The available figure is floored at zero here; approval gates recompute
// the raw value per call.
func (c *EmployeeController) GetEmployeeBalance(id uint64) (*entity.BalanceSummary, error) {
	emp, err := c.getEmployee(id)
	if err != nil {
		return nil, err
	}

	rows, err := c.deps.DB.Query(context.Background(),
		"SELECT * FROM leave_requests WHERE employee_id = $1 AND status = $2", id, entity.StatusApproved)
	if err != nil {
		c.deps.Logger.Error("Error querying approved requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee balance")
	}
	defer rows.Close()

	approved, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch employee balance")
	}

	used := leave.UsedDays(approved)

	return &entity.BalanceSummary{
		EmployeeID:            emp.ID,
		EmployeeName:          emp.Name,
		EmployeeEmail:         emp.Email,
		TotalLeaveBalance:     emp.LeaveBalance,
		UsedLeaveDays:         used,
		AvailableBalance:      leave.DisplayBalance(emp.LeaveBalance, used),
		ApprovedLeaveRequests: len(approved),
	}, nil
}

func (c *EmployeeController) SetEmployeeBalance(id uint64, req entity.UpdateBalanceRequest) (*entity.BalanceUpdateResult, error) {
	if req.LeaveBalance == nil || *req.LeaveBalance < 0 {
		return nil, apperr.Validationf("Leave balance must be a non-negative number")
	}

	emp, err := c.getEmployee(id)
	if err != nil {
		return nil, err
	}

	if _, err = c.deps.DB.Exec(context.Background(),
		"UPDATE employees SET leave_balance = $1, updated_at = $2 WHERE id = $3",
		*req.LeaveBalance, c.deps.Now(), id); err != nil {
		c.deps.Logger.Error("Error updating leave balance", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to update employee balance")
	}

	c.dropStatsCache(id)

	reason := req.Reason
	if reason == "" {
		reason = "Balance updated by HR"
	}

	c.deps.Logger.Info("Leave balance updated",
		slog.Any("id", id),
		slog.Int("previous", emp.LeaveBalance),
		slog.Int("new", *req.LeaveBalance),
		slog.String("reason", reason))

	return &entity.BalanceUpdateResult{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.Name,
		PreviousBalance: emp.LeaveBalance,
		NewBalance:      *req.LeaveBalance,
		Reason:          reason,
	}, nil
}
