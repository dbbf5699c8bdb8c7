package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrdesk/leave_service/internal/apperr"
	"github.com/hrdesk/leave_service/internal/entity"
	"github.com/hrdesk/leave_service/internal/leave"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

type StatsController struct {
	deps *Dependens
}

func NewStatsController(deps *Dependens) *StatsController {
	return &StatsController{
		deps: deps,
	}
}

func employeeStatsKey(year int, employeeID uint64) string {
	return fmt.Sprintf("leave_stats:%d:employee:%d", year, employeeID)
}

func companyStatsKey(year int) string {
	return fmt.Sprintf("leave_stats:%d:all", year)
}

func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

// fromCache loads a cached stats payload into out; a miss or a broken entry
// just means recompute.
func (c *StatsController) fromCache(key string, out any) bool {
	data, err := c.deps.Redis.Get(context.Background(), key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.deps.Logger.Warn("Error reading stats cache", slog.String("error", err.Error()))
		}
		return false
	}

	if err = json.Unmarshal([]byte(data), out); err != nil {
		c.deps.Logger.Warn("Error decoding stats cache", slog.String("error", err.Error()))
		return false
	}

	return true
}

func (c *StatsController) toCache(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.deps.Logger.Warn("Error encoding stats cache", slog.String("error", err.Error()))
		return
	}

	if err = c.deps.Redis.Set(context.Background(), key, string(data), c.deps.Config.Redis.StatsCacheTTL).Err(); err != nil {
		c.deps.Logger.Warn("Error writing stats cache", slog.String("error", err.Error()))
	}
}

func (c *StatsController) countRequests(employeeID *uint64, status entity.LeaveStatus, from, to time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM leave_requests WHERE status = $1 AND start_date >= $2 AND start_date <= $3"
	args := []any{status, from, to}

	if employeeID != nil {
		query += " AND employee_id = $4"
		args = append(args, *employeeID)
	}

	var count int
	if err := c.deps.DB.QueryRow(context.Background(), query, args...).Scan(&count); err != nil {
		c.deps.Logger.Error("Error counting leave requests", slog.String("error", err.Error()))
		return 0, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	return count, nil
}

// GetEmployeeLeaveStats aggregates one employee's requests for a year.
func (c *StatsController) GetEmployeeLeaveStats(employeeID uint64, year int) (*entity.EmployeeLeaveStats, error) {
	key := employeeStatsKey(year, employeeID)

	var cached entity.EmployeeLeaveStats
	if c.fromCache(key, &cached) {
		return &cached, nil
	}

	var employee entity.Employee
	rows, err := c.deps.DB.Query(context.Background(), "SELECT * FROM employees WHERE id = $1", employeeID)
	if err != nil {
		c.deps.Logger.Error("Error querying employee", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}
	defer rows.Close()

	employee, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("Employee not found")
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	from, to := yearBounds(year)

	pending, err := c.countRequests(&employeeID, entity.StatusPending, from, to)
	if err != nil {
		return nil, err
	}

	rejected, err := c.countRequests(&employeeID, entity.StatusRejected, from, to)
	if err != nil {
		return nil, err
	}

	approvedRows, err := c.deps.DB.Query(context.Background(),
		"SELECT * FROM leave_requests WHERE employee_id = $1 AND status = $2 AND start_date >= $3 AND start_date <= $4",
		employeeID, entity.StatusApproved, from, to)
	if err != nil {
		c.deps.Logger.Error("Error querying approved requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}
	defer approvedRows.Close()

	approved, err := pgx.CollectRows(approvedRows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	used := leave.UsedDays(approved)

	stats := &entity.EmployeeLeaveStats{
		EmployeeID:        employee.ID,
		EmployeeName:      employee.Name,
		Year:              year,
		TotalLeaveBalance: employee.LeaveBalance,
		UsedLeaveDays:     used,
		RemainingBalance:  leave.DisplayBalance(employee.LeaveBalance, used),
		PendingRequests:   pending,
		ApprovedRequests:  len(approved),
		RejectedRequests:  rejected,
	}

	c.toCache(key, stats)

	return stats, nil
}

// GetCompanyLeaveStats aggregates the whole company for a year, grouped by
// department.
func (c *StatsController) GetCompanyLeaveStats(year int) (*entity.CompanyLeaveStats, error) {
	key := companyStatsKey(year)

	var cached entity.CompanyLeaveStats
	if c.fromCache(key, &cached) {
		return &cached, nil
	}

	var totalEmployees int
	if err := c.deps.DB.QueryRow(context.Background(), "SELECT COUNT(*) FROM employees").Scan(&totalEmployees); err != nil {
		c.deps.Logger.Error("Error counting employees", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	from, to := yearBounds(year)

	pending, err := c.countRequests(nil, entity.StatusPending, from, to)
	if err != nil {
		return nil, err
	}

	rejected, err := c.countRequests(nil, entity.StatusRejected, from, to)
	if err != nil {
		return nil, err
	}

	type approvedRow struct {
		StartDate  time.Time `json:"start_date"`
		EndDate    time.Time `json:"end_date"`
		Department string    `json:"department"`
	}

	rows, err := c.deps.DB.Query(context.Background(),
		`SELECT r.start_date, r.end_date, e.department
         FROM leave_requests r
         JOIN employees e ON e.id = r.employee_id
         WHERE r.status = $1 AND r.start_date >= $2 AND r.start_date <= $3`,
		entity.StatusApproved, from, to)
	if err != nil {
		c.deps.Logger.Error("Error querying approved requests", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}
	defer rows.Close()

	approved, err := pgx.CollectRows(rows, pgx.RowToStructByName[approvedRow])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	type deptCountRow struct {
		Department    string `json:"department"`
		EmployeeCount int    `json:"employee_count"`
	}

	deptRows, err := c.deps.DB.Query(context.Background(),
		"SELECT department, COUNT(*) AS employee_count FROM employees GROUP BY department")
	if err != nil {
		c.deps.Logger.Error("Error querying departments", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}
	defer deptRows.Close()

	departments, err := pgx.CollectRows(deptRows, pgx.RowToStructByName[deptCountRow])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, apperr.Unexpected(err, "Failed to fetch leave statistics")
	}

	totalApprovedDays := 0
	for _, r := range approved {
		totalApprovedDays += leave.InclusiveDays(r.StartDate, r.EndDate)
	}

	deptStats := make([]entity.DepartmentLeaveStats, 0, len(departments))
	for _, dept := range departments {
		deptRequests := 0
		deptDays := 0
		for _, r := range approved {
			if r.Department == dept.Department {
				deptRequests++
				deptDays += leave.InclusiveDays(r.StartDate, r.EndDate)
			}
		}

		average := 0
		if dept.EmployeeCount > 0 {
			average = int(float64(deptDays)/float64(dept.EmployeeCount) + 0.5)
		}

		deptStats = append(deptStats, entity.DepartmentLeaveStats{
			Department:                  dept.Department,
			EmployeeCount:               dept.EmployeeCount,
			ApprovedLeaveRequests:       deptRequests,
			TotalLeaveDays:              deptDays,
			AverageLeaveDaysPerEmployee: average,
		})
	}

	average := 0
	if totalEmployees > 0 {
		average = int(float64(totalApprovedDays)/float64(totalEmployees) + 0.5)
	}

	stats := &entity.CompanyLeaveStats{
		Year:                        year,
		TotalEmployees:              totalEmployees,
		PendingRequests:             pending,
		ApprovedRequests:            len(approved),
		RejectedRequests:            rejected,
		TotalApprovedLeaveDays:      totalApprovedDays,
		AverageLeaveDaysPerEmployee: average,
		DepartmentStats:             deptStats,
	}

	c.toCache(key, stats)

	return stats, nil
}
