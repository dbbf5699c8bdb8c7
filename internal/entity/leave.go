package entity

import "time"

// LeaveStatus is the request lifecycle state. A request starts PENDING and is
// moved exactly once to APPROVED or REJECTED; both are terminal.
type LeaveStatus string

const (
	StatusPending  LeaveStatus = "PENDING"
	StatusApproved LeaveStatus = "APPROVED"
	StatusRejected LeaveStatus = "REJECTED"
)

// IsReviewTarget reports whether s is a status a reviewer may set.
func (s LeaveStatus) IsReviewTarget() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s LeaveStatus) Valid() bool {
	return s == StatusPending || s.IsReviewTarget()
}

type LeaveRequest struct {
	ID         uint64      `json:"id"`
	EmployeeID uint64      `json:"employee_id"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	AppliedAt  time.Time   `json:"applied_at"`
	ReviewedBy *string     `json:"reviewed_by"`
	ReviewedAt *time.Time  `json:"reviewed_at"`
	Comments   *string     `json:"comments"`
}

// OverlapInfo identifies a request that conflicts with a candidate date range.
type OverlapInfo struct {
	ID        uint64      `json:"id"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Status    LeaveStatus `json:"status"`
}

type SubmitLeaveRequest struct {
	EmployeeID uint64 `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// SubmitLeaveResult reports the created request, its inclusive day count and
// the balance that would remain if the request is approved.
type SubmitLeaveResult struct {
	LeaveRequest     LeaveRequest `json:"leave_request"`
	RequestedDays    int          `json:"requested_days"`
	AvailableBalance int          `json:"available_balance"`
}

type ReviewLeaveRequest struct {
	Status     LeaveStatus `json:"status"`
	ReviewedBy string      `json:"reviewed_by"`
	Comments   *string     `json:"comments"`
}

// LeaveRequestDetail is a single request plus its inclusive day count.
type LeaveRequestDetail struct {
	LeaveRequest
	LeaveDays int `json:"leave_days"`
}

type ListLeaveParams struct {
	EmployeeID *uint64
	Status     *LeaveStatus
	Page       int
	Limit      int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type LeaveRequestPage struct {
	LeaveRequests []LeaveRequest `json:"leave_requests"`
	Pagination    Pagination     `json:"pagination"`
}

// EmployeeLeaveStats aggregates one employee's requests for a calendar year.
// RemainingBalance is floored at zero for display.
type EmployeeLeaveStats struct {
	EmployeeID        uint64 `json:"employee_id"`
	EmployeeName      string `json:"employee_name"`
	Year              int    `json:"year"`
	TotalLeaveBalance int    `json:"total_leave_balance"`
	UsedLeaveDays     int    `json:"used_leave_days"`
	RemainingBalance  int    `json:"remaining_balance"`
	PendingRequests   int    `json:"pending_requests"`
	ApprovedRequests  int    `json:"approved_requests"`
	RejectedRequests  int    `json:"rejected_requests"`
}

type DepartmentLeaveStats struct {
	Department                  string `json:"department"`
	EmployeeCount               int    `json:"employee_count"`
	ApprovedLeaveRequests       int    `json:"approved_leave_requests"`
	TotalLeaveDays              int    `json:"total_leave_days"`
	AverageLeaveDaysPerEmployee int    `json:"average_leave_days_per_employee"`
}

type CompanyLeaveStats struct {
	Year                        int                    `json:"year"`
	TotalEmployees              int                    `json:"total_employees"`
	PendingRequests             int                    `json:"pending_requests"`
	ApprovedRequests            int                    `json:"approved_requests"`
	RejectedRequests            int                    `json:"rejected_requests"`
	TotalApprovedLeaveDays      int                    `json:"total_approved_leave_days"`
	AverageLeaveDaysPerEmployee int                    `json:"average_leave_days_per_employee"`
	DepartmentStats             []DepartmentLeaveStats `json:"department_stats"`
}
