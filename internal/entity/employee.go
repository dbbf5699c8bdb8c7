package entity

import "time"

// DefaultLeaveBalance is the annual entitlement assigned when a new employee
// is created without an explicit balance.
const DefaultLeaveBalance = 20

type Employee struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	JoiningDate  time.Time `json:"joining_date"`
	LeaveBalance int       `json:"leave_balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateEmployeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	JoiningDate  string `json:"joining_date"`
	LeaveBalance *int   `json:"leave_balance"`
}

type UpdateEmployeeRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Department   *string `json:"department"`
	JoiningDate  *string `json:"joining_date"`
	LeaveBalance *int    `json:"leave_balance"`
}

// EmployeeDetail is an employee together with their leave requests,
// newest application first.
type EmployeeDetail struct {
	Employee
	LeaveRequests []LeaveRequest `json:"leave_requests"`
}

type UpdateBalanceRequest struct {
	LeaveBalance *int   `json:"leave_balance"`
	Reason       string `json:"reason"`
}

type BalanceUpdateResult struct {
	EmployeeID      uint64 `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	PreviousBalance int    `json:"previous_balance"`
	NewBalance      int    `json:"new_balance"`
	Reason          string `json:"reason"`
}

// BalanceSummary is the display view of an employee's balance. The available
// figure here is floored at zero; approval gates recompute the raw value.
type BalanceSummary struct {
	EmployeeID            uint64 `json:"employee_id"`
	EmployeeName          string `json:"employee_name"`
	EmployeeEmail         string `json:"employee_email"`
	TotalLeaveBalance     int    `json:"total_leave_balance"`
	UsedLeaveDays         int    `json:"used_leave_days"`
	AvailableBalance      int    `json:"available_balance"`
	ApprovedLeaveRequests int    `json:"approved_leave_requests"`
}
