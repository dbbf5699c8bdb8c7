package leave

import (
	"regexp"
	"time"

	"github.com/hrdesk/leave_service/internal/apperr"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// ValidateJoiningDate applies at employee creation/update only: an employee
// cannot join in the future.
func ValidateJoiningDate(joiningDate, today time.Time) error {
	if joiningDate.After(Midnight(today)) {
		return apperr.Validationf("Joining date cannot be in the future")
	}
	return nil
}

// ValidateDateRange requires end strictly after start. This is deliberately
// stricter than the inclusive day count, which would accept a same-day range.
func ValidateDateRange(start, end time.Time) error {
	if !end.After(start) {
		return apperr.Validationf("End date must be after start date")
	}
	return nil
}

// ValidateApplication checks a proposed leave application, short-circuiting
// at the first failing rule. availableBalance is the raw figure (it may be
// negative after administrative balance edits) and the failure message
// reports it as-is alongside the requested days.
func ValidateApplication(start, end, joiningDate, today time.Time, requestedDays, availableBalance int) error {
	if start.Before(joiningDate) {
		return apperr.Validationf("Cannot apply for leave before joining date")
	}

	if start.Before(Midnight(today)) {
		return apperr.Validationf("Cannot apply for leave in the past")
	}

	if err := ValidateDateRange(start, end); err != nil {
		return err
	}

	if requestedDays > availableBalance {
		return apperr.Validationf("Insufficient leave balance. Available: %d days, Requested: %d days",
			availableBalance, requestedDays)
	}

	return nil
}
