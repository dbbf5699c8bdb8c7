package leave

import "github.com/hrdesk/leave_service/internal/entity"

// UsedDays sums the inclusive day spans of the APPROVED requests in the
// given set. Pending and rejected requests never consume balance.
func UsedDays(requests []entity.LeaveRequest) int {
	total := 0
	for _, r := range requests {
		if r.Status == entity.StatusApproved {
			total += InclusiveDays(r.StartDate, r.EndDate)
		}
	}
	return total
}

// AvailableBalance is the raw approval gate: entitlement minus used days,
// recomputed fresh from the request set on every call. It can go negative
// after direct administrative balance edits.
func AvailableBalance(leaveBalance int, requests []entity.LeaveRequest) int {
	return leaveBalance - UsedDays(requests)
}

// DisplayBalance floors the available figure at zero. Display only; never
// used to gate an approval.
func DisplayBalance(leaveBalance, usedDays int) int {
	if leaveBalance < usedDays {
		return 0
	}
	return leaveBalance - usedDays
}
