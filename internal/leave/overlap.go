package leave

import (
	"time"

	"github.com/hrdesk/leave_service/internal/entity"
)

// Overlapping returns the requests whose inclusive date ranges share at least
// one calendar day with [start, end]. Touching endpoints count as overlap:
// two ranges conflict iff start <= existing.end && end >= existing.start.
// Callers choose the comparison set (PENDING∪APPROVED at submission,
// APPROVED-minus-self at approval).
func Overlapping(start, end time.Time, existing []entity.LeaveRequest) []entity.OverlapInfo {
	var conflicts []entity.OverlapInfo
	for _, r := range existing {
		if !start.After(r.EndDate) && !end.Before(r.StartDate) {
			conflicts = append(conflicts, entity.OverlapInfo{
				ID:        r.ID,
				StartDate: r.StartDate,
				EndDate:   r.EndDate,
				Status:    r.Status,
			})
		}
	}
	return conflicts
}
