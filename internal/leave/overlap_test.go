package leave

import (
	"testing"
	"time"

	"github.com/hrdesk/leave_service/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestOverlapping(t *testing.T) {
	existing := []entity.LeaveRequest{
		{
			ID:        7,
			StartDate: date(2025, time.June, 10),
			EndDate:   date(2025, time.June, 14),
			Status:    entity.StatusApproved,
		},
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{
			name:     "fully before",
			start:    date(2025, time.June, 1),
			end:      date(2025, time.June, 9),
			overlaps: false,
		},
		{
			name:     "fully after",
			start:    date(2025, time.June, 15),
			end:      date(2025, time.June, 20),
			overlaps: false,
		},
		{
			name:     "end touches existing start",
			start:    date(2025, time.June, 5),
			end:      date(2025, time.June, 10),
			overlaps: true,
		},
		{
			name:     "start touches existing end",
			start:    date(2025, time.June, 14),
			end:      date(2025, time.June, 18),
			overlaps: true,
		},
		{
			name:     "contained inside existing",
			start:    date(2025, time.June, 11),
			end:      date(2025, time.June, 12),
			overlaps: true,
		},
		{
			name:     "contains existing entirely",
			start:    date(2025, time.June, 8),
			end:      date(2025, time.June, 16),
			overlaps: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := Overlapping(tt.start, tt.end, existing)
			if tt.overlaps {
				assert.Len(t, conflicts, 1)
				assert.Equal(t, uint64(7), conflicts[0].ID)
				assert.Equal(t, entity.StatusApproved, conflicts[0].Status)
			} else {
				assert.Empty(t, conflicts)
			}
		})
	}
}

func TestOverlappingMultiple(t *testing.T) {
	existing := []entity.LeaveRequest{
		{ID: 1, StartDate: date(2025, time.June, 2), EndDate: date(2025, time.June, 4), Status: entity.StatusPending},
		{ID: 2, StartDate: date(2025, time.June, 8), EndDate: date(2025, time.June, 9), Status: entity.StatusApproved},
		{ID: 3, StartDate: date(2025, time.July, 1), EndDate: date(2025, time.July, 3), Status: entity.StatusApproved},
	}

	conflicts := Overlapping(date(2025, time.June, 3), date(2025, time.June, 8), existing)

	assert.Len(t, conflicts, 2)
	assert.Equal(t, uint64(1), conflicts[0].ID)
	assert.Equal(t, uint64(2), conflicts[1].ID)
}
