package leave

import (
	"testing"
	"time"

	"github.com/hrdesk/leave_service/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"john@example.com", true},
		{"a@b.co", true},
		{"john.doe+tag@sub.example.org", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"spaces in@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidEmail(tt.email))
		})
	}
}

func TestValidateJoiningDate(t *testing.T) {
	today := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	t.Run("past date accepted", func(t *testing.T) {
		assert.NoError(t, ValidateJoiningDate(date(2024, time.January, 15), today))
	})

	t.Run("same day accepted", func(t *testing.T) {
		assert.NoError(t, ValidateJoiningDate(date(2025, time.June, 1), today))
	})

	t.Run("future date rejected", func(t *testing.T) {
		err := ValidateJoiningDate(date(2025, time.June, 2), today)
		assert.Error(t, err)
		assert.Equal(t, "Joining date cannot be in the future", err.Error())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestValidateDateRange(t *testing.T) {
	t.Run("end after start accepted", func(t *testing.T) {
		assert.NoError(t, ValidateDateRange(date(2025, time.June, 10), date(2025, time.June, 11)))
	})

	t.Run("same day rejected", func(t *testing.T) {
		err := ValidateDateRange(date(2025, time.June, 10), date(2025, time.June, 10))
		assert.Error(t, err)
		assert.Equal(t, "End date must be after start date", err.Error())
	})

	t.Run("end before start rejected", func(t *testing.T) {
		err := ValidateDateRange(date(2025, time.June, 10), date(2025, time.June, 9))
		assert.Error(t, err)
		assert.Equal(t, "End date must be after start date", err.Error())
	})
}

func TestValidateApplication(t *testing.T) {
	today := date(2025, time.June, 1)
	joined := date(2024, time.January, 15)

	tests := []struct {
		name             string
		start            time.Time
		end              time.Time
		joiningDate      time.Time
		requestedDays    int
		availableBalance int
		expectedErr      string
	}{
		{
			name:             "valid application",
			start:            date(2025, time.June, 10),
			end:              date(2025, time.June, 14),
			joiningDate:      joined,
			requestedDays:    5,
			availableBalance: 20,
		},
		{
			name:             "start before joining date",
			start:            date(2023, time.December, 1),
			end:              date(2023, time.December, 5),
			joiningDate:      joined,
			requestedDays:    5,
			availableBalance: 20,
			expectedErr:      "Cannot apply for leave before joining date",
		},
		{
			name:             "start in the past",
			start:            date(2025, time.May, 20),
			end:              date(2025, time.May, 25),
			joiningDate:      joined,
			requestedDays:    6,
			availableBalance: 20,
			expectedErr:      "Cannot apply for leave in the past",
		},
		{
			name:             "start today is allowed",
			start:            date(2025, time.June, 1),
			end:              date(2025, time.June, 3),
			joiningDate:      joined,
			requestedDays:    3,
			availableBalance: 20,
		},
		{
			name:             "end not after start",
			start:            date(2025, time.June, 10),
			end:              date(2025, time.June, 10),
			joiningDate:      joined,
			requestedDays:    1,
			availableBalance: 20,
			expectedErr:      "End date must be after start date",
		},
		{
			name:             "insufficient balance reports both figures",
			start:            date(2025, time.June, 10),
			end:              date(2025, time.June, 19),
			joiningDate:      joined,
			requestedDays:    10,
			availableBalance: 3,
			expectedErr:      "Insufficient leave balance. Available: 3 days, Requested: 10 days",
		},
		{
			name:             "negative balance reported raw",
			start:            date(2025, time.June, 10),
			end:              date(2025, time.June, 11),
			joiningDate:      joined,
			requestedDays:    2,
			availableBalance: -5,
			expectedErr:      "Insufficient leave balance. Available: -5 days, Requested: 2 days",
		},
		{
			name:             "joining date rule wins over past rule",
			start:            date(2023, time.December, 1),
			end:              date(2023, time.November, 1),
			joiningDate:      joined,
			requestedDays:    1,
			availableBalance: 0,
			expectedErr:      "Cannot apply for leave before joining date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateApplication(tt.start, tt.end, tt.joiningDate, today, tt.requestedDays, tt.availableBalance)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.expectedErr, err.Error())
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}
