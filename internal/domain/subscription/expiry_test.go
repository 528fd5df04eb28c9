package subscription

import (
	"testing"
	"time"

	"github.com/shulepay/shulepay/internal/types"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	testCases := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month addition",
			start:    date(2025, time.March, 15),
			months:   3,
			expected: date(2025, time.June, 15),
		},
		{
			name:     "january 31 clamps to february 28",
			start:    date(2025, time.January, 31),
			months:   1,
			expected: date(2025, time.February, 28),
		},
		{
			name:     "january 31 clamps to february 29 in a leap year",
			start:    date(2024, time.January, 31),
			months:   1,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "may 31 clamps to june 30",
			start:    date(2025, time.May, 31),
			months:   1,
			expected: date(2025, time.June, 30),
		},
		{
			name:     "year rollover",
			start:    date(2025, time.November, 10),
			months:   3,
			expected: date(2026, time.February, 10),
		},
		{
			name:     "twelve months lands on the same day",
			start:    date(2025, time.February, 28),
			months:   12,
			expected: date(2026, time.February, 28),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AddMonthsClamped(tc.start, tc.months))
		})
	}
}

func TestProjectExpiry(t *testing.T) {
	now := date(2025, time.June, 1)

	t.Run("extension stacks on a future expiry", func(t *testing.T) {
		expiry := date(2025, time.August, 15)
		projected := ProjectExpiry(&expiry, now, 3, types.BillingActionExtend)
		assert.Equal(t, date(2025, time.November, 15), projected)
	})

	t.Run("extension of a lapsed subscription restarts from now", func(t *testing.T) {
		expiry := date(2025, time.March, 1)
		projected := ProjectExpiry(&expiry, now, 3, types.BillingActionExtend)
		assert.Equal(t, date(2025, time.September, 1), projected)
	})

	t.Run("extension without a prior expiry starts from now", func(t *testing.T) {
		projected := ProjectExpiry(nil, now, 6, types.BillingActionExtend)
		assert.Equal(t, date(2025, time.December, 1), projected)
	})

	t.Run("upgrade always restarts from now", func(t *testing.T) {
		expiry := date(2025, time.December, 25)
		projected := ProjectExpiry(&expiry, now, 6, types.BillingActionUpgrade)
		assert.Equal(t, date(2025, time.December, 1), projected)
	})
}
