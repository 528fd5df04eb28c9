package subscription

import (
	"time"

	"github.com/shulepay/shulepay/internal/types"
)

// ProjectExpiry computes the new subscription expiry.
//
// Extensions run from the current expiry while it is still in the future;
// a lapsed subscription restarts from now. Upgrades always run from now
// and forfeit any unused remainder of the current plan.
func ProjectExpiry(currentExpiry *time.Time, now time.Time, durationMonths int, action types.BillingAction) time.Time {
	base := now
	if action == types.BillingActionExtend && currentExpiry != nil && currentExpiry.After(now) {
		base = *currentExpiry
	}
	return AddMonthsClamped(base, durationMonths)
}

// AddMonthsClamped adds calendar months, clamping the day-of-month into
// the target month (Jan 31 + 1 month = Feb 28/29). time.AddDate would
// normalize the overflow into March instead, which is wrong for billing
// cycles.
func AddMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
