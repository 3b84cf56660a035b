package services

import "time"

// Storage fee schedule, tiered by whole elapsed days since arrival:
// days 0-2 are free, days 3-7 cost 2/day past day 2, days 8-30 cost a flat
// 10 plus 3/day past day 7, and beyond 30 days a flat 79 plus 5/day past
// day 30. Evaluated at read time; elapsed time moves, so never cache it.
const (
	feeGraceDays      = 2
	feeShortTermDays  = 7
	feeMediumTermDays = 30

	feeShortPerDay  = 2.0
	feeMediumBase   = 10.0
	feeMediumPerDay = 3.0
	feeLongBase     = 79.0
	feeLongPerDay   = 5.0
)

// StorageFee returns the fee owed for a package stored elapsedDays whole
// days. Negative input is treated as zero days.
func StorageFee(elapsedDays int) float64 {
	switch {
	case elapsedDays <= feeGraceDays:
		return 0
	case elapsedDays <= feeShortTermDays:
		return float64(elapsedDays-feeGraceDays) * feeShortPerDay
	case elapsedDays <= feeMediumTermDays:
		return feeMediumBase + float64(elapsedDays-feeShortTermDays)*feeMediumPerDay
	default:
		return feeLongBase + float64(elapsedDays-feeMediumTermDays)*feeLongPerDay
	}
}

// StorageFeeSince evaluates the schedule against a wall-clock arrival time.
func StorageFeeSince(arrivedAt, now time.Time) float64 {
	days := int(now.Sub(arrivedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return StorageFee(days)
}
