package aging

import "time"

// The pipeline treats every time.Time as a calendar date. Callers pass
// midnight-valued times; helpers normalize anyway so a stray clock component
// cannot shift a day count.

func asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// isMonthEnd reports whether t is the last calendar day of its month.
func isMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}

// daysBetween returns the whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(asDate(to).Sub(asDate(from)) / (24 * time.Hour))
}

// OpeningDate returns the last day of the month preceding the one that
// contains asOf. Prior-period metrics are the regular pipeline evaluated at
// this date.
func OpeningDate(asOf time.Time) time.Time {
	return startOfMonth(asOf).AddDate(0, 0, -1)
}
