// Package biztime centralises "now" for the billing code. All storage and
// transport use UTC; event times received from the processor are normalised to
// UTC before they are compared.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToUTC normalises t to UTC with microsecond precision, the precision kept by
// DATETIME(6) columns, so values compare equal after a database round trip.
func ToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}

// AddMonths advances t by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}
