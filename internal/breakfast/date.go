package breakfast

import (
	"fmt"
	"time"
)

// Date is a civil calendar date. Day arithmetic is calendar-based, not
// UTC-offset based, so crossing DST boundaries or leap days behaves the way a
// wall calendar does.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return Date{}, fmt.Errorf("breakfast: invalid date %q: %w", raw, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf truncates an instant to its civil date in the instant's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date delta calendar days away. time.Date normalizes
// out-of-range days, which is exactly calendar arithmetic.
func (d Date) AddDays(delta int) Date {
	t := time.Date(d.Year, d.Month, d.Day+delta, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d == Date{}
}
