package calendar

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The picker uses it to anchor the allowed year range and the default month.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
