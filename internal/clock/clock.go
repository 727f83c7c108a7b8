// Package clock abstracts time.Now so day-boundary logic is testable.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Real is the production clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test fixture.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
