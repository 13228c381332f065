// Package greeting picks the time-of-day salutation shown above the shortcuts.
package greeting

import "time"

const (
	Morning   = "Good morning "
	Afternoon = "Good afternoon "
	Evening   = "Good evening "
)

// For returns the salutation for an hour of the day.
// [5,12) is morning, [12,18) afternoon, everything else (including hours
// outside 0..23) evening. The trailing space is part of the result.
func For(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Compose joins the salutation for hour with username and an exclamation mark
func Compose(hour int, username string) string {
	return For(hour) + username + "!"
}

// At composes the greeting for the local hour of t
func At(t time.Time, username string) string {
	return Compose(t.Hour(), username)
}
