// AngelaMos | 2026
// dates.go

package booking

import (
	"math"
	"time"
)

const DateLayout = time.DateOnly

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// NormalizeDate drops the time of day, keeping the UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween is the ceiling of the day difference between the two
// normalized dates.
func NightsBetween(checkIn, checkOut time.Time) int {
	days := NormalizeDate(checkOut).Sub(NormalizeDate(checkIn)).Hours() / 24
	return int(math.Ceil(days))
}

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) share an instant.
// Ranges that only touch at an endpoint do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}
