// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"time"
)

// Calendar date of an acquisition (UTC midnight)
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Drop the time of day. Acquisitions are matched on date, not time.
func TruncDate(t time.Time) time.Time {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Whole days from a to b (b - a)
func DaysBetween(a, b time.Time) int {
	d := TruncDate(b).Sub(TruncDate(a))
	return int(d.Hours() / 24)
}

// Parse a compact date token like "20180420"
func ParseCompactDate(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Check that dates are strictly increasing
func isStrictlySorted(dates []time.Time) bool {
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return false
		}
	}
	return true
}
