// Package calendar holds the UTC day arithmetic shared by the streak engine,
// the reminder payloads and the dashboard.
package calendar

import (
	"sort"
	"time"
)

// ChallengeWindow is the fixed length of every challenge, in days.
const ChallengeWindow = 18

// DayLayout is the storage format of a completion day.
const DayLayout = "2006-01-02"

const day = 24 * time.Hour

// Midnight truncates t to 00:00 UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats t as the UTC calendar day it falls on.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func ParseDay(key string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, time.UTC)
}

// DayOffset is the number of whole days from start's midnight to d's midnight.
// It is negative when d precedes start.
func DayOffset(start, d time.Time) int {
	diff := Midnight(d).Sub(Midnight(start))
	// both operands are exact midnights, so the division is exact
	return int(diff / day)
}

// DayIndices maps completion day keys onto sorted, unique offsets from start.
// Offsets outside [0, window) are dropped, never clamped. Unparseable keys are skipped.
func DayIndices(start time.Time, days []string, window int) []int {
	seen := make(map[int]struct{}, len(days))
	indices := make([]int, 0, len(days))
	for _, key := range days {
		d, err := ParseDay(key)
		if err != nil {
			continue
		}
		offset := DayOffset(start, d)
		if offset < 0 || offset >= window {
			continue
		}
		if _, dup := seen[offset]; dup {
			continue
		}
		seen[offset] = struct{}{}
		indices = append(indices, offset)
	}
	sort.Ints(indices)
	return indices
}

type DayFlag struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// TrailingDays returns n flags ending with today, oldest first.
func TrailingDays(today time.Time, n int, completed map[string]bool) []DayFlag {
	if n <= 0 {
		return []DayFlag{}
	}
	base := Midnight(today)
	flags := make([]DayFlag, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := DayKey(base.AddDate(0, 0, -i))
		flags = append(flags, DayFlag{Date: key, Completed: completed[key]})
	}
	return flags
}
