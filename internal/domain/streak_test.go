package domain

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func mkDays(savers map[string]bool, dates ...string) []StreakDay {
	var res []StreakDay
	for _, s := range dates {
		res = append(res, StreakDay{Day: day(s), IsStreakSaver: savers[s]})
	}
	return res
}

func TestStreakCount(t *testing.T) {
	today := day("2025-06-10")

	tests := []struct {
		name string
		days []StreakDay
		want int
	}{
		{"no activity", nil, 0},
		{"single day today", mkDays(nil, "2025-06-10"), 1},
		{"single day yesterday", mkDays(nil, "2025-06-09"), 1},
		{"run ending today", mkDays(nil, "2025-06-08", "2025-06-09", "2025-06-10"), 3},
		{"run ending yesterday", mkDays(nil, "2025-06-07", "2025-06-08", "2025-06-09"), 3},
		{"gap breaks the run", mkDays(nil, "2025-06-06", "2025-06-07", "2025-06-09", "2025-06-10"), 2},
		{"stale run two days back", mkDays(nil, "2025-06-06", "2025-06-07", "2025-06-08"), 0},
		{"saver-covered gap preserves run",
			mkDays(map[string]bool{"2025-06-08": true}, "2025-06-07", "2025-06-08", "2025-06-09", "2025-06-10"), 4},
		{"unordered input", mkDays(nil, "2025-06-10", "2025-06-08", "2025-06-09"), 3},
		{"duplicate days count once", mkDays(nil, "2025-06-09", "2025-06-09", "2025-06-10"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakCount(tt.days, today); got != tt.want {
				t.Fatalf("StreakCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2025-06-10 02:30 +05 is 2025-06-09 21:30 UTC
	ts := time.Date(2025, 6, 10, 2, 30, 0, 0, loc)
	got := DateOnly(ts)
	want := day("2025-06-09")
	if !got.Equal(want) {
		t.Fatalf("DateOnly = %v, want %v", got, want)
	}
}
