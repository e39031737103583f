package domain

import "time"

// StreakDay - append-only record of one calendar day with activity. Days
// covered by a streak saver are flagged so they can be shown differently.
type StreakDay struct {
	UserID        int64     `db:"user_id" json:"-"`
	Day           time.Time `db:"day" json:"day"`
	IsStreakSaver bool      `db:"is_streak_saver" json:"is_streak_saver"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
}

// StreakState - derived per-user view returned by the streak endpoints.
type StreakState struct {
	StreakCount int         `json:"streak_count"`
	Days        []StreakDay `json:"streak_days"`
	SaversLeft  int         `json:"streak_savers_left_this_month"`
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StreakCount returns the length of the maximal run of consecutive recorded
// days (saver-covered days count) ending at today or yesterday. A gap of two
// or more uncovered days means the run no longer reaches today, so the
// streak is 0.
func StreakCount(days []StreakDay, today time.Time) int {
	present := make(map[time.Time]bool, len(days))
	for _, d := range days {
		present[DateOnly(d.Day)] = true
	}

	cursor := DateOnly(today)
	if !present[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
		if !present[cursor] {
			return 0
		}
	}

	count := 0
	for present[cursor] {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}
