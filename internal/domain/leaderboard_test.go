package domain

import (
	"sort"
	"testing"
)

func TestLessLeaderboard(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: 3, Level: 5, XPValue: 900},
		{UserID: 1, Level: 7, XPValue: 100},
		{UserID: 4, Level: 5, XPValue: 900},
		{UserID: 2, Level: 5, XPValue: 1200},
	}

	sort.Slice(entries, func(i, j int) bool {
		return LessLeaderboard(entries[i], entries[j])
	})

	wantOrder := []int64{1, 2, 3, 4}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Fatalf("position %d: got user %d, want %d", i, entries[i].UserID, want)
		}
	}
}

func TestLessLeaderboardDeterministicTies(t *testing.T) {
	a := LeaderboardEntry{UserID: 10, Level: 3, XPValue: 200}
	b := LeaderboardEntry{UserID: 20, Level: 3, XPValue: 200}

	if !LessLeaderboard(a, b) {
		t.Fatal("tie must break by lower user_id first")
	}
	if LessLeaderboard(b, a) {
		t.Fatal("ordering is not antisymmetric")
	}
}
