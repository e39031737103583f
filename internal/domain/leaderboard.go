package domain

// LeaderboardEntry - derived snapshot used for ranking, recomputed from
// game_info, never stored on its own. Ordering is (level desc, xp desc,
// user_id asc) so ties break deterministically.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Level     int    `json:"level"`
	XPValue   int64  `json:"xp_value"`
}

// LessLeaderboard reports whether a should rank before b.
func LessLeaderboard(a, b LeaderboardEntry) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	if a.XPValue != b.XPValue {
		return a.XPValue > b.XPValue
	}
	return a.UserID < b.UserID
}
