package ws

// Event types pushed to connected clients. The feed is advisory only; the
// HTTP APIs stay the source of truth.
const (
	EventLevelUp     = "level_up"
	EventClaim       = "claim"
	EventLeaderboard = "leaderboard"
)

type Event struct {
	Type    string      `json:"type"`
	UserID  int64       `json:"user_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}
