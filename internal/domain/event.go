package domain

import "time"

// Progression event kinds recorded in the ledger
const (
	EventXPAward       = "xp_award"
	EventXPAdminAdjust = "xp_admin_adjust"
	EventEnergyConsume = "energy_consume"
	EventEnergyCredit  = "energy_credit"
	EventClaim         = "claim"
	EventTestCompleted = "test_completed"
	EventStreakSaver   = "streak_saver"
)

// ProgressionEvent - audit ledger row for every XP/energy mutation and claim
type ProgressionEvent struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Kind      string                 `db:"kind" json:"kind"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
