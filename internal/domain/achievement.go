package domain

import "time"

// RewardType - what an achievement pays out when claimed
type RewardType string

const (
	RewardXP     RewardType = "xp"
	RewardEnergy RewardType = "energy"
	RewardBadge  RewardType = "badge"
)

// Achievement - admin-authored definition. Targets are optional; an
// achievement with several present targets requires ALL of them (AND).
// The engine only reads these, it never writes them.
type Achievement struct {
	ID                int64      `db:"id" json:"id"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description"`
	Icon              string     `db:"icon" json:"icon"`
	TargetXPValue     *int64     `db:"target_xp_value" json:"target_xp_value,omitempty"`
	TargetStreakValue *int       `db:"target_streak_value" json:"target_streak_value,omitempty"`
	TargetTestID      *int64     `db:"target_test_id" json:"target_test_id,omitempty"`
	RewardType        RewardType `db:"reward_type" json:"reward_type"`
	RewardAmount      int64      `db:"reward_amount" json:"reward_amount"`
	RewardContent     string     `db:"reward_content" json:"reward_content,omitempty"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	SortOrder         int        `db:"sort_order" json:"sort_order"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// AchievementClaim - exactly-once record that a user collected a reward.
// Its existence is the sole source of truth for "already claimed".
type AchievementClaim struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	AchievementID int64     `db:"achievement_id" json:"achievement_id"`
	ClaimedAt     time.Time `db:"claimed_at" json:"claimed_at"`
	BadgeContent  string    `db:"badge_content" json:"badge_content,omitempty"`
}

// ProgressFacts is the snapshot conditions are evaluated against. The
// completed-test set is supplied by the caller, not fetched inside the
// evaluator.
type ProgressFacts struct {
	XP             int64
	StreakCount    int
	CompletedTests map[int64]bool
}

// Condition is one typed target on an achievement. Current is clamped to
// [0, Total].
type Condition interface {
	Kind() string
	Current() int64
	Total() int64
	Satisfied() bool
}

type XPCondition struct {
	XP     int64
	Target int64
}

func (c XPCondition) Kind() string { return "xp" }
func (c XPCondition) Current() int64 {
	return clampInt64(c.XP, c.Target)
}
func (c XPCondition) Total() int64    { return c.Target }
func (c XPCondition) Satisfied() bool { return c.XP >= c.Target }

type StreakCondition struct {
	Streak int
	Target int
}

func (c StreakCondition) Kind() string { return "streak" }
func (c StreakCondition) Current() int64 {
	return clampInt64(int64(c.Streak), int64(c.Target))
}
func (c StreakCondition) Total() int64    { return int64(c.Target) }
func (c StreakCondition) Satisfied() bool { return c.Streak >= c.Target }

type TestCompletionCondition struct {
	TestID    int64
	Completed bool
}

func (c TestCompletionCondition) Kind() string { return "test" }
func (c TestCompletionCondition) Current() int64 {
	if c.Completed {
		return 1
	}
	return 0
}
func (c TestCompletionCondition) Total() int64    { return 1 }
func (c TestCompletionCondition) Satisfied() bool { return c.Completed }

// Conditions builds the list of present targets for this achievement
// against a progress snapshot.
func (a *Achievement) Conditions(f ProgressFacts) []Condition {
	var conds []Condition
	if a.TargetXPValue != nil {
		conds = append(conds, XPCondition{XP: f.XP, Target: *a.TargetXPValue})
	}
	if a.TargetStreakValue != nil {
		conds = append(conds, StreakCondition{Streak: f.StreakCount, Target: *a.TargetStreakValue})
	}
	if a.TargetTestID != nil {
		conds = append(conds, TestCompletionCondition{
			TestID:    *a.TargetTestID,
			Completed: f.CompletedTests[*a.TargetTestID],
		})
	}
	return conds
}

// AllSatisfied is strict AND over the conditions. An over-satisfied
// condition never compensates for an unsatisfied one.
func AllSatisfied(conds []Condition) bool {
	for _, c := range conds {
		if !c.Satisfied() {
			return false
		}
	}
	return true
}

// DisplayProgressPct is the mean of per-condition ratios, for progress bars
// only. Claimability never looks at this number.
func DisplayProgressPct(conds []Condition) int {
	if len(conds) == 0 {
		return 100
	}
	var sum float64
	for _, c := range conds {
		total := c.Total()
		if total <= 0 {
			sum += 1
			continue
		}
		sum += float64(c.Current()) / float64(total)
	}
	pct := int(sum / float64(len(conds)) * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// ConditionProgress - serializable per-condition progress for API responses.
type ConditionProgress struct {
	Kind      string `json:"kind"`
	Current   int64  `json:"current"`
	Total     int64  `json:"total"`
	Satisfied bool   `json:"satisfied"`
}

// AchievementStatus - one achievement with the user's evaluated state.
type AchievementStatus struct {
	Achievement *Achievement        `json:"achievement"`
	Claimable   bool                `json:"claimable"`
	Claimed     bool                `json:"claimed"`
	ClaimedAt   *time.Time          `json:"claimed_at,omitempty"`
	Conditions  []ConditionProgress `json:"conditions"`
	ProgressPct int                 `json:"progress"`
}

func clampInt64(v, max int64) int64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
