package domain

import "time"

// GameInfo - per-user progression row: cumulative XP, derived level and the
// regenerating energy pool. One row per user, created on registration.
type GameInfo struct {
	UserID           int64     `db:"user_id" json:"user_id"`
	XPValue          int64     `db:"xp_value" json:"xp_value"`
	Level            int       `db:"level" json:"level"`
	EnergyValue      int       `db:"energy_value" json:"energy_value"`
	EnergyLastUpdate time.Time `db:"energy_last_update" json:"energy_last_update"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

// EnergyAt returns the energy value regenerated up to the given instant.
// Pure recompute-on-read: the stored row is never advanced by a read, so
// repeated reads at the same instant always return the same value.
func (g *GameInfo) EnergyAt(at time.Time, maxEnergy int, regenInterval time.Duration) int {
	value := g.EnergyValue
	if regenInterval > 0 {
		elapsed := at.Sub(g.EnergyLastUpdate)
		if elapsed > 0 {
			value += int(elapsed / regenInterval)
		}
	}
	if value > maxEnergy {
		value = maxEnergy
	}
	if value < 0 {
		value = 0
	}
	return value
}
