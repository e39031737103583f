package domain

// LevelCurve maps cumulative XP to a level. The cost of advancing from level
// L to L+1 is L*Step + Base, so the curve is monotonic non-decreasing for any
// non-negative Base/Step. The constants come from config, never hardcoded.
type LevelCurve struct {
	Base int64
	Step int64
}

// NextLevelCost returns the XP needed to advance from the given level.
func (lc LevelCurve) NextLevelCost(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(level)*lc.Step + lc.Base
}

// Level returns the level reached with the given cumulative XP. Level 1
// starts at 0 XP.
func (lc LevelCurve) Level(xp int64) int {
	level := 1
	remaining := xp
	for {
		cost := lc.NextLevelCost(level)
		if cost <= 0 || remaining < cost {
			return level
		}
		remaining -= cost
		level++
	}
}

// Progress returns XP accumulated inside the current level and the cost of
// the next level.
func (lc LevelCurve) Progress(xp int64) (into int64, cost int64) {
	level := 1
	remaining := xp
	for {
		c := lc.NextLevelCost(level)
		if c <= 0 || remaining < c {
			return remaining, c
		}
		remaining -= c
		level++
	}
}

// ProgressPct returns progress toward the next level as 0-100.
func (lc LevelCurve) ProgressPct(xp int64) int {
	into, cost := lc.Progress(xp)
	if cost <= 0 {
		return 100
	}
	pct := int(into * 100 / cost)
	if pct > 100 {
		pct = 100
	}
	return pct
}
