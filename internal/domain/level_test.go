package domain

import "testing"

func TestLevelCurve(t *testing.T) {
	curve := LevelCurve{Base: 50, Step: 50}

	tests := []struct {
		name      string
		xp        int64
		wantLevel int
		wantPct   int
	}{
		{"zero xp", 0, 1, 0},
		{"partway into level 1", 30, 1, 30},
		{"just below level 2", 99, 1, 99},
		{"exactly level 2", 100, 2, 0},
		{"partway into level 2", 175, 2, 50},
		{"level 3 threshold", 250, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := curve.Level(tt.xp); got != tt.wantLevel {
				t.Fatalf("Level(%d) = %d, want %d", tt.xp, got, tt.wantLevel)
			}
			if got := curve.ProgressPct(tt.xp); got != tt.wantPct {
				t.Fatalf("ProgressPct(%d) = %d, want %d", tt.xp, got, tt.wantPct)
			}
		})
	}
}

func TestLevelCurveNextLevelCost(t *testing.T) {
	curve := LevelCurve{Base: 50, Step: 50}

	if got := curve.NextLevelCost(1); got != 100 {
		t.Fatalf("NextLevelCost(1) = %d, want 100", got)
	}
	if got := curve.NextLevelCost(2); got != 150 {
		t.Fatalf("NextLevelCost(2) = %d, want 150", got)
	}
	// below level 1 is clamped
	if got := curve.NextLevelCost(0); got != 100 {
		t.Fatalf("NextLevelCost(0) = %d, want 100", got)
	}
}

func TestLevelCurveMonotonic(t *testing.T) {
	curve := LevelCurve{Base: 50, Step: 50}

	prev := 0
	for xp := int64(0); xp <= 2000; xp += 25 {
		level := curve.Level(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestLevelCurveZeroStep(t *testing.T) {
	// degenerate curve must not loop forever
	curve := LevelCurve{Base: 0, Step: 0}
	if got := curve.Level(1000); got != 1 {
		t.Fatalf("Level(1000) = %d, want 1", got)
	}
	if got := curve.ProgressPct(1000); got != 100 {
		t.Fatalf("ProgressPct(1000) = %d, want 100", got)
	}
}
