package domain

import "testing"

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestConditionsAreTyped(t *testing.T) {
	a := &Achievement{
		TargetXPValue:     int64Ptr(500),
		TargetStreakValue: intPtr(7),
		TargetTestID:      int64Ptr(42),
	}
	facts := ProgressFacts{
		XP:             250,
		StreakCount:    7,
		CompletedTests: map[int64]bool{42: true},
	}

	conds := a.Conditions(facts)
	if len(conds) != 3 {
		t.Fatalf("expected 3 conditions, got %d", len(conds))
	}
	kinds := map[string]bool{}
	for _, c := range conds {
		kinds[c.Kind()] = true
	}
	for _, k := range []string{"xp", "streak", "test"} {
		if !kinds[k] {
			t.Fatalf("missing condition kind %q", k)
		}
	}
}

func TestAllSatisfiedIsStrictAnd(t *testing.T) {
	a := &Achievement{
		TargetXPValue:     int64Ptr(100),
		TargetStreakValue: intPtr(5),
	}

	// massively over-satisfied XP must not compensate for a short streak
	facts := ProgressFacts{XP: 100000, StreakCount: 4}
	conds := a.Conditions(facts)

	if AllSatisfied(conds) {
		t.Fatal("over-satisfied xp compensated for an unmet streak")
	}
	if pct := DisplayProgressPct(conds); pct != 90 {
		t.Fatalf("DisplayProgressPct = %d, want 90", pct)
	}

	facts.StreakCount = 5
	if !AllSatisfied(a.Conditions(facts)) {
		t.Fatal("all targets met but AllSatisfied is false")
	}
}

func TestDisplayProgressPct(t *testing.T) {
	tests := []struct {
		name  string
		conds []Condition
		want  int
	}{
		{"no conditions", nil, 100},
		{"single halfway", []Condition{XPCondition{XP: 50, Target: 100}}, 50},
		{"current clamped to total", []Condition{XPCondition{XP: 500, Target: 100}}, 100},
		{"mean of two", []Condition{
			XPCondition{XP: 100, Target: 100},
			StreakCondition{Streak: 0, Target: 10},
		}, 50},
		{"test condition binary", []Condition{
			TestCompletionCondition{TestID: 1, Completed: false},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayProgressPct(tt.conds); got != tt.want {
				t.Fatalf("DisplayProgressPct = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConditionCurrentClamped(t *testing.T) {
	c := XPCondition{XP: -5, Target: 100}
	if c.Current() != 0 {
		t.Fatalf("negative current not clamped: %d", c.Current())
	}
	c = XPCondition{XP: 1000, Target: 100}
	if c.Current() != 100 {
		t.Fatalf("overshoot not clamped: %d", c.Current())
	}
}
