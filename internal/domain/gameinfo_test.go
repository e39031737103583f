package domain

import (
	"testing"
	"time"
)

func TestEnergyAt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	interval := 5 * time.Minute

	tests := []struct {
		name    string
		stored  int
		elapsed time.Duration
		want    int
	}{
		{"no time passed", 40, 0, 40},
		{"below one interval", 40, 4 * time.Minute, 40},
		{"exactly one interval", 40, 5 * time.Minute, 41},
		{"thirty minutes", 40, 30 * time.Minute, 46},
		{"caps at max", 95, time.Hour, 100},
		{"already full", 100, time.Hour, 100},
		{"clock skew backwards", 40, -10 * time.Minute, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GameInfo{EnergyValue: tt.stored, EnergyLastUpdate: base}
			got := g.EnergyAt(base.Add(tt.elapsed), 100, interval)
			if got != tt.want {
				t.Fatalf("EnergyAt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnergyAtReadIsStable(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := &GameInfo{EnergyValue: 40, EnergyLastUpdate: base}
	at := base.Add(12 * time.Minute)

	first := g.EnergyAt(at, 100, 5*time.Minute)
	for i := 0; i < 5; i++ {
		if got := g.EnergyAt(at, 100, 5*time.Minute); got != first {
			t.Fatalf("repeated read changed value: %d then %d", first, got)
		}
	}
	// the stored row must not have moved
	if g.EnergyValue != 40 || !g.EnergyLastUpdate.Equal(base) {
		t.Fatalf("read mutated the row: energy=%d last_update=%v", g.EnergyValue, g.EnergyLastUpdate)
	}
}

func TestEnergyAtZeroInterval(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := &GameInfo{EnergyValue: 40, EnergyLastUpdate: base}
	if got := g.EnergyAt(base.Add(time.Hour), 100, 0); got != 40 {
		t.Fatalf("EnergyAt with zero interval = %d, want 40", got)
	}
}
