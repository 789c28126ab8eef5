package simulation

import (
	"math"
	"testing"

	"mlb-sim-engine/internal/config"
)

func TestPitcherFactorFromStats(t *testing.T) {
	cfg := config.DefaultModel()

	tests := []struct {
		name  string
		stats PitcherStats
		want  float64
	}{
		{
			// 0.60 ERA tier, 0.80 WHIP tier, full reliability:
			// base = 0.60*0.78 + 0.80*0.38 = 0.772.
			name:  "ace with full workload",
			stats: PitcherStats{Name: "Ace", ERA: 1.90, WHIP: 0.95, InningsPitched: 120, GamesStarted: 20},
			want:  0.772,
		},
		{
			// base = 0.95*0.78 + 0.97*0.38 = 1.1096, damped by 0.8.
			name:  "mid-rotation partial season",
			stats: PitcherStats{Name: "Mid", ERA: 4.00, WHIP: 1.28, InningsPitched: 90, GamesStarted: 16},
			want:  1.08768,
		},
		{
			// Worst tiers, base 1.548, but only half weight on 40 innings.
			name:  "struggling small sample",
			stats: PitcherStats{Name: "Struggling", ERA: 6.80, WHIP: 1.60, InningsPitched: 40, GamesStarted: 8},
			want:  1.274,
		},
		{
			// Full-weight 1.548 hits the clamp ceiling.
			name:  "replacement level full season",
			stats: PitcherStats{Name: "Replacement", ERA: 7.50, WHIP: 1.90, InningsPitched: 150, GamesStarted: 28},
			want:  1.5,
		},
		{
			// Cutoffs are exclusive: ERA 2.00 lands in the second tier.
			name:  "exact tier boundaries",
			stats: PitcherStats{Name: "Boundary", ERA: 2.00, WHIP: 1.00, InningsPitched: 120, GamesStarted: 10},
			want:  0.888,
		},
		{
			name:  "insufficient starts stays neutral",
			stats: PitcherStats{Name: "Callup", ERA: 1.50, WHIP: 0.90, InningsPitched: 30, GamesStarted: 4},
			want:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PitcherFactorFromStats(tt.stats, cfg)
			if got.Name != tt.stats.Name {
				t.Errorf("name = %q, want %q", got.Name, tt.stats.Name)
			}
			if math.Abs(got.Value-tt.want) > 1e-9 {
				t.Errorf("factor = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestBullpenFactorFromStats(t *testing.T) {
	cfg := config.DefaultModel()

	tests := []struct {
		name  string
		stats BullpenStats
		want  float64
	}{
		{
			// ERA and WHIP components both cap at 1.5; save rate 40/46.
			name:  "elite closer corps",
			stats: BullpenStats{ERA: 2.80, WHIP: 1.05, Saves: 40, SaveOpportunities: 46},
			want:  1.5*0.5 + 1.5*0.3 + (40.0/46.0)*1.5*0.2,
		},
		{
			// era 0.72, whip 1.0625, save rate 0.4.
			name:  "shaky pen",
			stats: BullpenStats{ERA: 6.20, WHIP: 1.75, Saves: 12, SaveOpportunities: 30},
			want:  0.79875,
		},
		{
			// No save opportunities contributes nothing rather than dividing by zero.
			name:  "no save opportunities",
			stats: BullpenStats{ERA: 3.50, WHIP: 1.20, Saves: 0, SaveOpportunities: 0},
			want:  1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BullpenFactorFromStats(tt.stats, cfg)
			if math.Abs(got.Value-tt.want) > 1e-9 {
				t.Errorf("factor = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestBullpenFactorOrdering(t *testing.T) {
	cfg := config.DefaultModel()
	elite := BullpenFactorFromStats(BullpenStats{ERA: 2.80, WHIP: 1.05, Saves: 40, SaveOpportunities: 46}, cfg)
	shaky := BullpenFactorFromStats(BullpenStats{ERA: 6.20, WHIP: 1.75, Saves: 12, SaveOpportunities: 30}, cfg)
	if elite.Value <= shaky.Value {
		t.Errorf("elite pen %v should grade above shaky pen %v", elite.Value, shaky.Value)
	}
}

func TestBullpenBlend(t *testing.T) {
	// blend = 1 + (1/factor - 1) * weight
	if got := bullpenBlend(1.25, 0.2); math.Abs(got-0.96) > 1e-9 {
		t.Errorf("blend(1.25, 0.2) = %v, want 0.96", got)
	}
	if got := bullpenBlend(1.0, 0.15); got != 1.0 {
		t.Errorf("neutral pen blend = %v, want 1.0", got)
	}
	if got := bullpenBlend(1.46, 0.15); got >= 1.0 {
		t.Errorf("strong opposing pen should suppress scoring, blend = %v", got)
	}
	if got := bullpenBlend(0.80, 0.15); got <= 1.0 {
		t.Errorf("weak opposing pen should inflate scoring, blend = %v", got)
	}
	if got := bullpenBlend(0, 0.15); got != 1.0 {
		t.Errorf("zero factor guard = %v, want 1.0", got)
	}
}
