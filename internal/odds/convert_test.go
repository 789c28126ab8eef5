package odds

import (
	"math"
	"testing"
)

func TestAmericanToImplied(t *testing.T) {
	tests := []struct {
		name     string
		odds     int
		expected float64
		delta    float64
	}{
		{"Even money +100", 100, 0.5, 0.001},
		{"Even money -100", -100, 0.5, 0.001},
		{"Favorite -150", -150, 0.6, 0.001},
		{"Underdog +150", 150, 0.4, 0.001},
		{"Heavy favorite -300", -300, 0.75, 0.001},
		{"Big underdog +300", 300, 0.25, 0.001},
		{"Standard total juice -110", -110, 0.5238, 0.001},
		{"Small favorite -120", -120, 0.5455, 0.001},
		{"Zero odds", 0, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AmericanToImplied(tt.odds)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("AmericanToImplied(%d) = %v, want %v", tt.odds, result, tt.expected)
			}
		})
	}
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		odds     int
		expected float64
		delta    float64
	}{
		{"Even money +100", 100, 2.0, 0.001},
		{"Even money -100", -100, 2.0, 0.001},
		{"Underdog +150", 150, 2.5, 0.001},
		{"Favorite -150", -150, 1.6667, 0.001},
		{"Standard -110", -110, 1.9091, 0.001},
		{"Big underdog +250", 250, 3.5, 0.001},
		{"Heavy favorite -400", -400, 1.25, 0.001},
		{"Zero odds", 0, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AmericanToDecimal(tt.odds)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("AmericanToDecimal(%d) = %v, want %v", tt.odds, result, tt.expected)
			}
		})
	}
}

// Implied probability and decimal odds must stay consistent:
// implied * decimal == 1 for any single price.
func TestImpliedDecimalConsistency(t *testing.T) {
	for _, odds := range []int{-500, -250, -150, -110, -100, 100, 120, 150, 200, 350} {
		implied := AmericanToImplied(odds)
		decimal := AmericanToDecimal(odds)
		if math.Abs(implied*decimal-1.0) > 1e-9 {
			t.Errorf("odds %d: implied %.6f * decimal %.6f = %.6f, want 1.0",
				odds, implied, decimal, implied*decimal)
		}
	}
}
