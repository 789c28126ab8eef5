package odds

import "math"

// AmericanToImplied converts American odds to implied probability
// Example: -150 → 0.6 (60%), +150 → 0.4 (40%)
// The result carries the book's margin; see vig.go for fair-probability
// derivation.
func AmericanToImplied(odds int) float64 {
	if odds == 0 {
		return 0
	}

	if odds > 0 {
		// Underdog: probability = 100 / (odds + 100)
		return 100.0 / (float64(odds) + 100.0)
	}
	// Favorite: probability = |odds| / (|odds| + 100)
	return math.Abs(float64(odds)) / (math.Abs(float64(odds)) + 100.0)
}

// AmericanToDecimal converts American odds to decimal odds, the total payout
// per unit staked. Example: +150 → 2.50, -150 → 1.667.
// Net profit per unit (the Kelly "b") is decimal - 1.
func AmericanToDecimal(odds int) float64 {
	if odds == 0 {
		return 0
	}

	if odds > 0 {
		return float64(odds)/100.0 + 1.0
	}
	return 100.0/math.Abs(float64(odds)) + 1.0
}
