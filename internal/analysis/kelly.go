package analysis

import (
	"math"

	"mlb-sim-engine/internal/config"
)

// KellyFraction computes the full Kelly criterion stake for a bet at decimal
// odds.
//
//	b = decimalOdds - 1, q = 1 - p, f* = (p*b - q) / b
//
// A non-positive f* means no edge: the result is 0, never a short position.
func KellyFraction(modelProb, decimalOdds float64) float64 {
	if decimalOdds <= 1 || modelProb <= 0 || modelProb >= 1 {
		return 0
	}

	b := decimalOdds - 1
	q := 1 - modelProb
	f := (modelProb*b - q) / b

	return math.Max(0, f)
}

// KellyStake converts full Kelly into the recommended bankroll fraction:
// scaled down by the fractional-Kelly multiplier, then hard-capped at the
// configured maximum.
func KellyStake(modelProb, decimalOdds float64, r config.RiskConfig) float64 {
	f := KellyFraction(modelProb, decimalOdds) * r.KellyMultiplier
	if f > r.MaxKellyFraction {
		return r.MaxKellyFraction
	}
	return f
}

// BetSize returns the dollar amount for a stake fraction of a bankroll.
func BetSize(bankroll, stakeFraction float64) float64 {
	return bankroll * stakeFraction
}
