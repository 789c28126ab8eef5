package odds

import "math"

// Overround returns the bookmaker margin baked into a two-way market:
// the amount by which the implied probabilities exceed 1.0. A standard
// -110/-110 total carries roughly 0.048 of overround.
func Overround(impliedA, impliedB float64) float64 {
	return impliedA + impliedB - 1.0
}

// RemoveVig strips the margin from a two-way market by proportional scaling,
// so the pair sums to 1.0:
//
//	fairA = impliedA / (impliedA + impliedB)
//	fairB = impliedB / (impliedA + impliedB)
//
// Fair probabilities are a labeled derived value for reporting. Edge math
// always runs against the raw implied probability, because the implied
// probability is what the price actually pays.
func RemoveVig(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}

	total := impliedA + impliedB
	if total <= 0 {
		return 0, 0
	}

	return impliedA / total, impliedB / total
}

// RemoveVigPower strips the margin using the power method: find k such that
// impliedA^k + impliedB^k = 1, then report the powered values. Unlike
// proportional scaling this deflates longshots more than favorites, which
// matches how books actually shade their lines.
func RemoveVigPower(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}

	sum := impliedA + impliedB
	if math.Abs(sum-1.0) < 1e-9 {
		return impliedA, impliedB
	}

	k := findPowerExponent(impliedA, impliedB)

	return math.Pow(impliedA, k), math.Pow(impliedB, k)
}

// findPowerExponent locates k with p1^k + p2^k = 1 by bisection.
// For 0 < p < 1, p^k shrinks as k grows, so an overround market (sum > 1)
// needs k > 1 and an underround market needs k < 1.
func findPowerExponent(p1, p2 float64) float64 {
	const (
		tolerance = 1e-9
		maxIters  = 100
	)

	low, high := 0.01, 10.0

	for i := 0; i < maxIters; i++ {
		mid := (low + high) / 2
		sum := math.Pow(p1, mid) + math.Pow(p2, mid)

		if math.Abs(sum-1.0) < tolerance {
			return mid
		}

		if sum > 1 {
			low = mid
		} else {
			high = mid
		}
	}

	return (low + high) / 2
}

// FairProbs converts a two-way American-odds pair straight to fair
// probabilities via proportional devigging.
func FairProbs(oddsA, oddsB int) (float64, float64) {
	return RemoveVig(AmericanToImplied(oddsA), AmericanToImplied(oddsB))
}

// FairProbsPower is FairProbs using the power method.
func FairProbsPower(oddsA, oddsB int) (float64, float64) {
	return RemoveVigPower(AmericanToImplied(oddsA), AmericanToImplied(oddsB))
}
