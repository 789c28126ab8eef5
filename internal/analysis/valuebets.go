package analysis

import (
	"math"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/odds"
	"mlb-sim-engine/internal/simulation"
)

// Confidence tier labels, ordered strongest first.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Candidate represents one recommended bet: a market side where the model's
// probability clears the book's implied probability by the configured edge.
type Candidate struct {
	Market       odds.MarketType
	Side         string  // "home", "away", "over", "under"
	Line         float64 // total-runs line, 0 for moneyline
	AmericanOdds int
	ModelProb    float64
	ImpliedProb  float64 // Raw book probability, vig included
	FairProb     float64 // No-vig probability of this side, for reporting
	Edge         float64 // ModelProb - ImpliedProb
	EV           float64 // Expected profit per unit staked
	KellyStake   float64 // Recommended bankroll fraction
	Confidence   string
}

// ExpectedValue returns the expected profit per unit staked at American odds
// given the model's win probability.
func ExpectedValue(modelProb float64, americanOdds int) float64 {
	dec := odds.AmericanToDecimal(americanOdds)
	if dec <= 1 {
		return 0
	}
	return modelProb*dec - 1
}

// confidenceLabel grades a candidate by expected value and conviction.
func confidenceLabel(ev, prob float64, r config.RiskConfig) string {
	switch {
	case ev > r.HighEVThreshold && prob > r.HighProbThreshold:
		return ConfidenceHigh
	case ev > r.MediumEVThreshold && prob > r.MediumProbThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// FindMoneylineBets evaluates both moneyline sides against the simulated win
// probabilities.
func FindMoneylineBets(res simulation.Result, line odds.MarketLine, r config.RiskConfig) []Candidate {
	var cands []Candidate

	if line.Moneyline == nil {
		return cands
	}
	// No bets in games the simulator has no conviction about.
	if res.Confidence < r.MinConfidence {
		return cands
	}

	homeFair, awayFair := odds.FairProbs(line.Moneyline.Home, line.Moneyline.Away)
	sides := []struct {
		side     string
		prob     float64
		fair     float64
		american int
	}{
		{"home", res.HomeWinProb, homeFair, line.Moneyline.Home},
		{"away", res.AwayWinProb, awayFair, line.Moneyline.Away},
	}

	for _, s := range sides {
		implied := odds.AmericanToImplied(s.american)
		if implied <= 0 {
			continue
		}
		edge := s.prob - implied
		if edge <= r.MinEdge {
			continue
		}
		ev := ExpectedValue(s.prob, s.american)
		if ev <= r.LowEVThreshold {
			continue
		}
		cands = append(cands, Candidate{
			Market:       odds.MarketMoneyline,
			Side:         s.side,
			AmericanOdds: s.american,
			ModelProb:    s.prob,
			ImpliedProb:  implied,
			FairProb:     s.fair,
			Edge:         edge,
			EV:           ev,
			KellyStake:   KellyStake(s.prob, odds.AmericanToDecimal(s.american), r),
			Confidence:   confidenceLabel(ev, s.prob, r),
		})
	}

	return cands
}

// FindTotalBets evaluates the over and under against the simulated
// total-runs distribution. A model total within the minimum runs edge of the
// line is treated as unbeatable noise regardless of probabilities.
func FindTotalBets(res simulation.Result, line odds.MarketLine, r config.RiskConfig) []Candidate {
	var cands []Candidate

	t := line.Total
	if t == nil || t.Line <= 0 {
		return cands
	}
	if res.Confidence < r.MinConfidence {
		return cands
	}
	if math.Abs(res.ExpectedTotalRuns-t.Line) < r.MinTotalRunsEdge {
		return cands
	}

	overFair, underFair := odds.FairProbs(t.Over, t.Under)
	sides := []struct {
		side     string
		prob     float64
		fair     float64
		american int
	}{
		{"over", res.TotalRuns.ProbOver(t.Line), overFair, t.Over},
		{"under", res.TotalRuns.ProbUnder(t.Line), underFair, t.Under},
	}

	for _, s := range sides {
		implied := odds.AmericanToImplied(s.american)
		if implied <= 0 {
			continue
		}
		edge := s.prob - implied
		if edge <= r.MinEdge {
			continue
		}
		ev := ExpectedValue(s.prob, s.american)
		if ev <= r.LowEVThreshold {
			continue
		}
		cands = append(cands, Candidate{
			Market:       odds.MarketTotal,
			Side:         s.side,
			Line:         t.Line,
			AmericanOdds: s.american,
			ModelProb:    s.prob,
			ImpliedProb:  implied,
			FairProb:     s.fair,
			Edge:         edge,
			EV:           ev,
			KellyStake:   KellyStake(s.prob, odds.AmericanToDecimal(s.american), r),
			Confidence:   confidenceLabel(ev, s.prob, r),
		})
	}

	return cands
}

// FindValueBets evaluates every published market for one simulated game.
// Markets without posted odds are omitted, never estimated. Pure function:
// identical inputs always produce identical candidates.
func FindValueBets(res simulation.Result, line odds.MarketLine, r config.RiskConfig) []Candidate {
	var cands []Candidate
	cands = append(cands, FindMoneylineBets(res, line, r)...)
	cands = append(cands, FindTotalBets(res, line, r)...)
	return cands
}
