package history

import (
	"math"

	"mlb-sim-engine/internal/odds"
)

// BetResult is a settled bet's outcome.
type BetResult string

const (
	BetWin  BetResult = "win"
	BetLoss BetResult = "loss"
	BetPush BetResult = "push"
)

// GradedBet pairs a stored bet with its settled outcome. Profit is in
// bankroll units at the recommended Kelly stake: a 0.02 stake winning at
// +150 books +0.03.
type GradedBet struct {
	Bet    Bet
	Result BetResult
	Profit float64
}

// GradedGame pairs a prediction with the final score and settled bets.
type GradedGame struct {
	Prediction Prediction
	Final      Final
	Bets       []GradedBet
}

// Grade settles every bet on a prediction against its final score.
func Grade(p Prediction, bets []Bet, f Final) GradedGame {
	g := GradedGame{Prediction: p, Final: f}
	for _, b := range bets {
		g.Bets = append(g.Bets, GradeBet(b, f))
	}
	return g
}

// GradeBet settles a bet against the final score.
func GradeBet(b Bet, f Final) GradedBet {
	gb := GradedBet{Bet: b, Result: settle(b, f)}
	switch gb.Result {
	case BetWin:
		gb.Profit = b.KellyStake * (odds.AmericanToDecimal(b.AmericanOdds) - 1)
	case BetLoss:
		gb.Profit = -b.KellyStake
	}
	return gb
}

func settle(b Bet, f Final) BetResult {
	switch b.Market {
	case string(odds.MarketMoneyline):
		switch {
		case f.HomeRuns == f.AwayRuns:
			return BetPush
		case b.Side == "home" && f.HomeRuns > f.AwayRuns,
			b.Side == "away" && f.AwayRuns > f.HomeRuns:
			return BetWin
		default:
			return BetLoss
		}

	case string(odds.MarketTotal):
		total := float64(f.HomeRuns + f.AwayRuns)
		switch {
		case total == b.Line:
			return BetPush
		case b.Side == "over" && total > b.Line,
			b.Side == "under" && total < b.Line:
			return BetWin
		default:
			return BetLoss
		}
	}

	// Unknown market: refund rather than guess.
	return BetPush
}

// MarketPerformance aggregates settled bets for one market or confidence
// tier.
type MarketPerformance struct {
	Bets   int
	Wins   int
	Losses int
	Pushes int
	Staked float64 // Sum of recommended stakes, in bankroll units
	Profit float64 // Net return at those stakes
	ROI    float64 // Profit / Staked
}

func (m *MarketPerformance) add(gb GradedBet) {
	m.Bets++
	switch gb.Result {
	case BetWin:
		m.Wins++
	case BetLoss:
		m.Losses++
	case BetPush:
		m.Pushes++
	}
	m.Staked += gb.Bet.KellyStake
	m.Profit += gb.Profit
}

// Performance summarizes model accuracy and betting returns over graded
// games. Bias fields are signed, predicted minus actual; positive means the
// model runs hot. Returns are split two ways: by market and by the
// confidence tier the bet carried when recommended.
type Performance struct {
	GamesGraded       int
	WinnerCorrect     int
	WinnerAccuracy    float64
	Brier             float64 // Mean squared error of the home win probability
	TotalRunsBias     float64
	MeanAbsTotalError float64
	HomeRunsBias      float64
	AwayRunsBias      float64
	Markets           map[string]MarketPerformance
	Tiers             map[string]MarketPerformance
}

// Summarize computes the performance report for a set of graded games.
func Summarize(games []GradedGame) Performance {
	perf := Performance{
		Markets: make(map[string]MarketPerformance),
		Tiers:   make(map[string]MarketPerformance),
	}
	if len(games) == 0 {
		return perf
	}

	var brier, totalErr, absTotalErr, homeErr, awayErr float64
	for _, g := range games {
		p, f := g.Prediction, g.Final
		perf.GamesGraded++

		homeWon := f.HomeRuns > f.AwayRuns
		if (p.HomeWinProb > 0.5) == homeWon {
			perf.WinnerCorrect++
		}

		outcome := 0.0
		if homeWon {
			outcome = 1.0
		}
		d := p.HomeWinProb - outcome
		brier += d * d

		te := p.ExpectedTotalRuns - float64(f.HomeRuns+f.AwayRuns)
		totalErr += te
		absTotalErr += math.Abs(te)
		homeErr += p.ExpectedHomeRuns - float64(f.HomeRuns)
		awayErr += p.ExpectedAwayRuns - float64(f.AwayRuns)

		for _, gb := range g.Bets {
			m := perf.Markets[gb.Bet.Market]
			m.add(gb)
			perf.Markets[gb.Bet.Market] = m

			tier := perf.Tiers[gb.Bet.Confidence]
			tier.add(gb)
			perf.Tiers[gb.Bet.Confidence] = tier
		}
	}

	n := float64(perf.GamesGraded)
	perf.WinnerAccuracy = float64(perf.WinnerCorrect) / n
	perf.Brier = brier / n
	perf.TotalRunsBias = totalErr / n
	perf.MeanAbsTotalError = absTotalErr / n
	perf.HomeRunsBias = homeErr / n
	perf.AwayRunsBias = awayErr / n

	for market, m := range perf.Markets {
		if m.Staked > 0 {
			m.ROI = m.Profit / m.Staked
			perf.Markets[market] = m
		}
	}
	for tier, m := range perf.Tiers {
		if m.Staked > 0 {
			m.ROI = m.Profit / m.Staked
			perf.Tiers[tier] = m
		}
	}

	return perf
}
