// Package report renders slate runs and graded performance as plain text
// for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"mlb-sim-engine/internal/analysis"
	"mlb-sim-engine/internal/engine"
	"mlb-sim-engine/internal/history"
)

// Renderer writes human-readable reports.
type Renderer struct {
	w io.Writer
}

// New creates a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// SlateReport renders one slate run: a header, a line per game, then the
// ranked bet sheet.
func (r *Renderer) SlateReport(run engine.SlateRun) {
	fmt.Fprintf(r.w, "MLB slate %s | %d games | seed %d | %s\n",
		run.Date, len(run.Predictions), run.Seed, run.Elapsed.Round(time.Millisecond))

	for _, p := range run.Predictions {
		if p.Err != nil {
			fmt.Fprintf(r.w, "  %s @ %s | FAILED: %v\n", p.Game.AwayTeam, p.Game.HomeTeam, p.Err)
			continue
		}

		res := p.Result
		line := fmt.Sprintf("  %s @ %s | home %.1f%% away %.1f%% | %.1f-%.1f (total %.1f)",
			p.Game.AwayTeam, p.Game.HomeTeam,
			res.HomeWinProb*100, res.AwayWinProb*100,
			res.RoundedHomeScore(), res.RoundedAwayScore(), res.RoundedTotal())
		if res.Degraded {
			line += " | degraded: " + strings.Join(res.Fallbacks, ", ")
		}
		fmt.Fprintln(r.w, line)
	}

	if len(run.Ranked) == 0 {
		fmt.Fprintln(r.w, "No bets clear the configured thresholds.")
		return
	}

	fmt.Fprintf(r.w, "Bets (%d):\n", len(run.Ranked))
	for i, rc := range run.Ranked {
		c := rc.Candidate
		fmt.Fprintf(r.w, "  %2d. [%s] %s (%s @ %s) %+d | model %.1f%% implied %.1f%% fair %.1f%% edge %+.1f%% | ev %+.1f%% stake %.2f%%\n",
			i+1, c.Confidence, describeBet(rc), rc.AwayTeam, rc.HomeTeam, c.AmericanOdds,
			c.ModelProb*100, c.ImpliedProb*100, c.FairProb*100, c.Edge*100,
			c.EV*100, c.KellyStake*100)
	}
}

// describeBet names a bet in team terms: "New York Yankees moneyline",
// "OVER 8.5".
func describeBet(rc engine.RankedCandidate) string {
	c := rc.Candidate
	switch c.Side {
	case "home":
		return fmt.Sprintf("%s %s", rc.HomeTeam, c.Market)
	case "away":
		return fmt.Sprintf("%s %s", rc.AwayTeam, c.Market)
	case "over", "under":
		return fmt.Sprintf("%s %.1f", strings.ToUpper(c.Side), c.Line)
	}
	return c.Side
}

// PerformanceReport renders graded-history accuracy and returns.
func (r *Renderer) PerformanceReport(perf history.Performance) {
	if perf.GamesGraded == 0 {
		fmt.Fprintln(r.w, "No graded games yet.")
		return
	}

	fmt.Fprintf(r.w, "Graded %d games | winners %.1f%% | Brier %.3f\n",
		perf.GamesGraded, perf.WinnerAccuracy*100, perf.Brier)
	fmt.Fprintf(r.w, "Run bias: home %+.2f away %+.2f total %+.2f (abs %.2f)\n",
		perf.HomeRunsBias, perf.AwayRunsBias, perf.TotalRunsBias, perf.MeanAbsTotalError)

	if len(perf.Markets) > 0 {
		fmt.Fprintln(r.w, "By market:")
		markets := make([]string, 0, len(perf.Markets))
		for market := range perf.Markets {
			markets = append(markets, market)
		}
		sort.Strings(markets)
		for _, market := range markets {
			r.perfRow(market, perf.Markets[market])
		}
	}

	if len(perf.Tiers) > 0 {
		fmt.Fprintln(r.w, "By confidence:")
		tiers := make([]string, 0, len(perf.Tiers))
		for tier := range perf.Tiers {
			tiers = append(tiers, tier)
		}
		sort.Slice(tiers, func(i, j int) bool { return tierRank(tiers[i]) < tierRank(tiers[j]) })
		for _, tier := range tiers {
			r.perfRow(tier, perf.Tiers[tier])
		}
	}
}

func (r *Renderer) perfRow(label string, m history.MarketPerformance) {
	fmt.Fprintf(r.w, "  %-9s %d bets %d-%d-%d | staked %.3f profit %+.3f ROI %+.1f%%\n",
		label, m.Bets, m.Wins, m.Losses, m.Pushes, m.Staked, m.Profit, m.ROI*100)
}

// tierRank orders confidence tiers strongest first.
func tierRank(tier string) int {
	switch tier {
	case analysis.ConfidenceHigh:
		return 0
	case analysis.ConfidenceMedium:
		return 1
	case analysis.ConfidenceLow:
		return 2
	}
	return 3
}
