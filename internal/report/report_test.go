package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"mlb-sim-engine/internal/analysis"
	"mlb-sim-engine/internal/engine"
	"mlb-sim-engine/internal/history"
	"mlb-sim-engine/internal/odds"
	"mlb-sim-engine/internal/simulation"
	"mlb-sim-engine/internal/slate"
)

func fixtureRun() engine.SlateRun {
	return engine.SlateRun{
		Date:    "2026-08-23",
		Seed:    99,
		Elapsed: 1234 * time.Millisecond,
		Predictions: []engine.GamePrediction{
			{
				Game: slate.Game{HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox"},
				Key:  "2026-08-23|Boston Red Sox|New York Yankees",
				Result: simulation.Result{
					HomeTeam:          "New York Yankees",
					AwayTeam:          "Boston Red Sox",
					HomeWinProb:       0.61,
					AwayWinProb:       0.39,
					Confidence:        0.61,
					ExpectedHomeScore: 4.97,
					ExpectedAwayScore: 4.12,
					ExpectedTotalRuns: 9.09,
				},
			},
			{
				Game: slate.Game{HomeTeam: "Miami Marlins", AwayTeam: "Philadelphia Phillies"},
				Key:  "2026-08-23|Philadelphia Phillies|Miami Marlins",
				Result: simulation.Result{
					HomeWinProb: 0.44,
					AwayWinProb: 0.56,
					Confidence:  0.56,
					Degraded:    true,
					Fallbacks:   []string{"home_pitcher_factor", "away_bullpen_factor"},
				},
			},
			{
				Game: slate.Game{HomeTeam: "Athletics", AwayTeam: "Texas Rangers"},
				Key:  "2026-08-23|Texas Rangers|Athletics",
				Err:  errors.New("bad inputs"),
			},
		},
		Ranked: []engine.RankedCandidate{
			{
				GameKey:  "2026-08-23|Boston Red Sox|New York Yankees",
				HomeTeam: "New York Yankees",
				AwayTeam: "Boston Red Sox",
				Candidate: analysis.Candidate{
					Market: odds.MarketMoneyline, Side: "home", AmericanOdds: -140,
					ModelProb: 0.61, ImpliedProb: 0.583, FairProb: 0.562, Edge: 0.027, EV: 0.046,
					KellyStake: 0.012, Confidence: analysis.ConfidenceMedium,
				},
			},
			{
				GameKey:  "2026-08-23|Boston Red Sox|New York Yankees",
				HomeTeam: "New York Yankees",
				AwayTeam: "Boston Red Sox",
				Candidate: analysis.Candidate{
					Market: odds.MarketTotal, Side: "over", Line: 8.5, AmericanOdds: 105,
					ModelProb: 0.58, ImpliedProb: 0.488, FairProb: 0.467, Edge: 0.092, EV: 0.189,
					KellyStake: 0.022, Confidence: analysis.ConfidenceMedium,
				},
			},
		},
	}
}

func TestSlateReport(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).SlateReport(fixtureRun())
	out := buf.String()

	for _, want := range []string{
		"MLB slate 2026-08-23 | 3 games | seed 99 | 1.234s",
		"Boston Red Sox @ New York Yankees | home 61.0% away 39.0% | 5.0-4.1 (total 9.1)",
		"degraded: home_pitcher_factor, away_bullpen_factor",
		"Texas Rangers @ Athletics | FAILED: bad inputs",
		"Bets (2):",
		"[MEDIUM] New York Yankees moneyline (Boston Red Sox @ New York Yankees) -140",
		"model 61.0% implied 58.3% fair 56.2% edge +2.7% | ev +4.6% stake 1.20%",
		"OVER 8.5 (Boston Red Sox @ New York Yankees) +105",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}
}

func TestSlateReportNoBets(t *testing.T) {
	run := fixtureRun()
	run.Ranked = nil

	var buf bytes.Buffer
	New(&buf).SlateReport(run)

	if !strings.Contains(buf.String(), "No bets clear the configured thresholds.") {
		t.Errorf("missing no-bets line:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Bets (") {
		t.Errorf("unexpected bet sheet:\n%s", buf.String())
	}
}

func TestDescribeBet(t *testing.T) {
	tests := []struct {
		name string
		rc   engine.RankedCandidate
		want string
	}{
		{
			name: "home moneyline",
			rc: engine.RankedCandidate{
				HomeTeam:  "New York Yankees",
				AwayTeam:  "Boston Red Sox",
				Candidate: analysis.Candidate{Market: odds.MarketMoneyline, Side: "home"},
			},
			want: "New York Yankees moneyline",
		},
		{
			name: "away moneyline",
			rc: engine.RankedCandidate{
				HomeTeam:  "New York Yankees",
				AwayTeam:  "Boston Red Sox",
				Candidate: analysis.Candidate{Market: odds.MarketMoneyline, Side: "away"},
			},
			want: "Boston Red Sox moneyline",
		},
		{
			name: "under",
			rc: engine.RankedCandidate{
				Candidate: analysis.Candidate{Market: odds.MarketTotal, Side: "under", Line: 9.5},
			},
			want: "UNDER 9.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeBet(tt.rc); got != tt.want {
				t.Errorf("describeBet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPerformanceReport(t *testing.T) {
	perf := history.Performance{
		GamesGraded:       42,
		WinnerCorrect:     24,
		WinnerAccuracy:    24.0 / 42.0,
		Brier:             0.241,
		HomeRunsBias:      0.12,
		AwayRunsBias:      -0.30,
		TotalRunsBias:     -0.18,
		MeanAbsTotalError: 2.88,
		Markets: map[string]history.MarketPerformance{
			"total":     {Bets: 9, Wins: 4, Losses: 5, Staked: 0.18, Profit: -0.021, ROI: -0.1166},
			"moneyline": {Bets: 18, Wins: 10, Losses: 7, Pushes: 1, Staked: 0.41, Profit: 0.063, ROI: 0.154},
		},
		Tiers: map[string]history.MarketPerformance{
			analysis.ConfidenceMedium: {Bets: 16, Wins: 7, Losses: 8, Pushes: 1, Staked: 0.24, Profit: -0.049, ROI: -0.204},
			analysis.ConfidenceHigh:   {Bets: 11, Wins: 7, Losses: 4, Staked: 0.35, Profit: 0.091, ROI: 0.26},
		},
	}

	var buf bytes.Buffer
	New(&buf).PerformanceReport(perf)
	out := buf.String()

	for _, want := range []string{
		"Graded 42 games | winners 57.1% | Brier 0.241",
		"Run bias: home +0.12 away -0.30 total -0.18 (abs 2.88)",
		"By market:",
		"18 bets 10-7-1 | staked 0.410 profit +0.063 ROI +15.4%",
		"9 bets 4-5-0 | staked 0.180 profit -0.021 ROI -11.7%",
		"By confidence:",
		"11 bets 7-4-0 | staked 0.350 profit +0.091 ROI +26.0%",
		"16 bets 7-8-1 | staked 0.240 profit -0.049 ROI -20.4%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}

	// Markets render alphabetically, tiers strongest first.
	if strings.Index(out, "moneyline") > strings.Index(out, "total") {
		t.Errorf("markets out of order:\n%s", out)
	}
	if strings.Index(out, "HIGH") > strings.Index(out, "MEDIUM") {
		t.Errorf("tiers out of order:\n%s", out)
	}
}

func TestPerformanceReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).PerformanceReport(history.Performance{})

	if !strings.Contains(buf.String(), "No graded games yet.") {
		t.Errorf("missing empty-history line:\n%s", buf.String())
	}
}
