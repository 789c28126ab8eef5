package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/odds"
	"mlb-sim-engine/internal/slate"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 99
	cfg.Workers = 2
	cfg.Model.SimulationCount = config.SimCountFast
	return cfg
}

func testSlate() slate.Slate {
	return slate.Slate{
		Date: "2026-08-23",
		Games: []slate.Game{
			{
				HomeTeam:    "New York Yankees",
				AwayTeam:    "Boston Red Sox",
				Home:        slate.TeamStats{BaseRunsPerGame: 4.8, Strength: 0.12, RecentForm: 0.02},
				Away:        slate.TeamStats{BaseRunsPerGame: 4.2, Strength: -0.10, RecentForm: -0.01},
				HomePitcher: &slate.PitcherStats{Name: "Ace Adams", ERA: 2.5, WHIP: 1.0, InningsPitched: 150, GamesStarted: 25},
				AwayPitcher: &slate.PitcherStats{Name: "Spot Starter", ERA: 6.0, WHIP: 1.6, InningsPitched: 40, GamesStarted: 8},
				Odds: &slate.Markets{
					Moneyline: &slate.MoneylineOdds{Home: 120, Away: -140},
					Total:     &slate.TotalOdds{Line: 8.5, Over: -110, Under: -110},
				},
			},
			{
				HomeTeam: "Miami Marlins",
				AwayTeam: "Philadelphia Phillies",
				Home:     slate.TeamStats{BaseRunsPerGame: 3.9, Strength: -0.05},
				Away:     slate.TeamStats{BaseRunsPerGame: 4.7, Strength: 0.07},
			},
		},
	}
}

func TestGameKey(t *testing.T) {
	got := GameKey("2026-08-23", "Boston Red Sox", "New York Yankees")
	want := "2026-08-23|Boston Red Sox|New York Yankees"
	if got != want {
		t.Errorf("GameKey = %q, want %q", got, want)
	}
}

func TestGameSeed(t *testing.T) {
	a := gameSeed(42, "2026-08-23|BOS|NYY")
	b := gameSeed(42, "2026-08-23|BOS|NYY")
	if a != b {
		t.Errorf("same inputs produced different seeds: %d vs %d", a, b)
	}

	if gameSeed(42, "2026-08-23|BOS|NYY") == gameSeed(42, "2026-08-23|PHI|MIA") {
		t.Error("different games share a seed")
	}
	if gameSeed(42, "2026-08-23|BOS|NYY") == gameSeed(43, "2026-08-23|BOS|NYY") {
		t.Error("different master seeds share a game seed")
	}
}

func TestRunSlate(t *testing.T) {
	e := New(testConfig(), nil, nil)

	run, err := e.RunSlate(context.Background(), testSlate())
	if err != nil {
		t.Fatalf("RunSlate: %v", err)
	}

	if run.Date != "2026-08-23" || run.Seed != 99 {
		t.Errorf("run header = %q seed %d", run.Date, run.Seed)
	}
	if run.RunID == "" {
		t.Error("run has no RunID")
	}
	if len(run.Predictions) != 2 {
		t.Fatalf("len(Predictions) = %d, want 2", len(run.Predictions))
	}

	first := run.Predictions[0]
	if first.Key != "2026-08-23|Boston Red Sox|New York Yankees" {
		t.Errorf("predictions out of slate order: %q first", first.Key)
	}
	if first.Err != nil {
		t.Fatalf("first game failed: %v", first.Err)
	}
	if first.Result.Trials != config.SimCountFast {
		t.Errorf("Trials = %d, want %d", first.Result.Trials, config.SimCountFast)
	}

	// A heavy favorite against a plus-money line must surface as a bet.
	var foundHomeML bool
	for _, rc := range run.Ranked {
		if rc.GameKey == first.Key && rc.Candidate.Market == odds.MarketMoneyline && rc.Candidate.Side == "home" {
			foundHomeML = true
			if rc.Candidate.Edge < 0.2 {
				t.Errorf("home moneyline edge = %v, expected a large edge", rc.Candidate.Edge)
			}
		}
	}
	if !foundHomeML {
		t.Error("no home moneyline candidate for the heavy favorite")
	}

	for i := 1; i < len(run.Ranked); i++ {
		if run.Ranked[i].Candidate.EV > run.Ranked[i-1].Candidate.EV {
			t.Errorf("ranked candidates out of EV order at %d: %v after %v",
				i, run.Ranked[i].Candidate.EV, run.Ranked[i-1].Candidate.EV)
		}
	}

	// The bare game has no markets, so it contributes no candidates and
	// degrades to neutral factors.
	sparse := run.Predictions[1]
	if sparse.Err != nil {
		t.Fatalf("sparse game failed: %v", sparse.Err)
	}
	if len(sparse.Candidates) != 0 {
		t.Errorf("sparse game produced %d candidates, want 0", len(sparse.Candidates))
	}
	if !sparse.Result.Degraded {
		t.Error("sparse game should be degraded")
	}
}

func TestRunSlateDeterminism(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4

	s := testSlate()
	a, err := New(cfg, nil, nil).RunSlate(context.Background(), s)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := New(cfg, nil, nil).RunSlate(context.Background(), s)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(a.Predictions, b.Predictions) {
		t.Error("same slate and seed produced different predictions")
	}
	if !reflect.DeepEqual(a.Ranked, b.Ranked) {
		t.Error("same slate and seed produced different rankings")
	}
}

func TestRunSlateEmpty(t *testing.T) {
	run, err := New(testConfig(), nil, nil).RunSlate(context.Background(), slate.Slate{Date: "2026-08-23"})
	if err != nil {
		t.Fatalf("RunSlate: %v", err)
	}
	if len(run.Predictions) != 0 || len(run.Ranked) != 0 {
		t.Errorf("empty slate produced output: %+v", run)
	}
}

func TestRunSlateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := New(testConfig(), nil, nil).RunSlate(ctx, testSlate())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(run.Predictions) != 2 {
		t.Fatalf("len(Predictions) = %d, want placeholders for every game", len(run.Predictions))
	}
	for i, p := range run.Predictions {
		if p.Key == "" {
			t.Errorf("prediction %d has no key", i)
		}
	}
}

func TestPredictGameDegraded(t *testing.T) {
	e := New(testConfig(), nil, nil)

	pred := e.predictGame("2026-08-23", slate.Game{
		HomeTeam: "Miami Marlins",
		AwayTeam: "Philadelphia Phillies",
		Home:     slate.TeamStats{BaseRunsPerGame: 3.9},
		Away:     slate.TeamStats{BaseRunsPerGame: 4.7},
	}, 7)

	if pred.Err != nil {
		t.Fatalf("predictGame: %v", pred.Err)
	}
	if !pred.Result.Degraded {
		t.Fatal("missing pitchers and bullpens should degrade the result")
	}

	want := map[string]bool{
		"home_pitcher_factor": false,
		"away_pitcher_factor": false,
		"home_bullpen_factor": false,
		"away_bullpen_factor": false,
	}
	for _, f := range pred.Result.Fallbacks {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("fallback %q not reported; got %v", name, pred.Result.Fallbacks)
		}
	}
}

func TestPredictGameUsesParkFactor(t *testing.T) {
	e := New(testConfig(), nil, nil)

	coors := e.predictGame("2026-08-23", slate.Game{
		HomeTeam: "Colorado Rockies",
		AwayTeam: "San Diego Padres",
		Home:     slate.TeamStats{BaseRunsPerGame: 4.5},
		Away:     slate.TeamStats{BaseRunsPerGame: 4.5},
	}, 7)
	if coors.Err != nil {
		t.Fatalf("predictGame: %v", coors.Err)
	}

	oracle := e.predictGame("2026-08-23", slate.Game{
		HomeTeam: "San Francisco Giants",
		AwayTeam: "San Diego Padres",
		Home:     slate.TeamStats{BaseRunsPerGame: 4.5},
		Away:     slate.TeamStats{BaseRunsPerGame: 4.5},
	}, 7)
	if oracle.Err != nil {
		t.Fatalf("predictGame: %v", oracle.Err)
	}

	if coors.Result.Factors.ParkWeather <= oracle.Result.Factors.ParkWeather {
		t.Errorf("park factors: Coors %v should exceed Oracle %v",
			coors.Result.Factors.ParkWeather, oracle.Result.Factors.ParkWeather)
	}
}
