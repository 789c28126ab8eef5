// Package engine orchestrates a slate run: it fans the day's games out to a
// worker pool, simulates each one, evaluates the posted markets for value,
// and ranks every candidate bet by expected value.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"mlb-sim-engine/internal/analysis"
	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/history"
	"mlb-sim-engine/internal/metrics"
	"mlb-sim-engine/internal/odds"
	"mlb-sim-engine/internal/simulation"
	"mlb-sim-engine/internal/slate"
)

// Engine runs slates through the simulator and the betting analysis. The
// store and tracker collaborators are optional: nil disables persistence and
// metrics respectively.
type Engine struct {
	cfg     config.Config
	store   *history.Store
	tracker *metrics.Tracker
}

// New creates an Engine with its dependencies.
func New(cfg config.Config, store *history.Store, tracker *metrics.Tracker) *Engine {
	return &Engine{cfg: cfg, store: store, tracker: tracker}
}

// GamePrediction is one game's simulated outcome plus its betting
// candidates. A failed game carries its error and does not abort the slate.
type GamePrediction struct {
	Game       slate.Game
	Key        string
	Result     simulation.Result
	Candidates []analysis.Candidate
	Err        error
}

// RankedCandidate annotates a candidate with its game for cross-slate
// ranking.
type RankedCandidate struct {
	GameKey   string
	HomeTeam  string
	AwayTeam  string
	Candidate analysis.Candidate
}

// SlateRun is the complete output of one slate pass. RunID correlates the
// pass across log lines and stored predictions. Predictions follow slate
// order; Ranked is sorted by expected value, best first.
type SlateRun struct {
	RunID       string
	Date        string
	Seed        int64
	Predictions []GamePrediction
	Ranked      []RankedCandidate
	Elapsed     time.Duration
}

// RunSlate simulates every game on the slate. Games run concurrently on the
// configured worker count; a zero master seed is replaced with the wall
// clock and reported in SlateRun.Seed so any run can be reproduced.
func (e *Engine) RunSlate(ctx context.Context, s slate.Slate) (SlateRun, error) {
	start := time.Now()

	masterSeed := e.cfg.Seed
	if masterSeed == 0 {
		masterSeed = time.Now().UnixNano()
	}

	run := SlateRun{RunID: uuid.NewString(), Date: s.Date, Seed: masterSeed}
	if len(s.Games) == 0 {
		run.Elapsed = time.Since(start)
		return run, nil
	}

	slog.Info("Running slate",
		"run_id", run.RunID, "date", s.Date, "games", len(s.Games),
		"seed", masterSeed, "workers", e.cfg.Workers)

	run.Predictions = e.simulateAll(ctx, s, masterSeed)

	byMarket := make(map[odds.MarketType]int)
	failed := 0
	for _, p := range run.Predictions {
		if p.Err != nil {
			failed++
			continue
		}
		for _, c := range p.Candidates {
			run.Ranked = append(run.Ranked, RankedCandidate{
				GameKey:   p.Key,
				HomeTeam:  p.Game.HomeTeam,
				AwayTeam:  p.Game.AwayTeam,
				Candidate: c,
			})
			byMarket[c.Market]++
		}
	}

	sort.Slice(run.Ranked, func(i, j int) bool {
		return run.Ranked[i].Candidate.EV > run.Ranked[j].Candidate.EV
	})

	for market, n := range byMarket {
		e.tracker.AddCandidates(string(market), n)
	}
	e.tracker.SlateCompleted(len(s.Games))

	if e.store != nil {
		if err := e.persist(s.Date, run.Predictions); err != nil {
			slog.Error("Persisting slate failed", "err", err)
		}
	}

	run.Elapsed = time.Since(start)
	slog.Info("Slate complete",
		"games", len(s.Games), "failed", failed,
		"candidates", len(run.Ranked), "elapsed", run.Elapsed.Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return run, fmt.Errorf("slate interrupted: %w", err)
	}
	return run, nil
}

// HistoryRecord converts the prediction and its candidates into their
// storable form.
func (p GamePrediction) HistoryRecord(date string) (history.Prediction, []history.Bet) {
	rec := history.Prediction{
		GameKey:           p.Key,
		GameDate:          date,
		HomeTeam:          p.Game.HomeTeam,
		AwayTeam:          p.Game.AwayTeam,
		HomeWinProb:       p.Result.HomeWinProb,
		AwayWinProb:       p.Result.AwayWinProb,
		ExpectedHomeRuns:  p.Result.ExpectedHomeScore,
		ExpectedAwayRuns:  p.Result.ExpectedAwayScore,
		ExpectedTotalRuns: p.Result.ExpectedTotalRuns,
		Confidence:        p.Result.Confidence,
		Trials:            p.Result.Trials,
		Degraded:          p.Result.Degraded,
	}

	bets := make([]history.Bet, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		bets = append(bets, history.Bet{
			Market:       string(c.Market),
			Side:         c.Side,
			Line:         c.Line,
			AmericanOdds: c.AmericanOdds,
			ModelProb:    c.ModelProb,
			ImpliedProb:  c.ImpliedProb,
			Edge:         c.Edge,
			EV:           c.EV,
			KellyStake:   c.KellyStake,
			Confidence:   c.Confidence,
		})
	}
	return rec, bets
}

// persist writes each successful prediction, its bets, and any final score
// the slate carried to the history store.
func (e *Engine) persist(date string, preds []GamePrediction) error {
	for _, p := range preds {
		if p.Err != nil {
			continue
		}

		rec, bets := p.HistoryRecord(date)
		if _, err := e.store.SavePrediction(rec, bets); err != nil {
			return fmt.Errorf("saving prediction for %s: %w", p.Key, err)
		}

		if p.Game.Final != nil {
			final := history.Final{
				GameKey:  p.Key,
				HomeRuns: p.Game.Final.HomeRuns,
				AwayRuns: p.Game.Final.AwayRuns,
			}
			if err := e.store.RecordFinal(final); err != nil {
				return fmt.Errorf("recording final for %s: %w", p.Key, err)
			}
		}
	}
	return nil
}
