package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"mlb-sim-engine/internal/analysis"
	"mlb-sim-engine/internal/parkweather"
	"mlb-sim-engine/internal/simulation"
	"mlb-sim-engine/internal/slate"
)

// simulateAll fans the slate's games out to a bounded worker pool. Each
// result lands at its game's slate index, so output order is deterministic
// regardless of scheduling. Cancelling the context stops feeding new games;
// in-flight games finish and unstarted ones carry the context error.
func (e *Engine) simulateAll(ctx context.Context, s slate.Slate, masterSeed int64) []GamePrediction {
	out := make([]GamePrediction, len(s.Games))

	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(s.Games) {
		workers = len(s.Games)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = e.predictGame(s.Date, s.Games[i], masterSeed)
			}
		}()
	}

feed:
	for i := range s.Games {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range out {
			if out[i].Key == "" {
				out[i] = GamePrediction{
					Game: s.Games[i],
					Key:  GameKey(s.Date, s.Games[i].AwayTeam, s.Games[i].HomeTeam),
					Err:  err,
				}
			}
		}
	}

	return out
}

// predictGame simulates one game on its own deterministic RNG stream and
// evaluates the posted markets.
func (e *Engine) predictGame(date string, g slate.Game, masterSeed int64) GamePrediction {
	key := GameKey(date, g.AwayTeam, g.HomeTeam)
	pred := GamePrediction{Game: g, Key: key}

	rng := rand.New(rand.NewSource(gameSeed(masterSeed, key)))

	var homePitcher, awayPitcher *simulation.PitcherFactor
	if g.HomePitcher != nil {
		f := simulation.PitcherFactorFromStats(g.HomePitcher.Stats(), e.cfg.Model)
		homePitcher = &f
	}
	if g.AwayPitcher != nil {
		f := simulation.PitcherFactorFromStats(g.AwayPitcher.Stats(), e.cfg.Model)
		awayPitcher = &f
	}

	var homeBullpen, awayBullpen *simulation.BullpenFactor
	if g.HomeBullpen != nil {
		f := simulation.BullpenFactorFromStats(g.HomeBullpen.Stats(), e.cfg.Model)
		homeBullpen = &f
	}
	if g.AwayBullpen != nil {
		f := simulation.BullpenFactorFromStats(g.AwayBullpen.Stats(), e.cfg.Model)
		awayBullpen = &f
	}

	park := parkweather.Compute(g.HomeTeam, g.Weather.Observation(), e.cfg.Model.Bounds)

	start := time.Now()
	res, err := simulation.Simulate(g.HomeInputs(), g.AwayInputs(),
		homePitcher, awayPitcher, homeBullpen, awayBullpen, &park, e.cfg.Model, rng)
	if err != nil {
		e.tracker.SimulationFailed()
		slog.Error("Simulation failed", "game", key, "err", err)
		pred.Err = err
		return pred
	}
	e.tracker.ObserveSimulation(time.Since(start), res.Degraded)

	if res.Degraded {
		slog.Warn("Degraded simulation", "game", key, "missing", res.Fallbacks)
	}

	pred.Result = res
	pred.Candidates = analysis.FindValueBets(res, g.Odds.MarketLine(), e.cfg.Risk)

	slog.Debug("Simulated game",
		"game", key,
		"homeWinProb", res.HomeWinProb,
		"expectedTotal", res.ExpectedTotalRuns,
		"candidates", len(pred.Candidates))

	return pred
}
