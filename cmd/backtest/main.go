package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/engine"
	"mlb-sim-engine/internal/history"
	"mlb-sim-engine/internal/report"
	"mlb-sim-engine/internal/slate"
)

func main() {
	slatePath := flag.String("slate", "", "historical slate JSON with final scores")
	persist := flag.Bool("persist", false, "also write predictions and finals to the history store")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *slatePath != "" {
		cfg.SlatePath = *slatePath
	}
	if cfg.SlatePath == "" {
		log.Fatal("No slate file: pass -slate or set MLBSIM_SLATE_PATH")
	}
	setupLogging(cfg.LogLevel)

	s, err := slate.Load(cfg.SlatePath)
	if err != nil {
		slog.Error("Loading slate", "err", err)
		os.Exit(1)
	}

	withFinals := 0
	for _, g := range s.Games {
		if g.Final != nil {
			withFinals++
		}
	}
	if withFinals == 0 {
		slog.Error("Slate has no final scores to grade against", "path", cfg.SlatePath)
		os.Exit(1)
	}

	var store *history.Store
	if *persist {
		store, err = history.Open(cfg.DBPath)
		if err != nil {
			slog.Error("Opening history store", "path", cfg.DBPath, "err", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, stopping...")
		cancel()
	}()

	eng := engine.New(cfg, store, nil)
	run, err := eng.RunSlate(ctx, s)
	if err != nil {
		slog.Error("Slate run failed", "err", err)
		os.Exit(1)
	}

	renderer := report.New(os.Stdout)
	renderer.SlateReport(run)

	var graded []history.GradedGame
	for _, p := range run.Predictions {
		if p.Err != nil || p.Game.Final == nil {
			continue
		}
		rec, bets := p.HistoryRecord(run.Date)
		final := history.Final{
			GameKey:  p.Key,
			HomeRuns: p.Game.Final.HomeRuns,
			AwayRuns: p.Game.Final.AwayRuns,
		}
		graded = append(graded, history.Grade(rec, bets, final))
	}

	slog.Info("Grading backtest", "graded", len(graded), "ungraded", len(run.Predictions)-len(graded))

	fmt.Println()
	renderer.PerformanceReport(history.Summarize(graded))
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
