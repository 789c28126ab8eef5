package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"mlb-sim-engine/internal/calibration"
	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/history"
)

func main() {
	out := flag.String("out", "", "write the fitted model YAML here (default stdout)")
	rate := flag.Float64("rate", 0, "override the scoring learning rate")
	minGames := flag.Int("min-games", 0, "override the minimum graded sample size")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	setupLogging(cfg.LogLevel)

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		slog.Error("Opening history store", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	games, err := store.GradedGames()
	if err != nil {
		slog.Error("Loading graded games", "err", err)
		os.Exit(1)
	}

	opts := calibration.DefaultOptions()
	if *rate > 0 {
		opts.LearningRate = *rate
	}
	if *minGames > 0 {
		opts.MinGames = *minGames
	}

	fit, err := calibration.Calibrate(games, cfg.Model, opts)
	if errors.Is(err, calibration.ErrInsufficientData) {
		slog.Error("Not enough graded history; predict more slates and record finals first", "err", err)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Calibration failed", "err", err)
		os.Exit(1)
	}

	slog.Info("Calibrated model", "games", fit.Games, "learning_rate", opts.LearningRate)
	for _, c := range fit.Changes {
		slog.Info("Parameter step",
			"name", c.Name, "before", c.Before, "after", c.After, "observed", c.Observed)
	}

	// YAML goes to stdout unless -out names a file, so the fit can be piped
	// straight into a config fragment.
	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("Creating output file", "path", *out, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := calibration.WriteModel(w, fit.Model); err != nil {
		slog.Error("Writing model", "err", err)
		os.Exit(1)
	}
	if *out != "" {
		slog.Info("Wrote fitted model", "path", *out)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
