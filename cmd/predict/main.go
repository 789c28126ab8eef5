package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/engine"
	"mlb-sim-engine/internal/history"
	"mlb-sim-engine/internal/metrics"
	"mlb-sim-engine/internal/report"
	"mlb-sim-engine/internal/slate"
)

func main() {
	slatePath := flag.String("slate", "", "slate JSON file (overrides MLBSIM_SLATE_PATH)")
	watch := flag.Bool("watch", false, "keep running and re-predict whenever the slate file changes")
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

	var store *history.Store
	if cfg.DBPath != "" {
		store, err = history.Open(cfg.DBPath)
		if err != nil {
			slog.Warn("History disabled", "path", cfg.DBPath, "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	var tracker *metrics.Tracker
	if cfg.MetricsEnabled {
		tracker = metrics.New()
	}

	eng := engine.New(cfg, store, tracker)
	renderer := report.New(os.Stdout)

	// Graceful shutdown: first signal cancels the run, letting in-flight
	// games finish and partial output render.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, stopping...")
		cancel()
	}()

	if *watch {
		go startHealthServer(cfg.Port, tracker)
		runWatch(ctx, cfg, eng, renderer)
		return
	}

	if err := runOnce(ctx, cfg.SlatePath, eng, renderer); err != nil {
		slog.Error("Slate run failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func runOnce(ctx context.Context, path string, eng *engine.Engine, r *report.Renderer) error {
	s, err := slate.Load(path)
	if err != nil {
		return err
	}

	run, err := eng.RunSlate(ctx, s)
	if err != nil {
		return err
	}

	r.SlateReport(run)
	return nil
}

// runWatch re-reads the slate whenever its mtime advances, so an external
// collector can keep dropping updated odds into the same file.
func runWatch(ctx context.Context, cfg config.Config, eng *engine.Engine, r *report.Renderer) {
	var lastMod time.Time
	runIfChanged := func() {
		info, err := os.Stat(cfg.SlatePath)
		if err != nil {
			slog.Error("Reading slate file", "path", cfg.SlatePath, "err", err)
			return
		}
		if !info.ModTime().After(lastMod) {
			return
		}
		lastMod = info.ModTime()

		if err := runOnce(ctx, cfg.SlatePath, eng, r); err != nil {
			slog.Error("Slate run failed", "err", err)
		}
	}

	slog.Info("Watching slate", "path", cfg.SlatePath, "interval", cfg.PollInterval)
	runIfChanged()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return
		case <-ticker.C:
			runIfChanged()
		}
	}
}

func startHealthServer(port string, tracker *metrics.Tracker) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", tracker.Handler())

	addr := ":" + port
	slog.Info("Health server listening", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Health server error", "err", err)
	}
}
