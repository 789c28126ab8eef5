// Package metrics exposes Prometheus instrumentation for the prediction
// pipeline. A nil *Tracker is valid and records nothing, so callers never
// branch on whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mlbsim"

// Tracker holds the pipeline's metrics on a private registry, constructed
// and passed in explicitly rather than living in package state.
type Tracker struct {
	registry *prometheus.Registry

	gamesSimulated   prometheus.Counter
	degradedResults  prometheus.Counter
	simulationErrors prometheus.Counter
	simulationTime   prometheus.Histogram
	candidatesFound  *prometheus.CounterVec
	slateRuns        prometheus.Counter
	slateGames       prometheus.Gauge
}

// New creates a Tracker with its own registry.
func New() *Tracker {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Tracker{
		registry: reg,
		gamesSimulated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_simulated_total",
			Help:      "Total number of games simulated",
		}),
		degradedResults: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_results_total",
			Help:      "Simulations that substituted a neutral fallback for missing inputs",
		}),
		simulationErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_errors_total",
			Help:      "Games that could not be simulated",
		}),
		simulationTime: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of a single game simulation",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		candidatesFound: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_found_total",
			Help:      "Value-bet candidates emitted, by market",
		}, []string{"market"}),
		slateRuns: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slate_runs_total",
			Help:      "Completed slate prediction passes",
		}),
		slateGames: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slate_games",
			Help:      "Games in the most recent slate",
		}),
	}
}

// ObserveSimulation records one completed game simulation.
func (t *Tracker) ObserveSimulation(d time.Duration, degraded bool) {
	if t == nil {
		return
	}
	t.gamesSimulated.Inc()
	t.simulationTime.Observe(d.Seconds())
	if degraded {
		t.degradedResults.Inc()
	}
}

// SimulationFailed records a game the simulator rejected.
func (t *Tracker) SimulationFailed() {
	if t == nil {
		return
	}
	t.simulationErrors.Inc()
}

// AddCandidates records emitted candidates for a market.
func (t *Tracker) AddCandidates(market string, n int) {
	if t == nil || n == 0 {
		return
	}
	t.candidatesFound.WithLabelValues(market).Add(float64(n))
}

// SlateCompleted records one full slate pass.
func (t *Tracker) SlateCompleted(games int) {
	if t == nil {
		return
	}
	t.slateRuns.Inc()
	t.slateGames.Set(float64(games))
}

// Handler serves the tracker's registry for scraping. A nil Tracker serves
// an empty registry so the route can be mounted unconditionally.
func (t *Tracker) Handler() http.Handler {
	if t == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
