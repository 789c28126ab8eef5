package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackerRecords(t *testing.T) {
	tr := New()

	tr.ObserveSimulation(2*time.Millisecond, false)
	tr.ObserveSimulation(3*time.Millisecond, true)
	tr.SimulationFailed()
	tr.AddCandidates("moneyline", 2)
	tr.AddCandidates("total", 1)
	tr.AddCandidates("total", 0) // no-op
	tr.SlateCompleted(12)

	if got := testutil.ToFloat64(tr.gamesSimulated); got != 2 {
		t.Errorf("games simulated = %v, want 2", got)
	}
	if got := testutil.ToFloat64(tr.degradedResults); got != 1 {
		t.Errorf("degraded results = %v, want 1", got)
	}
	if got := testutil.ToFloat64(tr.simulationErrors); got != 1 {
		t.Errorf("simulation errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(tr.candidatesFound.WithLabelValues("moneyline")); got != 2 {
		t.Errorf("moneyline candidates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(tr.candidatesFound.WithLabelValues("total")); got != 1 {
		t.Errorf("total candidates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(tr.slateGames); got != 12 {
		t.Errorf("slate games = %v, want 12", got)
	}
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker

	tr.ObserveSimulation(time.Millisecond, true)
	tr.SimulationFailed()
	tr.AddCandidates("moneyline", 3)
	tr.SlateCompleted(5)

	if tr.Handler() == nil {
		t.Error("nil tracker should still serve a handler")
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	tr := New()
	tr.SlateCompleted(3)

	families, err := tr.registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "mlbsim_slate_runs_total" {
			found = true
		}
	}
	if !found {
		t.Error("slate_runs_total not registered")
	}
}
