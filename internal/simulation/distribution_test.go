package simulation

import (
	"math"
	"testing"
)

// Fixture: 10 trials landing on 6 (x2), 7 (x3), 8 (x3), 9 (x2).
// Mean 7.5, variance 1.05.
func fixtureDistribution() RunDistribution {
	counts := make([]int, 11)
	counts[6] = 2
	counts[7] = 3
	counts[8] = 3
	counts[9] = 2
	return newRunDistribution(counts, 10)
}

func TestNewRunDistributionMoments(t *testing.T) {
	d := fixtureDistribution()
	if d.Trials != 10 {
		t.Errorf("trials = %d, want 10", d.Trials)
	}
	if math.Abs(d.Mean-7.5) > 1e-12 {
		t.Errorf("mean = %v, want 7.5", d.Mean)
	}
	if want := math.Sqrt(1.05); math.Abs(d.StdDev-want) > 1e-12 {
		t.Errorf("stddev = %v, want %v", d.StdDev, want)
	}
}

func TestRunDistributionProbOverUnder(t *testing.T) {
	d := fixtureDistribution()

	tests := []struct {
		name      string
		line      float64
		wantOver  float64
		wantUnder float64
	}{
		{"half line splits cleanly", 8.5, 0.2, 0.8},
		{"integer line excludes pushes", 8.0, 0.2, 0.5},
		{"below support", 5.5, 1.0, 0.0},
		{"above support", 9.5, 0.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.ProbOver(tt.line); math.Abs(got-tt.wantOver) > 1e-12 {
				t.Errorf("ProbOver(%v) = %v, want %v", tt.line, got, tt.wantOver)
			}
			if got := d.ProbUnder(tt.line); math.Abs(got-tt.wantUnder) > 1e-12 {
				t.Errorf("ProbUnder(%v) = %v, want %v", tt.line, got, tt.wantUnder)
			}
		})
	}
}

func TestRunDistributionPercentile(t *testing.T) {
	d := fixtureDistribution()

	tests := []struct {
		p    float64
		want float64
	}{
		{0.10, 6},
		{0.50, 7},
		{0.90, 9},
		{1.00, 9},
	}

	for _, tt := range tests {
		if got := d.Percentile(tt.p); got != tt.want {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRunDistributionSummaryFallback(t *testing.T) {
	s := fixtureDistribution().Summary()
	if s.Counts != nil {
		t.Fatal("summary should drop per-value counts")
	}

	// At the mean the continuity-corrected normal is exactly one half.
	if got := s.ProbOver(7.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("ProbOver(7.5) = %v, want 0.5", got)
	}
	if got := s.ProbUnder(7.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("ProbUnder(7.5) = %v, want 0.5", got)
	}
	if got := s.Percentile(0.5); math.Abs(got-7.5) > 1e-12 {
		t.Errorf("Percentile(0.5) = %v, want mean 7.5", got)
	}

	// Far tails behave monotonically and stay inside (0, 1).
	lowTail := s.ProbOver(10.5)
	highTail := s.ProbOver(5.5)
	if lowTail <= 0 || highTail >= 1 || lowTail >= highTail {
		t.Errorf("tail probs ProbOver(10.5)=%v ProbOver(5.5)=%v out of order", lowTail, highTail)
	}

	// Fallback should approximate the empirical distribution it came from.
	if got := s.ProbOver(8.5); math.Abs(got-0.2) > 0.1 {
		t.Errorf("ProbOver(8.5) fallback = %v, want near empirical 0.2", got)
	}
}

func TestRunDistributionDegenerate(t *testing.T) {
	var empty RunDistribution
	if got := empty.ProbOver(7.5); got != 0 {
		t.Errorf("empty ProbOver = %v, want 0", got)
	}
	if got := empty.Percentile(0.9); got != 0 {
		t.Errorf("empty Percentile = %v, want 0", got)
	}

	// Zero spread collapses to a step function.
	point := RunDistribution{Trials: 100, Mean: 8, StdDev: 0}
	if got := point.ProbOver(8.5); got != 0 {
		t.Errorf("ProbOver above a point mass = %v, want 0", got)
	}
	if got := point.ProbOver(7.5); got != 1 {
		t.Errorf("ProbOver below a point mass = %v, want 1", got)
	}
	if got := point.ProbUnder(8.5); got != 1 {
		t.Errorf("ProbUnder above a point mass = %v, want 1", got)
	}
}
