package simulation

import (
	"math"

	"mlb-sim-engine/internal/mathutil"
)

// RunDistribution is the empirical distribution of a simulated run count,
// kept as per-value trial counts plus summary statistics. When only the
// summary survives (Counts nil, e.g. a record loaded back from storage) the
// probability methods fall back to a continuity-corrected normal
// approximation.
type RunDistribution struct {
	Counts []int // Counts[k] = trials that produced exactly k runs
	Trials int
	Mean   float64
	StdDev float64
}

func newRunDistribution(counts []int, trials int) RunDistribution {
	if trials == 0 {
		return RunDistribution{Counts: counts}
	}

	var sum, sumSq float64
	for k, c := range counts {
		v := float64(k) * float64(c)
		sum += v
		sumSq += float64(k) * v
	}
	mean := sum / float64(trials)
	variance := sumSq/float64(trials) - mean*mean
	if variance < 0 {
		variance = 0
	}

	return RunDistribution{
		Counts: counts,
		Trials: trials,
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
}

// ProbOver returns P(runs > line). On an integer line the push outcome
// (runs == line) counts in neither direction, so ProbOver and ProbUnder
// need not sum to 1 there.
func (d RunDistribution) ProbOver(line float64) float64 {
	if d.Trials == 0 {
		return 0
	}

	if d.Counts == nil {
		return 1 - d.normalCDFBelow(math.Floor(line)+0.5)
	}

	over := 0
	for k, c := range d.Counts {
		if float64(k) > line {
			over += c
		}
	}
	return float64(over) / float64(d.Trials)
}

// ProbUnder returns P(runs < line).
func (d RunDistribution) ProbUnder(line float64) float64 {
	if d.Trials == 0 {
		return 0
	}

	if d.Counts == nil {
		return d.normalCDFBelow(math.Ceil(line) - 0.5)
	}

	under := 0
	for k, c := range d.Counts {
		if float64(k) < line {
			under += c
		}
	}
	return float64(under) / float64(d.Trials)
}

// Percentile returns the smallest run count with at least fraction p of
// trials at or below it. p outside (0, 1) clamps to the distribution edges.
func (d RunDistribution) Percentile(p float64) float64 {
	if d.Trials == 0 {
		return 0
	}

	if d.Counts == nil {
		return d.Mean + mathutil.NormalInvCDF(p)*d.StdDev
	}

	target := p * float64(d.Trials)
	cum := 0
	last := 0
	for k, c := range d.Counts {
		if c == 0 {
			continue
		}
		cum += c
		last = k
		if float64(cum) >= target {
			return float64(k)
		}
	}
	return float64(last)
}

// normalCDFBelow evaluates the summary-statistics fallback at a continuity
// boundary.
func (d RunDistribution) normalCDFBelow(x float64) float64 {
	if d.StdDev == 0 {
		if d.Mean <= x {
			return 1
		}
		return 0
	}
	return mathutil.NormalCDF((x - d.Mean) / d.StdDev)
}

// Summary strips the per-value counts, leaving only the sufficient
// statistics. Storage writes summaries; the probability methods keep working
// through the normal fallback.
func (d RunDistribution) Summary() RunDistribution {
	return RunDistribution{Trials: d.Trials, Mean: d.Mean, StdDev: d.StdDev}
}
