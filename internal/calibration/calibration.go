// Package calibration refits the model's scoring-bias parameters against
// graded history. Each pass takes one damped step per parameter toward the
// observed residual, so repeated predict/grade/calibrate cycles converge
// without overshooting on a noisy sample.
package calibration

import (
	"errors"
	"fmt"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/history"
	"mlb-sim-engine/internal/mathutil"
)

// Parameter clamps. A fit never moves a parameter outside these, whatever
// the residuals say.
const (
	minScoringBoost  = 0.85
	maxScoringBoost  = 1.15
	minHomeAdvantage = 0.0
	maxHomeAdvantage = 0.20
)

// ErrInsufficientData is returned when too few graded games exist to fit.
var ErrInsufficientData = errors.New("not enough graded games")

// Options control a calibration pass.
type Options struct {
	// LearningRate damps each scoring-ratio step: 1.0 jumps straight to the
	// observed ratio, smaller values move part way there.
	LearningRate float64

	// AdvantageRate converts home-win-rate residual into a home-field
	// advantage step.
	AdvantageRate float64

	// MinGames is the smallest graded sample a fit will run on.
	MinGames int
}

// DefaultOptions returns the standard fit parameters.
func DefaultOptions() Options {
	return Options{LearningRate: 0.25, AdvantageRate: 0.5, MinGames: 20}
}

// Change records one parameter's movement in a fit.
type Change struct {
	Name     string
	Before   float64
	After    float64
	Observed float64 // The raw ratio or residual that drove the step
}

// Fit is the outcome of one calibration pass.
type Fit struct {
	Games   int
	Model   config.ModelConfig
	Changes []Change
}

// Calibrate fits TotalScoringAdjustment, HomeScoringBoost, AwayScoringBoost
// and HomeFieldAdvantage against graded games and returns the updated model.
// The shared run environment moves on the total-runs ratio; the per-side
// boosts absorb only what remains after that shared correction, so the two
// never double-count the same bias.
func Calibrate(games []history.GradedGame, model config.ModelConfig, opts Options) (Fit, error) {
	if opts.MinGames < 1 {
		opts.MinGames = 1
	}

	var (
		n                             int
		predHome, predAway, predTotal float64
		actHome, actAway, actTotal    float64
		predHomeWin, actHomeWin       float64
	)
	for _, g := range games {
		p, f := g.Prediction, g.Final
		if p.ExpectedHomeRuns <= 0 || p.ExpectedAwayRuns <= 0 {
			continue
		}
		n++
		predHome += p.ExpectedHomeRuns
		predAway += p.ExpectedAwayRuns
		predTotal += p.ExpectedTotalRuns
		actHome += float64(f.HomeRuns)
		actAway += float64(f.AwayRuns)
		actTotal += float64(f.HomeRuns + f.AwayRuns)
		predHomeWin += p.HomeWinProb
		if f.HomeRuns > f.AwayRuns {
			actHomeWin++
		}
	}

	if n < opts.MinGames {
		return Fit{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, n, opts.MinGames)
	}

	totalRatio := actTotal / predTotal
	homeRatio := (actHome / predHome) / totalRatio
	awayRatio := (actAway / predAway) / totalRatio
	winResidual := (actHomeWin - predHomeWin) / float64(n)

	fit := Fit{Games: n, Model: model}
	fit.Model.TotalScoringAdjustment = step(model.TotalScoringAdjustment, totalRatio, opts.LearningRate)
	fit.Model.HomeScoringBoost = step(model.HomeScoringBoost, homeRatio, opts.LearningRate)
	fit.Model.AwayScoringBoost = step(model.AwayScoringBoost, awayRatio, opts.LearningRate)
	fit.Model.HomeFieldAdvantage = mathutil.Clamp(
		model.HomeFieldAdvantage+opts.AdvantageRate*winResidual,
		minHomeAdvantage, maxHomeAdvantage)

	fit.Changes = []Change{
		{Name: "total_scoring_adjustment", Before: model.TotalScoringAdjustment, After: fit.Model.TotalScoringAdjustment, Observed: totalRatio},
		{Name: "home_scoring_boost", Before: model.HomeScoringBoost, After: fit.Model.HomeScoringBoost, Observed: homeRatio},
		{Name: "away_scoring_boost", Before: model.AwayScoringBoost, After: fit.Model.AwayScoringBoost, Observed: awayRatio},
		{Name: "home_field_advantage", Before: model.HomeFieldAdvantage, After: fit.Model.HomeFieldAdvantage, Observed: winResidual},
	}

	return fit, nil
}

// step moves a multiplicative parameter part way toward its observed ratio.
func step(current, ratio, rate float64) float64 {
	return mathutil.Clamp(current*(1.0+rate*(ratio-1.0)), minScoringBoost, maxScoringBoost)
}
