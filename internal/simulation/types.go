// Package simulation implements the Monte Carlo game-outcome model: team,
// pitcher, bullpen and park/weather inputs in, a win-probability and score
// distribution out. It performs no I/O and keeps no state between calls.
package simulation

import "errors"

// ErrInvalidInput marks inputs the simulator refuses to run with: non-finite
// numbers, negatives where forbidden, or a non-positive trial count. Wrapped
// errors carry the offending field; callers test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// TeamGameInputs carries one team's offensive profile for a single game.
// Supplied fresh per game date; never mutated by the simulator.
type TeamGameInputs struct {
	Team            string
	BaseRunsPerGame float64 // Season scoring rate; 0 means unknown, league average is substituted
	Strength        float64 // Bounded rating, clamped to the team_strength bounds
	RecentForm      float64 // Additive hot/cold adjustment from recent record
}

// PitcherFactor is a starter's run-suppression multiplier applied to the
// opposing lineup. 1.0 is league average, below 1.0 suppresses opponent
// scoring, above 1.0 inflates it.
type PitcherFactor struct {
	Name  string
	Value float64
}

// BullpenFactor is a relief-corps quality factor. Unlike PitcherFactor the
// scale is quality-up: above 1.0 is a strong pen. The simulator applies its
// reciprocal, damped by the configured bullpen weight, so a strong pen
// suppresses opponent scoring for the fraction of the game it covers.
type BullpenFactor struct {
	Value float64
}

// ParkWeatherFactor is the run-environment multiplier for the home stadium
// on the game date. Combined is what the simulator applies; Park and Weather
// are retained for reporting. Domes always carry Weather == 1.0.
type ParkWeatherFactor struct {
	Park     float64
	Weather  float64
	Combined float64
	Dome     bool
}

// PitcherStats are the raw starter numbers a pitcher factor is derived from.
type PitcherStats struct {
	Name           string
	ERA            float64
	WHIP           float64
	InningsPitched float64
	GamesStarted   int
}

// BullpenStats are the raw relief-corps numbers a bullpen factor is derived
// from.
type BullpenStats struct {
	ERA               float64
	WHIP              float64
	Saves             int
	SaveOpportunities int
}

// AppliedFactors records the post-clamp, post-fallback values the simulator
// actually used, so callers and tests can see what a degraded or clamped run
// was computed from.
type AppliedFactors struct {
	HomePitcher float64 // applied to away scoring
	AwayPitcher float64 // applied to home scoring
	HomeBullpen float64
	AwayBullpen float64
	ParkWeather float64
	HomeLambda  float64 // final pre-chaos expected runs
	AwayLambda  float64
}

// Band is a central interval of a simulated quantity, reported as the 10th
// and 90th percentile of the trial distribution.
type Band struct {
	Low  float64
	High float64
}

// Result is the output of one simulator invocation. Constructed fresh per
// call, immutable afterwards, never persisted by the simulator itself.
type Result struct {
	HomeTeam string
	AwayTeam string

	// HomeWinProb + AwayWinProb always equals exactly 1.0, and neither is
	// ever exactly 0 or 1: the estimate is clamped by half a trial.
	HomeWinProb float64
	AwayWinProb float64

	// Confidence is the simulator's conviction in the likelier winner,
	// max(HomeWinProb, AwayWinProb).
	Confidence float64

	ExpectedHomeScore float64
	ExpectedAwayScore float64
	ExpectedTotalRuns float64

	HomeScoreBand Band
	AwayScoreBand Band
	TotalBand     Band

	// TotalRuns retains the empirical total-runs distribution for
	// over/under edge calculation downstream.
	TotalRuns RunDistribution

	Factors AppliedFactors

	// Degraded is set when any optional input was missing and a neutral
	// default was substituted; Fallbacks names each substitution.
	Degraded  bool
	Fallbacks []string

	Trials int
}

// RoundedHomeScore is the display form of the expected home score. The
// simulation itself always runs on the unrounded values.
func (r Result) RoundedHomeScore() float64 { return round1(r.ExpectedHomeScore) }

// RoundedAwayScore is the display form of the expected away score.
func (r Result) RoundedAwayScore() float64 { return round1(r.ExpectedAwayScore) }

// RoundedTotal is the display form of the expected total runs.
func (r Result) RoundedTotal() float64 { return round1(r.ExpectedTotalRuns) }

func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}
