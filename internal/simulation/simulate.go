package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"mlb-sim-engine/internal/config"
	"mlb-sim-engine/internal/mathutil"
)

// Simulate runs cfg.SimulationCount Monte Carlo trials of a single game and
// aggregates them into a Result.
//
// Each team's expected runs come from its base scoring rate times a run
// multiplier built from the strength differential, the opposing starter and
// bullpen, the park/weather environment, and the calibrated bias boosts,
// clamped to the run-multiplier bounds. Every trial then draws a shared
// chaos factor, samples Poisson run totals for both teams, and resolves ties
// through extra innings so no trial ever ends level.
//
// Missing optional factors degrade to neutral 1.0 and are recorded on the
// Result; invalid numeric inputs fail fast with ErrInvalidInput. The trial
// loop is sequential, so a fixed-seed rng reproduces the Result bit for bit.
func Simulate(home, away TeamGameInputs, homePitcher, awayPitcher *PitcherFactor,
	homeBullpen, awayBullpen *BullpenFactor, parkWeather *ParkWeatherFactor,
	cfg config.ModelConfig, rng *rand.Rand) (Result, error) {

	if rng == nil {
		return Result{}, fmt.Errorf("random source must not be nil: %w", ErrInvalidInput)
	}
	if cfg.SimulationCount <= 0 {
		return Result{}, fmt.Errorf("simulation_count must be positive, got %d: %w",
			cfg.SimulationCount, ErrInvalidInput)
	}
	if err := checkTeamInputs("home", home); err != nil {
		return Result{}, err
	}
	if err := checkTeamInputs("away", away); err != nil {
		return Result{}, err
	}

	b := cfg.Bounds
	var fallbacks []string

	// Resolve each optional factor: substitute neutral 1.0 when absent,
	// reject non-finite values, clamp everything else to its bounds.
	resolve := func(name string, raw float64, present bool, lo, hi float64) (float64, error) {
		if !present {
			fallbacks = append(fallbacks, name)
			return 1.0, nil
		}
		if !isFinite(raw) {
			return 0, fmt.Errorf("%s must be finite, got %f: %w", name, raw, ErrInvalidInput)
		}
		return mathutil.Clamp(raw, lo, hi), nil
	}

	var factors AppliedFactors
	var err error

	raw, ok := pitcherValue(homePitcher)
	if factors.HomePitcher, err = resolve("home_pitcher_factor", raw, ok, b.PitcherFactorMin, b.PitcherFactorMax); err != nil {
		return Result{}, err
	}
	raw, ok = pitcherValue(awayPitcher)
	if factors.AwayPitcher, err = resolve("away_pitcher_factor", raw, ok, b.PitcherFactorMin, b.PitcherFactorMax); err != nil {
		return Result{}, err
	}
	raw, ok = bullpenValue(homeBullpen)
	if factors.HomeBullpen, err = resolve("home_bullpen_factor", raw, ok, b.BullpenFactorMin, b.BullpenFactorMax); err != nil {
		return Result{}, err
	}
	raw, ok = bullpenValue(awayBullpen)
	if factors.AwayBullpen, err = resolve("away_bullpen_factor", raw, ok, b.BullpenFactorMin, b.BullpenFactorMax); err != nil {
		return Result{}, err
	}
	raw, ok = parkWeatherValue(parkWeather)
	if factors.ParkWeather, err = resolve("park_weather_factor", raw, ok, b.ParkWeatherMin, b.ParkWeatherMax); err != nil {
		return Result{}, err
	}

	homeBase := home.BaseRunsPerGame
	if homeBase == 0 {
		homeBase = cfg.BaseRunsPerGame
		fallbacks = append(fallbacks, "home_base_runs")
	}
	awayBase := away.BaseRunsPerGame
	if awayBase == 0 {
		awayBase = cfg.BaseRunsPerGame
		fallbacks = append(fallbacks, "away_base_runs")
	}

	homeStrength := mathutil.Clamp(home.Strength, b.TeamStrengthMin, b.TeamStrengthMax)
	awayStrength := mathutil.Clamp(away.Strength, b.TeamStrengthMin, b.TeamStrengthMax)

	diff := (homeStrength + home.RecentForm + cfg.HomeFieldAdvantage) -
		(awayStrength + away.RecentForm + cfg.AwayFieldBoost)

	homeMult := 1.0 + diff*cfg.TeamStrengthMultiplier
	awayMult := 1.0 - diff*cfg.TeamStrengthMultiplier

	// A team faces the opposing starter and the opposing pen.
	homeMult *= factors.AwayPitcher
	awayMult *= factors.HomePitcher
	homeMult *= bullpenBlend(factors.AwayBullpen, cfg.BullpenWeight)
	awayMult *= bullpenBlend(factors.HomeBullpen, cfg.BullpenWeight)

	// Run environment hits both lineups equally.
	homeMult *= factors.ParkWeather
	awayMult *= factors.ParkWeather

	homeMult *= cfg.HomeScoringBoost * cfg.TotalScoringAdjustment
	awayMult *= cfg.AwayScoringBoost * cfg.TotalScoringAdjustment

	homeMult = mathutil.Clamp(homeMult, b.RunMultiplierMin, b.RunMultiplierMax)
	awayMult = mathutil.Clamp(awayMult, b.RunMultiplierMin, b.RunMultiplierMax)

	factors.HomeLambda = homeBase * homeMult
	factors.AwayLambda = awayBase * awayMult

	trials := cfg.SimulationCount
	maxRuns := cfg.MaxRunsPerTeam

	// Extra innings can push a team past the per-team cap by at most one
	// run per extra inning plus the final tiebreak run.
	scoreCap := maxRuns + cfg.ExtraInningsCap + 1
	homeCounts := make([]int, scoreCap+1)
	awayCounts := make([]int, scoreCap+1)
	totalCounts := make([]int, 2*scoreCap+1)

	var homeSum, awaySum float64
	homeWins := 0

	for i := 0; i < trials; i++ {
		chaos := mathutil.Clamp(1.0+rng.NormFloat64()*cfg.ChaosVariance, b.ChaosMin, b.ChaosMax)

		a := mathutil.PoissonSample(rng, factors.AwayLambda*chaos)
		h := mathutil.PoissonSample(rng, factors.HomeLambda*chaos)
		if a > maxRuns {
			a = maxRuns
		}
		if h > maxRuns {
			h = maxRuns
		}

		if h == a {
			h, a = playExtraInnings(rng, h, a, cfg)
		}

		homeCounts[h]++
		awayCounts[a]++
		totalCounts[h+a]++
		homeSum += float64(h)
		awaySum += float64(a)
		if h > a {
			homeWins++
		}
	}

	// Never report certainty: a finite simulation cannot distinguish a
	// 100% sweep from a probability just above 1 - 1/trials.
	minProb := 0.5 / float64(trials)
	homeWinProb := mathutil.Clamp(float64(homeWins)/float64(trials), minProb, 1-minProb)
	awayWinProb := 1 - homeWinProb

	homeDist := newRunDistribution(homeCounts, trials)
	awayDist := newRunDistribution(awayCounts, trials)
	totalDist := newRunDistribution(totalCounts, trials)

	return Result{
		HomeTeam:          home.Team,
		AwayTeam:          away.Team,
		HomeWinProb:       homeWinProb,
		AwayWinProb:       awayWinProb,
		Confidence:        math.Max(homeWinProb, awayWinProb),
		ExpectedHomeScore: homeSum / float64(trials),
		ExpectedAwayScore: awaySum / float64(trials),
		ExpectedTotalRuns: (homeSum + awaySum) / float64(trials),
		HomeScoreBand:     Band{Low: homeDist.Percentile(0.10), High: homeDist.Percentile(0.90)},
		AwayScoreBand:     Band{Low: awayDist.Percentile(0.10), High: awayDist.Percentile(0.90)},
		TotalBand:         Band{Low: totalDist.Percentile(0.10), High: totalDist.Percentile(0.90)},
		TotalRuns:         totalDist,
		Factors:           factors,
		Degraded:          len(fallbacks) > 0,
		Fallbacks:         fallbacks,
		Trials:            trials,
	}, nil
}

// playExtraInnings breaks a tie. The visitors bat first each inning; if the
// game is still level after the inning cap, a single tiebreak run settles it.
func playExtraInnings(rng *rand.Rand, home, away int, cfg config.ModelConfig) (int, int) {
	for inning := 0; inning < cfg.ExtraInningsCap && home == away; inning++ {
		if rng.Float64() < cfg.ExtraInningScoreProb {
			away++
		}
		if rng.Float64() < cfg.ExtraInningScoreProb {
			home++
		}
	}

	if home == away {
		if rng.Float64() < 0.5 {
			away++
		} else {
			home++
		}
	}

	return home, away
}

func checkTeamInputs(role string, in TeamGameInputs) error {
	if !isFinite(in.BaseRunsPerGame) || !isFinite(in.Strength) || !isFinite(in.RecentForm) {
		return fmt.Errorf("%s team inputs must be finite: %w", role, ErrInvalidInput)
	}
	if in.BaseRunsPerGame < 0 {
		return fmt.Errorf("%s base runs per game must not be negative, got %f: %w",
			role, in.BaseRunsPerGame, ErrInvalidInput)
	}
	return nil
}

// Zero-valued factors are treated the same as absent ones: a real quality
// factor can never be 0, so a zero means the upstream record was empty.
func pitcherValue(f *PitcherFactor) (float64, bool) {
	if f == nil || f.Value == 0 {
		return 0, false
	}
	return f.Value, true
}

func bullpenValue(f *BullpenFactor) (float64, bool) {
	if f == nil || f.Value == 0 {
		return 0, false
	}
	return f.Value, true
}

func parkWeatherValue(f *ParkWeatherFactor) (float64, bool) {
	if f == nil || f.Combined == 0 {
		return 0, false
	}
	return f.Combined, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
