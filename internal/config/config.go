package config

import (
	"fmt"
	"math"
	"time"
)

// Defaults for app-level settings.
const (
	DefaultDBPath       = "data/predictions.db"
	DefaultPort         = "8080"
	DefaultLogLevel     = "info"
	DefaultPollInterval = 15 * time.Minute
	DefaultWorkers      = 4
)

// Simulation count presets. Fast is for quick slate passes, Stable for
// published predictions, HighPrecision for calibration runs.
const (
	SimCountFast          = 1000
	SimCountDefault       = 2000
	SimCountStable        = 5000
	SimCountHighPrecision = 10000
)

// Bounds is the authoritative clamp table for every model factor. All
// clamping anywhere in the pipeline reads from here. The yaml tags mirror
// the koanf keys so a calibrated model section round-trips through Load.
type Bounds struct {
	PitcherFactorMin float64 `koanf:"pitcher_factor_min" yaml:"pitcher_factor_min"`
	PitcherFactorMax float64 `koanf:"pitcher_factor_max" yaml:"pitcher_factor_max"`
	BullpenFactorMin float64 `koanf:"bullpen_factor_min" yaml:"bullpen_factor_min"`
	BullpenFactorMax float64 `koanf:"bullpen_factor_max" yaml:"bullpen_factor_max"`
	ParkWeatherMin   float64 `koanf:"park_weather_min" yaml:"park_weather_min"`
	ParkWeatherMax   float64 `koanf:"park_weather_max" yaml:"park_weather_max"`
	ChaosMin         float64 `koanf:"chaos_min" yaml:"chaos_min"`
	ChaosMax         float64 `koanf:"chaos_max" yaml:"chaos_max"`
	RunMultiplierMin float64 `koanf:"run_multiplier_min" yaml:"run_multiplier_min"`
	RunMultiplierMax float64 `koanf:"run_multiplier_max" yaml:"run_multiplier_max"`
	TeamStrengthMin  float64 `koanf:"team_strength_min" yaml:"team_strength_min"`
	TeamStrengthMax  float64 `koanf:"team_strength_max" yaml:"team_strength_max"`
}

// ModelConfig holds every tunable scalar of the simulation model. It is an
// immutable value object: loaded once, passed by value, never written back.
type ModelConfig struct {
	// Strength-differential terms. HomeFieldAdvantage and AwayFieldBoost are
	// additive ratings, TeamStrengthMultiplier converts the differential into
	// a run multiplier.
	HomeFieldAdvantage     float64 `koanf:"home_field_advantage" yaml:"home_field_advantage"`
	AwayFieldBoost         float64 `koanf:"away_field_boost" yaml:"away_field_boost"`
	TeamStrengthMultiplier float64 `koanf:"team_strength_multiplier" yaml:"team_strength_multiplier"`

	// BaseRunsPerGame is the league-average scoring rate, substituted when a
	// team's own base rate is missing.
	BaseRunsPerGame float64 `koanf:"base_runs_per_game" yaml:"base_runs_per_game"`

	// Factor weights.
	BullpenWeight float64 `koanf:"bullpen_weight" yaml:"bullpen_weight"`
	EraWeight     float64 `koanf:"era_weight" yaml:"era_weight"`
	WhipWeight    float64 `koanf:"whip_weight" yaml:"whip_weight"`

	// ChaosVariance is the sigma of the per-trial noise multiplier.
	ChaosVariance float64 `koanf:"chaos_variance" yaml:"chaos_variance"`

	// Bias corrections fit by the calibrate command, never hand-edited.
	HomeScoringBoost       float64 `koanf:"home_scoring_boost" yaml:"home_scoring_boost"`
	AwayScoringBoost       float64 `koanf:"away_scoring_boost" yaml:"away_scoring_boost"`
	TotalScoringAdjustment float64 `koanf:"total_scoring_adjustment" yaml:"total_scoring_adjustment"`

	// Trial mechanics.
	SimulationCount      int     `koanf:"simulation_count" yaml:"simulation_count"`
	MaxRunsPerTeam       int     `koanf:"max_runs_per_team" yaml:"max_runs_per_team"`
	ExtraInningsCap      int     `koanf:"extra_innings_cap" yaml:"extra_innings_cap"`
	ExtraInningScoreProb float64 `koanf:"extra_inning_score_prob" yaml:"extra_inning_score_prob"`

	Bounds Bounds `koanf:"bounds" yaml:"bounds"`
}

// RiskConfig holds the betting gate thresholds and Kelly staking caps.
type RiskConfig struct {
	MinEdge          float64 `koanf:"min_edge"`            // Minimum model-vs-implied edge to emit a candidate
	MinConfidence    float64 `koanf:"min_confidence"`      // Minimum simulator conviction in the likelier winner
	KellyMultiplier  float64 `koanf:"kelly_multiplier"`    // Fraction of full Kelly (0.25 = quarter Kelly)
	MaxKellyFraction float64 `koanf:"max_kelly_fraction"`  // Hard cap on stake as fraction of bankroll
	MinTotalRunsEdge float64 `koanf:"min_total_runs_edge"` // Minimum runs between model total and the line

	// Confidence tier cutoffs.
	HighEVThreshold     float64 `koanf:"high_ev_threshold"`
	HighProbThreshold   float64 `koanf:"high_prob_threshold"`
	MediumEVThreshold   float64 `koanf:"medium_ev_threshold"`
	MediumProbThreshold float64 `koanf:"medium_prob_threshold"`
	LowEVThreshold      float64 `koanf:"low_ev_threshold"`
}

// Config holds all application configuration.
type Config struct {
	LogLevel       string        `koanf:"log_level"`
	Port           string        `koanf:"port"`
	DBPath         string        `koanf:"db_path"`
	SlatePath      string        `koanf:"slate_path"`
	Seed           int64         `koanf:"seed"` // 0 = derive from wall clock
	PollInterval   time.Duration `koanf:"poll_interval"`
	Workers        int           `koanf:"workers"`
	MetricsEnabled bool          `koanf:"metrics_enabled"`

	Model ModelConfig `koanf:"model"`
	Risk  RiskConfig  `koanf:"risk"`
}

// DefaultBounds returns the standard clamp table.
func DefaultBounds() Bounds {
	return Bounds{
		PitcherFactorMin: 0.7,
		PitcherFactorMax: 1.5,
		BullpenFactorMin: 0.7,
		BullpenFactorMax: 1.5,
		ParkWeatherMin:   0.75,
		ParkWeatherMax:   1.25,
		ChaosMin:         0.75,
		ChaosMax:         1.25,
		RunMultiplierMin: 0.6,
		RunMultiplierMax: 1.4,
		TeamStrengthMin:  -0.15,
		TeamStrengthMax:  0.15,
	}
}

// DefaultModel returns the baseline model parameters. The bias-correction
// values here are the last calibrated fit; run the calibrate command against
// graded history to refresh them.
func DefaultModel() ModelConfig {
	return ModelConfig{
		HomeFieldAdvantage:     0.08,
		AwayFieldBoost:         0.01,
		TeamStrengthMultiplier: 0.17,
		BaseRunsPerGame:        4.2,
		BullpenWeight:          0.15,
		EraWeight:              0.78,
		WhipWeight:             0.38,
		ChaosVariance:          0.35,
		HomeScoringBoost:       1.02,
		AwayScoringBoost:       0.99,
		TotalScoringAdjustment: 1.03,
		SimulationCount:        SimCountDefault,
		MaxRunsPerTeam:         24,
		ExtraInningsCap:        5,
		ExtraInningScoreProb:   0.6,
		Bounds:                 DefaultBounds(),
	}
}

// DefaultRisk returns the baseline betting thresholds.
func DefaultRisk() RiskConfig {
	return RiskConfig{
		MinEdge:             0.05,
		MinConfidence:       0.60,
		KellyMultiplier:     0.25,
		MaxKellyFraction:    0.10,
		MinTotalRunsEdge:    0.5,
		HighEVThreshold:     0.15,
		HighProbThreshold:   0.60,
		MediumEVThreshold:   0.05,
		MediumProbThreshold: 0.55,
		LowEVThreshold:      0.02,
	}
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		LogLevel:       DefaultLogLevel,
		Port:           DefaultPort,
		DBPath:         DefaultDBPath,
		SlatePath:      "",
		Seed:           0,
		PollInterval:   DefaultPollInterval,
		Workers:        DefaultWorkers,
		MetricsEnabled: false,
		Model:          DefaultModel(),
		Risk:           DefaultRisk(),
	}
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %v", cfg.PollInterval)
	}
	if err := ValidateModel(cfg.Model); err != nil {
		return err
	}
	return ValidateRisk(cfg.Risk)
}

// ValidateModel checks the simulation parameters.
func ValidateModel(m ModelConfig) error {
	if m.SimulationCount <= 0 {
		return fmt.Errorf("model.simulation_count must be positive, got %d", m.SimulationCount)
	}
	if m.MaxRunsPerTeam <= 0 {
		return fmt.Errorf("model.max_runs_per_team must be positive, got %d", m.MaxRunsPerTeam)
	}
	if m.ExtraInningsCap < 1 {
		return fmt.Errorf("model.extra_innings_cap must be at least 1, got %d", m.ExtraInningsCap)
	}
	if m.ExtraInningScoreProb <= 0 || m.ExtraInningScoreProb >= 1 {
		return fmt.Errorf("model.extra_inning_score_prob must be between 0 and 1, got %f", m.ExtraInningScoreProb)
	}
	if m.BaseRunsPerGame <= 0 {
		return fmt.Errorf("model.base_runs_per_game must be positive, got %f", m.BaseRunsPerGame)
	}
	if m.ChaosVariance < 0 {
		return fmt.Errorf("model.chaos_variance must be non-negative, got %f", m.ChaosVariance)
	}
	if m.BullpenWeight < 0 || m.BullpenWeight > 1 {
		return fmt.Errorf("model.bullpen_weight must be between 0 and 1, got %f", m.BullpenWeight)
	}
	for name, v := range map[string]float64{
		"home_field_advantage":     m.HomeFieldAdvantage,
		"away_field_boost":         m.AwayFieldBoost,
		"team_strength_multiplier": m.TeamStrengthMultiplier,
		"home_scoring_boost":       m.HomeScoringBoost,
		"away_scoring_boost":       m.AwayScoringBoost,
		"total_scoring_adjustment": m.TotalScoringAdjustment,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("model.%s must be finite, got %f", name, v)
		}
	}
	return validateBounds(m.Bounds)
}

func validateBounds(b Bounds) error {
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"pitcher_factor", b.PitcherFactorMin, b.PitcherFactorMax},
		{"bullpen_factor", b.BullpenFactorMin, b.BullpenFactorMax},
		{"park_weather", b.ParkWeatherMin, b.ParkWeatherMax},
		{"chaos", b.ChaosMin, b.ChaosMax},
		{"run_multiplier", b.RunMultiplierMin, b.RunMultiplierMax},
		{"team_strength", b.TeamStrengthMin, b.TeamStrengthMax},
	}
	for _, p := range pairs {
		if math.IsNaN(p.min) || math.IsNaN(p.max) {
			return fmt.Errorf("bounds.%s must be finite", p.name)
		}
		if p.min >= p.max {
			return fmt.Errorf("bounds.%s min %f must be below max %f", p.name, p.min, p.max)
		}
	}
	return nil
}

// ValidateRisk checks the betting thresholds.
func ValidateRisk(r RiskConfig) error {
	if r.MinEdge < 0 || r.MinEdge > 1 {
		return fmt.Errorf("risk.min_edge must be between 0 and 1, got %f", r.MinEdge)
	}
	if r.MinConfidence < 0.5 || r.MinConfidence >= 1 {
		return fmt.Errorf("risk.min_confidence must be in [0.5, 1), got %f", r.MinConfidence)
	}
	if r.KellyMultiplier <= 0 || r.KellyMultiplier > 1 {
		return fmt.Errorf("risk.kelly_multiplier must be between 0 and 1, got %f", r.KellyMultiplier)
	}
	if r.MaxKellyFraction <= 0 || r.MaxKellyFraction > 1 {
		return fmt.Errorf("risk.max_kelly_fraction must be between 0 and 1, got %f", r.MaxKellyFraction)
	}
	if r.MinTotalRunsEdge < 0 {
		return fmt.Errorf("risk.min_total_runs_edge must be non-negative, got %f", r.MinTotalRunsEdge)
	}
	return nil
}
