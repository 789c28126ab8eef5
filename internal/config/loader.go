package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if MLBSIM_CONFIG is set
//  3. env (prefix MLBSIM_)
func Load() (Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Default()

	k := koanf.New(".")

	if path := os.Getenv("MLBSIM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Environment variables: MLBSIM_DB_PATH, MLBSIM_RISK__MIN_EDGE, ...
	// A double underscore separates nesting levels, a single underscore stays
	// part of the key, so MLBSIM_MODEL__CHAOS_VARIANCE -> model.chaos_variance.
	envProvider := env.Provider("MLBSIM_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "MLBSIM_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("loading env config: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
