package calibration

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"mlb-sim-engine/internal/config"
)

// modelDoc nests the model section under its config key, matching the
// layout Load reads through MLBSIM_CONFIG.
type modelDoc struct {
	Model config.ModelConfig `yaml:"model"`
}

// WriteModel emits the fitted model as a loadable YAML config fragment.
func WriteModel(w io.Writer, m config.ModelConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(modelDoc{Model: m}); err != nil {
		return fmt.Errorf("encoding model yaml: %w", err)
	}
	return enc.Close()
}
