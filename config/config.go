package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the YAML run configuration for one analyzer pass.
type Settings struct {
	Communities     []string `yaml:"communities"`
	MinComments     int      `yaml:"min_comments"`
	MaxPostAgeDays  float64  `yaml:"max_post_age_days"`
	TopCount        int      `yaml:"top_count"`
	ReplyCandidates int      `yaml:"reply_candidates"`
	FetchLimit      int      `yaml:"fetch_limit"`
	BatchLimit      int      `yaml:"batch_limit"`

	Generation struct {
		Model       string  `yaml:"model"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"generation"`
}

// DefaultSettings mirrors the embedded defaults written on first run.
func DefaultSettings() *Settings {
	s := &Settings{
		Communities:     []string{"TOEFL", "ToeflAdvice"},
		MinComments:     2,
		MaxPostAgeDays:  2,
		TopCount:        10,
		ReplyCandidates: 3,
		FetchLimit:      50,
		BatchLimit:      30,
	}
	s.Generation.Model = "gpt-4o-mini"
	s.Generation.Temperature = 0.7
	return s
}

// LoadSettings reads the YAML settings file, filling in defaults for
// anything left unset.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	// Reply candidate count is fixed at 3: one per required style.
	if settings.ReplyCandidates != 3 {
		settings.ReplyCandidates = 3
	}

	return settings, nil
}

// EnsureSettingsExist writes the default settings file if none is present,
// so a fresh checkout runs without manual setup.
func EnsureSettingsExist(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed to marshal default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write default settings: %w", err)
	}
	return nil
}
