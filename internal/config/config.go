// Package config holds server settings. Consuming setups either construct
// a Config in Go code and pass it to server.New(), or place a repa.yaml
// on disk and call NewFromFile().
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/progress"
)

// Config holds all server settings.
type Config struct {
	// ChecklistPath points to a checklist YAML file. If empty, the
	// embedded default checklist is used.
	ChecklistPath string `yaml:"checklist_path"`

	// DataDir is where the document database lives (default ~/.repa).
	DataDir string `yaml:"data_dir"`

	// Thresholds maps compliance scores to verdict statuses.
	Thresholds analysis.Thresholds `yaml:"thresholds"`

	// Ollama configures the analysis model client.
	Ollama analysis.OllamaConfig `yaml:"ollama"`

	// Weights blends context, checklist, and review completion into the
	// overall progress figure.
	Weights progress.Weights `yaml:"weights"`
}

// Default returns a Config with every field at its default value.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(home, ".repa"),
		Thresholds: analysis.DefaultThresholds(),
		Weights:    progress.DefaultWeights(),
	}
}

// NewFromFile reads a YAML config file and fills in defaults for any
// field left unset.
func NewFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Thresholds == (analysis.Thresholds{}) {
		c.Thresholds = d.Thresholds
	}
	if c.Weights == (progress.Weights{}) {
		c.Weights = d.Weights
	}
}

// Validate checks the settings that have hard constraints.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ChecklistPath != "" {
		if _, err := os.Stat(c.ChecklistPath); err != nil {
			return fmt.Errorf("checklist file %s: %w", c.ChecklistPath, err)
		}
	}
	return nil
}
