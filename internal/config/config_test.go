package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.Thresholds.Compliant != 80 || cfg.Thresholds.PartiallyCompliant != 40 {
		t.Errorf("Thresholds = %+v, want 80/40", cfg.Thresholds)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should default to a non-empty path")
	}
}

func TestNewFromFile(t *testing.T) {
	path := writeFile(t, "repa.yaml", `
data_dir: /tmp/repa-test
thresholds:
  compliant: 90
  partially_compliant: 50
ollama:
  model: mistral
  timeout_seconds: 120
`)

	cfg, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	if cfg.DataDir != "/tmp/repa-test" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.Thresholds.Compliant != 90 {
		t.Errorf("Thresholds.Compliant = %d, want 90", cfg.Thresholds.Compliant)
	}
	if cfg.Ollama.Model != "mistral" {
		t.Errorf("Ollama.Model = %s, want mistral", cfg.Ollama.Model)
	}
	if cfg.Ollama.TimeoutSeconds != 120 {
		t.Errorf("Ollama.TimeoutSeconds = %d, want 120", cfg.Ollama.TimeoutSeconds)
	}
	// Fields the file doesn't set keep their defaults.
	if cfg.Weights.Checklist != 0.6 {
		t.Errorf("Weights.Checklist = %v, want default 0.6", cfg.Weights.Checklist)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	if _, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("NewFromFile() on a missing file should fail")
	}
}

func TestNewFromFileBadThresholds(t *testing.T) {
	path := writeFile(t, "repa.yaml", `
thresholds:
  compliant: 40
  partially_compliant: 80
`)
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("NewFromFile() with inverted thresholds should fail")
	}
}

func TestValidateMissingChecklistFile(t *testing.T) {
	cfg := Default()
	cfg.ChecklistPath = filepath.Join(t.TempDir(), "nope.yaml")
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() with missing checklist file should fail")
	}
}
