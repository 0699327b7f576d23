package route

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pinroute/pkg/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell size", func(c *Config) { c.CellSize = 0 }},
		{"negative clearance", func(c *Config) { c.EdgeClearance = -1 }},
		{"zero cross penalty", func(c *Config) { c.CrossPenalty = 0 }},
		{"zero ordering budget", func(c *Config) { c.OrderingBudget = 0 }},
		{"zero ripup budget", func(c *Config) { c.RipupBudget = 0 }},
		{"negative snap radius", func(c *Config) { c.SnapRadius = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinroute.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "cell_size = 0.5\nseed = 42\n")

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.CellSize != 0.5 {
		t.Errorf("CellSize = %v, want 0.5", cfg.CellSize)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	// Untouched fields keep their defaults.
	if cfg.CrossPenalty != DefaultConfig().CrossPenalty {
		t.Errorf("CrossPenalty = %v, want default", cfg.CrossPenalty)
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "cel_size = 0.5\n")

	if _, err := LoadConfigFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("LoadConfigFile = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigFileRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "cell_size = -1.0\n")

	if _, err := LoadConfigFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("LoadConfigFile = %v, want INVALID_CONFIG", err)
	}
}
