package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultLanesConfig()
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultLanesConfig()) {
		t.Errorf("embedded defaults differ from DefaultLanesConfig():\n%+v\n%+v", cfg, DefaultLanesConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadLanesCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanes.yaml")
	data := "obstacles:\n  max_active: 4\ndifficulty:\n  base_speed: 6\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLanes(path)
	if err != nil {
		t.Fatalf("LoadLanes() failed: %v", err)
	}
	if cfg.Obstacles.MaxActive != 4 {
		t.Errorf("MaxActive = %d, expected 4", cfg.Obstacles.MaxActive)
	}
	if cfg.Difficulty.BaseSpeed != 6 {
		t.Errorf("BaseSpeed = %v, expected 6", cfg.Difficulty.BaseSpeed)
	}
	// Keys not named in the file keep their defaults
	if cfg.Obstacles.PoolCap != 20 {
		t.Errorf("PoolCap = %d, expected default 20", cfg.Obstacles.PoolCap)
	}
}

func TestLoadLanesErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadLanes(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadLanes() should fail for a missing custom file")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("player: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLanes(broken); err == nil {
		t.Error("LoadLanes() should fail for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("player:\n  start_lane: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadLanes(invalid)
	if err == nil {
		t.Fatal("LoadLanes() should reject an out-of-range start lane")
	}
	if !strings.Contains(err.Error(), "start_lane") {
		t.Errorf("error should name the bad key, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LanesConfig)
	}{
		{"zero cell width", func(c *LanesConfig) { c.Track.CellWidth = 0 }},
		{"easing above one", func(c *LanesConfig) { c.Player.Easing = 1.5 }},
		{"negative pool cap", func(c *LanesConfig) { c.Obstacles.PoolCap = -1 }},
		{"max speed below base", func(c *LanesConfig) { c.Difficulty.MaxSpeed = 1 }},
		{"interval below floor", func(c *LanesConfig) { c.Difficulty.BaseInterval = 10 }},
		{"zero step every", func(c *LanesConfig) { c.Difficulty.StepEvery = 0 }},
		{"quality max above one", func(c *LanesConfig) { c.Quality.Max = 2 }},
		{"quality thresholds crossed", func(c *LanesConfig) { c.Quality.LowFPS = 70 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultLanesConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestApplyLanesPreset(t *testing.T) {
	tests := []struct {
		preset       DifficultyPreset
		enabled      bool
		baseSpeed    float64
		baseInterval float64
	}{
		{DifficultyEasy, true, 4, 120},
		{DifficultyNormal, true, 5, 100},
		{DifficultyHard, true, 7, 80},
		{DifficultyFixed, false, 5, 100},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultLanesConfig()
			ApplyLanesPreset(&cfg, tc.preset)

			d := cfg.Difficulty
			if d.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", d.Enabled, tc.enabled)
			}
			if d.BaseSpeed != tc.baseSpeed || d.BaseInterval != tc.baseInterval {
				t.Errorf("base = (%v, %v), expected (%v, %v)", d.BaseSpeed, d.BaseInterval, tc.baseSpeed, tc.baseInterval)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset should keep config valid, got %v", err)
			}
		})
	}
}

func TestApplyNormalPresetReplacesCustomBase(t *testing.T) {
	cfg := DefaultLanesConfig()
	cfg.Difficulty.Enabled = false
	cfg.Difficulty.BaseSpeed = 6
	cfg.Difficulty.BaseInterval = 90

	ApplyLanesPreset(&cfg, DifficultyNormal)

	d := cfg.Difficulty
	if !d.Enabled || d.BaseSpeed != 5 || d.BaseInterval != 100 {
		t.Errorf("normal preset gave enabled=%v base=(%v, %v), expected true (5, 100)",
			d.Enabled, d.BaseSpeed, d.BaseInterval)
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("ParsePreset(hard) should return DifficultyHard")
	}
	if ParsePreset("impossible") != "" {
		t.Error("ParsePreset should ignore unknown presets")
	}
	if !IsFixedPreset(ParsePreset("fixed")) {
		t.Error("fixed preset should be reported as fixed")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultLanesConfig()
	cfg.Obstacles.MaxActive = 3

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() failed: %v", err)
	}
	loaded, err := LoadLanes(path)
	if err != nil {
		t.Fatalf("LoadLanes() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cfg, loaded)
	}
}
