package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadLanes loads the lanes configuration.
// Search order: customPath -> ~/.lanes/configs/lanes.yaml -> ./configs/lanes.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names. A custom path that cannot be read or fails validation is an
// error; the implicit locations are skipped silently when broken.
func LoadLanes(customPath string) (LanesConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath("lanes.yaml"), filepath.Join("configs", "lanes.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := loadFile(path); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := DefaultLanesConfig()
	if err := yaml.Unmarshal(defaultLanesYAML, &cfg); err != nil {
		return DefaultLanesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// loadFile decodes a YAML file on top of the hard-coded defaults.
func loadFile(path string) (LanesConfig, error) {
	cfg := DefaultLanesConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lanes", "configs", filename)
}

// WriteYAML saves the configuration to path, creating parent directories.
func (c LanesConfig) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting that would make the simulation misbehave.
func (c LanesConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Track.CellWidth > 0 && c.Track.CellHeight > 0, "track cell size must be positive")
	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")
	check(c.Player.StartLane >= 0 && c.Player.StartLane <= 2, "player start_lane %d out of range [0,2]", c.Player.StartLane)
	check(c.Player.Easing > 0 && c.Player.Easing <= 1, "player easing %v out of range (0,1]", c.Player.Easing)
	check(c.Player.LaneCooldown >= 0, "player lane_cooldown must not be negative")
	check(c.Obstacles.Width > 0 && c.Obstacles.Height > 0, "obstacle size must be positive")
	check(c.Obstacles.MaxActive >= 0, "obstacles max_active must not be negative")
	check(c.Obstacles.PoolCap >= 0, "obstacles pool_cap must not be negative")
	check(c.Obstacles.PassPoints >= 0, "obstacles pass_points must not be negative")
	check(c.Sim.NominalRate > 0, "sim nominal_rate must be positive")
	check(c.Sim.MaxStepTicks > 0, "sim max_step_ticks must be positive")

	d := c.Difficulty
	check(d.BaseSpeed > 0, "difficulty base_speed must be positive")
	check(d.MaxSpeed >= d.BaseSpeed, "difficulty max_speed %v below base_speed %v", d.MaxSpeed, d.BaseSpeed)
	check(d.SpeedStep >= 0 && d.IntervalStep >= 0, "difficulty steps must not be negative")
	check(d.MinInterval > 0, "difficulty min_interval must be positive")
	check(d.BaseInterval >= d.MinInterval, "difficulty base_interval %v below min_interval %v", d.BaseInterval, d.MinInterval)
	check(!d.Enabled || d.StepEvery > 0, "difficulty step_every must be positive when enabled")

	q := c.Quality
	check(q.WindowMs > 0, "quality window_ms must be positive")
	check(q.Min > 0 && q.Min <= q.Max && q.Max <= 1, "quality range [%v,%v] invalid", q.Min, q.Max)
	check(q.Step > 0, "quality step must be positive")
	check(q.LowFPS <= q.HighFPS, "quality low_fps %v above high_fps %v", q.LowFPS, q.HighFPS)
	check(q.LowStreak >= 0, "quality low_streak must not be negative")
	check(q.RecheckDelayMs >= 0, "quality recheck_delay_ms must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// ApplyLanesPreset modifies the config based on a difficulty preset.
func ApplyLanesPreset(cfg *LanesConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	case DifficultyEasy:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.BaseSpeed = 4
		cfg.Difficulty.BaseInterval = 120
	case DifficultyNormal:
		defaults := DefaultLanesConfig().Difficulty
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.BaseSpeed = defaults.BaseSpeed
		cfg.Difficulty.BaseInterval = defaults.BaseInterval
	case DifficultyHard:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.BaseSpeed = 7
		cfg.Difficulty.BaseInterval = 80
	}

	// Keep presets consistent with custom caps
	if cfg.Difficulty.MaxSpeed < cfg.Difficulty.BaseSpeed {
		cfg.Difficulty.MaxSpeed = cfg.Difficulty.BaseSpeed
	}
	if cfg.Difficulty.BaseInterval < cfg.Difficulty.MinInterval {
		cfg.Difficulty.BaseInterval = cfg.Difficulty.MinInterval
	}
}
