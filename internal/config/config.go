// Package config provides YAML-based game configuration loading and
// difficulty management for the lanes game.
package config

// LanesConfig contains all configuration for the lanes game.
type LanesConfig struct {
	Track      LanesTrack       `yaml:"track"`
	Player     LanesPlayer      `yaml:"player"`
	Obstacles  LanesObstacles   `yaml:"obstacles"`
	Sim        LanesSim         `yaml:"sim"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Quality    QualityConfig    `yaml:"quality"`
}

// LanesTrack defines how world units map onto terminal cells.
// The track fills the screen: width = ScreenW*CellWidth, height = ScreenH*CellHeight.
type LanesTrack struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// LanesPlayer defines player parameters.
type LanesPlayer struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BottomOffset float64 `yaml:"bottom_offset"` // Distance from track bottom to player top
	StartLane    int     `yaml:"start_lane"`
	Easing       float64 `yaml:"easing"`        // Fraction of the gap to the lane target closed per nominal tick
	LaneCooldown int     `yaml:"lane_cooldown"` // Minimum ticks between accepted lane changes
}

// LanesObstacles defines obstacle parameters.
type LanesObstacles struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	MaxActive  int     `yaml:"max_active"`
	PoolCap    int     `yaml:"pool_cap"`
	PassPoints int     `yaml:"pass_points"`
}

// LanesSim defines timing parameters of the simulation loop.
type LanesSim struct {
	NominalRate  int     `yaml:"nominal_rate"`   // Ticks per second all tuning values assume
	MaxStepTicks float64 `yaml:"max_step_ticks"` // Upper bound on nominal ticks simulated by one Tick
}

// DifficultyConfig defines the difficulty ratchet.
// StepEvery is measured in nominal ticks of accumulated time, so a step
// happens every StepEvery/NominalRate seconds regardless of display rate.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`
	BaseSpeed    float64 `yaml:"base_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	SpeedStep    float64 `yaml:"speed_step"`
	BaseInterval float64 `yaml:"base_interval"`
	MinInterval  float64 `yaml:"min_interval"`
	IntervalStep float64 `yaml:"interval_step"`
	StepEvery    float64 `yaml:"step_every"`
}

// QualityConfig defines the adaptive render quality controller.
type QualityConfig struct {
	Enabled        bool    `yaml:"enabled"`
	WindowMs       float64 `yaml:"window_ms"`
	LowFPS         float64 `yaml:"low_fps"`
	HighFPS        float64 `yaml:"high_fps"`
	LowStreak      int     `yaml:"low_streak"` // Low windows tolerated before a downgrade
	Step           float64 `yaml:"step"`
	Min            float64 `yaml:"min"`
	Max            float64 `yaml:"max"`
	RecheckDelayMs float64 `yaml:"recheck_delay_ms"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string into a preset.
// Unknown or empty strings return "" which means "use config as loaded".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
