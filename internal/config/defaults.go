package config

import (
	_ "embed"
)

//go:embed defaults/lanes.yaml
var defaultLanesYAML []byte

// DefaultLanesConfig returns the default lanes configuration.
// Mirrors defaults/lanes.yaml and is used when the embedded file cannot be parsed.
func DefaultLanesConfig() LanesConfig {
	return LanesConfig{
		Track: LanesTrack{
			CellWidth:  8,
			CellHeight: 16,
		},
		Player: LanesPlayer{
			Width:        40,
			Height:       60,
			BottomOffset: 110,
			StartLane:    1,
			Easing:       0.2,
			LaneCooldown: 10,
		},
		Obstacles: LanesObstacles{
			Width:      40,
			Height:     60,
			MaxActive:  10,
			PoolCap:    20,
			PassPoints: 10,
		},
		Sim: LanesSim{
			NominalRate:  60,
			MaxStepTicks: 6,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			BaseSpeed:    5,
			MaxSpeed:     15,
			SpeedStep:    0.5,
			BaseInterval: 100,
			MinInterval:  50,
			IntervalStep: 5,
			StepEvery:    600, // 10 seconds at 60 ticks/s
		},
		Quality: QualityConfig{
			Enabled:        true,
			WindowMs:       500,
			LowFPS:         45,
			HighFPS:        55,
			LowStreak:      3,
			Step:           0.25,
			Min:            0.5,
			Max:            1.0,
			RecheckDelayMs: 250,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultLanesYAML
}
