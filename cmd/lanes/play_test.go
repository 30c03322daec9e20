package main

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-lanes/internal/config"
)

func TestPlayHelpListsPresets(t *testing.T) {
	presets := []config.DifficultyPreset{
		config.DifficultyEasy,
		config.DifficultyNormal,
		config.DifficultyHard,
		config.DifficultyFixed,
	}
	for _, p := range presets {
		if !strings.Contains(playCmd.Long, "  "+string(p)+" ") {
			t.Errorf("play help is missing the %s preset", p)
		}
	}

	// normal resets the base values, so the help must not claim the config is kept
	line := ""
	for _, l := range strings.Split(playCmd.Long, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "normal ") {
			line = l
		}
	}
	if !strings.Contains(line, "replacing") {
		t.Errorf("normal preset help = %q", line)
	}
}
