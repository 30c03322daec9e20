// Package quality adapts render resolution to the measured frame rate.
//
// Frame durations are accumulated into fixed windows. Slow windows in a row
// lower the quality level; a fast window schedules a recheck a little later
// and raises the level only if the frames sampled since then still run at
// the high rate. Time is
// the sum of sampled frame durations, so the controller is driven entirely
// by the game loop and never needs its own timer.
package quality

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-lanes/internal/config"
)

// Reading is the outcome of one Sample call.
type Reading struct {
	Rate         float64 // Frames per second of the last closed window
	Level        float64 // Current quality level
	Changed      bool    // Level changed during this sample
	WindowClosed bool    // A measurement window closed during this sample
}

// Controller tracks frame rate and picks a quality level.
type Controller struct {
	cfg config.QualityConfig

	level    float64
	frames   int
	windowMs float64
	streak   int // Consecutive low-rate windows
	lastRate float64

	clockMs   float64 // Total sampled time
	pending   bool
	recheckAt float64

	// Frames sampled since the pending recheck was scheduled
	recheckFrames int
	recheckMs     float64
}

// NewController creates a controller at the maximum level.
func NewController(cfg config.QualityConfig) *Controller {
	c := &Controller{cfg: cfg}
	c.Reset()
	return c
}

// Reset restores the initial level and drops all measurements.
func (c *Controller) Reset() {
	c.level = c.cfg.Max
	c.frames = 0
	c.windowMs = 0
	c.streak = 0
	c.lastRate = 0
	c.pending = false
	c.recheckAt = 0
	c.recheckFrames = 0
	c.recheckMs = 0
}

// Cancel drops a pending upgrade recheck.
func (c *Controller) Cancel() {
	c.pending = false
}

// Sample records one frame of the given duration.
func (c *Controller) Sample(frame time.Duration) Reading {
	r := Reading{Rate: c.lastRate, Level: c.level}
	if !c.cfg.Enabled || c.cfg.WindowMs <= 0 {
		return r
	}

	ms := float64(frame) / float64(time.Millisecond)
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	before := c.level

	c.clockMs += ms
	c.windowMs += ms
	c.frames++
	if c.pending {
		c.recheckFrames++
		c.recheckMs += ms
	}

	if c.windowMs >= c.cfg.WindowMs {
		c.closeWindow()
		r.WindowClosed = true
		r.Rate = c.lastRate
	}

	if c.pending && c.clockMs >= c.recheckAt {
		c.pending = false
		if c.recheckRate() >= c.cfg.HighFPS {
			c.level = math.Min(c.level+c.cfg.Step, c.cfg.Max)
		}
	}

	r.Level = c.level
	r.Changed = c.level != before
	return r
}

// closeWindow classifies the finished window and starts a new one.
func (c *Controller) closeWindow() {
	c.lastRate = float64(c.frames) * 1000 / c.windowMs
	c.frames = 0
	c.windowMs = 0

	switch {
	case c.lastRate < c.cfg.LowFPS:
		c.streak++
		if c.streak > c.cfg.LowStreak {
			c.level = math.Max(c.level-c.cfg.Step, c.cfg.Min)
			c.streak = 0
		}
	case c.lastRate >= c.cfg.HighFPS:
		c.streak = 0
		if !c.pending {
			c.pending = true
			c.recheckAt = c.clockMs + c.cfg.RecheckDelayMs
			c.recheckFrames = 0
			c.recheckMs = 0
		}
	default:
		c.streak = 0
	}
}

// recheckRate is the frame rate measured since the recheck was scheduled.
// With no sampled time yet it falls back to the last window.
func (c *Controller) recheckRate() float64 {
	if c.recheckMs <= 0 {
		return c.lastRate
	}
	return float64(c.recheckFrames) * 1000 / c.recheckMs
}

// Level returns the current quality level.
func (c *Controller) Level() float64 {
	return c.level
}

// Pending reports whether an upgrade recheck is scheduled.
func (c *Controller) Pending() bool {
	return c.pending
}

// Streak returns the number of consecutive low-rate windows.
func (c *Controller) Streak() int {
	return c.streak
}

// GridSize returns the logical render grid for a screen at the current level.
// Both dimensions are at least 1.
func (c *Controller) GridSize(screenW, screenH int, renderScale float64) (int, int) {
	return GridSize(screenW, screenH, c.level*renderScale)
}

// GridSize scales screen dimensions by a factor, rounding to whole cells.
func GridSize(screenW, screenH int, factor float64) (int, int) {
	if factor <= 0 || math.IsNaN(factor) {
		factor = 1
	}
	w := int(math.Round(float64(screenW) * factor))
	h := int(math.Round(float64(screenH) * factor))
	return max(w, 1), max(h, 1)
}
