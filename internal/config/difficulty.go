package config

import "math"

// DifficultyManager is a monotonic ratchet over elapsed time.
// Every StepEvery nominal ticks of accumulated time the scroll speed rises by
// SpeedStep (capped at MaxSpeed) and the spawn interval drops by IntervalStep
// (floored at MinInterval). Neither value ever moves back within a run.
type DifficultyManager struct {
	cfg      DifficultyConfig
	speed    float64
	interval float64
	elapsed  float64 // Nominal ticks since Reset
	nextStep float64 // Elapsed value at which the next step applies
	level    int     // Steps that changed something
}

// NewDifficultyManager creates a new difficulty manager at its base values.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	d := &DifficultyManager{cfg: cfg}
	d.Reset()
	return d
}

// Reset returns to base speed and interval for a new run.
func (d *DifficultyManager) Reset() {
	d.speed = d.cfg.BaseSpeed
	d.interval = d.cfg.BaseInterval
	d.elapsed = 0
	d.nextStep = d.cfg.StepEvery
	d.level = 0
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.StepEvery > 0
}

// Advance accumulates elapsed nominal ticks and applies every step whose
// threshold was crossed. Returns true if speed or interval changed.
func (d *DifficultyManager) Advance(ticks float64) bool {
	if ticks <= 0 || math.IsNaN(ticks) {
		return false
	}
	d.elapsed += ticks
	if !d.IsEnabled() {
		return false
	}

	changed := false
	for d.elapsed >= d.nextStep {
		d.nextStep += d.cfg.StepEvery
		if d.step() {
			changed = true
		}
	}
	return changed
}

// step applies one ratchet increment.
func (d *DifficultyManager) step() bool {
	speed := math.Min(d.speed+d.cfg.SpeedStep, d.cfg.MaxSpeed)
	interval := math.Max(d.interval-d.cfg.IntervalStep, d.cfg.MinInterval)

	// Never move backwards, even if the config caps sit below the base values
	speed = math.Max(speed, d.speed)
	interval = math.Min(interval, d.interval)

	if speed == d.speed && interval == d.interval {
		return false
	}
	d.speed = speed
	d.interval = interval
	d.level++
	return true
}

// Speed returns the current scroll speed in world units per nominal tick.
func (d *DifficultyManager) Speed() float64 {
	return d.speed
}

// SpawnInterval returns the current nominal ticks between spawn attempts.
func (d *DifficultyManager) SpawnInterval() float64 {
	return d.interval
}

// Level returns how many steps have changed the difficulty this run.
func (d *DifficultyManager) Level() int {
	return d.level
}

// Elapsed returns the nominal ticks accumulated since Reset.
func (d *DifficultyManager) Elapsed() float64 {
	return d.elapsed
}
