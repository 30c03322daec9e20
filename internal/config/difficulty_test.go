package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDifficultyInitialValues(t *testing.T) {
	d := NewDifficultyManager(DefaultLanesConfig().Difficulty)

	if d.Speed() != 5 {
		t.Errorf("Speed() = %v, expected 5", d.Speed())
	}
	if d.SpawnInterval() != 100 {
		t.Errorf("SpawnInterval() = %v, expected 100", d.SpawnInterval())
	}
	if d.Level() != 0 {
		t.Errorf("Level() = %d, expected 0", d.Level())
	}
}

func TestDifficultyStepsEvery600Ticks(t *testing.T) {
	d := NewDifficultyManager(DefaultLanesConfig().Difficulty)

	for i := 0; i < 599; i++ {
		if d.Advance(1) {
			t.Fatalf("difficulty changed early at tick %d", i+1)
		}
	}
	if !d.Advance(1) {
		t.Fatal("difficulty should step at tick 600")
	}
	if d.Speed() != 5.5 {
		t.Errorf("Speed() = %v, expected 5.5", d.Speed())
	}
	if d.SpawnInterval() != 95 {
		t.Errorf("SpawnInterval() = %v, expected 95", d.SpawnInterval())
	}
}

func TestDifficultyIndependentOfTickSize(t *testing.T) {
	// Ten seconds at 30Hz (two nominal ticks per frame) must match 60Hz.
	fast := NewDifficultyManager(DefaultLanesConfig().Difficulty)
	slow := NewDifficultyManager(DefaultLanesConfig().Difficulty)

	for i := 0; i < 600; i++ {
		fast.Advance(1)
	}
	for i := 0; i < 300; i++ {
		slow.Advance(2)
	}

	if fast.Speed() != slow.Speed() || fast.SpawnInterval() != slow.SpawnInterval() {
		t.Errorf("30Hz and 60Hz diverged: (%v, %v) vs (%v, %v)",
			slow.Speed(), slow.SpawnInterval(), fast.Speed(), fast.SpawnInterval())
	}
}

func TestDifficultyLargeAdvanceAppliesAllSteps(t *testing.T) {
	d := NewDifficultyManager(DefaultLanesConfig().Difficulty)
	d.Advance(1800)

	if d.Level() != 3 {
		t.Errorf("Level() = %d, expected 3", d.Level())
	}
	if d.Speed() != 6.5 {
		t.Errorf("Speed() = %v, expected 6.5", d.Speed())
	}
}

func TestDifficultyCaps(t *testing.T) {
	d := NewDifficultyManager(DefaultLanesConfig().Difficulty)
	d.Advance(600 * 100)

	if d.Speed() != 15 {
		t.Errorf("Speed() = %v, expected cap 15", d.Speed())
	}
	if d.SpawnInterval() != 50 {
		t.Errorf("SpawnInterval() = %v, expected floor 50", d.SpawnInterval())
	}
	if d.Advance(600) {
		t.Error("Advance should report no change once both limits are reached")
	}
}

func TestDifficultyDisabled(t *testing.T) {
	cfg := DefaultLanesConfig().Difficulty
	cfg.Enabled = false
	d := NewDifficultyManager(cfg)

	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	d.Advance(6000)
	if d.Speed() != 5 || d.SpawnInterval() != 100 {
		t.Errorf("disabled ratchet moved: (%v, %v)", d.Speed(), d.SpawnInterval())
	}
	if d.Elapsed() != 6000 {
		t.Errorf("Elapsed() = %v, expected 6000", d.Elapsed())
	}
}

func TestDifficultyReset(t *testing.T) {
	d := NewDifficultyManager(DefaultLanesConfig().Difficulty)
	d.Advance(3000)
	d.Reset()

	if d.Speed() != 5 || d.SpawnInterval() != 100 || d.Level() != 0 || d.Elapsed() != 0 {
		t.Errorf("Reset() left state (%v, %v, %d, %v)", d.Speed(), d.SpawnInterval(), d.Level(), d.Elapsed())
	}
}

func TestDifficultyMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("speed never decreases and interval never increases", prop.ForAll(
		func(steps []float64) bool {
			d := NewDifficultyManager(DefaultLanesConfig().Difficulty)
			prevSpeed, prevInterval := d.Speed(), d.SpawnInterval()
			for _, s := range steps {
				d.Advance(s)
				if d.Speed() < prevSpeed || d.SpawnInterval() > prevInterval {
					return false
				}
				if d.Speed() > 15 || d.SpawnInterval() < 50 {
					return false
				}
				prevSpeed, prevInterval = d.Speed(), d.SpawnInterval()
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 2000)),
	))

	properties.TestingRun(t)
}
