package lanes

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vovakirdan/tui-lanes/internal/config"
	"github.com/vovakirdan/tui-lanes/internal/core"
)

const (
	testTrackW = 600
	testTrackH = 800
)

// newPlayingEngine returns an engine already in the playing phase.
func newPlayingEngine(t *testing.T, mutate func(*config.LanesConfig)) *Engine {
	t.Helper()
	cfg := config.DefaultLanesConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e := NewEngine(cfg, testTrackW, testTrackH, 1)
	if !e.MarkReady() || !e.Start() {
		t.Fatalf("engine failed to start, phase = %v", e.Phase())
	}
	e.DrainEvents()
	return e
}

// placeObstacle puts an obstacle directly on the track for scenario tests.
func placeObstacle(e *Engine, lane int, y float64) *Obstacle {
	o := e.pool.Acquire(lane, e.trackW)
	o.Y = y
	e.active = append(e.active, o)
	return o
}

func noSpawns(cfg *config.LanesConfig) {
	cfg.Obstacles.MaxActive = 0
}

func findGameOver(events []core.Event) (core.GameOverEvent, bool) {
	for _, ev := range events {
		if g, ok := ev.(core.GameOverEvent); ok {
			return g, true
		}
	}
	return core.GameOverEvent{}, false
}

func TestEngineInitialState(t *testing.T) {
	e := NewEngine(config.DefaultLanesConfig(), testTrackW, testTrackH, 1)

	if e.Phase() != core.PhaseLoading {
		t.Errorf("Phase() = %v, expected loading", e.Phase())
	}
	if e.Player().Lane != LaneMiddle {
		t.Errorf("Lane = %d, expected %d", e.Player().Lane, LaneMiddle)
	}
	if e.Score() != 0 {
		t.Errorf("Score() = %d, expected 0", e.Score())
	}
	if e.Speed() != 5 {
		t.Errorf("Speed() = %v, expected 5", e.Speed())
	}
	if e.SpawnInterval() != 100 {
		t.Errorf("SpawnInterval() = %v, expected 100", e.SpawnInterval())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, expected 0", e.ActiveCount())
	}

	p := e.Player()
	if p.X != 280 || p.Y != 690 {
		t.Errorf("player at (%v, %v), expected (280, 690)", p.X, p.Y)
	}
	if events := e.DrainEvents(); len(events) != 0 {
		t.Errorf("construction should not raise events, got %v", events)
	}
}

func TestEnginePhaseCommands(t *testing.T) {
	e := NewEngine(config.DefaultLanesConfig(), testTrackW, testTrackH, 1)

	if e.Start() {
		t.Error("Start should be rejected while loading")
	}
	if e.Restart() {
		t.Error("Restart should be rejected while loading")
	}
	if e.Stop() {
		t.Error("Stop should be rejected while loading")
	}
	if !e.MarkReady() {
		t.Fatal("MarkReady should succeed from loading")
	}
	if e.MarkReady() {
		t.Error("MarkReady should be rejected once ready")
	}
	if !e.Start() {
		t.Fatal("Start should succeed from ready")
	}
	if e.Start() || e.Restart() {
		t.Error("Start and Restart should be rejected while playing")
	}

	events := e.DrainEvents()
	expected := []core.Event{
		core.PhaseChangedEvent{From: core.PhaseLoading, To: core.PhaseReady},
		core.PhaseChangedEvent{From: core.PhaseReady, To: core.PhasePlaying},
	}
	if len(events) != len(expected) {
		t.Fatalf("events = %v, expected %v", events, expected)
	}
	for i := range expected {
		if events[i] != expected[i] {
			t.Errorf("event %d = %v, expected %v", i, events[i], expected[i])
		}
	}
}

func TestEngineTickIgnoredOutsidePlaying(t *testing.T) {
	e := NewEngine(config.DefaultLanesConfig(), testTrackW, testTrackH, 1)

	for i := 0; i < 200; i++ {
		e.Tick(e.NominalTick(), core.DirRight)
	}
	s := e.Snapshot()
	if s.Frame != 0 || s.Lane != LaneMiddle || len(s.Obstacles) != 0 {
		t.Errorf("loading engine advanced: %+v", s)
	}

	e.MarkReady()
	e.DrainEvents()
	for i := 0; i < 200; i++ {
		if events := e.Tick(e.NominalTick(), core.DirLeft); len(events) != 0 {
			t.Errorf("ready engine raised events: %v", events)
		}
	}
	if e.Snapshot().Frame != 0 {
		t.Error("ready engine should not advance")
	}
}

func TestEngineDifficultyAfter600Ticks(t *testing.T) {
	e := newPlayingEngine(t, noSpawns)

	var changes []core.DifficultyChangedEvent
	for i := 0; i < 600; i++ {
		for _, ev := range e.Tick(e.NominalTick(), core.DirNone) {
			if d, ok := ev.(core.DifficultyChangedEvent); ok {
				changes = append(changes, d)
			}
		}
	}

	if e.Speed() != 5.5 {
		t.Errorf("Speed() = %v, expected 5.5", e.Speed())
	}
	if e.SpawnInterval() != 95 {
		t.Errorf("SpawnInterval() = %v, expected 95", e.SpawnInterval())
	}
	if len(changes) != 1 || changes[0].Level != 1 {
		t.Errorf("expected one level 1 change, got %v", changes)
	}
	if e.Phase() != core.PhasePlaying {
		t.Errorf("Phase() = %v, expected playing", e.Phase())
	}
}

func TestEngineDifficultyIndependentOfFrameRate(t *testing.T) {
	fast := newPlayingEngine(t, noSpawns)
	slow := newPlayingEngine(t, noSpawns)

	for i := 0; i < 1200; i++ {
		fast.Tick(fast.NominalTick(), core.DirNone)
	}
	for i := 0; i < 600; i++ {
		slow.Tick(2*slow.NominalTick(), core.DirNone)
	}

	if fast.Speed() != slow.Speed() || fast.SpawnInterval() != slow.SpawnInterval() {
		t.Errorf("60Hz gave %v/%v, 30Hz gave %v/%v",
			fast.Speed(), fast.SpawnInterval(), slow.Speed(), slow.SpawnInterval())
	}
}

func TestEngineCollisionEndsRun(t *testing.T) {
	e := newPlayingEngine(t, nil)
	e.score = 30

	placeObstacle(e, LaneMiddle, e.Player().Y)
	placeObstacle(e, LaneLeft, 100)

	events := e.Tick(e.NominalTick(), core.DirNone)

	over, ok := findGameOver(events)
	if !ok {
		t.Fatalf("expected a game over event, got %v", events)
	}
	if over.FinalScore != 30 {
		t.Errorf("FinalScore = %d, expected 30", over.FinalScore)
	}
	if !over.Collision {
		t.Error("Collision should be true")
	}
	if e.Phase() != core.PhaseGameOver {
		t.Errorf("Phase() = %v, expected gameOver", e.Phase())
	}
	if e.Score() != 30 {
		t.Errorf("Score() = %d, expected 30", e.Score())
	}
	if e.ActiveCount() != 2 {
		t.Errorf("crash frame should keep its obstacles, ActiveCount() = %d", e.ActiveCount())
	}

	frame := e.Snapshot().Frame
	e.Tick(e.NominalTick(), core.DirNone)
	if e.Snapshot().Frame != frame {
		t.Error("ticks after game over should be ignored")
	}
}

func TestEngineNoCollisionInOtherLane(t *testing.T) {
	e := newPlayingEngine(t, nil)
	placeObstacle(e, LaneLeft, e.Player().Y)
	placeObstacle(e, LaneRight, e.Player().Y)

	for i := 0; i < 5; i++ {
		e.Tick(e.NominalTick(), core.DirNone)
	}
	if e.Phase() != core.PhasePlaying {
		t.Errorf("obstacles in other lanes should not collide, phase = %v", e.Phase())
	}
}

func TestEnginePassScoring(t *testing.T) {
	e := newPlayingEngine(t, nil)
	placeObstacle(e, LaneLeft, testTrackH-1)
	poolLen := e.Pool().Len()

	events := e.Tick(e.NominalTick(), core.DirNone)

	if e.Score() != 10 {
		t.Errorf("Score() = %d, expected 10", e.Score())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, expected 0", e.ActiveCount())
	}
	if e.Pool().Len() != poolLen+1 {
		t.Errorf("passed obstacle should return to the pool, Len() = %d", e.Pool().Len())
	}

	found := false
	for _, ev := range events {
		if sc, ok := ev.(core.ScoreChangedEvent); ok && sc.Score == 10 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ScoreChangedEvent{10}, got %v", events)
	}
}

func TestEngineObstacleAtBottomEdgeNotPassed(t *testing.T) {
	e := newPlayingEngine(t, nil)
	placeObstacle(e, LaneLeft, testTrackH-5)

	e.Tick(e.NominalTick(), core.DirNone)
	if e.Score() != 0 || e.ActiveCount() != 1 {
		t.Errorf("obstacle exactly at the track bottom should stay, score=%d active=%d", e.Score(), e.ActiveCount())
	}
}

func TestEngineLaneChangeCooldown(t *testing.T) {
	e := newPlayingEngine(t, noSpawns)

	e.Tick(e.NominalTick(), core.DirRight)
	if e.Player().Lane != LaneRight {
		t.Fatalf("first change should be immediate, lane = %d", e.Player().Lane)
	}

	for i := 0; i < 9; i++ {
		e.Tick(e.NominalTick(), core.DirLeft)
		if e.Player().Lane != LaneRight {
			t.Fatalf("change accepted during cooldown at tick %d", i+2)
		}
	}

	e.Tick(e.NominalTick(), core.DirLeft)
	if e.Player().Lane != LaneMiddle {
		t.Errorf("change should be accepted after 10 ticks, lane = %d", e.Player().Lane)
	}
}

func TestEngineLaneClampedAtEdges(t *testing.T) {
	e := newPlayingEngine(t, noSpawns)

	for i := 0; i < 100; i++ {
		e.Tick(e.NominalTick(), core.DirLeft)
	}
	if e.Player().Lane != LaneLeft {
		t.Errorf("Lane = %d, expected %d", e.Player().Lane, LaneLeft)
	}

	// Blocked moves at the edge do not start a cooldown
	e.Tick(e.NominalTick(), core.DirRight)
	if e.Player().Lane != LaneMiddle {
		t.Errorf("Lane = %d, expected %d", e.Player().Lane, LaneMiddle)
	}
}

func TestEngineEasingReachesTarget(t *testing.T) {
	e := newPlayingEngine(t, noSpawns)
	e.Tick(e.NominalTick(), core.DirRight)

	p := e.Player()
	if p.TargetX != 480 {
		t.Fatalf("TargetX = %v, expected 480", p.TargetX)
	}
	if math.Abs(p.X-320) > 1e-9 {
		t.Errorf("after one tick X = %v, expected 320", p.X)
	}

	for i := 0; i < 120; i++ {
		e.Tick(e.NominalTick(), core.DirNone)
	}
	if e.Player().X != 480 {
		t.Errorf("player should snap onto the lane, X = %v", e.Player().X)
	}
}

func TestEngineEasingIndependentOfFrameRate(t *testing.T) {
	fast := newPlayingEngine(t, noSpawns)
	slow := newPlayingEngine(t, noSpawns)

	fast.Tick(fast.NominalTick(), core.DirRight)
	for i := 0; i < 29; i++ {
		fast.Tick(fast.NominalTick(), core.DirNone)
	}

	slow.Tick(2*slow.NominalTick(), core.DirRight)
	for i := 0; i < 14; i++ {
		slow.Tick(2*slow.NominalTick(), core.DirNone)
	}

	if diff := math.Abs(fast.Player().X - slow.Player().X); diff > 1e-6 {
		t.Errorf("60Hz X = %v, 30Hz X = %v", fast.Player().X, slow.Player().X)
	}
}

func TestEngineLargeFrameIsClamped(t *testing.T) {
	e := newPlayingEngine(t, nil)
	o := placeObstacle(e, LaneLeft, 0)

	e.Tick(time.Second, core.DirNone)
	if o.Y != 30 {
		t.Errorf("Y = %v, expected 30 (6 ticks at speed 5)", o.Y)
	}

	e.Tick(-time.Second, core.DirNone)
	if o.Y != 30 {
		t.Errorf("negative dt should not move obstacles, Y = %v", o.Y)
	}
}

func TestEngineSpawnsAtInterval(t *testing.T) {
	e := newPlayingEngine(t, nil)

	for i := 0; i < 99; i++ {
		e.Tick(e.NominalTick(), core.DirNone)
	}
	if e.ActiveCount() != 0 {
		t.Fatalf("spawned before the interval elapsed, ActiveCount() = %d", e.ActiveCount())
	}

	e.Tick(e.NominalTick(), core.DirNone)
	if e.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, expected 1", e.ActiveCount())
	}
	s := e.Snapshot()
	if s.Obstacles[0].Y != -60+5 {
		t.Errorf("new obstacle Y = %v, expected -55", s.Obstacles[0].Y)
	}
}

func TestEngineSpawnTimerKeepsRemainder(t *testing.T) {
	cfg := config.DefaultLanesConfig()
	cfg.Difficulty.Enabled = false
	// Tall track so nothing passes or collides during the run
	e := NewEngine(cfg, testTrackW, 5000, 1)
	if !e.MarkReady() || !e.Start() {
		t.Fatalf("engine failed to start, phase = %v", e.Phase())
	}

	// 3 ticks per frame against an interval of 100: the timer reads 102,
	// 101 and 100 at frames 34, 67 and 100.
	var spawnedAt []int
	for i := 1; i <= 100; i++ {
		before := e.ActiveCount()
		e.Tick(3*e.NominalTick(), core.DirNone)
		if e.ActiveCount() > before {
			spawnedAt = append(spawnedAt, i)
		}
	}

	expected := []int{34, 67, 100}
	if len(spawnedAt) != len(expected) {
		t.Fatalf("spawned at frames %v, expected %v", spawnedAt, expected)
	}
	for i := range expected {
		if spawnedAt[i] != expected[i] {
			t.Errorf("spawn %d at frame %d, expected %d", i, spawnedAt[i], expected[i])
		}
	}
}

func TestEngineRestartResetsRun(t *testing.T) {
	e := newPlayingEngine(t, noSpawns)
	e.Tick(e.NominalTick(), core.DirLeft)
	for i := 0; i < 700; i++ {
		e.Tick(e.NominalTick(), core.DirNone)
	}
	if e.Speed() == 5 {
		t.Fatal("difficulty should have advanced before the crash")
	}
	e.score = 50
	placeObstacle(e, LaneLeft, e.Player().Y)
	e.Tick(e.NominalTick(), core.DirNone)
	if e.Phase() != core.PhaseGameOver {
		t.Fatalf("Phase() = %v, expected gameOver", e.Phase())
	}
	e.DrainEvents()

	if !e.Restart() {
		t.Fatal("Restart should succeed after game over")
	}

	if e.Phase() != core.PhasePlaying {
		t.Errorf("Phase() = %v, expected playing", e.Phase())
	}
	if e.Score() != 0 || e.Speed() != 5 || e.SpawnInterval() != 100 {
		t.Errorf("run not reset: score=%d speed=%v interval=%v", e.Score(), e.Speed(), e.SpawnInterval())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, expected 0", e.ActiveCount())
	}
	if p := e.Player(); p.Lane != LaneMiddle || p.X != p.TargetX {
		t.Errorf("player not reset: %+v", p)
	}

	events := e.DrainEvents()
	var sawScore, sawPhase bool
	for _, ev := range events {
		switch v := ev.(type) {
		case core.ScoreChangedEvent:
			sawScore = v.Score == 0
		case core.PhaseChangedEvent:
			sawPhase = v.From == core.PhaseGameOver && v.To == core.PhasePlaying
		}
	}
	if !sawScore || !sawPhase {
		t.Errorf("restart events = %v", events)
	}
}

func TestEngineStop(t *testing.T) {
	e := newPlayingEngine(t, nil)
	placeObstacle(e, LaneLeft, 100)

	if !e.Stop() {
		t.Fatal("Stop should succeed while playing")
	}
	over, ok := findGameOver(e.DrainEvents())
	if !ok || over.Collision {
		t.Errorf("expected a non-collision game over, got %+v (found=%v)", over, ok)
	}
	if e.ActiveCount() != 0 {
		t.Errorf("Stop should release obstacles, ActiveCount() = %d", e.ActiveCount())
	}
	if e.Stop() {
		t.Error("second Stop should be rejected")
	}
}

func TestEngineResize(t *testing.T) {
	e := newPlayingEngine(t, nil)
	o := placeObstacle(e, LaneRight, 200)

	e.Resize(900, 1200)

	p := e.Player()
	if p.TargetX != 430 || p.X != 430 {
		t.Errorf("player X = %v target = %v, expected 430", p.X, p.TargetX)
	}
	if p.Y != 1090 {
		t.Errorf("player Y = %v, expected 1090", p.Y)
	}
	if o.X != 730 || o.Y != 200 {
		t.Errorf("obstacle at (%v, %v), expected (730, 200)", o.X, o.Y)
	}

	e.Resize(0, -1)
	if s := e.Snapshot(); s.TrackW != 900 || s.TrackH != 1200 {
		t.Errorf("invalid resize should be ignored, track = %vx%v", s.TrackW, s.TrackH)
	}
}

func TestEngineDeterministicForSeed(t *testing.T) {
	run := func() []core.Rect {
		e := newPlayingEngine(t, func(cfg *config.LanesConfig) {
			cfg.Difficulty.BaseInterval = 10
		})
		for i := 0; i < 80; i++ {
			e.Tick(e.NominalTick(), core.DirNone)
		}
		return e.Snapshot().Obstacles
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs diverged: %d vs %d obstacles", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("obstacle %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEngineInvariantsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	intent := gen.IntRange(0, 2).Map(func(v int) core.Direction { return core.Direction(v) })

	properties.Property("active obstacles, lane moves and cooldown stay bounded", prop.ForAll(
		func(seed int64, intents []core.Direction) bool {
			cfg := config.DefaultLanesConfig()
			cfg.Obstacles.MaxActive = 3
			cfg.Difficulty.BaseInterval = 2
			e := NewEngine(cfg, testTrackW, testTrackH, seed)
			e.MarkReady()
			e.Start()

			lastChange := -cfg.Player.LaneCooldown
			for _, dir := range intents {
				if e.Phase() == core.PhaseGameOver {
					e.Restart()
					lastChange = -cfg.Player.LaneCooldown
				}
				before := e.Player().Lane
				e.Tick(e.NominalTick(), dir)
				after := e.Player().Lane

				if e.ActiveCount() > cfg.Obstacles.MaxActive {
					return false
				}
				if after < LaneLeft || after > LaneRight {
					return false
				}
				if after != before {
					frame := e.Snapshot().Frame
					if after-before > 1 || before-after > 1 {
						return false
					}
					if frame-lastChange < cfg.Player.LaneCooldown {
						return false
					}
					lastChange = frame
				}
				if e.Pool().Len() > e.Pool().Cap() {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.SliceOfN(400, intent),
	))

	properties.TestingRun(t)
}
