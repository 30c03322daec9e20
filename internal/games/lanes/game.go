// Package lanes implements a three-lane endless runner.
// The player steers a car between lanes to dodge traffic that scrolls
// down the screen faster and denser the longer the run lasts.
package lanes

import (
	"time"

	"github.com/vovakirdan/tui-lanes/internal/config"
	"github.com/vovakirdan/tui-lanes/internal/core"
	"github.com/vovakirdan/tui-lanes/internal/quality"
	"github.com/vovakirdan/tui-lanes/internal/registry"
)

// GameID is the registry and score table identifier.
const GameID = "lanes"

// Game adapts the engine to the platform: it maps actions to engine
// commands, owns pause, feeds the quality controller and renders.
type Game struct {
	cfg     config.LanesConfig
	loadErr error
	runtime core.RuntimeConfig

	engine  *Engine
	quality *quality.Controller
	paused  bool

	canvas *core.Screen // Logical grid at the current quality level
}

// New creates a lanes game. The config is loaded from opts.ConfigPath and
// falls back to defaults on error; the error is kept for ConfigErr.
func New(opts registry.Options) *Game {
	cfg, err := config.LoadLanes(opts.ConfigPath)
	if err != nil {
		cfg = config.DefaultLanesConfig()
	}
	if preset := config.ParsePreset(opts.Preset); preset != "" {
		config.ApplyLanesPreset(&cfg, preset)
	}
	return NewWithConfig(cfg, err)
}

// NewWithConfig creates a lanes game from an already loaded config.
func NewWithConfig(cfg config.LanesConfig, loadErr error) *Game {
	return &Game{
		cfg:     cfg,
		loadErr: loadErr,
		runtime: core.DefaultConfig(),
		quality: quality.NewController(cfg.Quality),
		canvas:  core.NewScreen(1, 1),
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Lanes"
}

// ConfigErr returns the error hit while loading the config, if any.
func (g *Game) ConfigErr() error {
	return g.loadErr
}

// Config returns the config the game runs with.
func (g *Game) Config() config.LanesConfig {
	return g.cfg
}

// Reset builds a fresh engine and leaves it on the ready screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.RenderScale <= 0 {
		runtime.RenderScale = 1
	}
	g.runtime = runtime

	w, h := g.trackSize(runtime.ScreenW, runtime.ScreenH)
	g.engine = NewEngine(g.cfg, w, h, runtime.Seed)
	g.engine.MarkReady()
	g.quality.Reset()
	g.paused = false
}

// Step applies commands from the input frame and advances the engine by dt.
func (g *Game) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	if g.engine == nil {
		g.Reset(g.runtime)
	}

	g.applyCommands(in)

	var events []core.Event
	if g.paused {
		events = g.engine.DrainEvents()
	} else {
		events = g.engine.Tick(dt, in.Direction())
	}

	for _, ev := range events {
		if _, ok := ev.(core.PhaseChangedEvent); ok {
			g.quality.Cancel()
			g.paused = false
		}
	}

	if r := g.quality.Sample(dt); r.Changed {
		events = append(events, core.QualityChangedEvent{Level: r.Level})
	}

	return core.StepResult{State: g.State(), Events: events}
}

// applyCommands maps platform actions onto engine commands.
func (g *Game) applyCommands(in core.InputFrame) {
	switch g.engine.Phase() {
	case core.PhaseReady:
		if in.Has(core.ActionStart) || in.Has(core.ActionRestart) {
			g.engine.Start()
		}
	case core.PhasePlaying:
		if in.Has(core.ActionPause) {
			g.paused = !g.paused
		}
		if g.paused && in.Has(core.ActionStart) {
			g.paused = false
		}
	case core.PhaseGameOver:
		if in.Has(core.ActionRestart) || in.Has(core.ActionStart) {
			g.engine.Restart()
		}
	}
}

// Stop ends the current run without a collision.
func (g *Game) Stop() core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State()}
	}
	g.engine.Stop()
	events := g.engine.DrainEvents()
	if len(events) > 0 {
		g.quality.Cancel()
		g.paused = false
	}
	return core.StepResult{State: g.State(), Events: events}
}

// Resize recomputes the track for a new terminal size.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	if g.engine != nil {
		g.engine.Resize(g.trackSize(width, height))
	}
}

// trackSize converts a screen size in cells into world units.
func (g *Game) trackSize(screenW, screenH int) (float64, float64) {
	return float64(screenW) * g.cfg.Track.CellWidth, float64(screenH) * g.cfg.Track.CellHeight
}

// Snapshot returns the engine's current snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.engine == nil {
		g.Reset(g.runtime)
	}
	return g.engine.Snapshot()
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := core.GameState{
		Paused:  g.paused,
		Quality: g.quality.Level(),
	}
	if g.engine != nil {
		s.Score = g.engine.Score()
		s.Phase = g.engine.Phase()
		s.GameOver = s.Phase == core.PhaseGameOver
	}
	return s
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func(opts registry.Options) registry.Game {
		return New(opts)
	})
}
