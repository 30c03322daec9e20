package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lanes/internal/core"
	"github.com/vovakirdan/tui-lanes/internal/registry"
	"github.com/vovakirdan/tui-lanes/internal/storage"
	"github.com/vovakirdan/tui-lanes/internal/telemetry"
)

// Options are the collaborators a game session reports to. All are optional.
type Options struct {
	Store     *storage.Store
	Telemetry *telemetry.Writer
	Logger    *log.Logger
}

// stopper is implemented by games that can end a run without a collision.
type stopper interface {
	Stop() core.StepResult
}

// session holds state that must survive Bubble Tea's value-receiver copies.
type session struct {
	lastTick time.Time
	started  time.Time
	frames   int
	runs     int
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	keys       *KeyMapper
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	session    *session
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		keys:       NewKeyMapper(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		session:    &session{},
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.opts.Logger.Info("session started", "game", m.game.ID(), "seed", m.config.Seed,
		"screen", fmt.Sprintf("%dx%d", m.config.ScreenW, m.config.ScreenH))

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey records the key's action for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		// A run still in progress is recorded as stopped
		if g, ok := m.game.(stopper); ok {
			now := time.Now()
			for _, ev := range g.Stop().Events {
				m.handleEvent(ev, now)
			}
		}
		m.opts.Logger.Info("session ended", "game", m.game.ID(), "runs", m.session.runs, "frames", m.session.frames)
		return m, tea.Quit
	}

	return m, nil
}

// handleResize keeps the run going at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.game.Resize(msg.Width, msg.Height)
	m.opts.Logger.Debug("resized", "width", msg.Width, "height", msg.Height)

	return m, nil
}

// frameDuration returns the time since the previous tick, measured from
// the tick timestamps. The first tick counts as one nominal frame.
func (m Model) frameDuration(now time.Time) time.Duration {
	nominal := time.Second / time.Duration(m.config.TickRate)
	s := m.session
	if s.lastTick.IsZero() {
		s.started = now
		s.lastTick = now
		return nominal
	}
	dt := now.Sub(s.lastTick)
	s.lastTick = now
	if dt < 0 {
		return 0
	}
	return dt
}

// handleTick advances the game and dispatches its events.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.frameDuration(now)

	result := m.game.Step(m.inputFrame, dt)
	m.gameState = result.State
	m.session.frames++

	for _, ev := range result.Events {
		m.handleEvent(ev, now)
	}
	m.recordFrame(now, dt)

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// handleEvent persists and logs a single game event.
func (m Model) handleEvent(ev core.Event, now time.Time) {
	logger := m.opts.Logger

	switch e := ev.(type) {
	case core.GameOverEvent:
		m.session.runs++
		logger.Info("run over", "score", e.FinalScore, "frames", e.Frames,
			"seconds", fmt.Sprintf("%.1f", e.ElapsedMs/1000), "speed", e.Speed, "collision", e.Collision)
		m.saveRun(e)

	case core.QualityChangedEvent:
		logger.Info("quality changed", "level", e.Level)
		if err := m.opts.Telemetry.WriteQuality(telemetry.QualityRecord{
			ElapsedMs: m.sinceStart(now),
			Level:     e.Level,
		}); err != nil {
			logger.Warn("telemetry write failed", "err", err)
		}

	case core.DifficultyChangedEvent:
		logger.Debug("difficulty up", "level", e.Level, "speed", e.Speed, "interval", e.SpawnInterval)

	case core.PhaseChangedEvent:
		logger.Debug("phase", "from", e.From, "to", e.To)
	}
}

// saveRun stores a finished run. Saving is best-effort: failures are
// logged and the game continues.
func (m Model) saveRun(e core.GameOverEvent) {
	if m.opts.Store != nil && e.FinalScore > 0 {
		if _, err := m.opts.Store.SaveRun(storage.Run{
			GameID:    m.game.ID(),
			Score:     e.FinalScore,
			Frames:    e.Frames,
			ElapsedMs: e.ElapsedMs,
			Speed:     e.Speed,
			Collision: e.Collision,
			Seed:      m.config.Seed,
		}); err != nil {
			m.opts.Logger.Error("cannot save run", "err", err)
		}
	}

	if err := m.opts.Telemetry.WriteRun(telemetry.RunRecord{
		Run:       m.session.runs,
		Score:     e.FinalScore,
		Frames:    e.Frames,
		ElapsedMs: e.ElapsedMs,
		Speed:     e.Speed,
		Collision: e.Collision,
	}); err != nil {
		m.opts.Logger.Warn("telemetry write failed", "err", err)
	}
}

// recordFrame appends the frame to telemetry.
func (m Model) recordFrame(now time.Time, dt time.Duration) {
	if m.opts.Telemetry == nil {
		return
	}
	dtMs := float64(dt) / float64(time.Millisecond)
	fps := 0.0
	if dtMs > 0 {
		fps = 1000 / dtMs
	}
	if err := m.opts.Telemetry.WriteFrame(telemetry.FrameRecord{
		Frame:     m.session.frames,
		ElapsedMs: m.sinceStart(now),
		DtMs:      dtMs,
		FPS:       fps,
		Phase:     m.gameState.Phase.String(),
		Score:     m.gameState.Score,
		Quality:   m.gameState.Quality,
	}); err != nil {
		m.opts.Logger.Warn("telemetry write failed", "err", err)
	}
}

func (m Model) sinceStart(now time.Time) float64 {
	if m.session.started.IsZero() {
		return 0
	}
	return float64(now.Sub(m.session.started)) / float64(time.Millisecond)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".lanes", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// State returns the game state observed on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
