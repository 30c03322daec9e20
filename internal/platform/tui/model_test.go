package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lanes/internal/core"
	"github.com/vovakirdan/tui-lanes/internal/registry"
	"github.com/vovakirdan/tui-lanes/internal/storage"
	"github.com/vovakirdan/tui-lanes/internal/telemetry"
)

// scriptedGame replays queued events and records what the model fed it.
type scriptedGame struct {
	resets  int
	dts     []time.Duration
	dirs    []core.Direction
	pending [][]core.Event
	size    [2]int
	state   core.GameState
}

func (g *scriptedGame) ID() string { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *scriptedGame) Resize(w, h int) { g.size = [2]int{w, h} }
func (g *scriptedGame) State() core.GameState { return g.state }

func (g *scriptedGame) Render(s *core.Screen) {
	s.Clear()
	s.DrawText(0, 0, "scripted", core.ColorWhite)
}

func (g *scriptedGame) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	g.dts = append(g.dts, dt)
	g.dirs = append(g.dirs, in.Direction())
	var events []core.Event
	if len(g.pending) > 0 {
		events, g.pending = g.pending[0], g.pending[1:]
	}
	return core.StepResult{State: g.state, Events: events}
}

// stoppableGame ends its run with a score when stopped.
type stoppableGame struct {
	scriptedGame
	stops int
}

func (g *stoppableGame) Stop() core.StepResult {
	g.stops++
	return core.StepResult{Events: []core.Event{
		core.GameOverEvent{FinalScore: 50, Frames: 900, ElapsedMs: 15000, Speed: 6},
	}}
}

func newTestModel(t *testing.T, game registry.Game, opts Options) Model {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 99
	m := NewModel(game, cfg, opts)
	m.Init()
	return m
}

func tick(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	next, cmd := m.Update(TickMsg(at))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	return next.(Model)
}

func TestModelFrameDuration(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(t, game, Options{})
	if game.resets != 1 {
		t.Fatalf("Init should reset the game once, got %d", game.resets)
	}

	start := time.Unix(1000, 0)
	m = tick(t, m, start)
	m = tick(t, m, start.Add(25*time.Millisecond))
	m = tick(t, m, start.Add(35*time.Millisecond))

	expected := []time.Duration{time.Second / 60, 25 * time.Millisecond, 10 * time.Millisecond}
	for i, dt := range expected {
		if game.dts[i] != dt {
			t.Errorf("dt[%d] = %v, expected %v", i, game.dts[i], dt)
		}
	}
}

func TestModelInputClearedAfterTick(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(t, game, Options{})

	next, _ := m.Update(runeKey('a'))
	m = next.(Model)
	start := time.Unix(1000, 0)
	m = tick(t, m, start)
	tick(t, m, start.Add(16*time.Millisecond))

	if game.dirs[0] != core.DirLeft {
		t.Errorf("first tick direction = %v, expected Left", game.dirs[0])
	}
	if game.dirs[1] != core.DirNone {
		t.Errorf("input should be cleared after a tick, got %v", game.dirs[1])
	}
}

func TestModelSavesRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	dir := t.TempDir()
	w, err := telemetry.NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	game := &scriptedGame{pending: [][]core.Event{
		{core.GameOverEvent{FinalScore: 30, Frames: 600, ElapsedMs: 10000, Speed: 5.5, Collision: true}},
		{core.QualityChangedEvent{Level: 0.75}},
		{core.GameOverEvent{FinalScore: 0, Frames: 40, Collision: true}},
	}}
	m := newTestModel(t, game, Options{Store: store, Telemetry: w})

	start := time.Unix(1000, 0)
	for i := 0; i < 3; i++ {
		m = tick(t, m, start.Add(time.Duration(i)*20*time.Millisecond))
	}
	w.Close()

	runs, err := store.RecentRuns("scripted", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 stored run (zero scores are skipped), got %d", len(runs))
	}
	if runs[0].Score != 30 || runs[0].Seed != 99 || !runs[0].Collision {
		t.Errorf("stored run = %+v", runs[0])
	}

	recorded, err := telemetry.ReadRuns(dir)
	if err != nil {
		t.Fatalf("ReadRuns() failed: %v", err)
	}
	if len(recorded) != 2 || recorded[0].Run != 1 || recorded[1].Run != 2 {
		t.Errorf("telemetry runs = %+v", recorded)
	}

	frames, err := telemetry.ReadFrames(dir)
	if err != nil {
		t.Fatalf("ReadFrames() failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frame records, got %d", len(frames))
	}
	if frames[1].DtMs != 20 || frames[1].FPS != 50 {
		t.Errorf("frame 2 = %+v", frames[1])
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	game := &scriptedGame{}
	m := newTestModel(t, game, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if game.size != [2]int{120, 40} {
		t.Errorf("game size = %v, expected [120 40]", game.size)
	}
	if game.resets != 1 {
		t.Error("resize should not reset the game")
	}
	if m.screen.Width() != 120 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, expected 120x40", m.screen.Width(), m.screen.Height())
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, &scriptedGame{}, Options{})

	if m.View() == "" {
		t.Error("View() should render while running")
	}

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if next.(Model).View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelQuitStopsRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game := &stoppableGame{}
	m := newTestModel(t, game, Options{Store: store})
	m.Update(runeKey('q'))

	if game.stops != 1 {
		t.Fatalf("quit should stop the run once, got %d", game.stops)
	}
	runs, err := store.RecentRuns("scripted", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 50 || runs[0].Collision {
		t.Errorf("stopped run = %+v", runs)
	}
}

func TestRenderScreenRows(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab", core.ColorRed)
	s.DrawText(0, 1, "cd", core.ColorDefault)

	out := RenderScreen(s)
	if got := len(strings.Split(out, "\n")); got != 2 {
		t.Errorf("RenderScreen produced %d lines, expected 2", got)
	}
}
