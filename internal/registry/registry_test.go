package registry

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-lanes/internal/core"
)

type stubGame struct {
	id   string
	opts Options
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame, time.Duration) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) Resize(int, int) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }

func stubFactory(id string) Factory {
	return func(opts Options) Game {
		return &stubGame{id: id, opts: opts}
	}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", stubFactory("zz-stub"))
	Register("aa-stub", stubFactory("aa-stub"))

	if !Exists("zz-stub") {
		t.Fatal("Exists(zz-stub) = false, expected true")
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true, expected false")
	}

	g, err := Create("zz-stub", Options{ConfigPath: "custom.yaml", Preset: "hard"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	stub := g.(*stubGame)
	if stub.opts.ConfigPath != "custom.yaml" || stub.opts.Preset != "hard" {
		t.Errorf("options not passed through: %+v", stub.opts)
	}

	if _, err := Create("missing", Options{}); err == nil {
		t.Error("Create(missing) should fail")
	}

	list := List()
	var aa, zz = -1, -1
	for i, info := range list {
		switch info.ID {
		case "aa-stub":
			aa = i
			if info.Title != "Stub aa-stub" {
				t.Errorf("Title = %q, expected %q", info.Title, "Stub aa-stub")
			}
		case "zz-stub":
			zz = i
		}
	}
	if aa < 0 || zz < 0 || aa > zz {
		t.Errorf("List() should be sorted by ID, got %v", list)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", stubFactory("dup-stub"))

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate ID should panic")
		}
	}()
	Register("dup-stub", stubFactory("dup-stub"))
}
