package core

// Phase is the run state of a game.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhasePlaying
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a game during a tick or command.
// The set of events is closed; the platform switches on concrete types.
type Event interface {
	gameEvent()
}

// ScoreChangedEvent is emitted whenever the score changes.
type ScoreChangedEvent struct {
	Score int
}

func (ScoreChangedEvent) gameEvent() {}

// GameOverEvent is emitted once when a run ends.
type GameOverEvent struct {
	FinalScore int
	Frames     int     // Ticks simulated during the run
	ElapsedMs  float64 // Simulated run time in milliseconds
	Speed      float64 // Scroll speed at the end of the run
	Collision  bool    // False when the run was stopped externally
}

func (GameOverEvent) gameEvent() {}

// PhaseChangedEvent is emitted on every run phase transition.
type PhaseChangedEvent struct {
	From Phase
	To   Phase
}

func (PhaseChangedEvent) gameEvent() {}

// DifficultyChangedEvent is emitted when the difficulty ratchet steps.
type DifficultyChangedEvent struct {
	Level         int
	Speed         float64
	SpawnInterval float64
}

func (DifficultyChangedEvent) gameEvent() {}

// QualityChangedEvent tells the view layer to rescale its render target.
type QualityChangedEvent struct {
	Level float64
}

func (QualityChangedEvent) gameEvent() {}
