package lanes

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-lanes/internal/config"
	"github.com/vovakirdan/tui-lanes/internal/core"
)

// snapEpsilon is the distance below which the player snaps onto its lane target.
const snapEpsilon = 0.01

// Player is the car the user steers between lanes.
type Player struct {
	X, Y    float64 // Top-left corner in world units; Y is fixed per layout
	W, H    float64
	Lane    int
	TargetX float64 // X the car eases toward, derived from Lane
}

// Rect returns the player's collision rectangle.
func (p Player) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// Snapshot is a render-ready copy of the world.
type Snapshot struct {
	Phase         core.Phase
	Player        core.Rect
	Lane          int
	Obstacles     []core.Rect // In spawn order, oldest first
	Score         int
	Speed         float64
	SpawnInterval float64
	Level         int
	Frame         int
	Elapsed       float64 // Nominal ticks simulated this run
	Scroll        float64 // Distance the track has moved this run
	TrackW        float64
	TrackH        float64
}

// Engine runs the lane simulation. All state belongs to one instance that is
// advanced synchronously by a driver loop; nothing here is safe for
// concurrent use.
type Engine struct {
	cfg        config.LanesConfig
	rng        *rand.Rand
	pool       *ObstaclePool
	difficulty *config.DifficultyManager
	nominal    time.Duration // Frame duration that counts as one tick

	phase  core.Phase
	player Player
	active []*Obstacle // Owned by the engine; never also on the pool's free list

	score          int
	frame          int     // Ticks simulated this run
	elapsed        float64 // Nominal ticks simulated this run
	scroll         float64 // Track distance moved this run
	spawnTimer     float64 // Nominal ticks since the last spawn attempt
	lastLaneChange int     // Frame of the last accepted lane change

	trackW, trackH float64
	events         []core.Event
}

// NewEngine creates an engine in the loading phase for a track of the given size.
func NewEngine(cfg config.LanesConfig, trackW, trackH float64, seed int64) *Engine {
	rate := cfg.Sim.NominalRate
	if rate <= 0 {
		rate = 60
	}

	e := &Engine{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		pool:       NewObstaclePool(cfg.Obstacles.PoolCap, cfg.Obstacles.PoolCap+cfg.Obstacles.MaxActive, cfg.Obstacles.Width, cfg.Obstacles.Height),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		nominal:    time.Second / time.Duration(rate),
		phase:      core.PhaseLoading,
		active:     make([]*Obstacle, 0, max(cfg.Obstacles.MaxActive, 0)),
		player: Player{
			W: cfg.Player.Width,
			H: cfg.Player.Height,
		},
	}
	e.Resize(trackW, trackH)
	e.resetRun()
	e.events = e.events[:0]
	return e
}

// NominalTick returns the frame duration that advances the simulation by exactly one tick.
func (e *Engine) NominalTick() time.Duration {
	return e.nominal
}

// Reseed replaces the lane RNG, used when the platform starts a fresh game.
func (e *Engine) Reseed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// MarkReady finishes the loading phase.
func (e *Engine) MarkReady() bool {
	if e.phase != core.PhaseLoading {
		return false
	}
	e.setPhase(core.PhaseReady)
	return true
}

// Start begins the first run from the ready phase.
func (e *Engine) Start() bool {
	if e.phase != core.PhaseReady {
		return false
	}
	e.resetRun()
	e.setPhase(core.PhasePlaying)
	return true
}

// Restart resets score, speed, obstacles and lane and begins a new run.
// Accepted after game over, and from ready as an alias of Start.
func (e *Engine) Restart() bool {
	if e.phase != core.PhaseGameOver && e.phase != core.PhaseReady {
		return false
	}
	e.resetRun()
	e.setPhase(core.PhasePlaying)
	return true
}

// Stop ends a run without a collision and returns its obstacles to the pool.
func (e *Engine) Stop() bool {
	if e.phase != core.PhasePlaying {
		return false
	}
	e.endRun(false)
	e.releaseAll()
	return true
}

// Resize updates the track dimensions and recomputes every lane-derived position.
// Non-positive dimensions are ignored.
func (e *Engine) Resize(trackW, trackH float64) {
	if trackW <= 0 || trackH <= 0 {
		return
	}
	e.trackW, e.trackH = trackW, trackH

	e.player.Y = trackH - e.cfg.Player.BottomOffset
	e.player.TargetX = e.laneX(e.player.Lane, e.player.W)
	e.player.X = e.player.TargetX

	for _, o := range e.active {
		o.X = e.laneX(o.Lane, o.W)
	}
}

// Tick advances the simulation by the elapsed wall-clock time and applies
// the direction intent captured since the previous tick. It does nothing
// outside the playing phase. Returns the events raised since the last drain.
func (e *Engine) Tick(dt time.Duration, intent core.Direction) []core.Event {
	if e.phase != core.PhasePlaying {
		return e.DrainEvents()
	}

	n := e.nominalTicks(dt)
	e.frame++
	e.elapsed += n

	e.applyIntent(intent)
	e.easePlayer(n)

	// Leftover ticks carry into the next interval
	e.spawnTimer += n
	if interval := e.difficulty.SpawnInterval(); e.spawnTimer >= interval {
		e.spawn()
		e.spawnTimer -= interval
		if e.spawnTimer >= interval {
			e.spawnTimer = 0
		}
	}

	speed := e.difficulty.Speed()
	e.scroll += speed * n
	for _, o := range e.active {
		o.Y += speed * n
	}

	if e.resolveObstacles() {
		return e.DrainEvents()
	}

	if e.difficulty.Advance(n) {
		e.emit(core.DifficultyChangedEvent{
			Level:         e.difficulty.Level(),
			Speed:         e.difficulty.Speed(),
			SpawnInterval: e.difficulty.SpawnInterval(),
		})
	}

	return e.DrainEvents()
}

// nominalTicks converts wall-clock time into simulation ticks.
func (e *Engine) nominalTicks(dt time.Duration) float64 {
	n := float64(dt) / float64(e.nominal)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return math.Min(n, e.cfg.Sim.MaxStepTicks)
}

// applyIntent moves at most one lane, and only once the cooldown since the
// previous accepted change has passed. Holding a direction therefore cannot
// skip lanes.
func (e *Engine) applyIntent(intent core.Direction) {
	delta := intent.Delta()
	if delta == 0 || e.frame-e.lastLaneChange < e.cfg.Player.LaneCooldown {
		return
	}

	lane := ClampLane(e.player.Lane + delta)
	if lane == e.player.Lane {
		return
	}
	e.player.Lane = lane
	e.player.TargetX = e.laneX(lane, e.player.W)
	e.lastLaneChange = e.frame
}

// easePlayer closes the configured fraction of the gap per nominal tick.
// The exponent keeps the approach identical at any frame rate.
func (e *Engine) easePlayer(n float64) {
	gap := e.player.TargetX - e.player.X
	if core.AbsF(gap) < snapEpsilon {
		e.player.X = e.player.TargetX
		return
	}
	factor := 1 - math.Pow(1-e.cfg.Player.Easing, n)
	e.player.X += gap * factor
	if core.AbsF(e.player.TargetX-e.player.X) < snapEpsilon {
		e.player.X = e.player.TargetX
	}
}

// spawn places one obstacle in a uniformly random lane unless the active
// cap is reached.
func (e *Engine) spawn() {
	if len(e.active) >= e.cfg.Obstacles.MaxActive {
		return
	}
	lane := e.rng.Intn(NumLanes)
	e.active = append(e.active, e.pool.Acquire(lane, e.trackW))
}

// resolveObstacles scores obstacles that left the track and checks the rest
// for a collision. The pass check runs first so one obstacle can never both
// score and collide in the same tick. Returns true if the run ended.
func (e *Engine) resolveObstacles() bool {
	playerRect := e.player.Rect()
	kept := e.active[:0]

	for i, o := range e.active {
		if o.Y > e.trackH {
			e.pool.Release(o)
			e.score += e.cfg.Obstacles.PassPoints
			e.emit(core.ScoreChangedEvent{Score: e.score})
			continue
		}

		if playerRect.Intersects(o.Rect()) {
			kept = append(kept, e.active[i:]...)
			e.truncateActive(len(kept))
			e.endRun(true)
			return true
		}

		kept = append(kept, o)
	}

	e.truncateActive(len(kept))
	return false
}

// truncateActive shortens the active slice, clearing stale pointers in the tail.
func (e *Engine) truncateActive(n int) {
	for i := n; i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = e.active[:n]
}

// releaseAll returns every active obstacle to the pool.
func (e *Engine) releaseAll() {
	for _, o := range e.active {
		e.pool.Release(o)
	}
	e.truncateActive(0)
}

// resetRun restores initial run values. Obstacles from the previous run go
// back to the pool here, so the crash frame stays renderable until then.
func (e *Engine) resetRun() {
	e.releaseAll()

	prevScore := e.score
	e.score = 0
	e.frame = 0
	e.elapsed = 0
	e.scroll = 0
	e.spawnTimer = 0
	e.lastLaneChange = -e.cfg.Player.LaneCooldown
	e.difficulty.Reset()

	e.player.Lane = ClampLane(e.cfg.Player.StartLane)
	e.player.TargetX = e.laneX(e.player.Lane, e.player.W)
	e.player.X = e.player.TargetX

	if prevScore != 0 {
		e.emit(core.ScoreChangedEvent{Score: 0})
	}
}

// endRun moves to game over and reports the final score.
func (e *Engine) endRun(collision bool) {
	e.setPhase(core.PhaseGameOver)
	e.emit(core.GameOverEvent{
		FinalScore: e.score,
		Frames:     e.frame,
		ElapsedMs:  e.elapsed * float64(e.nominal) / float64(time.Millisecond),
		Speed:      e.difficulty.Speed(),
		Collision:  collision,
	})
}

func (e *Engine) setPhase(p core.Phase) {
	if p == e.phase {
		return
	}
	from := e.phase
	e.phase = p
	e.emit(core.PhaseChangedEvent{From: from, To: p})
}

func (e *Engine) emit(ev core.Event) {
	e.events = append(e.events, ev)
}

// DrainEvents returns and clears the events raised since the previous drain.
func (e *Engine) DrainEvents() []core.Event {
	if len(e.events) == 0 {
		return nil
	}
	out := make([]core.Event, len(e.events))
	copy(out, e.events)
	e.events = e.events[:0]
	return out
}

// laneX returns the left edge that centers an object of width w in a lane.
func (e *Engine) laneX(lane int, w float64) float64 {
	return LaneCenter(lane, e.trackW) - w/2
}

// Snapshot returns a copy of the world suitable for rendering.
func (e *Engine) Snapshot() Snapshot {
	obstacles := make([]core.Rect, len(e.active))
	for i, o := range e.active {
		obstacles[i] = o.Rect()
	}
	return Snapshot{
		Phase:         e.phase,
		Player:        e.player.Rect(),
		Lane:          e.player.Lane,
		Obstacles:     obstacles,
		Score:         e.score,
		Speed:         e.difficulty.Speed(),
		SpawnInterval: e.difficulty.SpawnInterval(),
		Level:         e.difficulty.Level(),
		Frame:         e.frame,
		Elapsed:       e.elapsed,
		Scroll:        e.scroll,
		TrackW:        e.trackW,
		TrackH:        e.trackH,
	}
}

// Phase returns the current run phase.
func (e *Engine) Phase() core.Phase {
	return e.phase
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Player returns a copy of the player state.
func (e *Engine) Player() Player {
	return e.player
}

// Speed returns the current scroll speed.
func (e *Engine) Speed() float64 {
	return e.difficulty.Speed()
}

// SpawnInterval returns the current spawn interval in nominal ticks.
func (e *Engine) SpawnInterval() float64 {
	return e.difficulty.SpawnInterval()
}

// ActiveCount returns the number of obstacles on the track.
func (e *Engine) ActiveCount() int {
	return len(e.active)
}

// Pool exposes the obstacle pool for statistics.
func (e *Engine) Pool() *ObstaclePool {
	return e.pool
}
