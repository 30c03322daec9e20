package lanes

import "github.com/vovakirdan/tui-lanes/internal/core"

// Obstacle is a car scrolling down one lane.
type Obstacle struct {
	X, Y float64 // Top-left corner in world units
	W, H float64
	Lane int

	pooled bool // Whether the instance currently sits on the free list
}

// Rect returns the collision rectangle for this obstacle.
func (o *Obstacle) Rect() core.Rect {
	return core.NewRect(o.X, o.Y, o.W, o.H)
}

// ObstaclePool recycles obstacles through a fixed-capacity arena.
//
// New instances are carved from a pre-sized arena so pointers stay valid;
// once it is used up Acquire allocates standalone instances, so Acquire
// never fails. Released instances of either kind go onto a capped free
// list. A release that finds the free list full drops the instance for the
// garbage collector.
type ObstaclePool struct {
	arena     []Obstacle
	free      []*Obstacle // Stack of reusable instances, most recent last
	freeCap   int
	allocated int
	width     float64
	height    float64
}

// NewObstaclePool creates a pool that keeps at most freeCap released
// instances and pre-reserves arenaSize slots.
func NewObstaclePool(freeCap, arenaSize int, width, height float64) *ObstaclePool {
	freeCap = max(freeCap, 0)
	arenaSize = max(arenaSize, 0)
	return &ObstaclePool{
		arena:   make([]Obstacle, 0, arenaSize),
		free:    make([]*Obstacle, 0, freeCap),
		freeCap: freeCap,
		width:   width,
		height:  height,
	}
}

// Acquire returns an obstacle placed just above the track in the given lane.
// The most recently released instance is reused first; otherwise a new one
// is allocated.
func (p *ObstaclePool) Acquire(lane int, trackWidth float64) *Obstacle {
	var o *Obstacle

	switch {
	case len(p.free) > 0:
		o = p.free[len(p.free)-1]
		p.free[len(p.free)-1] = nil
		p.free = p.free[:len(p.free)-1]
	case len(p.arena) < cap(p.arena):
		p.arena = append(p.arena, Obstacle{})
		o = &p.arena[len(p.arena)-1]
		p.allocated++
	default:
		o = &Obstacle{}
		p.allocated++
	}

	lane = ClampLane(lane)
	o.Lane = lane
	o.W = p.width
	o.H = p.height
	o.X = LaneCenter(lane, trackWidth) - p.width/2
	o.Y = -p.height
	o.pooled = false
	return o
}

// Release hands an obstacle back for reuse while the free list is below its
// cap; otherwise the instance is discarded. Releasing nil or an already
// pooled instance is a no-op.
func (p *ObstaclePool) Release(o *Obstacle) {
	if o == nil || o.pooled {
		return
	}
	if len(p.free) >= p.freeCap {
		return
	}
	o.pooled = true
	p.free = append(p.free, o)
}

// Len returns the number of instances waiting for reuse.
func (p *ObstaclePool) Len() int {
	return len(p.free)
}

// Cap returns the maximum number of instances kept for reuse.
func (p *ObstaclePool) Cap() int {
	return p.freeCap
}

// Allocated returns how many instances the pool has ever created.
func (p *ObstaclePool) Allocated() int {
	return p.allocated
}

// Resize updates the size given to obstacles acquired from now on.
func (p *ObstaclePool) Resize(width, height float64) {
	p.width = width
	p.height = height
}
