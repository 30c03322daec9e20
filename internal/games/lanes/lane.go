package lanes

import "github.com/vovakirdan/tui-lanes/internal/core"

// Lane indices. The track is split into three equal-width lanes.
const (
	LaneLeft   = 0
	LaneMiddle = 1
	LaneRight  = 2
	NumLanes   = 3
)

// ClampLane constrains a lane index to [LaneLeft, LaneRight].
func ClampLane(lane int) int {
	return core.Clamp(lane, LaneLeft, LaneRight)
}

// LaneCenter returns the horizontal center of a lane on a track of the given width.
func LaneCenter(lane int, trackWidth float64) float64 {
	laneWidth := trackWidth / NumLanes
	return laneWidth*float64(ClampLane(lane)) + laneWidth/2
}
