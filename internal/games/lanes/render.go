package lanes

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-lanes/internal/core"
	"github.com/vovakirdan/tui-lanes/internal/quality"
)

// Visual characters for rendering
const (
	PlayerChar   = '█'
	ObstacleChar = '▓'
	DividerChar  = '┊'
	EdgeChar     = '│'
)

// dashPeriod is the length in world units of one divider dash cycle.
const dashPeriod = 64.0

// Render draws the current game state to the screen.
// The world is rasterized at the quality-scaled resolution and then
// stretched over the whole screen; the HUD is drawn at full resolution.
func (g *Game) Render(dst *core.Screen) {
	if g.engine == nil {
		g.Reset(g.runtime)
	}
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	s := g.engine.Snapshot()
	gw, gh := g.quality.GridSize(dst.Width(), dst.Height(), g.runtime.RenderScale)
	if g.canvas.Width() != gw || g.canvas.Height() != gh {
		g.canvas.Resize(gw, gh)
	} else {
		g.canvas.Clear()
	}

	rasterize(g.canvas, s)
	upsample(dst, g.canvas)
	g.drawHUD(dst, s)
}

// rasterize draws the track, traffic and player onto a logical grid.
func rasterize(dst *core.Screen, s Snapshot) {
	if s.TrackW <= 0 || s.TrackH <= 0 {
		return
	}
	sx := float64(dst.Width()) / s.TrackW
	sy := float64(dst.Height()) / s.TrackH

	dst.DrawVLine(0, 0, dst.Height(), EdgeChar, core.ColorWhite)
	dst.DrawVLine(dst.Width()-1, 0, dst.Height(), EdgeChar, core.ColorWhite)

	// Dashes scroll with the traffic
	offset := math.Mod(s.Scroll, dashPeriod)
	for lane := 1; lane < NumLanes; lane++ {
		x := int(s.TrackW / NumLanes * float64(lane) * sx)
		for y := 0; y < dst.Height(); y++ {
			worldY := float64(y)/sy - offset
			if math.Mod(worldY+dashPeriod*4, dashPeriod) < dashPeriod/2 {
				dst.SetColor(x, y, DividerChar, core.ColorGray)
			}
		}
	}

	for _, r := range s.Obstacles {
		fillRect(dst, r.Scale(sx, sy), ObstacleChar, core.ColorRed)
	}

	playerColor := core.ColorCyan
	if s.Phase == core.PhaseGameOver {
		playerColor = core.ColorBrightRed
	}
	fillRect(dst, s.Player.Scale(sx, sy), PlayerChar, playerColor)
}

// fillRect fills every cell a rectangle touches, at least one cell.
func fillRect(dst *core.Screen, r core.Rect, ch rune, c core.Color) {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := max(int(math.Ceil(r.Right())), x0+1)
	y1 := max(int(math.Ceil(r.Bottom())), y0+1)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dst.SetColor(x, y, ch, c)
		}
	}
}

// upsample stretches src over dst with nearest-neighbour sampling.
func upsample(dst, src *core.Screen) {
	w, h := dst.Width(), dst.Height()
	sw, sh := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		srcY := y * sh / h
		for x := 0; x < w; x++ {
			cell := src.GetCell(x*sw/w, srcY)
			dst.SetColor(x, y, cell.Rune, cell.Color)
		}
	}
}

// drawHUD renders score, speed and phase overlays.
func (g *Game) drawHUD(dst *core.Screen, s Snapshot) {
	dst.DrawText(2, 0, fmt.Sprintf(" Score: %d ", s.Score), core.ColorYellow)

	right := fmt.Sprintf(" Spd: %.1f  Q: %.2f ", s.Speed, g.quality.Level())
	dst.DrawText(dst.Width()-len(right)-2, 0, right, core.ColorWhite)

	switch {
	case s.Phase == core.PhaseReady:
		drawCenteredMessage(dst, "LANES", "Press Enter to start", core.ColorGreen)
	case s.Phase == core.PhaseGameOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", s.Score), core.ColorBrightRed)
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorBrightYellow)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawBox(boxX, boxY, boxW, boxH, c)
	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle, core.ColorWhite)
}

// RenderSize returns the logical grid the renderer would use for a screen.
func (g *Game) RenderSize(screenW, screenH int) (int, int) {
	return quality.GridSize(screenW, screenH, g.quality.Level()*g.runtime.RenderScale)
}
