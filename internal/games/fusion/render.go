package fusion

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
)

const (
	cellWidth  = 7 // Width of each cell (including the left border)
	cellHeight = 2 // Height of each cell (including the top border)
	hudHeight  = 3
)

// boardDims returns the board size in characters, borders included.
func boardDims(n int) (w, h int) {
	return n*cellWidth + 1, n*cellHeight + 1
}

// TileColor returns the colour a tile of value v is drawn in.
func TileColor(v int) core.Color {
	switch v {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorPink
	case 128:
		return core.ColorYellow
	case 256:
		return core.ColorBrightYellow
	case 512:
		return core.ColorGold
	case 1024:
		return core.ColorGreen
	case 2048:
		return core.ColorBrightGreen
	case 4096:
		return core.ColorCyan
	case 8192:
		return core.ColorBrightCyan
	}
	if v > 8192 {
		return core.ColorBrightMagenta
	}
	return core.ColorDefault
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.state == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := boardDims(g.state.GridSize)
	board := core.NewRect((g.screenW-boardW)/2, hudHeight+1, boardW, boardH)

	g.renderHUD(dst, board)
	g.renderGrid(dst, board)
	g.renderTiles(dst, board)
	g.renderOverlays(dst, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws score, mode info and the clock.
func (g *Game) renderHUD(dst *core.Screen, board core.Rect) {
	s := g.state

	dst.DrawTextCenteredColor(0, g.Title(), core.ColorBrightYellow)
	dst.DrawText(board.X, 1, fmt.Sprintf("Score: %d", s.Score))

	var info string
	switch s.Mode {
	case engine.ModeTarget:
		info = fmt.Sprintf("Level %d/%d  Target: %d", g.level+1, LevelCount(), s.GoalValue)
	case engine.ModeTimeAttack:
		info = "Time: " + formatClock(s.TimeLeft)
	default:
		info = fmt.Sprintf("Max: %d  Goal: %d", s.MaxTile(), s.GoalValue)
	}
	infoX := max(board.X, board.Right()-utf8.RuneCountInString(info))
	infoColor := core.ColorDefault
	if s.Mode == engine.ModeTimeAttack && s.TimeLeft <= 10*time.Second {
		infoColor = core.ColorBrightRed
	}
	dst.DrawTextColor(infoX, 1, info, infoColor)

	status := fmt.Sprintf("Moves: %d", s.MoveCount)
	if s.Mode == engine.ModeClassic && s.GoalReached {
		status += fmt.Sprintf("  %d reached!", s.GoalValue)
	}
	dst.DrawTextCenteredColor(2, status, core.ColorGray)
}

// formatClock renders d as m:ss, rounding up so 0:00 means time is out.
func formatClock(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// renderGrid draws cell borders.
func (g *Game) renderGrid(dst *core.Screen, board core.Rect) {
	n := g.state.GridSize
	for y := range n + 1 {
		for x := range n + 1 {
			px := board.X + x*cellWidth
			py := board.Y + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColor(px, py, corner, core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// renderTiles draws settled tiles from the grid, then moving sprites.
func (g *Game) renderTiles(dst *core.Screen, board core.Rect) {
	for r, row := range g.state.Grid {
		for c, v := range row {
			cell := engine.Cell{Row: r, Col: c}
			if v == 0 || g.anim.hidden[cell] {
				continue
			}
			x := board.X + c*cellWidth + 1
			y := board.Y + r*cellHeight + 1
			if g.anim.popping(cell) {
				drawPop(dst, x, y, v)
				continue
			}
			drawValue(dst, x, y, v)
		}
	}

	for _, sp := range g.anim.sprites {
		row, col := sp.position()
		x := board.X + int(math.Round(col*cellWidth)) + 1
		y := board.Y + int(math.Round(row*cellHeight)) + 1
		drawValue(dst, x, y, sp.Value)
	}
}

// drawValue centres v in the cell interior starting at x, y.
func drawValue(dst *core.Screen, x, y, v int) {
	s := strconv.Itoa(v)
	pad := core.Clamp((cellWidth-1-len(s))/2, 0, cellWidth)
	dst.DrawTextColor(x+pad, y, s, TileColor(v))
}

// drawPop draws a freshly merged or spawned tile highlighted.
func drawPop(dst *core.Screen, x, y, v int) {
	for i := range cellWidth - 1 {
		dst.SetColor(x+i, y, '░', TileColor(v))
	}
	drawValue(dst, x, y, v)
}

// renderOverlays draws pause and end-of-game boxes.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	s := g.state

	switch {
	case g.paused:
		drawOverlay(dst, board, core.ColorBrightCyan, "PAUSED", "Press P to resume")
	case s.Status == engine.StatusWon:
		next := "Press R to play again"
		if g.level+1 < LevelCount() {
			next = fmt.Sprintf("Press R for level %d", g.level+2)
		}
		drawOverlay(dst, board, core.ColorBrightGreen,
			"YOU WIN!", fmt.Sprintf("Reached %d", s.GoalValue), next)
	case s.Status == engine.StatusLost && s.Mode == engine.ModeTimeAttack && s.TimeLeft == 0:
		drawOverlay(dst, board, core.ColorBrightRed,
			"TIME'S UP", fmt.Sprintf("Score: %d", s.Score), "Press R to restart")
	case s.Status == engine.StatusLost:
		drawOverlay(dst, board, core.ColorBrightRed,
			"GAME OVER", fmt.Sprintf("Max tile: %d", s.MaxTile()), "Press R to restart")
	}
}

// drawOverlay draws a text box centered on the board.
func drawOverlay(dst *core.Screen, board core.Rect, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := board.CenteredIn(maxLen+4, len(lines)+2)
	centerX, _ := box.Center()

	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, color)
	for i, line := range lines {
		x := centerX - utf8.RuneCountInString(line)/2
		dst.DrawTextColor(x, box.Y+1+i, line, color)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | P: Pause | R: Restart | Ctrl+S: Save | Q: Quit"
}
