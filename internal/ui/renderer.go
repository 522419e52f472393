package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/fiveplay/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	Wood          color.RGBA
	GridLine      color.RGBA
	LastMoveColor color.RGBA
	WinLineColor  color.RGBA
	Background    color.RGBA
	TextColor     color.RGBA
	MutedText     color.RGBA
	AccentColor   color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Wood:          color.RGBA{220, 179, 92, 255},  // Kaya
		GridLine:      color.RGBA{60, 40, 20, 255},    // Dark brown
		LastMoveColor: color.RGBA{220, 40, 40, 255},   // Red marker
		WinLineColor:  color.RGBA{40, 200, 120, 200},  // Green
		Background:    color.RGBA{40, 44, 52, 255},    // Dark gray
		TextColor:     color.RGBA{220, 220, 220, 255}, // Light gray
		MutedText:     color.RGBA{150, 150, 150, 255},
		AccentColor:   color.RGBA{247, 200, 105, 255},
	}
}

// Renderer draws the board and stones. Rows (x) run down the screen and
// columns (y) across.
type Renderer struct {
	sprites   *SpriteManager
	theme     *Theme
	boardSize int // pixels
	cells     int // intersections per side
	cellSize  int
	margin    int
	scale     float64 // HiDPI scale factor
}

// NewRenderer creates a renderer for a cells x cells board drawn in a
// boardSize pixel square.
func NewRenderer(boardSize, cells int) *Renderer {
	r := &Renderer{
		theme:     DefaultTheme(),
		boardSize: boardSize,
		scale:     1.0,
	}
	r.SetCells(cells)
	return r
}

// SetCells changes the board dimension, reloading sprites when the cell
// size changes.
func (r *Renderer) SetCells(cells int) {
	cellSize := r.boardSize / cells
	r.cells = cells
	r.margin = (r.boardSize - cells*cellSize) / 2
	if r.sprites == nil || cellSize != r.cellSize {
		r.cellSize = cellSize
		r.sprites = NewSpriteManager(cellSize - 2)
		r.sprites.SetScale(r.scale)
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the wood, grid lines and star points.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, r.s(r.boardSize), r.s(r.boardSize), r.theme.Wood, false)

	half := r.cellSize / 2
	first := r.margin + half
	last := r.margin + (r.cells-1)*r.cellSize + half
	for i := 0; i < r.cells; i++ {
		p := r.margin + i*r.cellSize + half
		vector.StrokeLine(screen, r.s(first), r.s(p), r.s(last), r.s(p), r.s(1), r.theme.GridLine, true)
		vector.StrokeLine(screen, r.s(p), r.s(first), r.s(p), r.s(last), r.s(1), r.theme.GridLine, true)
	}

	for _, pt := range starPoints(r.cells) {
		cx, cy := r.cellCenter(pt[0], pt[1])
		vector.DrawFilledCircle(screen, cx, cy, r.s(3), r.theme.GridLine, true)
	}
}

// starPoints returns the traditional marker intersections.
func starPoints(n int) [][2]int {
	c := n / 2
	if n < 13 {
		return [][2]int{{c, c}}
	}
	e := 3
	return [][2]int{{e, e}, {e, n - 1 - e}, {c, c}, {n - 1 - e, e}, {n - 1 - e, n - 1 - e}}
}

// DrawStones draws every stone on b.
func (r *Renderer) DrawStones(screen *ebiten.Image, b *board.Board) {
	for x := 0; x < b.Size(); x++ {
		for y := 0; y < b.Size(); y++ {
			if c := b.At(x, y); c != board.Empty {
				r.drawStone(screen, x, y, c, 1)
			}
		}
	}
}

// DrawPreview draws a translucent stone under the cursor.
func (r *Renderer) DrawPreview(screen *ebiten.Image, x, y int, c board.Cell) {
	r.drawStone(screen, x, y, c, 0.45)
}

func (r *Renderer) drawStone(screen *ebiten.Image, x, y int, c board.Cell, alpha float32) {
	px, py := r.CellToScreen(x, y)
	r.sprites.DrawStoneAt(screen, c, int(r.s(px+1)), int(r.s(py+1)), alpha)
}

// DrawLastMove marks the most recent stone.
func (r *Renderer) DrawLastMove(screen *ebiten.Image, m board.Move) {
	if m.IsNone() {
		return
	}
	cx, cy := r.cellCenter(m.X, m.Y)
	vector.DrawFilledCircle(screen, cx, cy, r.s(r.cellSize)*0.12, r.theme.LastMoveColor, true)
}

// DrawWinningLine strokes through the five (or more) winning stones.
func (r *Renderer) DrawWinningLine(screen *ebiten.Image, line []board.Move) {
	if len(line) < 2 {
		return
	}
	x0, y0 := r.cellCenter(line[0].X, line[0].Y)
	x1, y1 := r.cellCenter(line[len(line)-1].X, line[len(line)-1].Y)
	vector.StrokeLine(screen, x0, y0, x1, y1, r.s(r.cellSize)*0.2, r.theme.WinLineColor, true)
}

// cellCenter returns the scaled screen center of an intersection.
func (r *Renderer) cellCenter(x, y int) (float32, float32) {
	px, py := r.CellToScreen(x, y)
	half := r.cellSize / 2
	return r.s(px + half), r.s(py + half)
}

// CellToScreen converts a board coordinate to the logical top-left pixel
// of its cell.
func (r *Renderer) CellToScreen(x, y int) (int, int) {
	return r.margin + y*r.cellSize, r.margin + x*r.cellSize
}

// ScreenToCell converts logical screen coordinates to a board coordinate.
func (r *Renderer) ScreenToCell(px, py int) (x, y int, ok bool) {
	px -= r.margin
	py -= r.margin
	if px < 0 || py < 0 {
		return 0, 0, false
	}
	x, y = py/r.cellSize, px/r.cellSize
	if x >= r.cells || y >= r.cells {
		return 0, 0, false
	}
	return x, y, true
}

// BoardSize returns the board size in pixels.
func (r *Renderer) BoardSize() int {
	return r.boardSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
