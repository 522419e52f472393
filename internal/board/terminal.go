package board

// WinLength is the run length that ends the game.
const WinLength = 5

// Axes are the four line directions: horizontal, vertical, diagonal and
// anti-diagonal.
var Axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// CheckWin reports the color owning a run of at least WinLength stones
// through (x, y), or Empty if there is none. (x, y) must be occupied.
func CheckWin(b *Board, x, y int) (Cell, error) {
	if !b.InBounds(x, y) {
		return Empty, ErrInvalidCoordinate
	}
	c := b.At(x, y)
	if c == Empty {
		return Empty, ErrCellNotOccupied
	}
	for _, axis := range Axes {
		count := 1 + runLength(b, x, y, axis[0], axis[1], c) + runLength(b, x, y, -axis[0], -axis[1], c)
		if count >= WinLength {
			return c, nil
		}
	}
	return Empty, nil
}

// WinningLine returns the stones of the first winning run through (x, y),
// ordered from one end to the other, or nil if there is none.
func WinningLine(b *Board, x, y int) []Move {
	if !b.InBounds(x, y) || b.At(x, y) == Empty {
		return nil
	}
	c := b.At(x, y)
	for _, axis := range Axes {
		back := runLength(b, x, y, -axis[0], -axis[1], c)
		fwd := runLength(b, x, y, axis[0], axis[1], c)
		if 1+back+fwd < WinLength {
			continue
		}
		line := make([]Move, 0, 1+back+fwd)
		for i := -back; i <= fwd; i++ {
			line = append(line, NewMove(x+i*axis[0], y+i*axis[1]))
		}
		return line
	}
	return nil
}

// CheckDraw reports whether no empty cell remains.
func CheckDraw(b *Board) bool {
	return b.EmptyCount() == 0
}

// runLength counts consecutive c stones from (x, y) exclusive in (dx, dy).
func runLength(b *Board, x, y, dx, dy int, c Cell) int {
	n := 0
	for i := 1; i < WinLength; i++ {
		nx, ny := x+i*dx, y+i*dy
		if !b.InBounds(nx, ny) || b.At(nx, ny) != c {
			break
		}
		n++
	}
	return n
}
