package board

// Cell is the state of one intersection.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Other returns the opposite stone color. Empty has no opposite.
func (c Cell) Other() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsStone reports whether c is Black or White.
func (c Cell) IsStone() bool {
	return c == Black || c == White
}

// String returns the cell name.
func (c Cell) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// Symbol returns the single-character form used by ParseBoard and String.
func (c Cell) Symbol() byte {
	switch c {
	case Black:
		return 'X'
	case White:
		return 'O'
	default:
		return '.'
	}
}

// CellFromInt converts the wire encoding (0 empty, 1 black, 2 white).
func CellFromInt(v int) (Cell, bool) {
	switch v {
	case 0:
		return Empty, true
	case 1:
		return Black, true
	case 2:
		return White, true
	default:
		return Empty, false
	}
}
