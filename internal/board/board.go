// Package board holds the five-in-a-row grid, moves and terminal detection.
package board

import (
	"errors"
	"fmt"
)

// DefaultSize is the side length of a standard board.
const DefaultSize = 15

// Size limits accepted from callers.
const (
	MinSize = 5
	MaxSize = 25
)

var (
	ErrInvalidCoordinate = errors.New("coordinate out of bounds")
	ErrCellNotOccupied   = errors.New("cell is not occupied")
	ErrInvalidBoard      = errors.New("invalid board")
)

// Board is a square grid of cells. Cells are addressed as (x, y) where x
// is the row and y the column. The zero value is not usable; call New.
type Board struct {
	size    int
	cells   []Cell
	empty   int
	hash    uint64
	zobrist *zobristTable
}

// New creates an empty board with the given side length.
func New(size int) *Board {
	return &Board{
		size:    size,
		cells:   make([]Cell, size*size),
		empty:   size * size,
		zobrist: zobristFor(size),
	}
}

// FromInts builds a board from the wire encoding (rows of 0/1/2).
func FromInts(rows [][]int) (*Board, error) {
	size := len(rows)
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidBoard, size)
	}
	b := New(size)
	for x, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, x, len(row), size)
		}
		for y, v := range row {
			c, ok := CellFromInt(v)
			if !ok {
				return nil, fmt.Errorf("%w: cell %d,%d has value %d", ErrInvalidBoard, x, y, v)
			}
			if c != Empty {
				b.Set(x, y, c)
			}
		}
	}
	return b, nil
}

// Ints returns the wire encoding of the board.
func (b *Board) Ints() [][]int {
	rows := make([][]int, b.size)
	for x := 0; x < b.size; x++ {
		rows[x] = make([]int, b.size)
		for y := 0; y < b.size; y++ {
			rows[x][y] = int(b.At(x, y))
		}
	}
	return rows
}

// Size returns the side length.
func (b *Board) Size() int {
	return b.size
}

// Hash returns the Zobrist hash of the stones on the board.
func (b *Board) Hash() uint64 {
	return b.hash
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	return b.empty
}

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

// IsEmpty reports whether (x, y) is on the board and empty.
func (b *Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == Empty
}

// At returns the cell at (x, y). The coordinate must be in bounds.
func (b *Board) At(x, y int) Cell {
	return b.cells[x*b.size+y]
}

// Set writes a cell and keeps the hash and empty count current.
func (b *Board) Set(x, y int, c Cell) {
	idx := x*b.size + y
	prev := b.cells[idx]
	if prev == c {
		return
	}
	if prev != Empty {
		b.hash ^= b.zobrist.key(idx, prev)
		b.empty++
	}
	if c != Empty {
		b.hash ^= b.zobrist.key(idx, c)
		b.empty--
	}
	b.cells[idx] = c
}

// Place puts c on (x, y), runs fn, and restores the previous cell on every
// exit path of fn, including a panic.
func (b *Board) Place(x, y int, c Cell, fn func()) {
	prev := b.At(x, y)
	b.Set(x, y, c)
	defer b.Set(x, y, prev)
	fn()
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return &clone
}

// Equal reports whether both boards have the same size and cells.
func (b *Board) Equal(o *Board) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// StoneCount returns how many stones of color c are on the board.
func (b *Board) StoneCount(c Cell) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}
