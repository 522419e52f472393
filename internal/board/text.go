package board

import (
	"fmt"
	"strings"
)

// ParseBoard builds a board from rows of '.', 'X' (black) and 'O' (white).
// Whitespace inside a row is ignored.
func ParseBoard(rows []string) (*Board, error) {
	cleaned := make([]string, 0, len(rows))
	for _, r := range rows {
		r = strings.Join(strings.Fields(r), "")
		if r != "" {
			cleaned = append(cleaned, r)
		}
	}
	size := len(cleaned)
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidBoard, size)
	}
	b := New(size)
	for x, row := range cleaned {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, x, len(row), size)
		}
		for y := 0; y < size; y++ {
			switch row[y] {
			case '.', '-', '+':
			case 'X', 'x':
				b.Set(x, y, Black)
			case 'O', 'o':
				b.Set(x, y, White)
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %d,%d", ErrInvalidBoard, row[y], x, y)
			}
		}
	}
	return b, nil
}

// MustParseBoard is ParseBoard for fixed inputs; it panics on error.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders the board with row and column indexes.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n    ")
	for y := 0; y < b.size; y++ {
		fmt.Fprintf(&sb, "%-2d", y%100)
	}
	sb.WriteByte('\n')
	for x := 0; x < b.size; x++ {
		fmt.Fprintf(&sb, "%2d  ", x)
		for y := 0; y < b.size; y++ {
			sb.WriteByte(b.At(x, y).Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "\nHash: %016x\n", b.hash)
	return sb.String()
}
