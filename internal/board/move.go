package board

import "fmt"

// Move is a board coordinate with an optional search score.
// X selects the row and Y the column.
type Move struct {
	X     int
	Y     int
	Score int
}

// NoMove represents the absence of a move.
var NoMove = Move{X: -1, Y: -1}

// NewMove creates a move without a score.
func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

// IsNone reports whether m is the NoMove sentinel.
func (m Move) IsNone() bool {
	return m.X < 0 || m.Y < 0
}

// SameSquare reports whether both moves point to the same intersection.
func (m Move) SameSquare(o Move) bool {
	return m.X == o.X && m.Y == o.Y
}

// String returns the "x,y" form.
func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d,%d", m.X, m.Y)
}

// ParseMove parses the "x,y" form.
func ParseMove(s string) (Move, error) {
	var x, y int
	if _, err := fmt.Sscanf(s, "%d,%d", &x, &y); err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	return NewMove(x, y), nil
}
