package engine

import "github.com/hailam/fiveplay/internal/board"

// Evaluate returns how favorable the board is for perspective. Own stones
// add their position score, opponent stones subtract theirs, and every
// empty cell subtracts the score the opponent would get by taking it.
//
// ScoreLine never reads its origin cell, so an empty cell scores exactly
// as if the opponent stood there and the board is not touched.
func Evaluate(b *board.Board, perspective board.Cell) int {
	opp := perspective.Other()
	total := 0
	n := b.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if b.At(x, y) == perspective {
				total += PositionScore(b, x, y, perspective)
				continue
			}
			// Opponent stone, or a cell the opponent could still take.
			total -= PositionScore(b, x, y, opp)
		}
	}
	return total
}
