package engine

import "github.com/hailam/fiveplay/internal/board"

// scanReach is how far a line scan walks from the origin in each direction.
const scanReach = 4

// ScoreLine scores the run of color through (x, y) along (dx, dy).
// Off-board cells are skipped: they neither extend the run nor block it.
func ScoreLine(b *board.Board, x, y, dx, dy int, color board.Cell) int {
	count := 1
	blocks := 0
	for _, dir := range [2]int{1, -1} {
		for i := 1; i <= scanReach; i++ {
			nx, ny := x+dir*i*dx, y+dir*i*dy
			if !b.InBounds(nx, ny) {
				continue
			}
			c := b.At(nx, ny)
			if c == color {
				count++
				continue
			}
			if c != board.Empty {
				blocks++
			}
			break
		}
	}
	return lineScore(count, blocks)
}

// classify maps a run length and block count to a tier. ok is false when a
// run of two to four is blocked on both sides and scores nothing.
func classify(count, blocks int) (tier PatternTier, ok bool) {
	switch {
	case count >= 5:
		return Five, true
	case count == 1:
		return Single, true
	case blocks >= 2:
		return 0, false
	}
	switch count {
	case 4:
		tier = LiveFour
	case 3:
		tier = LiveThree
	default:
		tier = LiveTwo
	}
	if blocks == 1 {
		// Dead tiers follow their live tier.
		tier++
	}
	return tier, true
}

func lineScore(count, blocks int) int {
	tier, ok := classify(count, blocks)
	if !ok {
		return 0
	}
	return scores[tier]
}

// PositionScore sums ScoreLine over the four axes through (x, y).
func PositionScore(b *board.Board, x, y int, color board.Cell) int {
	total := 0
	for _, axis := range board.Axes {
		total += ScoreLine(b, x, y, axis[0], axis[1], color)
	}
	return total
}
