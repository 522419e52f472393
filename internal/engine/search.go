package engine

import (
	"math"

	"github.com/hailam/fiveplay/internal/board"
)

// Infinity bounds every reachable score.
const Infinity = math.MaxInt

// Side names a player relative to the engine.
type Side uint8

const (
	Self Side = iota
	Opponent
)

// Other returns the opposite side.
func (s Side) Other() Side {
	return s ^ 1
}

// String returns the side name.
func (s Side) String() string {
	if s == Self {
		return "Self"
	}
	return "Opponent"
}

// normalizedScore converts a score computed from perspective's point of
// view into Self's frame. Every sign flip in the search goes through here.
func normalizedScore(perspective Side, raw int) int {
	if perspective == Self {
		return raw
	}
	return -raw
}

// Stats counts the work done by one search.
type Stats struct {
	Nodes       uint64 // simulated placements explored by alpha-beta
	Cutoffs     uint64 // sibling lists abandoned on beta <= alpha
	Evaluations uint64 // static evaluations requested
	CacheHits   uint64 // evaluations served from the cache
}

// Searcher runs the strategies over one board. It mutates the board during
// a search and always leaves it as it found it.
type Searcher struct {
	b     *board.Board
	self  board.Cell
	cache *EvalCache
	stats Stats
}

// NewSearcher creates a searcher playing self on b. cache may be nil.
func NewSearcher(b *board.Board, self board.Cell, cache *EvalCache) *Searcher {
	return &Searcher{b: b, self: self, cache: cache}
}

// Stats returns the counters accumulated so far.
func (s *Searcher) Stats() Stats {
	return s.stats
}

func (s *Searcher) colorOf(side Side) board.Cell {
	if side == Self {
		return s.self
	}
	return s.self.Other()
}

func (s *Searcher) evaluate(perspective board.Cell) int {
	s.stats.Evaluations++
	if s.cache != nil {
		if score, ok := s.cache.Probe(s.b.Hash(), perspective); ok {
			s.stats.CacheHits++
			return score
		}
	}
	score := Evaluate(s.b, perspective)
	if s.cache != nil {
		s.cache.Store(s.b.Hash(), perspective, score)
	}
	return score
}

// leaf scores the board with Evaluate from Self's color whichever side
// moved last. Evaluate is not antisymmetric, so scoring from the opponent's
// color and negating would rank leaves differently at even depths.
func (s *Searcher) leaf() int {
	return normalizedScore(Self, s.evaluate(s.colorOf(Self)))
}

// AlphaBeta searches depth plies with toMove to play next. The returned
// move carries its score in Self's frame; it is NoMove (still scored) when
// depth is exhausted or the board is full.
func (s *Searcher) AlphaBeta(toMove Side, depth, alpha, beta int) board.Move {
	if depth == 0 || s.b.EmptyCount() == 0 {
		leaf := board.NoMove
		leaf.Score = s.leaf()
		return leaf
	}

	maximizing := toMove == Self
	best := board.NoMove
	best.Score = Infinity
	if maximizing {
		best.Score = -Infinity
	}
	color := s.colorOf(toMove)
	n := s.b.Size()

search:
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if s.b.At(x, y) != board.Empty {
				continue
			}
			var score int
			s.b.Place(x, y, color, func() {
				score = s.AlphaBeta(toMove.Other(), depth-1, alpha, beta).Score
			})
			s.stats.Nodes++

			if maximizing {
				if score > best.Score {
					best = board.Move{X: x, Y: y, Score: score}
				}
				alpha = max(alpha, best.Score)
			} else {
				if score < best.Score {
					best = board.Move{X: x, Y: y, Score: score}
				}
				beta = min(beta, best.Score)
			}
			if beta <= alpha {
				s.stats.Cutoffs++
				break search
			}
		}
	}
	return best
}

// Heuristic picks a cell without lookahead: for every empty cell it weighs
// what Self gains by taking it against what the opponent would gain, both
// seen from Self's side, as 1.5*self - opponent.
func (s *Searcher) Heuristic() board.Move {
	self, opp := s.self, s.self.Other()
	best := board.NoMove
	best.Score = -Infinity
	n := s.b.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if s.b.At(x, y) != board.Empty {
				continue
			}
			var selfScore, oppScore int
			s.b.Place(x, y, self, func() { selfScore = s.evaluate(self) })
			s.b.Place(x, y, opp, func() { oppScore = s.evaluate(self) })
			score := int(1.5*float64(selfScore) - float64(oppScore))
			if score > best.Score {
				best = board.Move{X: x, Y: y, Score: score}
			}
		}
	}
	return best
}
