// Package engine decides the computer's move in five-in-a-row: pattern
// scoring, whole-board evaluation and depth-limited alpha-beta search.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hailam/fiveplay/internal/board"
)

var (
	ErrNoLegalMove  = errors.New("no legal move")
	ErrInvalidDepth = errors.New("invalid search depth")
)

// MaxDepth is the deepest search callers should request. Every empty cell
// is a candidate, so deeper searches are impractical on a full-size board.
// Decide itself only rejects negative depths.
const MaxDepth = 4

// Status is the state of the game after a decision.
type Status int

const (
	Continue Status = iota
	OpponentWin
	AIWin
	Draw
)

var statusNames = [...]string{"continue", "opponent_win", "ai_win", "draw"}

// String returns the status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// IsTerminal reports whether the game is over.
func (s Status) IsTerminal() bool {
	return s != Continue
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if strings.EqualFold(name, string(text)) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Decision is the engine's answer for one turn. Move is NoMove when the
// opponent already won or the board was full before the engine moved.
type Decision struct {
	Move    board.Move
	Status  Status
	Self    board.Cell
	Depth   int
	Stats   Stats
	Elapsed time.Duration
}

// SearchInfo is reported after each search.
type SearchInfo struct {
	Depth   int
	Score   int
	Nodes   uint64
	Cutoffs uint64
	Time    time.Duration
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // heuristic only, no lookahead
	Medium                   // one ply
	Hard                     // two plies
	Expert                   // three plies
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   0,
	Medium: 1,
	Hard:   2,
	Expert: 3,
}

var difficultyNames = map[Difficulty]string{
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
	Expert: "expert",
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// Depth returns the search depth used for d.
func (d Difficulty) Depth() int {
	if depth, ok := DifficultyDepth[d]; ok {
		return depth
	}
	return DifficultyDepth[Medium]
}

// ParseDifficulty accepts a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range difficultyNames {
		if strings.EqualFold(name, s) {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Options configures an Engine.
type Options struct {
	// EvalCacheEntries sizes the per-decision evaluation cache; 0 disables it.
	EvalCacheEntries int

	// OnInfo, if set, is called after every search.
	OnInfo func(SearchInfo)
}

// DefaultOptions returns the options used by NewEngine.
func DefaultOptions() Options {
	return Options{EvalCacheEntries: DefaultEvalCacheEntries}
}

// Engine decides moves. It keeps no state between calls, so one Engine
// may serve many boards concurrently as long as each board has a single
// writer.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with default options.
func NewEngine() *Engine {
	return NewEngineWithOptions(DefaultOptions())
}

// NewEngineWithOptions creates an engine with the given options.
func NewEngineWithOptions(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Decide answers the opponent's move at opponentLast. It reports an
// opponent win or a draw without moving; otherwise it searches depth
// plies, plays the chosen cell on b and reports the resulting status.
// Inputs are validated before b is touched.
func (e *Engine) Decide(b *board.Board, opponentLast board.Move, depth int) (Decision, error) {
	if err := checkDepth(depth); err != nil {
		return Decision{}, err
	}
	winner, err := board.CheckWin(b, opponentLast.X, opponentLast.Y)
	if err != nil {
		return Decision{}, fmt.Errorf("opponent move %s: %w", opponentLast, err)
	}
	self := b.At(opponentLast.X, opponentLast.Y).Other()

	if winner != board.Empty {
		return Decision{Move: board.NoMove, Status: OpponentWin, Self: self, Depth: depth}, nil
	}
	if board.CheckDraw(b) {
		return Decision{Move: board.NoMove, Status: Draw, Self: self, Depth: depth}, nil
	}
	return e.play(b, self, depth)
}

// DecideDifficulty is Decide with the depth taken from d.
func (e *Engine) DecideDifficulty(b *board.Board, opponentLast board.Move, d Difficulty) (Decision, error) {
	return e.Decide(b, opponentLast, d.Depth())
}

// Open plays self's move when there is no opponent move to answer, such as
// the first move of a game. An empty board is answered with the center.
func (e *Engine) Open(b *board.Board, self board.Cell, depth int) (Decision, error) {
	if err := checkDepth(depth); err != nil {
		return Decision{}, err
	}
	if !self.IsStone() {
		return Decision{}, fmt.Errorf("open: %w: self is %s", board.ErrInvalidBoard, self)
	}
	if board.CheckDraw(b) {
		return Decision{Move: board.NoMove, Status: Draw, Self: self, Depth: depth}, nil
	}
	if b.EmptyCount() == b.Size()*b.Size() {
		center := b.Size() / 2
		b.Set(center, center, self)
		return Decision{Move: board.NewMove(center, center), Status: Continue, Self: self, Depth: depth}, nil
	}
	return e.play(b, self, depth)
}

func checkDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	return nil
}

// play runs the strategy for depth, applies the chosen move and checks
// whether it ended the game.
func (e *Engine) play(b *board.Board, self board.Cell, depth int) (Decision, error) {
	start := time.Now()
	var cache *EvalCache
	if e.opts.EvalCacheEntries > 0 {
		cache = NewEvalCache(e.opts.EvalCacheEntries)
	}
	s := NewSearcher(b, self, cache)

	var move board.Move
	if depth == 0 {
		move = s.Heuristic()
	} else {
		move = s.AlphaBeta(Self, depth, -Infinity, Infinity)
	}
	elapsed := time.Since(start)

	if move.IsNone() || !b.IsEmpty(move.X, move.Y) {
		return Decision{}, ErrNoLegalMove
	}

	stats := s.Stats()
	if e.opts.OnInfo != nil {
		e.opts.OnInfo(SearchInfo{
			Depth:   depth,
			Score:   move.Score,
			Nodes:   stats.Nodes,
			Cutoffs: stats.Cutoffs,
			Time:    elapsed,
		})
	}

	b.Set(move.X, move.Y, self)
	status := Continue
	if winner, _ := board.CheckWin(b, move.X, move.Y); winner == self {
		status = AIWin
	} else if board.CheckDraw(b) {
		status = Draw
	}

	return Decision{
		Move:    move,
		Status:  status,
		Self:    self,
		Depth:   depth,
		Stats:   stats,
		Elapsed: elapsed,
	}, nil
}

// ScoreToString converts a score to a short human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= scores[Five]:
		return "winning"
	case score <= -scores[Five]:
		return "losing"
	default:
		return fmt.Sprintf("%+d", score)
	}
}
