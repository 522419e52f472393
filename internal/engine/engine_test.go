package engine

import (
	"errors"
	"testing"

	"github.com/hailam/fiveplay/internal/board"
)

func TestScoreTableDominance(t *testing.T) {
	if err := ValidateScoreTable(Scores()); err != nil {
		t.Fatalf("default score table rejected: %v", err)
	}

	weak := Scores()
	weak[Five] = weak[LiveFour] * 50
	if err := ValidateScoreTable(weak); err == nil {
		t.Error("expected Five below 100x LiveFour to be rejected")
	}

	unordered := Scores()
	unordered[LiveThree] = unordered[DeadFour]
	if err := ValidateScoreTable(unordered); err == nil {
		t.Error("expected equal adjacent tiers to be rejected")
	}

	// Scores hands out copies.
	table := Scores()
	table[Single] = 0
	if Scores()[Single] == 0 {
		t.Error("Scores returned the shared table")
	}
}

func TestScoreLineTiers(t *testing.T) {
	s := Scores()
	tests := []struct {
		row  string
		y    int
		want int
	}{
		{".XXXXX.", 1, s[Five]},
		{"XXXXXX.", 0, s[Five]},
		{"..XX.XX", 4, s[Five]}, // the origin itself is never read
		{".XXXX..", 1, s[LiveFour]},
		{"OXXXX..", 1, s[DeadFour]},
		{"OXXXXO.", 1, 0},
		{"XXXX...", 0, s[LiveFour]}, // the board edge is not a block
		{"..XXX..", 3, s[LiveThree]},
		{"..XXXO.", 2, s[DeadThree]},
		{".OXXXO.", 3, 0},
		{"...XX..", 4, s[LiveTwo]},
		{"..OXX..", 3, s[DeadTwo]},
		{"..OXO..", 3, s[Single]},
		{"...X...", 3, s[Single]},
	}

	for _, tc := range tests {
		t.Run(tc.row, func(t *testing.T) {
			rows := []string{tc.row, ".......", ".......", ".......", ".......", ".......", "......."}
			b := board.MustParseBoard(rows...)
			// Along a row only the column changes.
			if got := ScoreLine(b, 0, tc.y, 0, 1, board.Black); got != tc.want {
				t.Errorf("ScoreLine(%q, y=%d) = %d, want %d", tc.row, tc.y, got, tc.want)
			}
		})
	}
}

func TestPositionScoreSumsAxes(t *testing.T) {
	b := board.New(9)
	b.Set(4, 4, board.Black)
	if got, want := PositionScore(b, 4, 4, board.Black), 4*Scores()[Single]; got != want {
		t.Errorf("lone stone PositionScore = %d, want %d", got, want)
	}

	b.Set(4, 5, board.Black)
	b.Set(5, 4, board.Black)
	want := 2*Scores()[LiveTwo] + 2*Scores()[Single]
	if got := PositionScore(b, 4, 4, board.Black); got != want {
		t.Errorf("PositionScore = %d, want %d", got, want)
	}
}

func TestEvaluate(t *testing.T) {
	single := Scores()[Single]

	b := board.New(9)
	if got, want := Evaluate(b, board.Black), -81*4*single; got != want {
		t.Errorf("empty board: got %d, want %d", got, want)
	}

	b.Set(4, 4, board.Black)
	hash := b.Hash()
	if got, want := Evaluate(b, board.Black), 4*single-80*4*single; got != want {
		t.Errorf("one stone: got %d, want %d", got, want)
	}
	if b.Hash() != hash || b.At(4, 4) != board.Black || b.EmptyCount() != 80 {
		t.Error("Evaluate modified the board")
	}

	// A live three is worth more to its owner than to the opponent.
	b = board.MustParseBoard(
		".........",
		".........",
		".........",
		"...XXX...",
		".........",
		".........",
		"......O..",
		".........",
		".........",
	)
	if Evaluate(b, board.Black) <= Evaluate(b, board.White) {
		t.Error("expected the live three to favor Black")
	}
}

func TestNormalizedScore(t *testing.T) {
	if normalizedScore(Self, 42) != 42 {
		t.Error("Self scores must pass through")
	}
	if normalizedScore(Opponent, 42) != -42 {
		t.Error("Opponent scores must be negated")
	}
}

func TestLeafScoresFromSelf(t *testing.T) {
	b := board.MustParseBoard(
		"OOOOO....",
		".........",
		"...X.....",
		"....X....",
		".....X...",
		".........",
		".........",
		"........X",
		".........",
	)
	white := NewSearcher(b, board.White, nil)
	if got, want := white.leaf(), Evaluate(b, board.White); got != want || got <= 0 {
		t.Errorf("White leaf = %d, want Evaluate(White) = %d > 0", got, want)
	}
	black := NewSearcher(b, board.Black, nil)
	if got, want := black.leaf(), Evaluate(b, board.Black); got != want || got >= 0 {
		t.Errorf("Black leaf = %d, want Evaluate(Black) = %d < 0", got, want)
	}
}

// minimax is the unpruned reference search. Leaves are always scored with
// Evaluate from self's color, and the first strictly better cell in
// row-major order wins.
func minimax(b *board.Board, self board.Cell, toMove Side, depth int) board.Move {
	best := board.NoMove
	if depth == 0 || b.EmptyCount() == 0 {
		best.Score = Evaluate(b, self)
		return best
	}
	color := self
	best.Score = -Infinity
	if toMove == Opponent {
		color = self.Other()
		best.Score = Infinity
	}
	n := b.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if b.At(x, y) != board.Empty {
				continue
			}
			var score int
			b.Place(x, y, color, func() {
				score = minimax(b, self, toMove.Other(), depth-1).Score
			})
			if (toMove == Self && score > best.Score) || (toMove == Opponent && score < best.Score) {
				best = board.Move{X: x, Y: y, Score: score}
			}
		}
	}
	return best
}

func TestEvenDepthLeafIsSelfEvaluation(t *testing.T) {
	// Two empty cells: at depth 2 every line is Self then Opponent, and
	// each final board is scored by Evaluate(White).
	b := board.MustParseBoard(
		"XOXOX",
		"OXOXO",
		"XOO.O",
		"OXOX.",
		"XOXOX",
	)
	final := func(selfX, selfY, oppX, oppY int) int {
		c := b.Clone()
		c.Set(selfX, selfY, board.White)
		c.Set(oppX, oppY, board.Black)
		return Evaluate(c, board.White)
	}
	first := final(2, 3, 3, 4)
	second := final(3, 4, 2, 3)
	want := board.Move{X: 2, Y: 3, Score: first}
	if second > first {
		want = board.Move{X: 3, Y: 4, Score: second}
	}

	s := NewSearcher(b, board.White, nil)
	got := s.AlphaBeta(Self, 2, -Infinity, Infinity)
	if got != want {
		t.Errorf("AlphaBeta = %v (score %d), want %v (score %d)", got, got.Score, want, want.Score)
	}
}

func TestDepthTwoMatchesMinimax(t *testing.T) {
	positions := map[string][]string{
		"center": {
			".......",
			".......",
			".......",
			"...X...",
			".......",
			".......",
			".......",
		},
		"pair": {
			".......",
			".......",
			"..XX...",
			"...O...",
			".......",
			".......",
			".......",
		},
		"skirmish": {
			".......",
			"..O....",
			"..XX...",
			"...OX..",
			"....O..",
			".......",
			".......",
		},
	}

	for name, rows := range positions {
		t.Run(name, func(t *testing.T) {
			b := board.MustParseBoard(rows...)
			want := minimax(b.Clone(), board.White, Self, 2)
			got := NewSearcher(b, board.White, NewEvalCache(1<<12)).AlphaBeta(Self, 2, -Infinity, Infinity)
			if !got.SameSquare(want) || got.Score != want.Score {
				t.Errorf("depth 2: picked %v (score %d), minimax picks %v (score %d)",
					got, got.Score, want, want.Score)
			}
		})
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	positions := map[string][]string{
		"opening": {
			".....",
			".....",
			"..X..",
			".....",
			".....",
		},
		"middle": {
			"X....",
			".OX..",
			"..XO.",
			".O...",
			".....",
		},
		"threat": {
			".XXX.",
			"O....",
			".O...",
			"..O..",
			".....",
		},
		"crowded": {
			"XOXO.",
			"OXO..",
			"X.XO.",
			"O.O.X",
			"..X..",
		},
	}

	for name, rows := range positions {
		for depth := 1; depth <= 3; depth++ {
			b := board.MustParseBoard(rows...)
			before := b.Clone()

			want := minimax(b.Clone(), board.White, Self, depth)

			plain := NewSearcher(b, board.White, nil)
			got := plain.AlphaBeta(Self, depth, -Infinity, Infinity)
			if got.Score != want.Score || !got.SameSquare(want) {
				t.Errorf("%s depth %d: alpha-beta %v (%d), minimax %v (%d)", name, depth, got, got.Score, want, want.Score)
			}

			cached := NewSearcher(b, board.White, NewEvalCache(1<<12))
			if c := cached.AlphaBeta(Self, depth, -Infinity, Infinity); c.Score != want.Score || !c.SameSquare(got) {
				t.Errorf("%s depth %d: cached search returned %v, uncached %v", name, depth, c, got)
			}

			if !b.Equal(before) || b.Hash() != before.Hash() {
				t.Fatalf("%s depth %d: search left the board modified", name, depth)
			}
			if depth > 1 && plain.Stats().Cutoffs == 0 {
				t.Logf("%s depth %d: no cutoffs", name, depth)
			}
		}
	}
}

func TestAlphaBetaFullBoard(t *testing.T) {
	b := board.MustParseBoard(
		"XXOOX",
		"OOXXO",
		"XXOOX",
		"OOXXO",
		"XXOOX",
	)
	s := NewSearcher(b, board.White, nil)
	got := s.AlphaBeta(Self, 2, -Infinity, Infinity)
	if !got.IsNone() {
		t.Errorf("expected NoMove on a full board, got %v", got)
	}
	if got.Score != Evaluate(b, board.White) {
		t.Errorf("expected the leaf evaluation, got %d", got.Score)
	}
}

func TestHeuristicDoesNotRecurse(t *testing.T) {
	b := board.New(9)
	b.Set(4, 4, board.Black)
	eng := NewEngineWithOptions(Options{})

	d, err := eng.Decide(b, board.NewMove(4, 4), 0)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Stats.Nodes != 0 {
		t.Errorf("depth 0 explored %d search nodes", d.Stats.Nodes)
	}
	if d.Stats.Evaluations != 2*80 {
		t.Errorf("depth 0 made %d evaluations, want %d", d.Stats.Evaluations, 2*80)
	}
	if d.Status != Continue || d.Self != board.White {
		t.Errorf("unexpected decision %+v", d)
	}
}

func TestDecideEmptyBoard(t *testing.T) {
	if testing.Short() {
		t.Skip("two-ply search on a full-size board")
	}
	b := board.New(board.DefaultSize)
	b.Set(7, 7, board.Black)

	d, err := NewEngine().Decide(b, board.NewMove(7, 7), 2)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Status != Continue {
		t.Fatalf("status = %s, want continue", d.Status)
	}
	if !b.InBounds(d.Move.X, d.Move.Y) || d.Move.SameSquare(board.NewMove(7, 7)) {
		t.Fatalf("bad move %v", d.Move)
	}
	if b.At(d.Move.X, d.Move.Y) != board.White {
		t.Error("move not applied to the board")
	}
	if b.StoneCount(board.White) != 1 || b.StoneCount(board.Black) != 1 {
		t.Errorf("search left stones behind:%s", b)
	}
	t.Logf("move %v score %s nodes %d cutoffs %d in %v",
		d.Move, ScoreToString(d.Move.Score), d.Stats.Nodes, d.Stats.Cutoffs, d.Elapsed)
}

func TestDecideCompletesFive(t *testing.T) {
	for depth := 0; depth <= 2; depth++ {
		b := board.New(board.DefaultSize)
		for y := 0; y < 4; y++ {
			b.Set(0, y, board.White)
		}
		b.Set(7, 7, board.Black)
		b.Set(8, 8, board.Black)
		b.Set(9, 9, board.Black)
		b.Set(10, 3, board.Black)

		d, err := NewEngine().Decide(b, board.NewMove(9, 9), depth)
		if err != nil {
			t.Fatalf("depth %d: Decide: %v", depth, err)
		}
		if !d.Move.SameSquare(board.NewMove(0, 4)) {
			t.Errorf("depth %d: move %v, want 0,4", depth, d.Move)
		}
		if d.Status != AIWin {
			t.Errorf("depth %d: status %s, want ai_win", depth, d.Status)
		}
		if b.At(0, 4) != board.White {
			t.Errorf("depth %d: winning move not applied", depth)
		}
	}
}

func TestDecideBlocksFour(t *testing.T) {
	for depth := 1; depth <= 2; depth++ {
		b := board.MustParseBoard(
			".........",
			".........",
			".........",
			".........",
			"....O....",
			".........",
			".........",
			"..OXXXX..",
			".........",
		)
		d, err := NewEngine().Decide(b, board.NewMove(7, 6), depth)
		if err != nil {
			t.Fatalf("depth %d: Decide: %v", depth, err)
		}
		if !d.Move.SameSquare(board.NewMove(7, 7)) {
			t.Errorf("depth %d: move %v, want 7,7:%s", depth, d.Move, b)
		}
		if d.Status != Continue {
			t.Errorf("depth %d: status %s", depth, d.Status)
		}
	}
}

func TestDecideOpponentWin(t *testing.T) {
	b := board.New(board.DefaultSize)
	for y := 3; y <= 7; y++ {
		b.Set(5, y, board.Black)
	}
	b.Set(6, 6, board.White)
	b.Set(4, 4, board.White)
	before := b.Clone()

	d, err := NewEngine().Decide(b, board.NewMove(5, 7), 2)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Status != OpponentWin {
		t.Errorf("status = %s, want opponent_win", d.Status)
	}
	if !d.Move.IsNone() {
		t.Errorf("expected no move, got %v", d.Move)
	}
	if !b.Equal(before) {
		t.Error("board changed on opponent win")
	}
}

func TestDecideDraw(t *testing.T) {
	b := board.MustParseBoard(
		"XXOOX",
		"OOXXO",
		"XXOOX",
		"OOXXO",
		"XXOOX",
	)
	d, err := NewEngine().Decide(b, board.NewMove(4, 4), 1)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Status != Draw || !d.Move.IsNone() {
		t.Errorf("got %+v, want draw without a move", d)
	}
	if d.Self != board.White {
		t.Errorf("self = %s, want White", d.Self)
	}
}

func TestDecideLastCellDraws(t *testing.T) {
	b := board.MustParseBoard(
		"XXOOX",
		"OOXXO",
		"XXO.X",
		"OOXXO",
		"XXOOX",
	)
	d, err := NewEngine().Decide(b, board.NewMove(4, 4), 1)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Status != Draw || !d.Move.SameSquare(board.NewMove(2, 3)) {
		t.Errorf("got %+v, want draw on 2,3", d)
	}
}

func TestDecideInvalidInput(t *testing.T) {
	b := board.New(9)
	b.Set(4, 4, board.Black)
	before := b.Clone()
	eng := NewEngine()

	tests := []struct {
		name  string
		move  board.Move
		depth int
		want  error
	}{
		{"out of bounds", board.NewMove(9, 1), 1, board.ErrInvalidCoordinate},
		{"negative", board.NewMove(-1, 4), 1, board.ErrInvalidCoordinate},
		{"empty cell", board.NewMove(3, 3), 1, board.ErrCellNotOccupied},
		{"negative depth", board.NewMove(4, 4), -1, ErrInvalidDepth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.Decide(b, tc.move, tc.depth)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
			if !b.Equal(before) {
				t.Error("board changed on invalid input")
			}
		})
	}
}

func TestDecideBeyondMaxDepth(t *testing.T) {
	// Few empty cells keep a search past MaxDepth cheap.
	b := board.MustParseBoard(
		"XXOO.",
		"OOX.O",
		"X.OOX",
		"OOX.O",
		"XX.OX",
	)
	empties := b.EmptyCount()

	d, err := NewEngine().Decide(b, board.NewMove(0, 0), MaxDepth+1)
	if err != nil {
		t.Fatalf("Decide at depth %d: %v", MaxDepth+1, err)
	}
	if d.Move.IsNone() || b.At(d.Move.X, d.Move.Y) != board.White {
		t.Errorf("expected a White move, got %v", d.Move)
	}
	if b.EmptyCount() != empties-1 {
		t.Errorf("empty cells = %d, want %d", b.EmptyCount(), empties-1)
	}
}

func TestOpen(t *testing.T) {
	b := board.New(board.DefaultSize)
	d, err := NewEngine().Open(b, board.Black, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !d.Move.SameSquare(board.NewMove(7, 7)) || b.At(7, 7) != board.Black {
		t.Errorf("expected the center, got %v", d.Move)
	}

	small := board.New(7)
	small.Set(3, 3, board.White)
	d, err = NewEngine().Open(small, board.Black, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Move.IsNone() || small.At(d.Move.X, d.Move.Y) != board.Black {
		t.Errorf("unexpected open move %v", d.Move)
	}

	if _, err := NewEngine().Open(small, board.Empty, 1); err == nil {
		t.Error("expected an error for an empty self color")
	}
}

func TestOnInfo(t *testing.T) {
	var infos []SearchInfo
	eng := NewEngineWithOptions(Options{
		EvalCacheEntries: 1 << 10,
		OnInfo:           func(info SearchInfo) { infos = append(infos, info) },
	})
	b := board.New(7)
	b.Set(3, 3, board.Black)
	if _, err := eng.Decide(b, board.NewMove(3, 3), 2); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if len(infos) != 1 || infos[0].Depth != 2 || infos[0].Nodes == 0 {
		t.Errorf("unexpected search info %+v", infos)
	}
}

func TestEvalCache(t *testing.T) {
	c := NewEvalCache(1000)
	if c.Len() != 512 {
		t.Errorf("Len = %d, want 512", c.Len())
	}
	if _, ok := c.Probe(0, board.Black); ok {
		t.Error("expected a miss on an empty cache")
	}
	c.Store(0, board.Black, -17)
	if score, ok := c.Probe(0, board.Black); !ok || score != -17 {
		t.Errorf("Probe = %d, %v", score, ok)
	}
	if _, ok := c.Probe(0, board.White); ok {
		t.Error("perspectives must not share entries")
	}
}

func TestStatusAndDifficulty(t *testing.T) {
	for s := Continue; s <= Draw; s++ {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", s, err)
		}
		var back Status
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("round trip of %s gave %s, %v", s, back, err)
		}
	}
	if Continue.IsTerminal() || !AIWin.IsTerminal() {
		t.Error("IsTerminal misreports")
	}

	for d, depth := range DifficultyDepth {
		if d.Depth() != depth {
			t.Errorf("%s depth = %d, want %d", d, d.Depth(), depth)
		}
		parsed, err := ParseDifficulty(d.String())
		if err != nil || parsed != d {
			t.Errorf("ParseDifficulty(%q) = %s, %v", d.String(), parsed, err)
		}
		if depth > MaxDepth {
			t.Errorf("%s exceeds MaxDepth", d)
		}
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("expected an error for an unknown difficulty")
	}
}

func TestDecideDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium} {
		b := board.New(9)
		b.Set(4, 4, board.Black)
		want := b.Clone()

		got, err := NewEngine().DecideDifficulty(b, board.NewMove(4, 4), d)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		direct, err := NewEngine().Decide(want, board.NewMove(4, 4), d.Depth())
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if got.Depth != d.Depth() || !got.Move.SameSquare(direct.Move) || got.Move.Score != direct.Move.Score {
			t.Errorf("%s: DecideDifficulty %v at depth %d, Decide %v", d, got.Move, got.Depth, direct.Move)
		}
	}
}
