package board

import (
	"errors"
	"testing"
)

func TestCheckWinAxes(t *testing.T) {
	tests := []struct {
		name   string
		stones [][2]int
		last   [2]int
	}{
		{"horizontal", [][2]int{{3, 2}, {3, 3}, {3, 4}, {3, 5}, {3, 6}}, [2]int{3, 4}},
		{"vertical", [][2]int{{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}}, [2]int{5, 7}},
		{"diagonal", [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}, [2]int{0, 0}},
		{"anti-diagonal", [][2]int{{4, 10}, {5, 9}, {6, 8}, {7, 7}, {8, 6}}, [2]int{6, 8}},
		{"overline", [][2]int{{9, 0}, {9, 1}, {9, 2}, {9, 3}, {9, 4}, {9, 5}}, [2]int{9, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New(DefaultSize)
			for _, s := range tc.stones {
				b.Set(s[0], s[1], White)
			}
			got, err := CheckWin(b, tc.last[0], tc.last[1])
			if err != nil {
				t.Fatalf("CheckWin returned error: %v", err)
			}
			if got != White {
				t.Errorf("expected White to win, got %s", got)
			}
			if line := WinningLine(b, tc.last[0], tc.last[1]); len(line) < WinLength {
				t.Errorf("expected a winning line of at least %d stones, got %v", WinLength, line)
			}
		})
	}
}

func TestCheckWinRequiresFive(t *testing.T) {
	b := MustParseBoard(
		"XXXX.",
		".....",
		"..O..",
		".....",
		"OOOOX",
	)

	for y := 0; y < 4; y++ {
		got, err := CheckWin(b, 0, y)
		if err != nil {
			t.Fatalf("CheckWin(0,%d): %v", y, err)
		}
		if got != Empty {
			t.Errorf("CheckWin(0,%d) = %s, want Empty", y, got)
		}
	}
	// A different color breaks the run.
	if got, _ := CheckWin(b, 4, 0); got != Empty {
		t.Errorf("broken run reported as win for %s", got)
	}
}

func TestCheckWinErrors(t *testing.T) {
	b := New(9)
	if _, err := CheckWin(b, 9, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := CheckWin(b, -1, 3); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := CheckWin(b, 4, 4); !errors.Is(err, ErrCellNotOccupied) {
		t.Errorf("expected ErrCellNotOccupied, got %v", err)
	}
}

func TestCheckDraw(t *testing.T) {
	b := MustParseBoard(
		"XXOOX",
		"OOXXO",
		"XXOOX",
		"OOXXO",
		"XXOO.",
	)
	if CheckDraw(b) {
		t.Fatal("board with an empty cell reported as draw")
	}
	b.Set(4, 4, White)
	if !CheckDraw(b) {
		t.Fatal("full board not reported as draw")
	}
}

func TestTerminalChecksAreIdempotent(t *testing.T) {
	b := MustParseBoard(
		".....",
		".XXXX",
		"..O..",
		"..O..",
		".....",
	)
	hash := b.Hash()
	first, _ := CheckWin(b, 1, 2)
	for i := 0; i < 10; i++ {
		got, err := CheckWin(b, 1, 2)
		if err != nil || got != first {
			t.Fatalf("iteration %d: got %s, %v; want %s", i, got, err, first)
		}
		if CheckDraw(b) {
			t.Fatalf("iteration %d: unexpected draw", i)
		}
	}
	if b.Hash() != hash {
		t.Error("terminal checks modified the board")
	}
}

func TestPlaceRestores(t *testing.T) {
	b := New(7)
	b.Set(3, 3, Black)
	hash := b.Hash()
	empty := b.EmptyCount()

	b.Place(2, 2, White, func() {
		if b.At(2, 2) != White {
			t.Error("stone not placed inside Place")
		}
		if b.EmptyCount() != empty-1 {
			t.Errorf("empty count = %d, want %d", b.EmptyCount(), empty-1)
		}
	})

	if b.At(2, 2) != Empty || b.Hash() != hash || b.EmptyCount() != empty {
		t.Error("Place did not restore the board")
	}

	t.Run("Panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
			if b.At(1, 1) != Empty || b.Hash() != hash {
				t.Error("Place did not restore the board after a panic")
			}
		}()
		b.Place(1, 1, Black, func() { panic("boom") })
	})
}

func TestHashTracksStones(t *testing.T) {
	a := New(9)
	b := New(9)
	a.Set(1, 2, Black)
	a.Set(4, 4, White)
	b.Set(4, 4, White)
	b.Set(1, 2, Black)
	if a.Hash() != b.Hash() {
		t.Error("hash depends on placement order")
	}
	b.Set(1, 2, White)
	if a.Hash() == b.Hash() {
		t.Error("hash ignores stone color")
	}
	if !a.Clone().Equal(a) {
		t.Error("clone differs from original")
	}
}

func TestParseBoard(t *testing.T) {
	if _, err := ParseBoard([]string{"...", "...", "..."}); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("expected ErrInvalidBoard for 3x3, got %v", err)
	}
	if _, err := ParseBoard([]string{".....", ".....", "..?..", ".....", "....."}); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("expected ErrInvalidBoard for bad symbol, got %v", err)
	}

	b := MustParseBoard(
		"X . . . .",
		". O . . .",
		". . . . .",
		". . . . .",
		". . . . X",
	)
	if b.At(0, 0) != Black || b.At(1, 1) != White || b.At(4, 4) != Black {
		t.Errorf("unexpected cells:%s", b)
	}
	if b.StoneCount(Black) != 2 || b.StoneCount(White) != 1 {
		t.Errorf("unexpected stone counts")
	}

	round, err := FromInts(b.Ints())
	if err != nil {
		t.Fatalf("FromInts: %v", err)
	}
	if !round.Equal(b) {
		t.Error("FromInts(Ints()) changed the board")
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("7,8")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.X != 7 || m.Y != 8 {
		t.Errorf("got %v", m)
	}
	if _, err := ParseMove("h8"); err == nil {
		t.Error("expected error for malformed move")
	}
	if !NoMove.IsNone() || NoMove.String() != "none" {
		t.Error("NoMove sentinel misbehaves")
	}
}
