package board

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func mustRoot(t *testing.T, b Board, active Color, chain MonkeyChain) *Position {
	t.Helper()
	pos, err := NewRootPosition(b, active, chain)
	if err != nil {
		t.Fatalf("NewRootPosition: %v", err)
	}
	return pos
}

func mustPlay(t *testing.T, pos *Position, candidate Move) *Position {
	t.Helper()
	m, ok := pos.Accept(candidate)
	if !ok {
		t.Fatalf("%s not legal in\n%s\nlegal: %v", candidate, pos, pos.LegalMoves())
	}
	return pos.Transition(m)
}

func TestDrowning(t *testing.T) {
	tests := []struct {
		name    string
		kind    PieceKind
		from    Square
		to      Square
		survive bool
	}{
		{"elephant river to river", Elephant, C4, D4, false},
		{"crocodile river to river", Crocodile, C4, D4, true},
		{"zebra land to river", Zebra, B6, C4, true},
		{"giraffe river to land", Giraffe, C4, C3, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := EmptyBoard().With(White, tc.kind, tc.from)
			next := mustPlay(t, mustRoot(t, b, White, NoChain), NewMove(tc.from, tc.to))

			nb := next.Board()
			if got := nb.IsFriendlyPiece(White, tc.to); got != tc.survive {
				t.Errorf("piece on %s present = %v, want %v", tc.to, got, tc.survive)
			}
			if nb.IsOccupied(tc.from) {
				t.Errorf("origin %s still occupied", tc.from)
			}
			if next.ActiveColor() != Black {
				t.Errorf("active = %s, want Black", next.ActiveColor())
			}
		})
	}
}

func TestDrowningOnlyAffectsMover(t *testing.T) {
	b := EmptyBoard().
		With(White, Zebra, A4).
		With(White, Pawn, C2).
		With(Black, Elephant, F4)
	next := mustPlay(t, mustRoot(t, b, White, NoChain), NewMove(C2, C3))

	nb := next.Board()
	if nb.IsOccupied(A4) {
		t.Error("white zebra resting in the river survived")
	}
	if !nb.IsFriendlyPiece(Black, F4) {
		t.Error("black elephant drowned on White's move")
	}
}

func TestPromotion(t *testing.T) {
	b := EmptyBoard().With(White, Pawn, D6)
	next := mustPlay(t, mustRoot(t, b, White, NoChain), NewMove(D6, D7))

	nb := next.Board()
	if nb.GetPiece(D7) != Superpawn || nb.ColorAt(D7) != White {
		t.Errorf("d7 holds %s %s, want White Superpawn", nb.ColorAt(D7), nb.GetPiece(D7))
	}
	if nb.IsOccupied(D6) {
		t.Error("d6 not cleared")
	}

	b = EmptyBoard().With(Black, Pawn, B2)
	next = mustPlay(t, mustRoot(t, b, Black, NoChain), NewMove(B2, A1))
	nb = next.Board()
	if nb.GetPiece(A1) != Superpawn {
		t.Errorf("a1 holds %s, want Superpawn", nb.GetPiece(A1))
	}
}

func TestMonkeyChain(t *testing.T) {
	b := EmptyBoard().
		With(White, Monkey, C4).
		With(Black, Pawn, D4).
		With(Black, Pawn, F5)
	pos := mustRoot(t, b, White, MonkeyChain{Origin: A4})

	if got := len(pos.LegalMoves()); got != 2 {
		t.Fatalf("chain moves = %v, want a jump and an interrupt", pos.LegalMoves())
	}

	next := mustPlay(t, pos, NewMove(C4, E4))
	nb := next.Board()
	if nb.GetPiece(E4) != Monkey || !nb.IsFriendlyPiece(White, E4) {
		t.Errorf("e4 holds %s, want white Monkey", nb.GetPiece(E4))
	}
	if nb.IsOccupied(D4) || nb.IsOccupied(C4) {
		t.Error("jumped or origin square still occupied")
	}
	if next.ActiveColor() != White {
		t.Errorf("active = %s, want White during the chain", next.ActiveColor())
	}
	if next.Chain().Origin != A4 || next.Chain().Monkey != E4 {
		t.Errorf("chain = %+v, want origin a4 monkey e4", next.Chain())
	}

	// Second jump over f5 lands on g6.
	next = mustPlay(t, next, NewMove(E4, G6))
	nb = next.Board()
	if !nb.IsFriendlyPiece(White, G6) || nb.IsOccupied(F5) {
		t.Error("second jump did not capture")
	}
	if next.Chain().Origin != A4 {
		t.Errorf("chain origin moved to %s", next.Chain().Origin)
	}

	done := mustPlay(t, next, NewInterrupt(G6))
	if done.ActiveColor() != Black || done.Chain().Active() {
		t.Errorf("interrupt left active=%s chain=%+v", done.ActiveColor(), done.Chain())
	}
	if db := done.Board(); !db.IsFriendlyPiece(White, G6) {
		t.Error("monkey vanished on land")
	}
}

func TestMonkeyInterruptInRiver(t *testing.T) {
	tests := []struct {
		name    string
		origin  Square
		survive bool
	}{
		{"chain started in river", A4, false},
		{"chain started on land", B5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := EmptyBoard().With(White, Monkey, E4)
			pos := mustRoot(t, b, White, MonkeyChain{Origin: tc.origin})
			next := mustPlay(t, pos, NewInterrupt(E4))
			nb := next.Board()
			if got := nb.IsFriendlyPiece(White, E4); got != tc.survive {
				t.Errorf("monkey on e4 = %v, want %v", got, tc.survive)
			}
		})
	}
}

func TestMonkeyFirstJump(t *testing.T) {
	b := EmptyBoard().
		With(White, Monkey, C2).
		With(Black, Giraffe, C3)
	next := mustPlay(t, mustRoot(t, b, White, NoChain), NewMove(C2, C4))

	if next.ActiveColor() != White {
		t.Fatal("first jump ended the turn")
	}
	if next.Chain().Origin != C2 || next.Chain().Monkey != C4 {
		t.Errorf("chain = %+v, want origin c2 monkey c4", next.Chain())
	}
	if nb := next.Board(); !nb.IsFriendlyPiece(White, C4) {
		t.Error("monkey drowned mid chain")
	}
	if _, ok := next.Accept(NewMove(C4, C5)); ok {
		t.Error("quiet step accepted mid chain")
	}
}

func TestLionCaptures(t *testing.T) {
	t.Run("diagonal", func(t *testing.T) {
		b := EmptyBoard().With(White, Lion, C3).With(Black, Lion, E5)
		pos := mustRoot(t, b, White, NoChain)
		next := mustPlay(t, pos, NewMove(C3, E5))
		if !next.IsWin() || next.Winner() != White {
			t.Errorf("IsWin=%v winner=%s", next.IsWin(), next.Winner())
		}
	})

	t.Run("diagonal blocked", func(t *testing.T) {
		b := EmptyBoard().With(White, Lion, C3).With(Black, Lion, E5).With(Black, Pawn, D4)
		pos := mustRoot(t, b, White, NoChain)
		if _, ok := pos.Accept(NewMove(C3, E5)); ok {
			t.Error("diagonal capture through d4 accepted")
		}
	})

	t.Run("file", func(t *testing.T) {
		b := EmptyBoard().With(White, Lion, D1).With(Black, Lion, D7)
		pos := mustRoot(t, b, White, NoChain)
		if _, ok := pos.Accept(NewMove(D1, D7)); !ok {
			t.Error("open file capture rejected")
		}
		if !pos.Player(Black).LionInDanger(pos.Player(White).Moves) {
			t.Error("black lion not reported in danger")
		}
	})

	t.Run("file blocked", func(t *testing.T) {
		b := EmptyBoard().With(White, Lion, D1).With(Black, Lion, D7).With(White, Pawn, D4)
		pos := mustRoot(t, b, White, NoChain)
		if _, ok := pos.Accept(NewMove(D1, D7)); ok {
			t.Error("blocked file capture accepted")
		}
	})

	t.Run("stays in castle", func(t *testing.T) {
		b := EmptyBoard().With(White, Lion, C2)
		pos := mustRoot(t, b, White, NoChain)
		if _, ok := pos.Accept(NewMove(C2, B2)); ok {
			t.Error("lion left its castle")
		}
	})
}

func TestTerminalChecks(t *testing.T) {
	both := EmptyBoard().With(White, Lion, D1).With(Black, Lion, D7)
	one := EmptyBoard().With(White, Lion, D1)
	none := EmptyBoard()

	tests := []struct {
		name    string
		b       Board
		invalid bool
		win     bool
	}{
		{"both lions", both, false, false},
		{"one lion", one, false, true},
		{"no lions", none, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustRoot(t, tc.b, White, NoChain)
			if pos.IsInvalid() != tc.invalid || pos.IsWin() != tc.win {
				t.Errorf("IsInvalid=%v IsWin=%v", pos.IsInvalid(), pos.IsWin())
			}
			if pos.HasEnded() != (tc.invalid || tc.win) {
				t.Errorf("HasEnded=%v", pos.HasEnded())
			}
		})
	}
}

func TestTransitionLinksParent(t *testing.T) {
	root := CreateStandardPosition()
	if root.Parent() != nil || root.Ply() != 0 {
		t.Fatal("standard position is not a root")
	}
	m := root.LegalMoves()[0]
	child := root.Transition(m)
	if child.Parent() != root || child.Ply() != 1 || child.LastMove() != m {
		t.Errorf("parent=%p ply=%d last=%s", child.Parent(), child.Ply(), child.LastMove())
	}
	// The parent is untouched.
	if root.ToFEN() != StartFEN {
		t.Errorf("root changed to %s", root.ToFEN())
	}
}

func TestStandardPosition(t *testing.T) {
	pos := CreateStandardPosition()
	if got := SerializePosition(pos); got != StartFEN {
		t.Errorf("got %s, want %s", got, StartFEN)
	}
	if pos.ActiveColor() != White || pos.Chain().Active() {
		t.Error("wrong side or pending jump")
	}
	if pos.Player(White).LionSquare != D1 || pos.Player(Black).LionSquare != D7 {
		t.Errorf("lions on %s and %s", pos.Player(White).LionSquare, pos.Player(Black).LionSquare)
	}
}

func TestLoadPositionErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"six ranks", "gmelecz/ppppppp/7/7/PPPPPPP/GMELECZ w -"},
		{"short rank", "gmelecz/pppppp/7/7/7/PPPPPPP/GMELECZ w -"},
		{"long rank", "gmelecz/pppppppp/7/7/7/PPPPPPP/GMELECZ w -"},
		{"unknown piece", "gmelecz/ppppppp/7/3K3/7/PPPPPPP/GMELECZ w -"},
		{"bad colour", "gmelecz/ppppppp/7/7/7/PPPPPPP/GMELECZ x -"},
		{"jump out of range", "gmelecz/ppppppp/7/7/7/PPPPPPP/GMELECZ w 49"},
		{"jump not a number", "gmelecz/ppppppp/7/7/7/PPPPPPP/GMELECZ w c4"},
		{"jump without monkey", "7/7/7/7/7/7/3L3 w 10"},
		{"missing field", "gmelecz/ppppppp/7/7/7/PPPPPPP/GMELECZ w"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := LoadPosition(tc.fen)
			if err == nil {
				t.Fatalf("accepted:\n%s", pos)
			}
			if !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("error %v does not wrap ErrInvalidPosition", err)
			}
		})
	}
}

func TestLoadPositionWithJump(t *testing.T) {
	pos, err := LoadPosition("3l3/7/7/2Mp3/7/7/3L3 w 21")
	if err != nil {
		t.Fatal(err)
	}
	if pos.Chain().Origin != A4 || pos.Chain().Monkey != C4 {
		t.Errorf("chain = %+v", pos.Chain())
	}
	if got := pos.ToFEN(); got != "3l3/7/7/2Mp3/7/7/3L3 w 21" {
		t.Errorf("round trip gave %s", got)
	}
}

// playout plays random legal moves from pos and calls visit on every
// transition.
func playout(rng *rand.Rand, pos *Position, plies int, visit func(parent *Position, m Move, child *Position)) {
	for i := 0; i < plies && !pos.HasEnded(); i++ {
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			return
		}
		m := moves[rng.Intn(len(moves))]
		child := pos.Transition(m)
		visit(pos, m, child)
		pos = child
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 50; game++ {
		playout(rng, CreateStandardPosition(), 120, func(_ *Position, m Move, child *Position) {
			fen := child.ToFEN()
			loaded, err := LoadPosition(fen)
			if err != nil {
				t.Fatalf("LoadPosition(%s) after %s: %v", fen, m, err)
			}
			lb, cb := loaded.Board(), child.Board()
			if !lb.Equal(&cb) {
				t.Fatalf("board mismatch after %s:\n%s\n%s", m, child, loaded)
			}
			if loaded.ActiveColor() != child.ActiveColor() || loaded.Chain() != child.Chain() {
				t.Fatalf("state mismatch after %s: %s vs %s", m, fen, loaded.ToFEN())
			}
			if len(loaded.LegalMoves()) != len(child.LegalMoves()) {
				t.Fatalf("move lists differ after reload of %s", fen)
			}
		})
	}
}

func TestZobristIncremental(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for game := 0; game < 50; game++ {
		root := CreateStandardPosition()
		hash := root.Hash()
		playout(rng, root, 120, func(parent *Position, m Move, child *Position) {
			hash = ApplyTransition(hash, parent, m, child)
			if want := child.Hash(); hash != want {
				t.Fatalf("hash after %s = %x, want %x\n%s", m, hash, want, child)
			}
		})
	}
}

func TestZobristApplyMove(t *testing.T) {
	b := EmptyBoard().
		With(White, Monkey, C2).
		With(Black, Giraffe, C3).
		With(White, Pawn, D6).
		With(Black, Zebra, E7)
	pos := mustRoot(t, b, White, NoChain)

	for _, candidate := range []Move{NewMove(C2, C4), NewMove(D6, E7), NewMove(C2, B1)} {
		m, ok := pos.Accept(candidate)
		if !ok {
			t.Fatalf("%s not legal", candidate)
		}
		before := pos.Board()
		h := ApplyBetween(ApplyMove(InitHash(&before), &before, m), &before, m)
		after := pos.Transition(m).Board()
		if want := InitHash(&after); h != want {
			t.Errorf("%s: incremental %x, want %x", m, h, want)
		}
	}
}

func TestPlayerAccept(t *testing.T) {
	pos := CreateStandardPosition()
	m, ok := pos.Accept(NewMove(G1, F3))
	if !ok || m.From() != G1 || m.To() != F3 {
		t.Errorf("zebra g1f3: got %s %v", m, ok)
	}
	if _, ok := pos.Accept(NewMove(D1, D3)); ok {
		t.Error("lion jumped over its own pawn")
	}
	if _, ok := pos.Accept(NewMove(C7, C5)); ok {
		t.Error("accepted a move for the side not to move")
	}
}

func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		nodes += perft(p.Transition(m), depth-1)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := CreateStandardPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 23},
		{2, 529},
	}
	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}
