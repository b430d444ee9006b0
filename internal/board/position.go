package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Position is one node of the game tree: a board, both players' move lists,
// the side to move and a pending monkey chain, linked to the position it came
// from. Positions are immutable; Transition is the only way to derive a new one.
type Position struct {
	board   Board
	players [2]*Player
	active  Color
	chain   MonkeyChain

	parent   *Position
	lastMove Move
	ply      int
}

// ErrInvalidPosition is returned (wrapped) for any malformed position input.
var ErrInvalidPosition = errors.New("invalid position")

// NewRootPosition builds a position with no predecessor. If chain is active,
// its Monkey field is ignored: the side to move must own exactly one monkey,
// which becomes the chain's monkey.
func NewRootPosition(b Board, active Color, chain MonkeyChain) (*Position, error) {
	InitTables()
	if active != White && active != Black {
		return nil, errors.Wrapf(ErrInvalidPosition, "side to move %d", active)
	}
	if chain.Active() {
		if !chain.Origin.IsValid() {
			return nil, errors.Wrapf(ErrInvalidPosition, "jump origin %d out of range", chain.Origin)
		}
		monkeys := b.PiecesOf(active, Monkey)
		if monkeys.PopCount() != 1 {
			return nil, errors.Wrapf(ErrInvalidPosition, "pending jump needs one %s monkey, found %d",
				active, monkeys.PopCount())
		}
		chain.Monkey = monkeys.LSB()
	} else {
		chain = NoChain
	}
	return newPosition(b, active, chain, nil, NoMove), nil
}

func newPosition(b Board, active Color, chain MonkeyChain, parent *Position, m Move) *Position {
	p := &Position{
		board:    b,
		active:   active,
		chain:    chain,
		parent:   parent,
		lastMove: m,
	}
	if parent != nil {
		p.ply = parent.ply + 1
	}
	p.players[active] = NewPlayer(active, &p.board, chain)
	p.players[active.Other()] = NewPlayer(active.Other(), &p.board, NoChain)
	return p
}

// CreateStandardPosition returns the starting position.
func CreateStandardPosition() *Position {
	pos, err := LoadPosition(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Board returns the position's board.
func (p *Position) Board() Board { return p.board }

// ActiveColor returns the side to move.
func (p *Position) ActiveColor() Color { return p.active }

// ActivePlayer returns the player to move.
func (p *Position) ActivePlayer() *Player { return p.players[p.active] }

// Player returns the view of color c.
func (p *Position) Player(c Color) *Player { return p.players[c] }

// Chain returns the pending monkey jump chain, if any.
func (p *Position) Chain() MonkeyChain { return p.chain }

// Parent returns the predecessor, or nil for a root position.
func (p *Position) Parent() *Position { return p.parent }

// LastMove returns the move that produced this position (NoMove for roots).
func (p *Position) LastMove() Move { return p.lastMove }

// Ply returns the distance from the root.
func (p *Position) Ply() int { return p.ply }

// LegalMoves returns the moves of the side to move.
func (p *Position) LegalMoves() []Move { return p.players[p.active].Moves }

// Accept resolves a candidate move for the side to move.
func (p *Position) Accept(candidate Move) (Move, bool) {
	return p.players[p.active].Accept(candidate)
}

// IsInvalid returns true if neither lion is on the board.
func (p *Position) IsInvalid() bool {
	return !p.players[White].HasLion() && !p.players[Black].HasLion()
}

// IsWin returns true if exactly one lion is left.
func (p *Position) IsWin() bool {
	return p.players[White].HasLion() != p.players[Black].HasLion()
}

// HasEnded returns true for won or invalid positions.
func (p *Position) HasEnded() bool {
	return !p.players[White].HasLion() || !p.players[Black].HasLion()
}

// IsTerminal is an alias of HasEnded.
func (p *Position) IsTerminal() bool { return p.HasEnded() }

// Winner returns the color whose lion survives, or NoColor.
func (p *Position) Winner() Color {
	if !p.IsWin() {
		return NoColor
	}
	if p.players[White].HasLion() {
		return White
	}
	return Black
}

// promotionRow is the far row for color c.
func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return Ranks - 1
}

// arrivingKind is the kind a piece has after landing on to.
func arrivingKind(c Color, k PieceKind, to Square) PieceKind {
	if k == Pawn && to.Row() == promotionRow(c) {
		return Superpawn
	}
	return k
}

// Transition applies m, which must come from LegalMoves or Accept, and returns
// the resulting position.
func (p *Position) Transition(m Move) *Position {
	us := p.active
	if DebugAssertions {
		if _, ok := p.Accept(m); !ok {
			panic(errors.Errorf("board: transition with foreign move %s", m))
		}
	}

	b := p.board
	next := us.Other()
	chain := NoChain
	from, to := m.From(), m.To()

	switch {
	case m.IsInterrupt():
		// The chain ends where the monkey stands.
	case m.IsMonkeyJump():
		kind := b.GetPiece(from)
		b = b.Without(from).Without(m.Between()).With(us, kind, to)
		origin := from
		if p.chain.Active() {
			origin = p.chain.Origin
		}
		chain = MonkeyChain{Origin: origin, Monkey: to}
		next = us
	default:
		kind := arrivingKind(us, b.GetPiece(from), to)
		b = b.Without(from).With(us, kind, to)
	}

	b = p.drown(b, m)
	return newPosition(b, next, chain, p, m)
}

// drown removes the mover's animals that end the move in the river. Other
// colors and crocodiles are never touched. The destination of m survives when
// it came from land, or when a monkey is mid chain; a monkey ending its chain
// in the river survives only if the chain started on land.
func (p *Position) drown(b Board, m Move) Board {
	us := p.active
	river := b.occupied[us] & RiverMask
	for river != 0 {
		sq := river.PopLSB()
		kind := b.GetPiece(sq)
		if kind == Crocodile {
			continue
		}
		if sq == m.To() && survivesRiver(kind, m, p.chain) {
			continue
		}
		b = b.Without(sq)
	}
	return b
}

func survivesRiver(kind PieceKind, m Move, chain MonkeyChain) bool {
	if !m.From().IsRiver() {
		return true
	}
	if kind != Monkey {
		return false
	}
	switch {
	case m.IsMonkeyJump():
		return true
	case m.IsInterrupt():
		return !chain.Origin.IsRiver()
	}
	return false
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n" + p.board.String() + "\n"
	s += fmt.Sprintf("Side to move: %s\n", p.active)
	if p.chain.Active() {
		s += fmt.Sprintf("Monkey chain: from %s, monkey on %s\n", p.chain.Origin, p.chain.Monkey)
	}
	s += fmt.Sprintf("Ply: %d\n", p.ply)
	s += fmt.Sprintf("FEN: %s\n", p.ToFEN())
	return s
}
