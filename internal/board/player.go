package board

// MonkeyChain is the bookkeeping of a monkey jump chain in progress: where the
// chain's first jump started and where the jumping monkey stands now.
type MonkeyChain struct {
	Origin Square
	Monkey Square
}

// NoChain is the zero state: no jump chain pending.
var NoChain = MonkeyChain{Origin: NoSquare, Monkey: NoSquare}

// Active returns true while a chain is pending.
func (mc MonkeyChain) Active() bool {
	return mc.Origin != NoSquare
}

// Player is one color's view of a board: its legal moves and where its lion
// stands. A Player is built once per board and never changes afterwards.
type Player struct {
	Color      Color
	Moves      []Move
	LionSquare Square
}

// NewPlayer generates the moves of color c on b. With an active chain only
// the chain's monkey may move.
func NewPlayer(c Color, b *Board, chain MonkeyChain) *Player {
	p := &Player{Color: c, LionSquare: NoSquare}

	if chain.Active() {
		p.Moves = genChainMoves(b, c, chain, make([]Move, 0, 9))
	} else {
		p.Moves = make([]Move, 0, 48)
	}

	it := b.occupied[c].Iter()
	for sq, ok := it.Next(); ok; sq, ok = it.Next() {
		if b.GetPiece(sq) == Lion {
			p.LionSquare = sq
		}
		if !chain.Active() {
			p.Moves = appendPieceMoves(b, c, sq, p.Moves)
		}
	}
	return p
}

// HasLion returns true while this color's lion is on the board.
func (p *Player) HasLion() bool {
	return p.LionSquare != NoSquare
}

// Accept resolves a candidate move to the generated move with the same from
// and to squares. The boolean is false when the candidate is not legal.
func (p *Player) Accept(candidate Move) (Move, bool) {
	for _, m := range p.Moves {
		if m.SameSquares(candidate) {
			return m, true
		}
	}
	return NoMove, false
}

// LionInDanger returns true if any of the opponent's moves captures this
// player's lion, by landing on it or by jumping over it.
func (p *Player) LionInDanger(opponentMoves []Move) bool {
	if !p.HasLion() {
		return false
	}
	for _, m := range opponentMoves {
		if m.IsInterrupt() {
			continue
		}
		if m.To() == p.LionSquare || m.Between() == p.LionSquare {
			return true
		}
	}
	return false
}
