package board

// generator appends the moves of one piece standing on from.
type generator func(b *Board, c Color, from Square, moves []Move) []Move

// generators is indexed by PieceKind. Terrain and the monkey have no entry:
// monkey moves depend on the pending jump chain, see genMonkeyMoves.
var generators = [numKinds]generator{
	Elephant:  genElephantMoves,
	Zebra:     genZebraMoves,
	Giraffe:   genGiraffeMoves,
	Crocodile: genCrocodileMoves,
	Pawn:      genPawnMoves,
	Superpawn: genSuperpawnMoves,
	Lion:      genLionMoves,
}

// GetMoves returns the moves of the piece on sq for color c, with no jump
// chain pending. It returns nil for empty squares and opposing pieces.
func GetMoves(c Color, b *Board, sq Square) []Move {
	if !b.IsFriendlyPiece(c, sq) {
		return nil
	}
	return appendPieceMoves(b, c, sq, nil)
}

func appendPieceMoves(b *Board, c Color, sq Square, moves []Move) []Move {
	kind := b.GetPiece(sq)
	if kind == Monkey {
		return genMonkeyMoves(b, c, sq, moves)
	}
	if gen := generators[kind]; gen != nil {
		return gen(b, c, sq, moves)
	}
	return moves
}

// addCapturingLeaps adds a move to every target that is empty or holds an
// opponent.
func addCapturingLeaps(b *Board, c Color, from Square, targets Bitboard, moves []Move) []Move {
	targets &^= b.occupied[c]
	for targets != 0 {
		moves = append(moves, NewMove(from, targets.PopLSB()))
	}
	return moves
}

// addQuietLeaps adds a move to every empty target.
func addQuietLeaps(b *Board, from Square, targets Bitboard, moves []Move) []Move {
	targets &^= b.AllOccupied()
	for targets != 0 {
		moves = append(moves, NewMove(from, targets.PopLSB()))
	}
	return moves
}

// addSlide walks from from in direction (dCol, dRow) for at most limit
// squares. Empty squares are added; the walk stops at the first occupant,
// which is added only when capture is set and it belongs to the opponent.
func addSlide(b *Board, c Color, from Square, dCol, dRow, limit int, capture bool, moves []Move) []Move {
	sq := from
	for i := 0; i < limit; i++ {
		next, ok := sq.Offset(dCol, dRow)
		if !ok {
			break
		}
		sq = next
		if b.IsOccupied(sq) {
			if capture && b.IsOpponentPiece(c, sq) {
				moves = append(moves, NewMove(from, sq))
			}
			break
		}
		moves = append(moves, NewMove(from, sq))
	}
	return moves
}

func genElephantMoves(b *Board, c Color, from Square, moves []Move) []Move {
	return addCapturingLeaps(b, c, from, elephantLeaps[from], moves)
}

func genZebraMoves(b *Board, c Color, from Square, moves []Move) []Move {
	return addCapturingLeaps(b, c, from, zebraLeaps[from], moves)
}

// Giraffe: quiet king step, captures only two squares away orthogonally.
func genGiraffeMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addQuietLeaps(b, from, kingLeaps[from], moves)
	return addCapturingLeaps(b, c, from, giraffeCaptureLeaps[from], moves)
}

func genCrocodileMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addCapturingLeaps(b, c, from, crocodileLeaps[from], moves)
	if from.IsRiver() {
		moves = addSlide(b, c, from, -1, 0, Files, true, moves)
		return addSlide(b, c, from, 1, 0, Files, true, moves)
	}
	dist := RiverRow - from.Row()
	return addSlide(b, c, from, 0, sign(dist), abs(dist), true, moves)
}

// crossedRiver reports whether sq lies on the opponent's half for color c.
func crossedRiver(c Color, sq Square) bool {
	if c == White {
		return sq.Row() < RiverRow
	}
	return sq.Row() > RiverRow
}

func genPawnMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addCapturingLeaps(b, c, from, pawnLeaps[c][from], moves)
	if crossedRiver(c, from) {
		moves = addSlide(b, c, from, 0, -c.Forward(), 2, false, moves)
	}
	return moves
}

func genSuperpawnMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addCapturingLeaps(b, c, from, superpawnLeaps[c][from], moves)
	back := -c.Forward()
	for dCol := -1; dCol <= 1; dCol++ {
		moves = addSlide(b, c, from, dCol, back, 2, false, moves)
	}
	return moves
}

func genLionMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addCapturingLeaps(b, c, from, lionLeaps[c][from], moves)
	if to, ok := b.LionDiagonalCapture(c, from); ok {
		moves = append(moves, NewMove(from, to))
	}
	if to, ok := b.lionFileCapture(c, from); ok {
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

// lionFileCapture finds an opposing lion facing this one on the same file
// with nothing in between. Adjacent lions are already covered by the castle
// step, so only captures of two squares or more are reported.
func (b *Board) lionFileCapture(c Color, from Square) (Square, bool) {
	sq := from
	for dist := 1; ; dist++ {
		next, ok := sq.Offset(0, c.Forward())
		if !ok {
			return NoSquare, false
		}
		sq = next
		if !b.IsOccupied(sq) {
			continue
		}
		if dist > 1 && b.IsOpponentPiece(c, sq) && b.GetPiece(sq) == Lion {
			return sq, true
		}
		return NoSquare, false
	}
}

// genMonkeyMoves generates the moves of a monkey with no chain pending: quiet
// king steps plus the first jump of a possible chain.
func genMonkeyMoves(b *Board, c Color, from Square, moves []Move) []Move {
	moves = addQuietLeaps(b, from, kingLeaps[from], moves)
	return addMonkeyJumps(b, c, from, moves)
}

// addMonkeyJumps adds a jump over every adjacent opponent whose far side is
// empty.
func addMonkeyJumps(b *Board, c Color, from Square, moves []Move) []Move {
	for _, d := range kingDirs {
		over, ok := from.Offset(d[0], d[1])
		if !ok || !b.IsOpponentPiece(c, over) {
			continue
		}
		to, ok := over.Offset(d[0], d[1])
		if !ok || b.IsOccupied(to) {
			continue
		}
		moves = append(moves, NewMonkeyJump(from, to, over))
	}
	return moves
}

// genChainMoves generates the moves available while a jump chain is pending:
// further jumps by the chain's monkey, or stopping where it stands.
func genChainMoves(b *Board, c Color, chain MonkeyChain, moves []Move) []Move {
	moves = addMonkeyJumps(b, c, chain.Monkey, moves)
	return append(moves, NewInterrupt(chain.Monkey))
}
