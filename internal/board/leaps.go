package board

import "sync"

// Pre-computed leap tables. Each maps a square to the squares a piece could
// land on from there, ignoring occupancy.
var (
	kingLeaps           [NumSquares]Bitboard
	zebraLeaps          [NumSquares]Bitboard
	elephantLeaps       [NumSquares]Bitboard
	giraffeCaptureLeaps [NumSquares]Bitboard
	crocodileLeaps      [NumSquares]Bitboard
	lionLeaps           [2][NumSquares]Bitboard // [Color][Square]
	pawnLeaps           [2][NumSquares]Bitboard
	superpawnLeaps      [2][NumSquares]Bitboard

	castleMask [2]Bitboard

	// lionDiagonal maps each castle corner beside the central river square to
	// the mirrored corner of the opposing castle.
	lionDiagonal = map[Square]Square{C3: E5, E3: C5, C5: E3, E5: C3}

	tablesOnce sync.Once
)

var (
	kingDirs     = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	rookDirs     = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	zebraOffsets = [8][2]int{{-1, -2}, {1, -2}, {-2, -1}, {2, -1}, {-2, 1}, {2, 1}, {-1, 2}, {1, 2}}
)

// InitTables builds every leap table. It is safe to call more than once and
// from several goroutines; only the first call does any work. Board
// constructors call it, so callers never observe empty tables.
func InitTables() {
	tablesOnce.Do(func() {
		initCastles()
		initKingLeaps()
		initZebraLeaps()
		initElephantLeaps()
		initGiraffeLeaps()
		initCrocodileLeaps()
		initLionLeaps()
		initPawnLeaps()
		initZobrist()
	})
}

func leapsFrom(sq Square, offsets [][2]int) Bitboard {
	var bb Bitboard
	for _, d := range offsets {
		if to, ok := sq.Offset(d[0], d[1]); ok {
			bb |= SquareBB(to)
		}
	}
	return bb
}

func initCastles() {
	for col := 2; col <= 4; col++ {
		for row := 0; row <= 2; row++ {
			castleMask[Black] |= SquareBB(NewSquare(col, row))
			castleMask[White] |= SquareBB(NewSquare(col, Ranks-1-row))
		}
	}
}

func initKingLeaps() {
	for sq := A7; sq < NoSquare; sq++ {
		kingLeaps[sq] = leapsFrom(sq, kingDirs[:])
	}
}

func initZebraLeaps() {
	for sq := A7; sq < NoSquare; sq++ {
		zebraLeaps[sq] = leapsFrom(sq, zebraOffsets[:])
	}
}

func initElephantLeaps() {
	for sq := A7; sq < NoSquare; sq++ {
		for _, d := range rookDirs {
			elephantLeaps[sq] |= leapsFrom(sq, [][2]int{{d[0], d[1]}, {2 * d[0], 2 * d[1]}})
		}
	}
}

func initGiraffeLeaps() {
	for sq := A7; sq < NoSquare; sq++ {
		for _, d := range rookDirs {
			giraffeCaptureLeaps[sq] |= leapsFrom(sq, [][2]int{{2 * d[0], 2 * d[1]}})
		}
	}
}

// The crocodile's king step leaves out the squares its slide already reaches:
// both river neighbours in the river, the neighbour toward the river on land.
func initCrocodileLeaps() {
	for sq := A7; sq < NoSquare; sq++ {
		leaps := kingLeaps[sq]
		if sq.IsRiver() {
			leaps &^= RiverMask
		} else if to, ok := sq.Offset(0, sign(RiverRow-sq.Row())); ok {
			leaps = leaps.Clear(to)
		}
		crocodileLeaps[sq] = leaps
	}
}

func initLionLeaps() {
	for c := White; c <= Black; c++ {
		for sq := A7; sq < NoSquare; sq++ {
			lionLeaps[c][sq] = kingLeaps[sq] & castleMask[c]
		}
	}
}

func initPawnLeaps() {
	for c := White; c <= Black; c++ {
		fwd := c.Forward()
		for sq := A7; sq < NoSquare; sq++ {
			pawnLeaps[c][sq] = leapsFrom(sq, [][2]int{{-1, fwd}, {0, fwd}, {1, fwd}})
			superpawnLeaps[c][sq] = pawnLeaps[c][sq] | leapsFrom(sq, [][2]int{{-1, 0}, {1, 0}})
		}
	}
}

// LeapsAsKing returns the 8-neighbourhood of sq.
func LeapsAsKing(sq Square) Bitboard { return kingLeaps[sq] }

// LeapsAsZebra returns the knight leaps from sq.
func LeapsAsZebra(sq Square) Bitboard { return zebraLeaps[sq] }

// LeapsAsElephant returns the orthogonal one- and two-square leaps from sq.
func LeapsAsElephant(sq Square) Bitboard { return elephantLeaps[sq] }

// LeapsAsCapturingGiraffe returns the orthogonal two-square leaps from sq.
func LeapsAsCapturingGiraffe(sq Square) Bitboard { return giraffeCaptureLeaps[sq] }

// LeapsAsCrocodile returns the crocodile's single-step leaps from sq.
func LeapsAsCrocodile(sq Square) Bitboard { return crocodileLeaps[sq] }

// LeapsAsLion returns the steps a lion of color c may take inside its castle.
func LeapsAsLion(sq Square, c Color) Bitboard { return lionLeaps[c][sq] }

// LeapsAsPawn returns the three forward squares of a pawn of color c.
func LeapsAsPawn(sq Square, c Color) Bitboard { return pawnLeaps[c][sq] }

// LeapsAsSuperpawn returns the forward and sideways squares of a superpawn.
func LeapsAsSuperpawn(sq Square, c Color) Bitboard { return superpawnLeaps[c][sq] }

// Castle returns the 3x3 lion area of color c.
func Castle(c Color) Bitboard { return castleMask[c] }

// LionDiagonalCapture returns the target of the long diagonal lion capture
// from sq for a lion of color c: sq must be a castle corner beside D4, D4 must
// be empty, and the opposing lion must stand on the mirrored corner.
func (b *Board) LionDiagonalCapture(c Color, sq Square) (Square, bool) {
	to, ok := lionDiagonal[sq]
	if !ok || !castleMask[c].IsSet(sq) || b.IsOccupied(D4) {
		return NoSquare, false
	}
	if b.IsOpponentPiece(c, to) && b.GetPiece(to) == Lion {
		return to, true
	}
	return NoSquare, false
}
