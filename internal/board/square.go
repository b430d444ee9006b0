// Package board implements the rules of Congo on a 7x7 bitboard: pieces,
// move generation, the river, monkey jump chains and position hashing.
package board

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Board geometry.
const (
	Files      = 7
	Ranks      = 7
	NumSquares = Files * Ranks

	// RiverRow is the 0-based row of the river (rank 4).
	RiverRow = 3
)

// Square is a square index 0..48 in row-major order. Row 0 is rank 7 (the
// far side for White), so A7 = 0 and G1 = 48.
type Square uint8

// Square constants for all 49 squares.
const (
	A7 Square = iota
	B7
	C7
	D7
	E7
	F7
	G7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	NoSquare Square = NumSquares
)

// NewSquare creates a square from a column (0 = file a) and a row (0 = rank 7).
func NewSquare(col, row int) Square {
	return Square(row*Files + col)
}

// Col returns the column of the square (0-6, where 0=a).
func (sq Square) Col() int {
	return int(sq) % Files
}

// Row returns the row of the square (0-6, where 0 is rank 7).
func (sq Square) Row() int {
	return int(sq) / Files
}

// Rank returns the human rank number (1-7).
func (sq Square) Rank() int {
	return Ranks - sq.Row()
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// IsRiver returns true for squares on the middle row.
func (sq Square) IsRiver() bool {
	return sq.Row() == RiverRow
}

// Terrain returns the kind an empty sq holds: River on the middle row, Ground elsewhere.
func (sq Square) Terrain() PieceKind {
	if sq.IsRiver() {
		return River
	}
	return Ground
}

// Mirror reflects the square left-right (file a <-> file g).
func (sq Square) Mirror() Square {
	return NewSquare(Files-1-sq.Col(), sq.Row())
}

// Flip reflects the square top-bottom (rank 1 <-> rank 7).
func (sq Square) Flip() Square {
	return NewSquare(sq.Col(), Ranks-1-sq.Row())
}

// Offset returns the square dCol columns and dRow rows away, or false if that
// falls off the board.
func (sq Square) Offset(dCol, dRow int) (Square, bool) {
	col, row := sq.Col()+dCol, sq.Row()+dRow
	if !onBoard(col, row) {
		return NoSquare, false
	}
	return NewSquare(col, row), true
}

// String returns the algebraic name of the square (e.g. "c4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.Col()), byte('0' + sq.Rank())})
}

// ParseSquare parses algebraic notation (e.g. "c4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Errorf("invalid square: %q", s)
	}
	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'
	if col < 0 || col >= Files || rank < 1 || rank > Ranks {
		return NoSquare, errors.Errorf("invalid square: %q", s)
	}
	return NewSquare(col, Ranks-rank), nil
}

func onBoard(col, row int) bool {
	return col >= 0 && col < Files && row >= 0 && row < Ranks
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// DebugAssertions turns programmer-contract violations (out-of-range squares,
// transitions with moves that were never generated) into panics.
var DebugAssertions = false

func assertSquare(sq Square) {
	if DebugAssertions && !sq.IsValid() {
		panic(errors.Errorf("board: square %d out of range", sq))
	}
}
