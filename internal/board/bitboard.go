package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit occupancy word. Bit i corresponds to Square i, so only
// the low 49 bits are ever used (row-major, A7 = bit 0, G1 = bit 48).
type Bitboard uint64

// Special masks
const (
	Empty    Bitboard = 0
	Universe Bitboard = (1 << NumSquares) - 1
)

// RiverMask covers the middle row.
const RiverMask Bitboard = 0x7F << (RiverRow * Files)

// RowMask returns the mask for a given row (0 = rank 7).
var RowMask = [Ranks]Bitboard{
	0x7F << (0 * Files),
	0x7F << (1 * Files),
	0x7F << (2 * Files),
	0x7F << (3 * Files),
	0x7F << (4 * Files),
	0x7F << (5 * Files),
	0x7F << (6 * Files),
}

// De Bruijn sequence used to turn an isolated low bit into an index.
const debruijn64 = 0x03f79d71b4cb0a89

var debruijnIndex = [64]Square{
	0, 1, 48, 2, 57, 49, 28, 3,
	61, 58, 50, 42, 38, 29, 17, 4,
	62, 55, 59, 36, 53, 51, 43, 22,
	45, 39, 33, 30, 24, 18, 12, 5,
	63, 47, 56, 27, 60, 41, 37, 16,
	54, 35, 52, 21, 44, 32, 23, 11,
	46, 26, 40, 15, 34, 20, 31, 10,
	25, 14, 19, 9, 13, 8, 7, 6,
}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Set sets a bit at the given square.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear clears a bit at the given square.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest set square, or NoSquare for an empty board.
// Constant time: isolate the low bit, multiply by the De Bruijn constant and
// look the top six bits up.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return debruijnIndex[((uint64(b)&-uint64(b))*debruijn64)>>58]
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Empty returns true if no bits are set.
func (b Bitboard) Empty() bool {
	return b == 0
}

// ForEach calls the function for each set square, lowest first.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Squares returns a slice of all squares that are set.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}

// Iter returns an iterator over the set squares of b.
func (b Bitboard) Iter() BitIterator {
	return BitIterator{source: b, rest: b}
}

// BitIterator walks the set bits of a bitboard from low to high. It can be
// rewound with Reset and is a plain value, so copies iterate independently.
type BitIterator struct {
	source Bitboard
	rest   Bitboard
}

// Next returns the next set square and true, or NoSquare and false when done.
func (it *BitIterator) Next() (Square, bool) {
	if it.rest == 0 {
		return NoSquare, false
	}
	return it.rest.PopLSB(), true
}

// Reset rewinds the iterator to the first set square.
func (it *BitIterator) Reset() {
	it.rest = it.source
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < Ranks; row++ {
		sb.WriteByte(byte('1' + Ranks - 1 - row))
		sb.WriteByte(' ')
		for col := 0; col < Files; col++ {
			if b.IsSet(NewSquare(col, row)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g\n")
	return sb.String()
}
