package board

import "strings"

const (
	kindBits     = 4
	kindsPerWord = 64 / kindBits
	kindWords    = (NumSquares + kindsPerWord - 1) / kindsPerWord
	kindMask     = 1<<kindBits - 1
)

// Board is one immutable arrangement of pieces: an occupancy mask per color
// plus a packed 4-bit kind code for every square. Board is a small value type;
// every mutator returns a new Board and leaves the receiver untouched. The
// zero Board is an empty board.
type Board struct {
	occupied [2]Bitboard
	kinds    [kindWords]uint64
}

// terrainKinds holds the terrain code of every square. Kind codes are stored
// XORed with it, so all-zero words mean bare terrain.
var terrainKinds = func() [kindWords]uint64 {
	var kinds [kindWords]uint64
	for sq := A7; sq < NoSquare; sq++ {
		word, shift := kindSlot(sq)
		kinds[word] |= uint64(sq.Terrain()) << shift
	}
	return kinds
}()

func kindSlot(sq Square) (int, uint) {
	return int(sq) / kindsPerWord, uint(int(sq)%kindsPerWord) * kindBits
}

// EmptyBoard returns a board with no animals on it.
func EmptyBoard() Board {
	InitTables()
	return Board{}
}

func (b Board) setKind(sq Square, k PieceKind) Board {
	word, shift := kindSlot(sq)
	b.kinds[word] = b.kinds[word]&^(kindMask<<shift) | (uint64(k)<<shift ^ terrainKinds[word]&(kindMask<<shift))
	return b
}

// With returns a copy of the board with an animal of the given color placed on
// sq, replacing whatever was there.
func (b Board) With(c Color, k PieceKind, sq Square) Board {
	assertSquare(sq)
	if DebugAssertions && (!k.IsAnimal() || c >= NoColor) {
		panic("board: With needs an animal and a color")
	}
	bb := SquareBB(sq)
	b.occupied[c] |= bb
	b.occupied[c.Other()] &^= bb
	return b.setKind(sq, k)
}

// Without returns a copy of the board with sq emptied back to its terrain.
func (b Board) Without(sq Square) Board {
	assertSquare(sq)
	bb := SquareBB(sq)
	b.occupied[White] &^= bb
	b.occupied[Black] &^= bb
	return b.setKind(sq, sq.Terrain())
}

// GetPiece returns the kind stored on sq (terrain when unoccupied).
func (b *Board) GetPiece(sq Square) PieceKind {
	assertSquare(sq)
	word, shift := kindSlot(sq)
	return PieceKind((b.kinds[word] ^ terrainKinds[word]) >> shift & kindMask)
}

// ColorAt returns the owner of sq, or NoColor if it is empty.
func (b *Board) ColorAt(sq Square) Color {
	bb := SquareBB(sq)
	switch {
	case b.occupied[White]&bb != 0:
		return White
	case b.occupied[Black]&bb != 0:
		return Black
	}
	return NoColor
}

// IsOccupied returns true if any animal stands on sq.
func (b *Board) IsOccupied(sq Square) bool {
	return (b.occupied[White]|b.occupied[Black])&SquareBB(sq) != 0
}

// IsFriendlyPiece returns true if an animal of color c stands on sq.
func (b *Board) IsFriendlyPiece(c Color, sq Square) bool {
	return b.occupied[c]&SquareBB(sq) != 0
}

// IsOpponentPiece returns true if an animal of the other color stands on sq.
func (b *Board) IsOpponentPiece(c Color, sq Square) bool {
	return b.occupied[c.Other()]&SquareBB(sq) != 0
}

// Occupied returns the occupancy mask of one color.
func (b *Board) Occupied(c Color) Bitboard {
	return b.occupied[c]
}

// AllOccupied returns the occupancy mask of both colors.
func (b *Board) AllOccupied() Bitboard {
	return b.occupied[White] | b.occupied[Black]
}

// PiecesOf returns the squares holding animals of kind k and color c.
func (b *Board) PiecesOf(c Color, k PieceKind) Bitboard {
	var out Bitboard
	it := b.occupied[c].Iter()
	for sq, ok := it.Next(); ok; sq, ok = it.Next() {
		if b.GetPiece(sq) == k {
			out |= SquareBB(sq)
		}
	}
	return out
}

// Equal reports whether both boards hold the same pieces. A nil board only
// equals another nil board.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	return *b == *o
}

// Material returns the material balance (positive favors White).
func (b *Board) Material() int {
	score := 0
	for c := White; c <= Black; c++ {
		sum := 0
		it := b.occupied[c].Iter()
		for sq, ok := it.Next(); ok; sq, ok = it.Next() {
			sum += PieceValue[b.GetPiece(sq)]
		}
		if c == White {
			score += sum
		} else {
			score -= sum
		}
	}
	return score
}

// String renders the board as a grid with rank and file labels.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Ranks; row++ {
		sb.WriteByte(byte('0' + Ranks - row))
		sb.WriteString("  ")
		for col := 0; col < Files; col++ {
			sq := NewSquare(col, row)
			sb.WriteByte(PieceChar(b.ColorAt(sq), b.GetPiece(sq)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g\n")
	return sb.String()
}
