package board

// Color represents the side owning a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the row delta of a step toward the opponent's side.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceKind is the 4-bit code stored for every square. Ground and River mark
// unoccupied terrain; every other kind is an animal owned by a color.
type PieceKind uint8

const (
	Ground PieceKind = iota
	River
	Elephant
	Zebra
	Giraffe
	Crocodile
	Pawn
	Superpawn
	Lion
	Monkey

	numKinds = 10
)

// IsAnimal returns true for kinds that occupy a square.
func (k PieceKind) IsAnimal() bool {
	return k >= Elephant && k < numKinds
}

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case Ground:
		return "Ground"
	case River:
		return "River"
	case Elephant:
		return "Elephant"
	case Zebra:
		return "Zebra"
	case Giraffe:
		return "Giraffe"
	case Crocodile:
		return "Crocodile"
	case Pawn:
		return "Pawn"
	case Superpawn:
		return "Superpawn"
	case Lion:
		return "Lion"
	case Monkey:
		return "Monkey"
	default:
		return "None"
	}
}

var kindChars = [numKinds]byte{'.', '~', 'e', 'z', 'g', 'c', 'p', 's', 'l', 'm'}

// Char returns the lowercase letter of the kind. Terrain prints as '.' or '~'.
func (k PieceKind) Char() byte {
	if k >= numKinds {
		return ' '
	}
	return kindChars[k]
}

// PieceChar returns the letter used in serialized positions: uppercase for White.
func PieceChar(c Color, k PieceKind) byte {
	ch := k.Char()
	if c == White && k.IsAnimal() {
		return ch - 'a' + 'A'
	}
	return ch
}

// PieceFromChar converts a position letter to its color and kind.
func PieceFromChar(ch byte) (Color, PieceKind, bool) {
	c := Black
	if ch >= 'A' && ch <= 'Z' {
		c = White
		ch = ch - 'A' + 'a'
	}
	for k := Elephant; k < numKinds; k++ {
		if kindChars[k] == ch {
			return c, k, true
		}
	}
	return NoColor, Ground, false
}

// PieceValue is the material value of each kind.
var PieceValue = [numKinds]int{
	Ground:    0,
	River:     0,
	Elephant:  250,
	Zebra:     250,
	Giraffe:   300,
	Crocodile: 300,
	Pawn:      100,
	Superpawn: 350,
	Lion:      100000,
	Monkey:    300,
}
