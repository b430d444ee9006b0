package board

import "github.com/pkg/errors"

// Move encodes a move in 20 bits:
// bits 0-5:   from square (0-48)
// bits 6-11:  to square (0-48)
// bits 12-17: square jumped over by a monkey (only with FlagMonkeyJump)
// bits 18-19: flags
type Move uint32

// Move flags
const (
	FlagMonkeyJump Move = 1 << 18
	FlagInterrupt  Move = 1 << 19
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates an ordinary move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewMonkeyJump creates a monkey capture from from to to over between.
func NewMonkeyJump(from, to, between Square) Move {
	return Move(from) | Move(to)<<6 | Move(between)<<12 | FlagMonkeyJump
}

// NewInterrupt creates the move that ends a monkey jump chain on sq.
func NewInterrupt(sq Square) Move {
	return Move(sq) | Move(sq)<<6 | FlagInterrupt
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Between returns the captured square of a monkey jump, or NoSquare.
func (m Move) Between() Square {
	if !m.IsMonkeyJump() {
		return NoSquare
	}
	return Square((m >> 12) & 0x3F)
}

// IsMonkeyJump returns true for a capturing monkey jump.
func (m Move) IsMonkeyJump() bool {
	return m&FlagMonkeyJump != 0
}

// IsInterrupt returns true for the move that ends a jump chain (From == To).
func (m Move) IsInterrupt() bool {
	return m&FlagInterrupt != 0
}

// SameSquares reports whether both moves go from and to the same squares.
func (m Move) SameSquares(o Move) bool {
	return m.From() == o.From() && m.To() == o.To()
}

// String returns the move in coordinate notation (e.g. "c4d4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove parses coordinate notation into a candidate move. The candidate
// carries only the two squares; resolve it with Player.Accept to obtain the
// generated move (which knows about jumps).
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, errors.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, errors.Wrapf(err, "move %q", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, errors.Wrapf(err, "move %q", s)
	}
	if from == to {
		return NewInterrupt(from), nil
	}
	return NewMove(from, to), nil
}
