package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartFEN is the serialized starting position.
const StartFEN = "gmelecz/ppppppp/7/7/7/PPPPPPP/GMELECZ w -"

// LoadPosition parses a serialized position into a root Position. The form is
// "<ranks> <side> <jump>": seven ranks from rank 7 down, separated by '/',
// digits for runs of empty squares; side "w" or "b"; jump "-" or the square
// index where a pending monkey chain started. Every error wraps
// ErrInvalidPosition.
func LoadPosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 3 {
		return nil, errors.Wrapf(ErrInvalidPosition, "need 3 fields, got %d", len(parts))
	}

	b, err := parsePlacement(parts[0])
	if err != nil {
		return nil, err
	}

	var active Color
	switch parts[1] {
	case "w":
		active = White
	case "b":
		active = Black
	default:
		return nil, errors.Wrapf(ErrInvalidPosition, "side to move %q", parts[1])
	}

	chain := NoChain
	if parts[2] != "-" {
		idx, err := strconv.Atoi(parts[2])
		if err != nil || idx < 0 || idx >= NumSquares {
			return nil, errors.Wrapf(ErrInvalidPosition, "jump origin %q", parts[2])
		}
		chain.Origin = Square(idx)
	}

	return NewRootPosition(b, active, chain)
}

func parsePlacement(s string) (Board, error) {
	b := EmptyBoard()
	ranks := strings.Split(s, "/")
	if len(ranks) != Ranks {
		return b, errors.Wrapf(ErrInvalidPosition, "need %d ranks, got %d", Ranks, len(ranks))
	}

	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '7' {
				col += int(ch - '0')
				continue
			}
			c, k, ok := PieceFromChar(ch)
			if !ok {
				return b, errors.Wrapf(ErrInvalidPosition, "unknown piece %q on rank %d", ch, Ranks-row)
			}
			if col >= Files {
				return b, errors.Wrapf(ErrInvalidPosition, "rank %d too long", Ranks-row)
			}
			b = b.With(c, k, NewSquare(col, row))
			col++
		}
		if col != Files {
			return b, errors.Wrapf(ErrInvalidPosition, "rank %d has %d files", Ranks-row, col)
		}
	}
	return b, nil
}

// SerializePosition returns the text form of p accepted by LoadPosition.
func SerializePosition(p *Position) string {
	return p.ToFEN()
}

// ToFEN returns the serialized form of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for row := 0; row < Ranks; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < Files; col++ {
			sq := NewSquare(col, row)
			c := p.board.ColorAt(sq)
			if c == NoColor {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(PieceChar(c, p.board.GetPiece(sq)))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	if p.active == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.chain.Active() {
		sb.WriteString(strconv.Itoa(int(p.chain.Origin)))
	} else {
		sb.WriteByte('-')
	}
	return sb.String()
}
