package engine

import (
	"lukechampine.com/frand"

	"github.com/hailam/congoplay/internal/board"
)

// RandomMove picks one of the side to move's legal moves uniformly. It
// returns false when there is nothing to play.
func RandomMove(pos *board.Position) (board.Move, bool) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, false
	}
	return moves[frand.Intn(len(moves))], true
}
