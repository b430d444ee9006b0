// Package engine implements the Congo search engine: static evaluation,
// a shared transposition table and a parallel negamax search.
package engine

import (
	"github.com/hailam/congoplay/internal/board"
)

// LionInCheckPenalty is charged to a side that ends its turn with its lion
// capturable.
const LionInCheckPenalty = 500

// Evaluate returns the static score of pos from the point of view of the side
// to move. The side that just moved is penalised if it left its lion open to
// capture.
func Evaluate(pos *board.Position) int {
	b := pos.Board()
	score := b.Material()

	if parent := pos.Parent(); parent != nil {
		mover := parent.ActiveColor()
		opponent := mover.Other()
		if pos.Player(mover).LionInDanger(pos.Player(opponent).Moves) {
			if mover == board.White {
				score -= LionInCheckPenalty
			} else {
				score += LionInCheckPenalty
			}
		}
	}

	if pos.ActiveColor() != board.White {
		score = -score
	}
	return score
}
