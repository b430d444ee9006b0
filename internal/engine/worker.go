package engine

import (
	"github.com/hailam/congoplay/internal/board"
)

// Worker runs a single-threaded negamax over a slice of root moves. Workers
// share the transposition table and the cancel token; everything else is
// private to the worker.
type Worker struct {
	id    int
	tt    *HashTable
	token *CancelToken
	nodes uint64
}

// WorkerResult is the best root move a worker found in its slice.
type WorkerResult struct {
	WorkerID int
	Move     board.Move
	Score    int
	Nodes    uint64
}

// NewWorker creates a search worker.
func NewWorker(id int, tt *HashTable, token *CancelToken) *Worker {
	return &Worker{id: id, tt: tt, token: token}
}

// Nodes returns the number of nodes searched by this worker.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// childScore searches the position reached by m and returns its score from
// the point of view of pos's side to move. A move that keeps the turn (a
// monkey jump) keeps both the window and the sign.
func (w *Worker) childScore(pos *board.Position, hash uint64, m board.Move, depth, alpha, beta int) int {
	child := pos.Transition(m)
	childHash := board.ApplyTransition(hash, pos, m, child)

	if child.ActiveColor() == pos.ActiveColor() {
		return w.negamax(child, childHash, depth-1, alpha, beta)
	}
	return -w.negamax(child, childHash, depth-1, -beta, -alpha)
}

// SearchMoves searches the given root moves of pos with a full window and
// returns the best one. Ties keep the earliest move.
func (w *Worker) SearchMoves(pos *board.Position, hash uint64, moves []board.Move, depth int) WorkerResult {
	res := WorkerResult{WorkerID: w.id, Move: board.NoMove, Score: -Infinity}
	alpha := -Infinity

	for _, m := range moves {
		if w.token.Cancelled() {
			break
		}
		score := w.childScore(pos, hash, m, depth, alpha, Infinity)
		if res.Move == board.NoMove || score > res.Score {
			res.Move = m
			res.Score = score
		}
		if score > alpha {
			alpha = score
		}
	}
	res.Nodes = w.nodes
	return res
}

// negamax is a fail-hard alpha-beta search. hash is the zobrist hash of
// pos's board, maintained incrementally by the caller.
func (w *Worker) negamax(pos *board.Position, hash uint64, depth, alpha, beta int) int {
	if w.token.Cancelled() {
		return 0
	}
	w.nodes++

	if depth <= 0 || pos.HasEnded() {
		return Evaluate(pos)
	}

	b := pos.Board()
	key := hash ^ board.StateKey(pos.ActiveColor(), pos.Chain())
	if _, score, ok := w.tt.TryGetSolution(key, &b, depth); ok {
		return score
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Evaluate(pos)
	}

	best := board.NoMove
	for _, m := range moves {
		score := w.childScore(pos, hash, m, depth, alpha, beta)
		if w.token.Cancelled() {
			return 0
		}
		if score >= beta {
			w.tt.SetSolution(key, &b, depth, m, beta)
			return beta
		}
		if score > alpha {
			alpha = score
			best = m
		}
	}

	w.tt.SetSolution(key, &b, depth, best, alpha)
	return alpha
}
