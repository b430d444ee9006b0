package engine

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/congoplay/internal/board"
)

// Search constants
const (
	// Infinity bounds every reachable score: both lions plus all material
	// stay well below it.
	Infinity = 1 << 30

	DefaultDepth = 5
)

// DefaultWorkers returns the default root worker count: all CPUs but two,
// and at least one.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-2, 1)
}

// Searcher splits the root moves of a position across workers that share one
// transposition table.
type Searcher struct {
	tt      *HashTable
	workers int
	nodes   atomic.Uint64
}

// NewSearcher creates a searcher over tt with the given number of workers.
func NewSearcher(tt *HashTable, workers int) *Searcher {
	return &Searcher{tt: tt, workers: max(workers, 1)}
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// splitMoves cuts moves into n equal slices plus a remainder. When there are
// fewer moves than workers a single slice holds all of them.
func splitMoves(moves []board.Move, n int) (slices [][]board.Move, rest []board.Move) {
	per := len(moves) / n
	if per == 0 {
		n, per = 1, len(moves)
	}
	slices = make([][]board.Move, n)
	for i := range slices {
		slices[i] = moves[i*per : (i+1)*per]
	}
	return slices, moves[n*per:]
}

// SearchRoot searches pos to depth and returns the best move with its score.
// The boolean is false if the search was cancelled or pos has no moves.
func (s *Searcher) SearchRoot(pos *board.Position, depth int, token *CancelToken) (board.Move, int, bool) {
	s.nodes.Store(0)

	moves := pos.LegalMoves()
	if len(moves) == 0 || depth < 1 {
		return board.NoMove, 0, false
	}
	hash := pos.Hash()
	slices, rest := splitMoves(moves, s.workers)

	results := make([]WorkerResult, len(slices)+1)
	var g errgroup.Group
	for i, slice := range slices {
		i, slice := i, slice
		g.Go(func() error {
			w := NewWorker(i, s.tt, token)
			results[i] = w.SearchMoves(pos, hash, slice, depth)
			s.nodes.Add(w.Nodes())
			return nil
		})
	}

	// The calling goroutine takes the remainder.
	last := len(slices)
	results[last] = WorkerResult{WorkerID: last, Move: board.NoMove}
	if len(rest) > 0 {
		w := NewWorker(last, s.tt, token)
		results[last] = w.SearchMoves(pos, hash, rest, depth)
		s.nodes.Add(w.Nodes())
	}
	_ = g.Wait()

	if token.Cancelled() {
		return board.NoMove, 0, false
	}

	best := WorkerResult{Move: board.NoMove, Score: -Infinity}
	for _, r := range results {
		if r.Move == board.NoMove {
			continue
		}
		if best.Move == board.NoMove || r.Score > best.Score {
			best = r
		}
	}
	return best.Move, best.Score, best.Move != board.NoMove
}
