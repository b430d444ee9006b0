package engine

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hailam/congoplay/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	ID       string
	Depth    int
	Workers  int
	Move     board.Move
	Score    int
	Nodes    uint64
	Time     time.Duration
	HitRate  float64 // Percent of table probes that hit
	HashFull int     // Permille of hash table used
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 3 ply
	Medium                   // 5 ply
	Hard                     // 6 ply
)

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a difficulty name back to its value.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// DifficultySettings maps difficulty to search depth.
var DifficultySettings = map[Difficulty]int{
	Easy:   3,
	Medium: DefaultDepth,
	Hard:   6,
}

// Engine is the Congo AI engine. It owns the transposition table, which is
// rebuilt whenever a search starts from a root position.
type Engine struct {
	mu         sync.Mutex
	tt         *HashTable
	workers    int
	depth      int
	difficulty Difficulty
	token      *CancelToken
	nodes      uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the default depth and worker count.
func NewEngine() *Engine {
	return &Engine{
		tt:         NewHashTable(),
		workers:    DefaultWorkers(),
		depth:      DefaultDepth,
		difficulty: Medium,
		token:      NewCancelToken(),
	}
}

// SetDifficulty sets the engine difficulty and the matching depth.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.difficulty = d
	if depth, ok := DifficultySettings[d]; ok {
		e.depth = depth
	}
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.difficulty
}

// SetDepth overrides the search depth.
func (e *Engine) SetDepth(depth int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.depth = max(depth, 1)
}

// Depth returns the search depth used by BestMove.
func (e *Engine) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depth
}

// SetWorkers sets the number of root workers.
func (e *Engine) SetWorkers(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.workers = max(n, 1)
}

// Workers returns the number of root workers.
func (e *Engine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workers
}

// Token returns the engine's own cancel token, used by BestMove and Stop.
func (e *Engine) Token() *CancelToken {
	return e.token
}

// BestMove searches pos at the configured depth with the engine's token.
func (e *Engine) BestMove(pos *board.Position) (board.Move, bool) {
	return e.Search(pos, e.Depth(), e.token)
}

// Search finds the best move for the side to move in pos. It returns false
// when the token cancels the search, when pos has already ended, or when it
// has no moves. A token left in Omit makes Search return immediately.
func (e *Engine) Search(pos *board.Position, depth int, token *CancelToken) (board.Move, bool) {
	if !token.begin() {
		log.Debug().Msg("search-omitted")
		return board.NoMove, false
	}
	return e.search(pos, depth, token)
}

// Go searches pos in the background on the engine's token and passes the
// result to report. The token is armed before Go returns, so a Stop issued
// after Go always reaches this search. If the token is in Omit, report runs
// on the calling goroutine.
func (e *Engine) Go(pos *board.Position, depth int, report func(board.Move, bool)) {
	token := e.token
	if !token.begin() {
		log.Debug().Msg("search-omitted")
		report(board.NoMove, false)
		return
	}
	go func() {
		report(e.search(pos, depth, token))
	}()
}

// search runs a search on a token that has already begun.
func (e *Engine) search(pos *board.Position, depth int, token *CancelToken) (board.Move, bool) {
	if pos.HasEnded() {
		return board.NoMove, false
	}

	e.mu.Lock()
	if pos.Parent() == nil {
		e.tt = NewHashTable()
	}
	tt, workers := e.tt, e.workers
	e.mu.Unlock()

	id := uuid.New().String()
	log.Debug().
		Str("search", id).
		Int("depth", depth).
		Int("workers", workers).
		Int("moves", len(pos.LegalMoves())).
		Msg("search-start")

	start := time.Now()
	s := NewSearcher(tt, workers)
	move, score, ok := s.SearchRoot(pos, depth, token)

	e.mu.Lock()
	e.nodes = s.Nodes()
	e.mu.Unlock()

	info := SearchInfo{
		ID:       id,
		Depth:    depth,
		Workers:  workers,
		Move:     move,
		Score:    score,
		Nodes:    s.Nodes(),
		Time:     time.Since(start),
		HitRate:  tt.HitRate(),
		HashFull: tt.HashFull(),
	}
	if !ok {
		log.Info().Str("search", id).Stringer("state", token.State()).Msg("search-cancelled")
		return board.NoMove, false
	}

	log.Info().
		Str("search", id).
		Str("move", move.String()).
		Int("score", score).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", info.Time).
		Float64("hit-rate", info.HitRate).
		Msg("search-done")

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, true
}

var defaultEngine = sync.OnceValue(NewEngine)

// Search runs the shared default engine. Its transposition table persists
// between calls and is rebuilt whenever pos is a root position.
func Search(pos *board.Position, depth int, token *CancelToken) (board.Move, bool) {
	return defaultEngine().Search(pos, depth, token)
}

// Stop cancels the search running on the engine's token.
func (e *Engine) Stop() {
	e.token.Cancel()
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodes
}

// Clear drops the transposition table.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt = NewHashTable()
}

// HashTable returns the table the next non-root search will use.
func (e *Engine) HashTable() *HashTable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tt
}

// Perft counts the leaf positions depth plies below pos (for debugging move
// generation). Every monkey jump and interrupt counts as a ply.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += e.Perft(pos.Transition(m), depth-1)
	}
	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > board.PieceValue[board.Lion]/2 {
		return "Win"
	}
	if score < -board.PieceValue[board.Lion]/2 {
		return "Loss"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return sign + strconv.Itoa(score/100) + "." + pad2(score%100)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
