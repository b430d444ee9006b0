package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/congoplay/internal/board"
)

// HashTableBits is the number of hash bits used to index the table.
const HashTableBits = 18

const (
	hashTableSize = 1 << HashTableBits
	hashTableMask = hashTableSize - 1
)

// hashCell is one slot of the table, guarded by its own lock.
type hashCell struct {
	mu    sync.Mutex
	used  bool
	hash  uint64
	board board.Board
	depth int
	move  board.Move
	score int
}

// HashTable is a fixed-size transposition cache. Every cell has its own
// mutex, so callers only contend when their hashes share the low bits.
type HashTable struct {
	cells []hashCell

	// Statistics (atomic for thread-safety)
	hits   atomic.Uint64
	probes atomic.Uint64
	filled atomic.Uint64
}

// NewHashTable allocates an empty table of 2^HashTableBits cells.
func NewHashTable() *HashTable {
	return &HashTable{cells: make([]hashCell, hashTableSize)}
}

// TryGetSolution returns the stored move and score for the position with the
// given hash and board if it was searched at least depth plies deep.
func (ht *HashTable) TryGetSolution(hash uint64, b *board.Board, depth int) (board.Move, int, bool) {
	ht.probes.Add(1)

	cell := &ht.cells[hash&hashTableMask]
	cell.mu.Lock()
	defer cell.mu.Unlock()

	if !cell.used || cell.hash != hash || cell.depth < depth || !cell.board.Equal(b) {
		return board.NoMove, 0, false
	}
	ht.hits.Add(1)
	return cell.move, cell.score, true
}

// SetSolution stores a search result. A cell holding the same board is only
// replaced by a deeper result; a cell holding another board is evicted.
func (ht *HashTable) SetSolution(hash uint64, b *board.Board, depth int, move board.Move, score int) {
	cell := &ht.cells[hash&hashTableMask]
	cell.mu.Lock()
	defer cell.mu.Unlock()

	if cell.used && cell.hash == hash && cell.board.Equal(b) && cell.depth >= depth {
		return
	}
	if !cell.used {
		cell.used = true
		ht.filled.Add(1)
	}
	cell.hash = hash
	cell.board = *b
	cell.depth = depth
	cell.move = move
	cell.score = score
}

// Clear empties the table.
func (ht *HashTable) Clear() {
	for i := range ht.cells {
		cell := &ht.cells[i]
		cell.mu.Lock()
		cell.used = false
		cell.hash = 0
		cell.move = board.NoMove
		cell.mu.Unlock()
	}
	ht.hits.Store(0)
	ht.probes.Store(0)
	ht.filled.Store(0)
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (ht *HashTable) HashFull() int {
	return int(ht.filled.Load() * 1000 / hashTableSize)
}

// HitRate returns the cache hit rate as a percentage.
func (ht *HashTable) HitRate() float64 {
	probes := ht.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(ht.hits.Load()) / float64(probes) * 100
}
