package board

// Zobrist keys, one per (color, kind, square). Terrain squares use the White
// keys of Ground and River.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristKeys      [2][numKinds][NumSquares]uint64
	zobristBlack     uint64             // XOR when Black to move
	zobristChain     [NumSquares]uint64 // pending chain, by monkey square
	zobristRiverOrig uint64             // pending chain started in the river
)

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for c := White; c <= Black; c++ {
		for k := Ground; k < numKinds; k++ {
			for sq := A7; sq < NoSquare; sq++ {
				zobristKeys[c][k][sq] = rng.next()
			}
		}
	}
	zobristBlack = rng.next()
	for sq := A7; sq < NoSquare; sq++ {
		zobristChain[sq] = rng.next()
	}
	zobristRiverOrig = rng.next()
}

// StateKey returns the key of the turn state that the board hash leaves out:
// the side to move and a pending monkey chain. Only whether the chain started
// in the river matters for the rules, so the origin is folded to that bit.
func StateKey(active Color, chain MonkeyChain) uint64 {
	InitTables()
	var h uint64
	if active == Black {
		h ^= zobristBlack
	}
	if chain.Active() {
		h ^= zobristChain[chain.Monkey]
		if chain.Origin.IsRiver() {
			h ^= zobristRiverOrig
		}
	}
	return h
}

// squareKey returns the key of whatever stands on sq.
func (b *Board) squareKey(sq Square) uint64 {
	c := b.ColorAt(sq)
	if c == NoColor {
		c = White
	}
	return zobristKeys[c][b.GetPiece(sq)][sq]
}

func terrainKey(sq Square) uint64 {
	return zobristKeys[White][sq.Terrain()][sq]
}

// InitHash computes the hash of b from scratch.
func InitHash(b *Board) uint64 {
	InitTables()
	var h uint64
	for sq := A7; sq < NoSquare; sq++ {
		h ^= b.squareKey(sq)
	}
	return h
}

// ApplyMove updates hash for m played on before, the board prior to the move.
// The square jumped over by a monkey is handled by ApplyBetween.
func ApplyMove(hash uint64, before *Board, m Move) uint64 {
	if m.IsInterrupt() {
		return hash
	}
	from, to := m.From(), m.To()
	us := before.ColorAt(from)
	kind := before.GetPiece(from)

	hash ^= before.squareKey(to)
	hash ^= zobristKeys[us][kind][from]
	hash ^= zobristKeys[us][arrivingKind(us, kind, to)][to]
	hash ^= terrainKey(from)
	return hash
}

// ApplyBetween removes the animal a monkey jump captures.
func ApplyBetween(hash uint64, before *Board, m Move) uint64 {
	if !m.IsMonkeyJump() {
		return hash
	}
	between := m.Between()
	hash ^= before.squareKey(between)
	hash ^= terrainKey(between)
	return hash
}

// ApplyTransition returns the hash of child = parent.Transition(m) given the
// hash of parent. On top of ApplyMove and ApplyBetween it accounts for the
// animals lost in the river.
func ApplyTransition(hash uint64, parent *Position, m Move, child *Position) uint64 {
	before := &parent.board
	hash = ApplyBetween(ApplyMove(hash, before, m), before, m)

	river := parent.board.occupied[parent.active] & RiverMask
	if !m.IsInterrupt() {
		river = river.Clear(m.From())
		if m.To().IsRiver() {
			river = river.Set(m.To())
		}
	}
	it := river.Iter()
	for sq, ok := it.Next(); ok; sq, ok = it.Next() {
		if child.board.IsOccupied(sq) {
			continue
		}
		kind := before.GetPiece(sq)
		if sq == m.To() {
			kind = arrivingKind(parent.active, before.GetPiece(m.From()), sq)
		}
		hash ^= zobristKeys[parent.active][kind][sq]
		hash ^= terrainKey(sq)
	}
	return hash
}

// Hash computes the hash of the position's board from scratch.
func (p *Position) Hash() uint64 {
	return InitHash(&p.board)
}

// Key returns Hash combined with StateKey.
func (p *Position) Key() uint64 {
	return p.Hash() ^ StateKey(p.active, p.chain)
}
