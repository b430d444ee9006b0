package engine

import "sync/atomic"

// CancelState is the value of a CancelToken.
type CancelState int32

const (
	// Normal lets searches run.
	Normal CancelState = iota
	// Cancel unwinds a running search without choosing a move.
	Cancel
	// Omit makes the next Search return at once. It stays set until Reset.
	Omit
)

// String returns the state name.
func (s CancelState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Cancel:
		return "cancel"
	case Omit:
		return "omit"
	default:
		return "unknown"
	}
}

// CancelToken is a cooperative cancellation flag shared by a search and the
// goroutine that wants to stop it. The zero value is Normal.
type CancelToken struct {
	state atomic.Int32
}

// NewCancelToken returns a token in the Normal state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// State returns the current state.
func (t *CancelToken) State() CancelState {
	return CancelState(t.state.Load())
}

// Cancel asks a running search to stop. It does not override Omit.
func (t *CancelToken) Cancel() {
	t.state.CompareAndSwap(int32(Normal), int32(Cancel))
}

// Omit makes searches return immediately until Reset is called.
func (t *CancelToken) Omit() {
	t.state.Store(int32(Omit))
}

// Reset returns the token to Normal.
func (t *CancelToken) Reset() {
	t.state.Store(int32(Normal))
}

// Cancelled returns true once the token has left the Normal state.
func (t *CancelToken) Cancelled() bool {
	return t.state.Load() != int32(Normal)
}

// begin is called at the start of a top-level search. It returns false if
// the search must not run; otherwise a stale Cancel is cleared.
func (t *CancelToken) begin() bool {
	for {
		s := t.state.Load()
		if s == int32(Omit) {
			return false
		}
		if t.state.CompareAndSwap(s, int32(Normal)) {
			return true
		}
	}
}
