package engine

import (
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// historyCeiling bounds every history-style table via the gravity update
// formula below, so no table needs periodic rescaling.
const historyCeiling = 30000

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// gravityUpdate applies h += bonus - h*|bonus|/ceiling in place. The term
// pulls h toward bonus's sign and shrinks the step as |h| approaches the
// ceiling, so history scores self-limit without ever needing a halving pass.
func gravityUpdate(h *int, bonus int) {
	*h += bonus - (*h)*abs(bonus)/historyCeiling
}

// PieceToHistory is a continuation-history slice indexed by [piece][toSquare],
// chained from a specific (previous piece, previous to-square) pair.
type PieceToHistory [12][64]int

// SharedHistory is the butterfly (from/to) history table shared read-write
// across every Lazy-SMP worker goroutine. Updates use a lock-free
// compare-and-swap loop instead of a mutex, since the table is touched on
// every quiet move at every node.
type SharedHistory struct {
	table [64 * 64]atomic.Int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the current history score for a from/to pair.
func (sh *SharedHistory) Get(from, to int) int {
	return int(sh.table[from*64+to].Load())
}

// Update applies a gravity-formula bonus to a from/to pair without locking.
func (sh *SharedHistory) Update(from, to int, bonus int) {
	slot := &sh.table[from*64+to]
	for {
		old := slot.Load()
		next := int32(int(old) + bonus - int(old)*abs(bonus)/historyCeiling)
		if slot.CompareAndSwap(old, next) {
			return
		}
	}
}

// Clear zeroes the shared history. Called on "ucinewgame": a new game has
// no business being biased by the previous one's move ordering.
func (sh *SharedHistory) Clear() {
	for i := range sh.table {
		sh.table[i].Store(0)
	}
}

// GetContinuationHistoryTable returns the continuation-history slice keyed
// by the move just made at the parent ply, so the child node can record
// counter-continuation bonuses against it.
func (mo *MoveOrderer) GetContinuationHistoryTable(piece board.Piece, to board.Square) *PieceToHistory {
	return &mo.continuationHistory[piece][to]
}

// UpdateContinuationHistory updates the continuation-history entry chained
// from (prevPiece, prevTo) to (piece, to), weighting the bonus down for
// plies further back in the chain.
func (mo *MoveOrderer) UpdateContinuationHistory(prevPiece board.Piece, prevTo board.Square, piece board.Piece, to board.Square, depth, plyBack int, isGood bool) {
	bonus := statBonus(depth)
	if !isGood {
		bonus = -bonus
	}
	// Weight distant plies down, matching the 1..6 plyBack weighting used
	// when chaining continuation history across the search stack.
	bonus = bonus * (7 - plyBack) / 6

	h := &mo.continuationHistory[prevPiece][prevTo][piece][to]
	gravityUpdate(h, bonus)
}

// UpdateLowPlyHistory updates the root-adjacent (ply < 4) history table used
// to bias move ordering near the root independently of deeper history.
func (mo *MoveOrderer) UpdateLowPlyHistory(m board.Move, ply, depth int, isGood bool) {
	if ply >= lowPlyHistorySize {
		return
	}
	bonus := statBonus(depth)
	if !isGood {
		bonus = -bonus
	}
	h := &mo.lowPlyHistory[ply][m.From()][m.To()]
	gravityUpdate(h, bonus)
}

// GetLowPlyScore returns the low-ply history contribution for a move, or 0
// if the ply is outside the low-ply window.
func (mo *MoveOrderer) GetLowPlyScore(m board.Move, ply int) int {
	if ply >= lowPlyHistorySize {
		return 0
	}
	return mo.lowPlyHistory[ply][m.From()][m.To()]
}
