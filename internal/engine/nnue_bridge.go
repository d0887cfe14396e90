package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// computeDirtyPieces would normally record the feature changes a move makes,
// for incremental accumulator updates. No NNUE backend is wired in, so this
// is always a full-refresh case.
func (w *Worker) computeDirtyPieces(m board.Move) bool {
	return false
}

// nnuePush advances the accumulator stack by one ply around MakeMove.
func (w *Worker) nnuePush() {
	if w.useNNUE && w.nnueAcc != nil {
		w.nnueAcc.Push()
	}
}

// nnuePop retreats the accumulator stack by one ply around UnmakeMove.
func (w *Worker) nnuePop() {
	if w.useNNUE && w.nnueAcc != nil {
		w.nnueAcc.Pop()
	}
}

// resetNNUEAccumulators clears accumulator state at the start of a search.
func (w *Worker) resetNNUEAccumulators() {
	if w.nnueAcc != nil {
		w.nnueAcc.Reset()
	}
}

// nnueEvaluate would run the neural evaluation; without a loaded backend it
// falls back to the classical evaluator. Kept as a distinct call site so a
// real backend can be dropped in behind w.nnueNet without touching the
// search.
func (w *Worker) nnueEvaluate() int {
	return EvaluateWithPawnTable(w.pos, w.pawnTable)
}
