package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

const (
	correctionTableSize   = 1 << 16
	correctionBonusClamp  = 256
	correctionValueClamp  = 16000
	correctionGravityDiv  = 16
	correctionDepthScale  = 8
)

// CorrectionHistory tracks how far the static evaluator tends to miss the
// eventual search score for a given position hash, and nudges future static
// evals toward the observed bias.
type CorrectionHistory struct {
	positionCorr [correctionTableSize]int16
}

// NewCorrectionHistory returns an empty correction table.
func NewCorrectionHistory() *CorrectionHistory {
	return &CorrectionHistory{}
}

// Get returns the correction to add to pos's static evaluation.
func (ch *CorrectionHistory) Get(pos *board.Position) int {
	return int(ch.positionCorr[ch.index(pos)])
}

func (ch *CorrectionHistory) index(pos *board.Position) uint64 {
	return pos.Hash & (correctionTableSize - 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Update folds one more search result into the correction table via a
// gravity step (new = old + (target-old)/16), so the estimate drifts toward
// recent evidence without being thrown off by a single outlier.
func (ch *CorrectionHistory) Update(pos *board.Position, searchScore, staticEval, depth int) {
	if depth < 1 {
		return
	}

	diff := searchScore - staticEval
	bonus := clampInt(diff*depth/correctionDepthScale, -correctionBonusClamp, correctionBonusClamp)

	idx := ch.index(pos)
	old := int(ch.positionCorr[idx])
	newVal := clampInt(old+(bonus-old)/correctionGravityDiv, -correctionValueClamp, correctionValueClamp)

	ch.positionCorr[idx] = int16(newVal)
}

// Clear zeroes every correction entry.
func (ch *CorrectionHistory) Clear() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] = 0
	}
}

// Age halves every correction entry, so stale bias decays rather than
// persisting. Nothing in this module calls it.
func (ch *CorrectionHistory) Age() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] /= 2
	}
}
