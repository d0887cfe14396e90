package tablebase

import (
	"github.com/hailam/chessplay/internal/board"
)

// WDL is a win/draw/loss verdict, signed from the probing side's
// perspective and including the two 50-move-rule-sensitive outcomes.
type WDL int

const (
	WDLLoss        WDL = -2
	WDLBlessedLoss WDL = -1 // a loss, but the 50-move rule may rescue a draw
	WDLDraw        WDL = 0
	WDLCursedWin   WDL = 1 // a win, but the 50-move rule may be reached first
	WDLWin         WDL = 2
)

// ProbeResult is the outcome of looking up a single position.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTZ   int // plies to the next pawn move or capture (distance to zeroing)
}

// RootResult is the outcome of resolving the best move at the root, which
// requires probing every legal reply rather than just the position itself.
type RootResult struct {
	Found bool
	Move  board.Move
	WDL   WDL
	DTZ   int
}

// Prober answers tablebase queries. NoopProber satisfies it when no tables
// are loaded.
type Prober interface {
	Probe(pos *board.Position) ProbeResult
	ProbeRoot(pos *board.Position) RootResult
	MaxPieces() int
	Available() bool
}

const mateScore = 30000

// wdlScoreOffset adjusts cursed/blessed results slightly toward a draw so
// the search still prefers a clean win/avoids a clean loss over the
// rule-dependent variants.
const wdlScoreOffset = 100

// WDLToScore converts a tablebase verdict at the given ply into a search
// score, mate-distance-adjusted the same way mate scores are elsewhere.
func WDLToScore(wdl WDL, ply int) int {
	switch wdl {
	case WDLWin:
		return mateScore - ply
	case WDLCursedWin:
		return mateScore - wdlScoreOffset - ply
	case WDLDraw:
		return 0
	case WDLBlessedLoss:
		return -mateScore + wdlScoreOffset + ply
	case WDLLoss:
		return -mateScore + ply
	default:
		return 0
	}
}

// NoopProber is a Prober that never finds anything, for when no tablebase
// files are configured.
type NoopProber struct{}

func (NoopProber) Probe(pos *board.Position) ProbeResult {
	return ProbeResult{Found: false}
}

func (NoopProber) ProbeRoot(pos *board.Position) RootResult {
	return RootResult{Found: false}
}

func (NoopProber) MaxPieces() int {
	return 0
}

func (NoopProber) Available() bool {
	return false
}

// CountPieces returns the total number of pieces of both colors on the
// board.
func CountPieces(pos *board.Position) int {
	return pos.AllOccupied.PopCount()
}
