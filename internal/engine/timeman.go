package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// UCILimits captures whatever time-control fields a "go" command supplied;
// a zero-value field means that control simply wasn't given.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// Time-allocation tuning constants, applied in Init.
const (
	suddenDeathBaseMoves  = 50 // assumed moves remaining at ply 0
	suddenDeathPlyDivisor = 4  // the estimate drops by one every this many plies
	suddenDeathMinMoves   = 10
	suddenDeathMaxMoves   = 50

	incrementShareNum, incrementShareDen = 9, 10 // fraction of the increment folded into optimumTime

	openingPlyCutoff                     = 8 // below this ply, shave optimumTime for a buffer
	openingOptimumNum, openingOptimumDen = 85, 100

	maxFromOptimumMultiplier                 = 5
	maxFromRemainingNum, maxFromRemainingDen = 8, 10
	safetyMarginNum, safetyMarginDen         = 95, 100

	minOptimumTime = 10 * time.Millisecond
	minMaximumTime = 50 * time.Millisecond
)

// TimeManager tracks a single search's time budget: optimumTime is the
// target to aim for, maximumTime the hard ceiling it must never cross.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager returns an unstarted time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init computes optimumTime and maximumTime for a new search. us is the
// side to move, ply the current game ply, used to estimate how many moves
// remain under sudden-death time controls.
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = estimateMovesToGo(ply)
	}

	optimum := timeLeft/time.Duration(mtg) + inc*incrementShareNum/incrementShareDen
	if ply < openingPlyCutoff {
		optimum = optimum * openingOptimumNum / openingOptimumDen
	}
	tm.optimumTime = optimum
	tm.maximumTime = capMaximum(optimum, timeLeft)

	if tm.optimumTime < minOptimumTime {
		tm.optimumTime = minOptimumTime
	}
	if tm.maximumTime < minMaximumTime {
		tm.maximumTime = minMaximumTime
	}
}

// estimateMovesToGo guesses the moves remaining under sudden death: more
// early in the game, tapering toward suddenDeathMinMoves as it goes on.
func estimateMovesToGo(ply int) int {
	mtg := suddenDeathBaseMoves - ply/suddenDeathPlyDivisor
	if mtg < suddenDeathMinMoves {
		return suddenDeathMinMoves
	}
	if mtg > suddenDeathMaxMoves {
		return suddenDeathMaxMoves
	}
	return mtg
}

// capMaximum bounds optimum*maxFromOptimumMultiplier by both a fraction of
// the remaining clock and an overall safety margin, so one move can never
// threaten a flag fall.
func capMaximum(optimum, timeLeft time.Duration) time.Duration {
	max := optimum * maxFromOptimumMultiplier
	if fromRemaining := timeLeft * maxFromRemainingNum / maxFromRemainingDen; fromRemaining < max {
		max = fromRemaining
	}
	if safety := timeLeft * safetyMarginNum / safetyMarginDen; max > safety {
		max = safety
	}
	return max
}

// Elapsed returns how long the current search has been running.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the move's target time budget.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the move's hard time ceiling.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop reports whether the hard ceiling has been reached.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum reports whether the soft target has been reached.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// bestMoveStabilityScale maps a run of consecutive iterations agreeing on
// the best move to the fraction of optimumTime still worth spending: a long
// streak means the search has converged and can stop early.
func bestMoveStabilityScale(stability int) (num, den int, ok bool) {
	switch {
	case stability >= 6:
		return 40, 100, true
	case stability >= 4:
		return 60, 100, true
	case stability >= 2:
		return 80, 100, true
	default:
		return 0, 0, false
	}
}

// AdjustForStability shrinks optimumTime once the best move has held steady
// for several iterations in a row.
func (tm *TimeManager) AdjustForStability(stability int) {
	if num, den, ok := bestMoveStabilityScale(stability); ok {
		tm.optimumTime = tm.optimumTime * time.Duration(num) / time.Duration(den)
	}
}

// bestMoveInstabilityScale maps a count of recent best-move changes to the
// multiplier applied to optimumTime: a flip-flopping search earns more time.
func bestMoveInstabilityScale(changes int) (num, den int, ok bool) {
	switch {
	case changes >= 4:
		return 200, 100, true
	case changes >= 2:
		return 150, 100, true
	default:
		return 0, 0, false
	}
}

// AdjustForInstability grows optimumTime, capped at maximumTime, when the
// best move keeps flipping between iterations.
func (tm *TimeManager) AdjustForInstability(changes int) {
	num, den, ok := bestMoveInstabilityScale(changes)
	if !ok {
		return
	}
	tm.optimumTime = tm.optimumTime * time.Duration(num) / time.Duration(den)
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
