package engine

import "strings"

// SearchParams bundles every numeric and boolean search tunable into a
// single read-only structure. A new set of values is built from UCI
// setoption commands and published with ApplyParams; workers only ever
// read the package-level mirror below, and a publish only happens while
// every worker is idle between searches.
type SearchParams struct {
	// Pruning and extension toggles.
	EnableThreatExt      bool
	EnableHindsightDepth bool
	EnableRFP            bool
	EnableRazoring       bool
	EnableNMP            bool
	EnableProbcut        bool
	EnableMulticut       bool
	EnableFutilityPruning bool
	EnableSingularExt    bool
	EnableSEEPruning     bool
	EnableLMP            bool
	EnableHistoryPruning bool

	// Aspiration window: delta = max(AspirationDeltaA, |score|/AspirationDeltaB),
	// growing by delta/AspirationDeltaC + AspirationDeltaD on each re-search.
	AspirationDeltaA int
	AspirationDeltaB int
	AspirationDeltaC int
	AspirationDeltaD int

	// Null-move reduction: R = NullMoveRA/100 + depth/NullMoveRC + min((eval-beta)/NullMoveRD, 3).
	NullMoveRA int
	NullMoveRC int
	NullMoveRD int

	// Singular extension search starts at this depth or deeper.
	SingularExtDepthA int

	// Late move reduction.
	LmrMoveCountThreshold int
	LmrRDecA              int // scaled by 100 (21.46 -> 2146)
	LmrStatDelta          int
	LmrStatGain           int

	// History/stat bonus: min(StatBonusA*depth^2 + StatBonusB*depth - StatBonusC, ceiling).
	StatBonusA       int
	StatBonusB       int
	StatBonusC       int
	StatBonusCeiling int

	// Futility / razoring / reverse futility margins.
	FutilityDepth int
	FutilityA     int
	RazoringA     int
	RazoringB     int
	RfpMarginA    int

	// ProbCut / multi-cut.
	ProbCutDepth    int
	ProbCutBetaB    int
	MulticutDepth   int
	MulticutMoves   int
	MulticutRequired int

	// Misc thresholds referenced directly by the search.
	LmpThreshold             [8]int
	HistoryPruningThreshold  int
	ThreatExtensionThreshold int
	ThreatExtensionMinDepth  int
	LazyEvalMargin           int

	// Time management scaling, consumed by the time manager.
	BestMoveInstabilityA int

	// Material weights, in centipawns. KingValue never actually enters a
	// score (kings are never traded) but stays in the table so pieceValues
	// indexing by board.PieceType stays a flat array lookup.
	PawnValueW   int
	KnightValueW int
	BishopValueW int
	RookValueW   int
	QueenValueW  int
	KingValueW   int

	// Mobility weight per legal-move count, midgame/endgame, indexed by
	// board.PieceType (pawn, knight, bishop, rook, queen, king).
	MobilityMgWeight [6]int
	MobilityEgWeight [6]int

	// King-safety attacker weight, indexed by board.PieceType of the
	// attacking piece.
	AttackerWeight [6]int

	// Bonus for having the side to move, applied once at the eval root.
	TempoBonus int
}

// DefaultParams returns the engine's built-in tuning defaults.
func DefaultParams() SearchParams {
	return SearchParams{
		EnableThreatExt:       true,
		EnableHindsightDepth:  true,
		EnableRFP:             true,
		EnableRazoring:        true,
		EnableNMP:             true,
		EnableProbcut:         true,
		EnableMulticut:        true,
		EnableFutilityPruning: true,
		EnableSingularExt:     true,
		EnableSEEPruning:      true,
		EnableLMP:             true,
		EnableHistoryPruning:  true,

		AspirationDeltaA: 12,
		AspirationDeltaB: 12000,
		AspirationDeltaC: 3,
		AspirationDeltaD: 2,

		NullMoveRA: 700,
		NullMoveRC: 3,
		NullMoveRD: 200,

		SingularExtDepthA: 6,

		LmrMoveCountThreshold: 4,
		LmrRDecA:              2146,
		LmrStatDelta:          16000,
		LmrStatGain:           8000,

		StatBonusA:       6,
		StatBonusB:       200,
		StatBonusC:       180,
		StatBonusCeiling: 1900,

		FutilityDepth: 5,
		FutilityA:     150,
		RazoringA:     130,
		RazoringB:     170,
		RfpMarginA:    80,

		ProbCutDepth:     5,
		ProbCutBetaB:     200,
		MulticutDepth:    8,
		MulticutMoves:    6,
		MulticutRequired: 3,

		LmpThreshold:             [8]int{0, 8, 12, 16, 24, 32, 40, 48},
		HistoryPruningThreshold:  -2000,
		ThreatExtensionThreshold: 300,
		ThreatExtensionMinDepth:  5,
		LazyEvalMargin:           300,

		BestMoveInstabilityA: 10,

		PawnValueW:   100,
		KnightValueW: 320,
		BishopValueW: 330,
		RookValueW:   500,
		QueenValueW:  900,
		KingValueW:   20000,

		MobilityMgWeight: [6]int{0, 4, 5, 2, 1, 0},
		MobilityEgWeight: [6]int{0, 3, 4, 4, 2, 0},

		AttackerWeight: [6]int{0, 20, 20, 40, 80, 0},

		TempoBonus: 10,
	}
}

// Package-level mirrors of the active SearchParams, read directly by the
// search hot path. ApplyParams is the only writer, and it is only ever
// called between searches while workers are idle.
var (
	EnableThreatExt      = DefaultParams().EnableThreatExt
	EnableHindsightDepth = DefaultParams().EnableHindsightDepth
	EnableRFP            = DefaultParams().EnableRFP
	EnableRazoring       = DefaultParams().EnableRazoring
	EnableNMP            = DefaultParams().EnableNMP
	EnableProbcut        = DefaultParams().EnableProbcut
	EnableMulticut       = DefaultParams().EnableMulticut
	EnableFutilityPruning = DefaultParams().EnableFutilityPruning
	EnableSingularExt    = DefaultParams().EnableSingularExt
	EnableSEEPruning     = DefaultParams().EnableSEEPruning
	EnableLMP            = DefaultParams().EnableLMP
	EnableHistoryPruning = DefaultParams().EnableHistoryPruning

	probcutDepth    = DefaultParams().ProbCutDepth
	probCutBetaB    = DefaultParams().ProbCutBetaB
	multicutDepth   = DefaultParams().MulticutDepth
	multicutMoves   = DefaultParams().MulticutMoves
	multicutRequired = DefaultParams().MulticutRequired

	lmpThreshold             = DefaultParams().LmpThreshold
	historyPruningThreshold  = DefaultParams().HistoryPruningThreshold
	threatExtensionThreshold = DefaultParams().ThreatExtensionThreshold
	threatExtensionMinDepth  = DefaultParams().ThreatExtensionMinDepth
	lazyEvalMargin           = DefaultParams().LazyEvalMargin

	singularExtDepthA     = DefaultParams().SingularExtDepthA
	lmrMoveCountThreshold = DefaultParams().LmrMoveCountThreshold

	aspirationDeltaA = DefaultParams().AspirationDeltaA
	aspirationDeltaB = DefaultParams().AspirationDeltaB
	aspirationDeltaC = DefaultParams().AspirationDeltaC
	aspirationDeltaD = DefaultParams().AspirationDeltaD

	nullMoveRA = DefaultParams().NullMoveRA
	nullMoveRC = DefaultParams().NullMoveRC
	nullMoveRD = DefaultParams().NullMoveRD

	statBonusA       = DefaultParams().StatBonusA
	statBonusB       = DefaultParams().StatBonusB
	statBonusC       = DefaultParams().StatBonusC
	statBonusCeiling = DefaultParams().StatBonusCeiling

	futilityA  = DefaultParams().FutilityA
	razoringA  = DefaultParams().RazoringA
	razoringB  = DefaultParams().RazoringB
	rfpMarginA = DefaultParams().RfpMarginA

	bestMoveInstabilityA = DefaultParams().BestMoveInstabilityA

	pawnValueW   = DefaultParams().PawnValueW
	knightValueW = DefaultParams().KnightValueW
	bishopValueW = DefaultParams().BishopValueW
	rookValueW   = DefaultParams().RookValueW
	queenValueW  = DefaultParams().QueenValueW
	kingValueW   = DefaultParams().KingValueW

	mobilityMgWeight = DefaultParams().MobilityMgWeight
	mobilityEgWeight = DefaultParams().MobilityEgWeight
	attackerWeight   = DefaultParams().AttackerWeight
	tempoBonus       = DefaultParams().TempoBonus

	pieceValues = computePieceValues(DefaultParams())

	currentParams = DefaultParams()
)

// computePieceValues rebuilds the flat material table indexed by
// board.PieceType (...NoPiece occupies the trailing zero slot).
func computePieceValues(p SearchParams) [7]int {
	return [7]int{p.PawnValueW, p.KnightValueW, p.BishopValueW, p.RookValueW, p.QueenValueW, p.KingValueW, 0}
}

// ApplyParams publishes a new set of tunables, recomputing any table that
// is derived from them (the LMR reduction table depends on LmrRDecA).
// Must only be called while no worker is searching.
func ApplyParams(p SearchParams) {
	currentParams = p

	EnableThreatExt = p.EnableThreatExt
	EnableHindsightDepth = p.EnableHindsightDepth
	EnableRFP = p.EnableRFP
	EnableRazoring = p.EnableRazoring
	EnableNMP = p.EnableNMP
	EnableProbcut = p.EnableProbcut
	EnableMulticut = p.EnableMulticut
	EnableFutilityPruning = p.EnableFutilityPruning
	EnableSingularExt = p.EnableSingularExt
	EnableSEEPruning = p.EnableSEEPruning
	EnableLMP = p.EnableLMP
	EnableHistoryPruning = p.EnableHistoryPruning

	probcutDepth = p.ProbCutDepth
	probCutBetaB = p.ProbCutBetaB
	multicutDepth = p.MulticutDepth
	multicutMoves = p.MulticutMoves
	multicutRequired = p.MulticutRequired

	lmpThreshold = p.LmpThreshold
	historyPruningThreshold = p.HistoryPruningThreshold
	threatExtensionThreshold = p.ThreatExtensionThreshold
	threatExtensionMinDepth = p.ThreatExtensionMinDepth
	lazyEvalMargin = p.LazyEvalMargin

	singularExtDepthA = p.SingularExtDepthA
	lmrMoveCountThreshold = p.LmrMoveCountThreshold

	aspirationDeltaA = p.AspirationDeltaA
	aspirationDeltaB = p.AspirationDeltaB
	aspirationDeltaC = p.AspirationDeltaC
	aspirationDeltaD = p.AspirationDeltaD

	nullMoveRA = p.NullMoveRA
	nullMoveRC = p.NullMoveRC
	nullMoveRD = p.NullMoveRD

	statBonusA = p.StatBonusA
	statBonusB = p.StatBonusB
	statBonusC = p.StatBonusC
	statBonusCeiling = p.StatBonusCeiling

	futilityA = p.FutilityA
	razoringA = p.RazoringA
	razoringB = p.RazoringB
	rfpMarginA = p.RfpMarginA

	bestMoveInstabilityA = p.BestMoveInstabilityA

	pawnValueW = p.PawnValueW
	knightValueW = p.KnightValueW
	bishopValueW = p.BishopValueW
	rookValueW = p.RookValueW
	queenValueW = p.QueenValueW
	kingValueW = p.KingValueW

	mobilityMgWeight = p.MobilityMgWeight
	mobilityEgWeight = p.MobilityEgWeight
	attackerWeight = p.AttackerWeight
	tempoBonus = p.TempoBonus

	pieceValues = computePieceValues(p)

	recomputeLMRTable(p.LmrRDecA)
}

// CurrentParams returns the currently active tunables, e.g. for UCI "option"
// advertisement or a "show config" command.
func CurrentParams() SearchParams {
	return currentParams
}

// tunableSpec describes one UCI-settable integer parameter: its bounds and
// how to read/write it against a SearchParams value.
type tunableSpec struct {
	name     string
	min, max int
	get      func(p SearchParams) int
	set      func(p *SearchParams, v int)
}

var tunables = []tunableSpec{
	{"AspirationDeltaA", 1, 50, func(p SearchParams) int { return p.AspirationDeltaA }, func(p *SearchParams, v int) { p.AspirationDeltaA = v }},
	{"AspirationDeltaB", 1000, 50000, func(p SearchParams) int { return p.AspirationDeltaB }, func(p *SearchParams, v int) { p.AspirationDeltaB = v }},
	{"AspirationDeltaC", 1, 10, func(p SearchParams) int { return p.AspirationDeltaC }, func(p *SearchParams, v int) { p.AspirationDeltaC = v }},
	{"AspirationDeltaD", 0, 10, func(p SearchParams) int { return p.AspirationDeltaD }, func(p *SearchParams, v int) { p.AspirationDeltaD = v }},
	{"NullMoveRA", 100, 2000, func(p SearchParams) int { return p.NullMoveRA }, func(p *SearchParams, v int) { p.NullMoveRA = v }},
	{"NullMoveRC", 1, 10, func(p SearchParams) int { return p.NullMoveRC }, func(p *SearchParams, v int) { p.NullMoveRC = v }},
	{"NullMoveRD", 10, 2000, func(p SearchParams) int { return p.NullMoveRD }, func(p *SearchParams, v int) { p.NullMoveRD = v }},
	{"SingularExtDepthA", 1, 20, func(p SearchParams) int { return p.SingularExtDepthA }, func(p *SearchParams, v int) { p.SingularExtDepthA = v }},
	{"LmrMoveCountThreshold", 1, 20, func(p SearchParams) int { return p.LmrMoveCountThreshold }, func(p *SearchParams, v int) { p.LmrMoveCountThreshold = v }},
	{"LmrRDecA", 100, 5000, func(p SearchParams) int { return p.LmrRDecA }, func(p *SearchParams, v int) { p.LmrRDecA = v }},
	{"LmrStatDelta", 0, 50000, func(p SearchParams) int { return p.LmrStatDelta }, func(p *SearchParams, v int) { p.LmrStatDelta = v }},
	{"LmrStatGain", 1, 50000, func(p SearchParams) int { return p.LmrStatGain }, func(p *SearchParams, v int) { p.LmrStatGain = v }},
	{"StatBonusA", 1, 50, func(p SearchParams) int { return p.StatBonusA }, func(p *SearchParams, v int) { p.StatBonusA = v }},
	{"StatBonusB", 1, 1000, func(p SearchParams) int { return p.StatBonusB }, func(p *SearchParams, v int) { p.StatBonusB = v }},
	{"StatBonusC", 0, 1000, func(p SearchParams) int { return p.StatBonusC }, func(p *SearchParams, v int) { p.StatBonusC = v }},
	{"StatBonusCeiling", 100, 10000, func(p SearchParams) int { return p.StatBonusCeiling }, func(p *SearchParams, v int) { p.StatBonusCeiling = v }},
	{"FutilityDepth", 1, 20, func(p SearchParams) int { return p.FutilityDepth }, func(p *SearchParams, v int) { p.FutilityDepth = v }},
	{"FutilityA", 10, 1000, func(p SearchParams) int { return p.FutilityA }, func(p *SearchParams, v int) { p.FutilityA = v }},
	{"RazoringA", 10, 1000, func(p SearchParams) int { return p.RazoringA }, func(p *SearchParams, v int) { p.RazoringA = v }},
	{"RazoringB", 10, 1000, func(p SearchParams) int { return p.RazoringB }, func(p *SearchParams, v int) { p.RazoringB = v }},
	{"RfpMarginA", 10, 500, func(p SearchParams) int { return p.RfpMarginA }, func(p *SearchParams, v int) { p.RfpMarginA = v }},
	{"ProbCutDepth", 1, 20, func(p SearchParams) int { return p.ProbCutDepth }, func(p *SearchParams, v int) { p.ProbCutDepth = v }},
	{"ProbCutBetaB", 10, 1000, func(p SearchParams) int { return p.ProbCutBetaB }, func(p *SearchParams, v int) { p.ProbCutBetaB = v }},
	{"MulticutDepth", 1, 20, func(p SearchParams) int { return p.MulticutDepth }, func(p *SearchParams, v int) { p.MulticutDepth = v }},
	{"MulticutMoves", 1, 20, func(p SearchParams) int { return p.MulticutMoves }, func(p *SearchParams, v int) { p.MulticutMoves = v }},
	{"MulticutRequired", 1, 20, func(p SearchParams) int { return p.MulticutRequired }, func(p *SearchParams, v int) { p.MulticutRequired = v }},
	{"HistoryPruningThreshold", -10000, 0, func(p SearchParams) int { return p.HistoryPruningThreshold }, func(p *SearchParams, v int) { p.HistoryPruningThreshold = v }},
	{"ThreatExtensionThreshold", 0, 2000, func(p SearchParams) int { return p.ThreatExtensionThreshold }, func(p *SearchParams, v int) { p.ThreatExtensionThreshold = v }},
	{"ThreatExtensionMinDepth", 1, 20, func(p SearchParams) int { return p.ThreatExtensionMinDepth }, func(p *SearchParams, v int) { p.ThreatExtensionMinDepth = v }},
	{"LazyEvalMargin", 0, 2000, func(p SearchParams) int { return p.LazyEvalMargin }, func(p *SearchParams, v int) { p.LazyEvalMargin = v }},
	{"BestMoveInstabilityA", 0, 100, func(p SearchParams) int { return p.BestMoveInstabilityA }, func(p *SearchParams, v int) { p.BestMoveInstabilityA = v }},
	{"PawnValue", 50, 300, func(p SearchParams) int { return p.PawnValueW }, func(p *SearchParams, v int) { p.PawnValueW = v }},
	{"KnightValue", 150, 600, func(p SearchParams) int { return p.KnightValueW }, func(p *SearchParams, v int) { p.KnightValueW = v }},
	{"BishopValue", 150, 600, func(p SearchParams) int { return p.BishopValueW }, func(p *SearchParams, v int) { p.BishopValueW = v }},
	{"RookValue", 300, 900, func(p SearchParams) int { return p.RookValueW }, func(p *SearchParams, v int) { p.RookValueW = v }},
	{"QueenValue", 600, 1500, func(p SearchParams) int { return p.QueenValueW }, func(p *SearchParams, v int) { p.QueenValueW = v }},
	{"TempoBonus", 0, 100, func(p SearchParams) int { return p.TempoBonus }, func(p *SearchParams, v int) { p.TempoBonus = v }},
}

// TunableOptions lists every UCI-settable search parameter for "option
// name ... type spin" advertisement.
func TunableOptions() []struct {
	Name             string
	Default, Min, Max int
} {
	out := make([]struct {
		Name             string
		Default, Min, Max int
	}, len(tunables))
	defaults := DefaultParams()
	for i, t := range tunables {
		out[i].Name = t.name
		out[i].Default = t.get(defaults)
		out[i].Min = t.min
		out[i].Max = t.max
	}
	return out
}

// GetTunable reads a tunable's current value by name (case-insensitive).
func GetTunable(name string) (int, bool) {
	for _, t := range tunables {
		if strings.EqualFold(t.name, name) {
			return t.get(currentParams), true
		}
	}
	return 0, false
}

// SetTunable updates a single tunable by name and republishes the whole
// parameter set. Returns false if name is unknown or value is out of range.
func SetTunable(name string, value int) bool {
	for _, t := range tunables {
		if !strings.EqualFold(t.name, name) {
			continue
		}
		if value < t.min || value > t.max {
			return false
		}
		p := currentParams
		t.set(&p, value)
		ApplyParams(p)
		return true
	}
	return false
}

// statBonus computes the history update magnitude for a given depth,
// following the quadratic-in-depth shape used throughout the search's
// history tables.
func statBonus(depth int) int {
	b := statBonusA*depth*depth + statBonusB*depth - statBonusC
	if b > statBonusCeiling {
		b = statBonusCeiling
	}
	if b < -statBonusCeiling {
		b = -statBonusCeiling
	}
	return b
}
