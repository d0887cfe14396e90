package engine

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

func TestMultiPV(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	limits := SearchLimits{
		Depth:    4,
		MoveTime: 2 * time.Second,
		MultiPV:  3,
	}

	results := eng.SearchMultiPV(pos, limits)
	if len(results) < 2 {
		t.Fatalf("expected at least 2 PVs, got %d", len(results))
	}

	if results[0].Move == results[1].Move {
		t.Errorf("first two PVs share a move: %s", results[0].Move.String())
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("PV %d scores higher than PV %d (%d > %d)", i+1, i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for the starting position")
	}
}

// TestConcurrentSearchRace stresses repeated search calls against varying
// positions. Run with -race to catch data races in the shared hash table
// and worker pool:
//
//	GOMAXPROCS=8 go test -race -run TestConcurrentSearchRace ./internal/engine -v
func TestConcurrentSearchRace(t *testing.T) {
	eng := NewEngine(16)

	iterations := 10
	if testing.Short() {
		iterations = 3
	}

	openings := []string{
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2", // 1.e4 e5
		"rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPP1PPPP/RNBQKBNR w KQkq d6 0 2", // 1.d4 d5
	}

	pos := board.NewPosition()
	for i := 0; i < iterations; i++ {
		limits := SearchLimits{Depth: 6, MoveTime: 500 * time.Millisecond}

		if move := eng.SearchWithLimits(pos, limits); move == board.NoMove {
			t.Errorf("iteration %d: search returned NoMove for a non-terminal position", i)
		}

		var err error
		pos, err = board.ParseFEN(openings[i%len(openings)])
		if err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
	}
}

func TestConcurrentSearchMultiplePositions(t *testing.T) {
	eng := NewEngine(16)

	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", // Italian Game
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",                                   // king-and-pawn endgame
	}

	for i, fen := range positions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("position %d: ParseFEN: %v", i, err)
		}

		limits := SearchLimits{Depth: 5, MoveTime: 300 * time.Millisecond}
		move := eng.SearchWithLimits(pos, limits)
		if move == board.NoMove && (!pos.InCheck() || pos.GenerateLegalMoves().Len() > 0) {
			t.Errorf("position %d: search returned NoMove on a non-terminal position", i)
		}
	}
}

func TestPawnHashTable(t *testing.T) {
	pt := NewPawnTable(1)
	pos := board.NewPosition()

	if _, _, found := pt.Probe(pos.PawnKey); found {
		t.Error("expected a cache miss before any store")
	}

	pt.Store(pos.PawnKey, -15, -20)
	mg, eg, found := pt.Probe(pos.PawnKey)
	if !found {
		t.Fatal("expected a cache hit after store")
	}
	if mg != -15 || eg != -20 {
		t.Errorf("got mg=%d eg=%d, want mg=-15 eg=-20", mg, eg)
	}

	oldKey := pos.PawnKey
	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when a pawn moves")
	}

	pos.UnmakeMove(move, undo)
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored after unmake")
	}
}

func TestPawnHashTableCollisionSafe(t *testing.T) {
	pt := NewPawnTable(1)

	start := board.NewPosition()
	pt.Store(start.PawnKey, 10, 5)

	sicilian, err := board.ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if _, _, found := pt.Probe(sicilian.PawnKey); found && sicilian.PawnKey != start.PawnKey {
		t.Error("distinct pawn structures should not collide in a fresh table")
	}
}
