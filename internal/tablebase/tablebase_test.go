package tablebase

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestNoopProber(t *testing.T) {
	prober := NoopProber{}

	if prober.Available() {
		t.Error("NoopProber should not be available")
	}

	if prober.MaxPieces() != 0 {
		t.Errorf("NoopProber MaxPieces should be 0, got %d", prober.MaxPieces())
	}

	pos := board.NewPosition()
	result := prober.Probe(pos)
	if result.Found {
		t.Error("NoopProber should not find anything")
	}

	rootResult := prober.ProbeRoot(pos)
	if rootResult.Found {
		t.Error("NoopProber ProbeRoot should not find anything")
	}
}

func TestCountPieces(t *testing.T) {
	pos := board.NewPosition()
	count := CountPieces(pos)

	// Starting position has 32 pieces
	if count != 32 {
		t.Errorf("Starting position should have 32 pieces, got %d", count)
	}
}

type memStore struct {
	vals map[uint64][2]int
}

func newMemStore() *memStore { return &memStore{vals: make(map[uint64][2]int)} }

func (m *memStore) GetTBResult(hash uint64) (int, int, bool, error) {
	v, ok := m.vals[hash]
	return v[0], v[1], ok, nil
}

func (m *memStore) PutTBResult(hash uint64, wdl, dtz int) error {
	m.vals[hash] = [2]int{wdl, dtz}
	return nil
}

func TestPersistentCachedProber(t *testing.T) {
	pos := board.NewPosition()
	store := newMemStore()
	inner := NoopProber{}
	prober := NewPersistentCachedProber(inner, store)

	if result := prober.Probe(pos); result.Found {
		t.Fatal("expected miss through to NoopProber")
	}

	store.PutTBResult(pos.Hash, int(WDLWin), 5)
	result := prober.Probe(pos)
	if !result.Found || result.WDL != WDLWin || result.DTZ != 5 {
		t.Errorf("expected cached win/dtz=5, got %+v", result)
	}
}

func TestWDLToScore(t *testing.T) {
	tests := []struct {
		wdl      WDL
		ply      int
		positive bool // Should score be positive (winning)?
	}{
		{WDLWin, 0, true},
		{WDLWin, 10, true},
		{WDLCursedWin, 0, true},
		{WDLDraw, 0, false},
		{WDLBlessedLoss, 0, false},
		{WDLLoss, 0, false},
	}

	for _, tc := range tests {
		score := WDLToScore(tc.wdl, tc.ply)
		isPositive := score > 0

		if tc.positive && !isPositive {
			t.Errorf("WDL %d at ply %d should give positive score, got %d", tc.wdl, tc.ply, score)
		}
		if !tc.positive && tc.wdl != WDLDraw && isPositive {
			t.Errorf("WDL %d at ply %d should give non-positive score, got %d", tc.wdl, tc.ply, score)
		}
	}
}
