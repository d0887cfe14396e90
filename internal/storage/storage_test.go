package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "chessplay-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := openForPath(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEngineStatsRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	stats, err := s.LoadEngineStats()
	if err != nil {
		t.Fatalf("LoadEngineStats: %v", err)
	}
	if stats.SearchesRun != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}

	if err := s.RecordSearch(SearchRecord{Depth: 12, Nodes: 1_000_000, Elapsed: 500 * time.Millisecond}); err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}
	if err := s.RecordSearch(SearchRecord{Depth: 14, Nodes: 2_000_000, Elapsed: time.Second}); err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}

	stats, err = s.LoadEngineStats()
	if err != nil {
		t.Fatalf("LoadEngineStats: %v", err)
	}
	if stats.SearchesRun != 2 {
		t.Errorf("expected 2 searches, got %d", stats.SearchesRun)
	}
	if stats.TotalNodes != 3_000_000 {
		t.Errorf("expected 3,000,000 nodes, got %d", stats.TotalNodes)
	}
	if stats.DeepestSearch != 14 {
		t.Errorf("expected deepest search 14, got %d", stats.DeepestSearch)
	}
	if nps := stats.NPS(); nps <= 0 {
		t.Errorf("expected positive NPS, got %f", nps)
	}
}

func TestTBResultCache(t *testing.T) {
	s := newTestStorage(t)

	if _, _, found, err := s.GetTBResult(0xabc123); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := s.PutTBResult(0xabc123, 2, -17); err != nil {
		t.Fatalf("PutTBResult: %v", err)
	}

	wdl, dtz, found, err := s.GetTBResult(0xabc123)
	if err != nil {
		t.Fatalf("GetTBResult: %v", err)
	}
	if !found || wdl != 2 || dtz != -17 {
		t.Errorf("expected wdl=2 dtz=-17 found=true, got wdl=%d dtz=%d found=%v", wdl, dtz, found)
	}
}

func TestFlag(t *testing.T) {
	s := newTestStorage(t)

	set, err := s.Flag("syzygy-prompted")
	if err != nil || set {
		t.Fatalf("expected unset flag, got set=%v err=%v", set, err)
	}

	if err := s.SetFlag("syzygy-prompted"); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}

	set, err = s.Flag("syzygy-prompted")
	if err != nil || !set {
		t.Fatalf("expected set flag, got set=%v err=%v", set, err)
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
