package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyEngineStats = "engine_stats"
	tbCachePrefix  = "tb:"
	flagPrefix     = "flag:"
)

// SearchRecord summarizes one completed search, recorded for the running
// EngineStats aggregate.
type SearchRecord struct {
	Depth    int           `json:"depth"`
	Nodes    uint64        `json:"nodes"`
	ScoreCP  int           `json:"score_cp"`
	Elapsed  time.Duration `json:"elapsed"`
	UsedNNUE bool          `json:"used_nnue"`
}

// EngineStats accumulates search performance across process restarts.
type EngineStats struct {
	SearchesRun   int           `json:"searches_run"`
	TotalNodes    uint64        `json:"total_nodes"`
	TotalElapsed  time.Duration `json:"total_elapsed"`
	DeepestSearch int           `json:"deepest_search"`
	LastUpdated   time.Time     `json:"last_updated"`
}

// NewEngineStats returns a zeroed stats aggregate.
func NewEngineStats() *EngineStats {
	return &EngineStats{}
}

// NPS returns the lifetime average nodes per second.
func (s *EngineStats) NPS() float64 {
	if s.TotalElapsed <= 0 {
		return 0
	}
	return float64(s.TotalNodes) / s.TotalElapsed.Seconds()
}

// Storage wraps BadgerDB for persistent engine state: search statistics and
// a tablebase probe cache that survives process restarts (the in-process
// CachedProber only covers a single run).
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if absent) the engine's on-disk database.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return openForPath(dbDir)
}

// openForPath opens the database at an explicit directory, bypassing
// platform data-dir resolution. Exercised directly by tests.
func openForPath(dbDir string) (*Storage, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Flag reports whether a named one-shot condition has already fired, e.g.
// "asked to download syzygy files".
func (s *Storage) Flag(name string) (bool, error) {
	var set bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(flagPrefix + name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		set = true
		return nil
	})
	return set, err
}

// SetFlag marks a named condition as fired.
func (s *Storage) SetFlag(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(flagPrefix+name), []byte{1})
	})
}

// LoadEngineStats loads the running stats aggregate, or a zeroed one if
// none has been recorded yet.
func (s *Storage) LoadEngineStats() (*EngineStats, error) {
	stats := NewEngineStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyEngineStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

func (s *Storage) saveEngineStats(stats *EngineStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyEngineStats), data)
	})
}

// RecordSearch folds one completed search into the persisted aggregate.
func (s *Storage) RecordSearch(rec SearchRecord) error {
	stats, err := s.LoadEngineStats()
	if err != nil {
		return err
	}

	stats.SearchesRun++
	stats.TotalNodes += rec.Nodes
	stats.TotalElapsed += rec.Elapsed
	stats.LastUpdated = time.Now()
	if rec.Depth > stats.DeepestSearch {
		stats.DeepestSearch = rec.Depth
	}

	return s.saveEngineStats(stats)
}

// PutTBResult persists a tablebase probe result keyed by position hash.
// On-disk encoding: a WDL byte followed by the DTZ as a little-endian int32.
func (s *Storage) PutTBResult(hash uint64, wdl int, dtz int) error {
	buf := make([]byte, 5)
	buf[0] = byte(int8(wdl))
	binary.LittleEndian.PutUint32(buf[1:], uint32(int32(dtz)))

	key := make([]byte, len(tbCachePrefix)+8)
	copy(key, tbCachePrefix)
	binary.LittleEndian.PutUint64(key[len(tbCachePrefix):], hash)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// GetTBResult looks up a cached tablebase probe by position hash.
func (s *Storage) GetTBResult(hash uint64) (wdl, dtz int, found bool, err error) {
	key := make([]byte, len(tbCachePrefix)+8)
	copy(key, tbCachePrefix)
	binary.LittleEndian.PutUint64(key[len(tbCachePrefix):], hash)

	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(key)
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		return item.Value(func(val []byte) error {
			if len(val) < 5 {
				return nil
			}
			wdl = int(int8(val[0]))
			dtz = int(int32(binary.LittleEndian.Uint32(val[1:])))
			found = true
			return nil
		})
	})
	return wdl, dtz, found, err
}
