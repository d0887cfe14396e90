package tablebase

import "github.com/hailam/chessplay/internal/board"

// resultStore is the persistence surface a PersistentCachedProber needs;
// satisfied by *storage.Storage without this package importing storage
// directly into its Prober contracts.
type resultStore interface {
	GetTBResult(hash uint64) (wdl, dtz int, found bool, err error)
	PutTBResult(hash uint64, wdl, dtz int) error
}

// PersistentCachedProber wraps another prober with a disk-backed cache, so
// probes already answered in a previous process run don't repeat a Syzygy
// file read or a Lichess round trip. Root probing always defers to inner,
// since it needs full legal-move context the cache doesn't carry.
type PersistentCachedProber struct {
	inner Prober
	store resultStore
}

// NewPersistentCachedProber wraps inner with a cache backed by store.
func NewPersistentCachedProber(inner Prober, store resultStore) *PersistentCachedProber {
	return &PersistentCachedProber{inner: inner, store: store}
}

func (p *PersistentCachedProber) Probe(pos *board.Position) ProbeResult {
	if wdl, dtz, found, err := p.store.GetTBResult(pos.Hash); err == nil && found {
		return ProbeResult{Found: true, WDL: WDL(wdl), DTZ: dtz}
	}

	result := p.inner.Probe(pos)
	if result.Found {
		_ = p.store.PutTBResult(pos.Hash, int(result.WDL), result.DTZ)
	}
	return result
}

func (p *PersistentCachedProber) ProbeRoot(pos *board.Position) RootResult {
	return p.inner.ProbeRoot(pos)
}

func (p *PersistentCachedProber) MaxPieces() int {
	return p.inner.MaxPieces()
}

func (p *PersistentCachedProber) Available() bool {
	return p.inner.Available()
}
