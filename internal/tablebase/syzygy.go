package tablebase

import (
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/hailam/chessplay/internal/applog"
	"github.com/hailam/chessplay/internal/board"
)

// SyzygyProber probes local Syzygy files when present and falls back to a
// cached Lichess lookup otherwise. Local file reading itself isn't wired up
// yet (see Probe); refresh only uses the downloader to report what's on
// disk.
type SyzygyProber struct {
	path       string
	maxPieces  int
	available  bool
	fallback   Prober
	mu         sync.RWMutex
	downloader *SyzygyDownloader
	logger     logr.Logger
}

// NewSyzygyProber returns a Syzygy prober rooted at path, or at
// DefaultCacheDir if path is empty, backed by a cached Lichess fallback.
func NewSyzygyProber(path string) *SyzygyProber {
	if path == "" {
		path = DefaultCacheDir()
	}

	sp := &SyzygyProber{
		path:       path,
		fallback:   NewCachedLichessProber(),
		downloader: NewSyzygyDownloader(path),
		logger:     applog.Discard(),
	}

	sp.refresh()

	return sp
}

// SetLogger replaces the prober's diagnostic logger.
func (sp *SyzygyProber) SetLogger(l logr.Logger) {
	sp.logger = l
}

// refresh rescans sp.path and updates maxPieces/available accordingly.
func (sp *SyzygyProber) refresh() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if _, err := os.Stat(sp.path); os.IsNotExist(err) {
		sp.available = false
		sp.maxPieces = 0
		sp.logger.Info("syzygy path missing, using Lichess fallback", "path", sp.path)
		return
	}

	sp.maxPieces = sp.downloader.MaxPiecesAvailable()
	sp.available = sp.maxPieces > 0

	if sp.available {
		sp.logger.Info("found local tablebases", "path", sp.path, "maxPieces", sp.maxPieces)
	} else {
		sp.logger.Info("no local tablebases found, using Lichess fallback", "path", sp.path)
	}
}

// SetPath repoints the prober at a new directory and rescans it.
func (sp *SyzygyProber) SetPath(path string) {
	if path == "" {
		path = DefaultCacheDir()
	}
	sp.path = path
	sp.downloader = NewSyzygyDownloader(path)
	sp.refresh()
}

// Probe looks up pos. No pure-Go Syzygy file reader is wired in yet, so
// every probe currently routes through the cached Lichess fallback
// regardless of what's on disk; LocalMaxPieces/HasLocalFiles still report
// the local file state for callers deciding whether to download more.
func (sp *SyzygyProber) Probe(pos *board.Position) ProbeResult {
	if CountPieces(pos) > lichessMaxPieces {
		return ProbeResult{Found: false}
	}
	return sp.fallback.Probe(pos)
}

// ProbeRoot finds the best move at pos, via the same fallback as Probe.
func (sp *SyzygyProber) ProbeRoot(pos *board.Position) RootResult {
	if CountPieces(pos) > lichessMaxPieces {
		return RootResult{Found: false}
	}
	return sp.fallback.ProbeRoot(pos)
}

// MaxPieces reports the fallback's piece limit, since probing currently
// always routes through it.
func (sp *SyzygyProber) MaxPieces() int {
	return lichessMaxPieces
}

// Available is always true: the Lichess fallback covers any position the
// local files would.
func (sp *SyzygyProber) Available() bool {
	return true
}

// LocalMaxPieces returns the largest piece count found in local files.
func (sp *SyzygyProber) LocalMaxPieces() int {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.maxPieces
}

// HasLocalFiles reports whether any local tablebase files were found.
func (sp *SyzygyProber) HasLocalFiles() bool {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.available
}

// Path returns the directory the prober scans for local files.
func (sp *SyzygyProber) Path() string {
	return sp.path
}

// Download5Piece starts downloading the 5-piece file set, reporting
// progress on the returned channel and refreshing local-file state once
// done.
func (sp *SyzygyProber) Download5Piece() (<-chan DownloadProgress, error) {
	if err := sp.downloader.EnsureCacheDir(); err != nil {
		return nil, err
	}

	progress := make(chan DownloadProgress, 100)

	go func() {
		defer close(progress)
		if err := sp.downloader.Download5Piece(progress); err != nil {
			progress <- DownloadProgress{Error: err}
		}
		sp.refresh()
	}()

	return progress, nil
}

// HybridProber combines a local SyzygyProber with a cached online prober.
// Both currently resolve through the same Lichess-backed path; the split
// exists so a future pure-Go local reader only needs to change Probe here.
type HybridProber struct {
	local    *SyzygyProber
	online   *CachedProber
	useLocal bool
}

// NewHybridProber returns a prober rooted at syzygyPath, noting whether
// local files were found at construction time.
func NewHybridProber(syzygyPath string) *HybridProber {
	local := NewSyzygyProber(syzygyPath)
	online := NewCachedLichessProber()

	return &HybridProber{
		local:    local,
		online:   online,
		useLocal: local.HasLocalFiles(),
	}
}

func (hp *HybridProber) Probe(pos *board.Position) ProbeResult {
	return hp.online.Probe(pos)
}

func (hp *HybridProber) ProbeRoot(pos *board.Position) RootResult {
	return hp.online.ProbeRoot(pos)
}

func (hp *HybridProber) MaxPieces() int {
	return lichessMaxPieces
}

func (hp *HybridProber) Available() bool {
	return true
}

// CacheHitRate returns the online cache's hit percentage.
func (hp *HybridProber) CacheHitRate() float64 {
	return hp.online.HitRate()
}

// ClearCache empties the online cache.
func (hp *HybridProber) ClearCache() {
	hp.online.Clear()
}

// positionToMaterial renders pos's material balance as a tablebase file
// key like "KQPvKR" (more-valuable pieces first, kings always included).
func positionToMaterial(pos *board.Position) string {
	var white, black strings.Builder

	for pt := int(board.Queen); pt >= int(board.Pawn); pt-- {
		count := pos.Pieces[board.White][pt].PopCount()
		for i := 0; i < count; i++ {
			white.WriteByte(pieceChar(board.PieceType(pt)))
		}
	}

	for pt := int(board.Queen); pt >= int(board.Pawn); pt-- {
		count := pos.Pieces[board.Black][pt].PopCount()
		for i := 0; i < count; i++ {
			black.WriteByte(pieceChar(board.PieceType(pt)))
		}
	}

	return "K" + white.String() + "vK" + black.String()
}

func pieceChar(pt board.PieceType) byte {
	switch pt {
	case board.Queen:
		return 'Q'
	case board.Rook:
		return 'R'
	case board.Bishop:
		return 'B'
	case board.Knight:
		return 'N'
	case board.Pawn:
		return 'P'
	default:
		return '?'
	}
}

// checkLocalFile reports whether both the WDL and DTZ files for material
// exist under sp.path.
func (sp *SyzygyProber) checkLocalFile(material string) bool {
	return hasBothTableFiles(sp.path, material)
}
