package tablebase

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const downloadTimeout = 5 * time.Minute

// lichessTablesURL is the Lichess CDN root for Syzygy WDL/DTZ files.
const lichessTablesURL = "https://tablebase.lichess.ovh/tables/standard/"

// SyzygyDownloader fetches Syzygy tablebase files from the Lichess CDN into
// a local cache directory.
type SyzygyDownloader struct {
	CacheDir string
	BaseURL  string
	Client   *http.Client
}

// NewSyzygyDownloader returns a downloader caching into cacheDir.
func NewSyzygyDownloader(cacheDir string) *SyzygyDownloader {
	return &SyzygyDownloader{
		CacheDir: cacheDir,
		BaseURL:  lichessTablesURL,
		Client:   &http.Client{Timeout: downloadTimeout},
	}
}

// DefaultCacheDir returns ~/.chessplay/syzygy, or ./syzygy if the home
// directory can't be resolved.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./syzygy"
	}
	return filepath.Join(home, ".chessplay", "syzygy")
}

// EnsureCacheDir creates the cache directory if it doesn't already exist.
func (d *SyzygyDownloader) EnsureCacheDir() error {
	return os.MkdirAll(d.CacheDir, 0755)
}

// hasBothTableFiles reports whether both the WDL (.rtbw) and DTZ (.rtbz)
// files for name exist under dir. Endgame tables always ship as a pair, so
// a prober treats a partial download as absent.
func hasBothTableFiles(dir, name string) bool {
	_, wdlErr := os.Stat(filepath.Join(dir, name+".rtbw"))
	_, dtzErr := os.Stat(filepath.Join(dir, name+".rtbz"))
	return wdlErr == nil && dtzErr == nil
}

// FivePieceFiles lists every material signature with 5 or fewer pieces
// (145 files, roughly 939MB combined).
var FivePieceFiles = []string{
	"KQvK", "KRvK", "KBvK", "KNvK", "KPvK",
	"KQQvK", "KQRvK", "KQBvK", "KQNvK", "KQPvK",
	"KRRvK", "KRBvK", "KRNvK", "KRPvK",
	"KBBvK", "KBNvK", "KBPvK",
	"KNNvK", "KNPvK",
	"KPPvK",
	"KQvKQ", "KQvKR", "KQvKB", "KQvKN", "KQvKP",
	"KRvKR", "KRvKB", "KRvKN", "KRvKP",
	"KBvKB", "KBvKN", "KBvKP",
	"KNvKN", "KNvKP",
	"KPvKP",
	"KQQvKQ", "KQQvKR", "KQQvKB", "KQQvKN", "KQQvKP",
	"KQRvKQ", "KQRvKR", "KQRvKB", "KQRvKN", "KQRvKP",
	"KQBvKQ", "KQBvKR", "KQBvKB", "KQBvKN", "KQBvKP",
	"KQNvKQ", "KQNvKR", "KQNvKB", "KQNvKN", "KQNvKP",
	"KQPvKQ", "KQPvKR", "KQPvKB", "KQPvKN", "KQPvKP",
	"KRRvKQ", "KRRvKR", "KRRvKB", "KRRvKN", "KRRvKP",
	"KRBvKQ", "KRBvKR", "KRBvKB", "KRBvKN", "KRBvKP",
	"KRNvKQ", "KRNvKR", "KRNvKB", "KRNvKN", "KRNvKP",
	"KRPvKQ", "KRPvKR", "KRPvKB", "KRPvKN", "KRPvKP",
	"KBBvKQ", "KBBvKR", "KBBvKB", "KBBvKN", "KBBvKP",
	"KBNvKQ", "KBNvKR", "KBNvKB", "KBNvKN", "KBNvKP",
	"KBPvKQ", "KBPvKR", "KBPvKB", "KBPvKN", "KBPvKP",
	"KNNvKQ", "KNNvKR", "KNNvKB", "KNNvKN", "KNNvKP",
	"KNPvKQ", "KNPvKR", "KNPvKB", "KNPvKN", "KNPvKP",
	"KPPvKQ", "KPPvKR", "KPPvKB", "KPPvKN", "KPPvKP",
	"KQvKQQ", "KQvKQR", "KQvKQB", "KQvKQN", "KQvKQP",
	"KQvKRR", "KQvKRB", "KQvKRN", "KQvKRP",
	"KQvKBB", "KQvKBN", "KQvKBP",
	"KQvKNN", "KQvKNP",
	"KQvKPP",
	"KRvKQR", "KRvKQB", "KRvKQN", "KRvKQP",
	"KRvKRR", "KRvKRB", "KRvKRN", "KRvKRP",
	"KRvKBB", "KRvKBN", "KRvKBP",
	"KRvKNN", "KRvKNP",
	"KRvKPP",
	"KBvKQB", "KBvKQN", "KBvKQP",
	"KBvKRB", "KBvKRN", "KBvKRP",
	"KBvKBB", "KBvKBN", "KBvKBP",
	"KBvKNN", "KBvKNP",
	"KBvKPP",
	"KNvKQN", "KNvKQP",
	"KNvKRN", "KNvKRP",
	"KNvKBN", "KNvKBP",
	"KNvKNN", "KNvKNP",
	"KNvKPP",
	"KPvKQP",
	"KPvKRP",
	"KPvKBP",
	"KPvKNP",
	"KPvKPP",
}

// DownloadProgress reports the state of one in-flight or completed file
// transfer, sent over the channel passed to DownloadFile/Download5Piece.
type DownloadProgress struct {
	File          string
	BytesReceived int64
	TotalBytes    int64
	Done          bool
	Error         error
}

// HasFile reports whether name's WDL and DTZ files are both already cached.
func (d *SyzygyDownloader) HasFile(name string) bool {
	return hasBothTableFiles(d.CacheDir, name)
}

// DownloadFile fetches both the WDL and DTZ files for a material signature
// like "KQvKR".
func (d *SyzygyDownloader) DownloadFile(name string, progress chan<- DownloadProgress) error {
	if err := d.EnsureCacheDir(); err != nil {
		return err
	}

	wdlPath := filepath.Join(d.CacheDir, name+".rtbw")
	if err := d.fetchToFile(d.BaseURL+"wdl/"+name+".rtbw", wdlPath, name+".rtbw", progress); err != nil {
		return fmt.Errorf("downloading WDL: %w", err)
	}

	dtzPath := filepath.Join(d.CacheDir, name+".rtbz")
	if err := d.fetchToFile(d.BaseURL+"dtz/"+name+".rtbz", dtzPath, name+".rtbz", progress); err != nil {
		return fmt.Errorf("downloading DTZ: %w", err)
	}

	return nil
}

// fetchToFile streams url into path via a .tmp sibling, renamed into place
// only once the transfer completes, so a crash mid-download never leaves a
// truncated file at the final name.
func (d *SyzygyDownloader) fetchToFile(url, path, label string, progress chan<- DownloadProgress) error {
	if _, err := os.Stat(path); err == nil {
		if progress != nil {
			progress <- DownloadProgress{File: label, Done: true}
		}
		return nil
	}

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer out.Close()

	resp, err := d.Client.Get(url)
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Remove(tmpPath)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				os.Remove(tmpPath)
				return werr
			}
			written += int64(n)
			if progress != nil {
				progress <- DownloadProgress{File: label, BytesReceived: written, TotalBytes: resp.ContentLength}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			os.Remove(tmpPath)
			return readErr
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if progress != nil {
		progress <- DownloadProgress{File: label, Done: true}
	}
	return nil
}

// Download5Piece fetches every file in FivePieceFiles not already cached.
func (d *SyzygyDownloader) Download5Piece(progress chan<- DownloadProgress) error {
	for _, name := range FivePieceFiles {
		if d.HasFile(name) {
			continue
		}
		if err := d.DownloadFile(name, progress); err != nil {
			return fmt.Errorf("downloading %s: %w", name, err)
		}
	}
	return nil
}

// GetAvailableFiles lists the material signatures with both WDL and DTZ
// files present in the cache, sorted.
func (d *SyzygyDownloader) GetAvailableFiles() []string {
	entries, err := os.ReadDir(d.CacheDir)
	if err != nil {
		return nil
	}

	seen := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".rtbw"):
			seen[strings.TrimSuffix(name, ".rtbw")]++
		case strings.HasSuffix(name, ".rtbz"):
			seen[strings.TrimSuffix(name, ".rtbz")]++
		}
	}

	var files []string
	for base, count := range seen {
		if count >= 2 {
			files = append(files, base)
		}
	}

	sort.Strings(files)
	return files
}

// MaxPiecesAvailable returns the largest piece count among cached files.
func (d *SyzygyDownloader) MaxPiecesAvailable() int {
	maxPieces := 0
	for _, f := range d.GetAvailableFiles() {
		if pieces := countPiecesFromName(f); pieces > maxPieces {
			maxPieces = pieces
		}
	}
	return maxPieces
}

// countPiecesFromName counts piece letters in a material signature like
// "KQRvKR".
func countPiecesFromName(name string) int {
	count := 0
	for _, c := range strings.ToUpper(name) {
		switch c {
		case 'K', 'Q', 'R', 'B', 'N', 'P':
			count++
		}
	}
	return count
}

// TotalDownloadSize5Piece is the approximate combined size of the 5-piece
// table set.
func TotalDownloadSize5Piece() int64 {
	return 939 * 1024 * 1024
}

// FormatBytes renders n as a human-readable size ("1.5 MB").
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
