package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/chessplay/internal/board"
)

// BookEntry is one book move for a position, with its relative weight.
type BookEntry struct {
	Move   board.Move
	Weight uint16
}

// Book maps Polyglot hash keys to the set of moves recorded for that
// position.
type Book struct {
	entries map[uint64][]BookEntry
}

// New returns an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]BookEntry)}
}

// LoadPolyglot reads a Polyglot (.bin) opening book from disk.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPolyglotReader(file)
}

// polyglotEntrySize is the fixed record length of a Polyglot book entry:
// 8 bytes key, 2 bytes move, 2 bytes weight, 4 bytes learn data (ignored).
const polyglotEntrySize = 16

// LoadPolyglotReader reads a Polyglot book from r, consuming it to EOF.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	bk := New()

	var rec [polyglotEntrySize]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		key := binary.BigEndian.Uint64(rec[0:8])
		moveData := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])

		if move := parsePolyglotMove(moveData); move != board.NoMove {
			bk.entries[key] = append(bk.entries[key], BookEntry{Move: move, Weight: weight})
		}
	}

	return bk, nil
}

// polyglotCastlingDest maps Polyglot's king-captures-rook castling encoding
// (from, to) onto this engine's king-moves-two-squares encoding.
var polyglotCastlingDest = map[[2]board.Square]board.Square{
	{board.E1, board.H1}: board.G1,
	{board.E1, board.A1}: board.C1,
	{board.E8, board.H8}: board.G8,
	{board.E8, board.A8}: board.C8,
}

// polyglotPromotionPiece maps Polyglot's 3-bit promotion code (0=none) to a
// PieceType; index 0 is unused since callers check promo > 0 first.
var polyglotPromotionPiece = [...]board.PieceType{0, board.Knight, board.Bishop, board.Rook, board.Queen}

// parsePolyglotMove decodes a 16-bit Polyglot move word:
// bits 0-5 to square, 6-11 from square, 12-14 promotion piece.
func parsePolyglotMove(data uint16) board.Move {
	toFile := data & 7
	toRank := (data >> 3) & 7
	fromFile := (data >> 6) & 7
	fromRank := (data >> 9) & 7
	promo := (data >> 12) & 7

	from := board.NewSquare(int(fromFile), int(fromRank))
	to := board.NewSquare(int(toFile), int(toRank))

	if dest, isCastle := polyglotCastlingDest[[2]board.Square{from, to}]; isCastle {
		to = dest
	}

	if promo > 0 {
		return board.NewPromotion(from, to, polyglotPromotionPiece[promo])
	}
	return board.NewMove(from, to)
}

// Probe looks up pos in the book and picks a move via weighted random
// selection among the recorded entries.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok || len(entries) == 0 {
		return board.NoMove, false
	}

	sortByWeightDesc(entries)

	var totalWeight uint32
	for _, e := range entries {
		totalWeight += uint32(e.Weight)
	}
	if totalWeight == 0 {
		return verifyAndConvert(pos, entries[0].Move), true
	}

	pick := rand.Uint32() % totalWeight
	var cumulative uint32
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if pick < cumulative {
			return verifyAndConvert(pos, e.Move), true
		}
	}

	return verifyAndConvert(pos, entries[0].Move), true
}

// ProbeAll returns every book entry for pos, heaviest weight first.
func (b *Book) ProbeAll(pos *board.Position) []BookEntry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok {
		return nil
	}

	result := make([]BookEntry, len(entries))
	copy(result, entries)
	sortByWeightDesc(result)
	return result
}

func sortByWeightDesc(entries []BookEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
}

// verifyAndConvert re-resolves move against pos's legal moves so the
// returned Move carries the correct castling/en-passant/promotion flags
// rather than whatever Polyglot's bare from/to encoding implied.
func verifyAndConvert(pos *board.Position, move board.Move) board.Move {
	from, to := move.From(), move.To()

	legalMoves := pos.GenerateLegalMoves()
	for i := 0; i < legalMoves.Len(); i++ {
		lm := legalMoves.Get(i)
		if lm.From() != from || lm.To() != to {
			continue
		}
		if move.IsPromotion() != lm.IsPromotion() {
			continue
		}
		if move.IsPromotion() && move.Promotion() != lm.Promotion() {
			continue
		}
		return lm
	}

	return board.NoMove
}

// Size returns the number of distinct positions recorded in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
