package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestPolyglotHashRoundTrip(t *testing.T) {
	pos := board.NewPosition()
	before := pos.PolyglotHash()
	if before != pos.PolyglotHash() {
		t.Fatal("PolyglotHash is not deterministic for an unchanged position")
	}

	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	if pos.PolyglotHash() == before {
		t.Error("PolyglotHash should change after a move")
	}

	pos.UnmakeMove(move, undo)
	if pos.PolyglotHash() != before {
		t.Errorf("PolyglotHash not restored after unmake: %x != %x", pos.PolyglotHash(), before)
	}
}

// encodePolyglotMove builds the wire-format move word used by encodeEntry's
// callers, mirroring parsePolyglotMove's bit layout.
func encodePolyglotMove(from, to board.Square) uint16 {
	return uint16(to.File()) | uint16(to.Rank())<<3 | uint16(from.File())<<6 | uint16(from.Rank())<<9
}

func encodeEntry(buf *bytes.Buffer, key uint64, moveWord uint16, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, moveWord)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0)) // learn data, ignored
}

func TestBookLoadAndProbe(t *testing.T) {
	pos := board.NewPosition()

	var buf bytes.Buffer
	encodeEntry(&buf, pos.PolyglotHash(), encodePolyglotMove(board.E2, board.E4), 100)

	bk, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if bk.Size() != 1 {
		t.Errorf("expected book size 1, got %d", bk.Size())
	}

	move, found := bk.Probe(pos)
	if !found {
		t.Fatal("expected to find a move in the book")
	}
	if move.From() != board.E2 || move.To() != board.E4 {
		t.Errorf("expected e2e4, got %s", move.String())
	}
}

func TestBookProbeWeightedSelection(t *testing.T) {
	pos := board.NewPosition()
	key := pos.PolyglotHash()

	var buf bytes.Buffer
	encodeEntry(&buf, key, encodePolyglotMove(board.E2, board.E4), 100)
	encodeEntry(&buf, key, encodePolyglotMove(board.D2, board.D4), 0)

	bk, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}

	all := bk.ProbeAll(pos)
	if len(all) != 2 {
		t.Fatalf("expected 2 entries for the starting position, got %d", len(all))
	}
	if all[0].Weight < all[1].Weight {
		t.Error("ProbeAll should sort heaviest weight first")
	}
}

func TestBookMiss(t *testing.T) {
	bk := New()
	pos := board.NewPosition()

	move, found := bk.Probe(pos)
	if found {
		t.Error("expected a miss on an empty book")
	}
	if move != board.NoMove {
		t.Errorf("expected NoMove on miss, got %s", move.String())
	}
}

func TestNilBookIsSafe(t *testing.T) {
	var bk *Book
	if bk.Size() != 0 {
		t.Error("nil *Book.Size() should be 0")
	}
	if _, found := bk.Probe(board.NewPosition()); found {
		t.Error("nil *Book.Probe() should never find anything")
	}
	if bk.ProbeAll(board.NewPosition()) != nil {
		t.Error("nil *Book.ProbeAll() should return nil")
	}
}

func TestParsePolyglotMove(t *testing.T) {
	move := parsePolyglotMove(encodePolyglotMove(board.E2, board.E4))
	if move.From() != board.E2 || move.To() != board.E4 {
		t.Errorf("expected e2e4, got from=%s to=%s", move.From(), move.To())
	}

	move = parsePolyglotMove(encodePolyglotMove(board.D7, board.D5))
	if move.From() != board.D7 || move.To() != board.D5 {
		t.Errorf("expected d7d5, got from=%s to=%s", move.From(), move.To())
	}
}

func TestParsePolyglotMoveCastling(t *testing.T) {
	// Polyglot encodes castling as king-captures-own-rook.
	move := parsePolyglotMove(encodePolyglotMove(board.E1, board.H1))
	if move.From() != board.E1 || move.To() != board.G1 {
		t.Errorf("expected white kingside castle to g1, got from=%s to=%s", move.From(), move.To())
	}

	move = parsePolyglotMove(encodePolyglotMove(board.E8, board.A8))
	if move.From() != board.E8 || move.To() != board.C8 {
		t.Errorf("expected black queenside castle to c8, got from=%s to=%s", move.From(), move.To())
	}
}
