package board

// Polyglot opening-book files are keyed by a hash scheme distinct from this
// engine's own Zobrist keys (internal/engine reads en route to probing a
// .bin book), so the two key sets are generated and stored independently
// even though the generator is the same xorshift64* construction.
var (
	polyglotPieces     [12][64]uint64 // [piece_kind][square]
	polyglotCastling   [4]uint64      // [KQkq]
	polyglotEnPassant  [8]uint64      // [file]
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

// polyglotPieceKind maps [Color][PieceType] to Polyglot's piece index:
// black pawn..king occupy 0-5, white pawn..king occupy 6-11.
var polyglotPieceKind = [2][6]int{
	{6, 7, 8, 9, 10, 11},
	{0, 1, 2, 3, 4, 5},
}

// PolyglotHash computes the book-compatible hash key for the position.
func (p *Position) PolyglotHash() uint64 {
	var hash uint64

	for color := White; color <= Black; color++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[color][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= polyglotPieces[polyglotPieceKind[color][pt]][sq]
			}
		}
	}

	if p.CastlingRights&WhiteKingSideCastle != 0 {
		hash ^= polyglotCastling[0]
	}
	if p.CastlingRights&WhiteQueenSideCastle != 0 {
		hash ^= polyglotCastling[1]
	}
	if p.CastlingRights&BlackKingSideCastle != 0 {
		hash ^= polyglotCastling[2]
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 {
		hash ^= polyglotCastling[3]
	}

	if p.EnPassant != NoSquare && enPassantCapturable(p) {
		hash ^= polyglotEnPassant[p.EnPassant.File()]
	}

	if p.SideToMove == White {
		hash ^= polyglotSideToMove
	}

	return hash
}

// enPassantCapturable reports whether an enemy pawn actually sits on a file
// adjacent to p.EnPassant — Polyglot only folds the en passant key into the
// hash when the capture is really available, not merely legal-looking.
func enPassantCapturable(p *Position) bool {
	file := p.EnPassant.File()
	rank := 4
	if p.SideToMove == Black {
		rank = 3
	}
	pawns := p.Pieces[p.SideToMove][Pawn]
	if file > 0 && pawns.IsSet(NewSquare(file-1, rank)) {
		return true
	}
	if file < 7 && pawns.IsSet(NewSquare(file+1, rank)) {
		return true
	}
	return false
}

// initPolyglotKeys seeds the book-hash key table with its own xorshift64*
// stream, independent of the engine's own Zobrist keys in zobrist.go.
func initPolyglotKeys() {
	rng := newZobristRNG(0x37b4a4b3f0d1c0d0)

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng.nextU64()
		}
	}

	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng.nextU64()
	}

	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng.nextU64()
	}

	polyglotSideToMove = rng.nextU64()
}
