package board

import "fmt"

// Move packs a chess move into 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-13: promotion piece, offset from Knight (0=Knight .. 3=Queen)
// bits 14-15: flag (0=normal, 1=promotion, 2=en passant, 3=castling)
type Move uint16

const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagEnPassant uint16 = 2 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoMove is the zero value, meaning "no move" (e.g. a failed parse or an
// empty killer slot).
const NoMove Move = 0

// MoveNull is the sentinel passed through search for a null move (used by
// null-move pruning). Distinct from NoMove since a TT probe must be able
// to tell "no move stored" apart from "the stored move was a null move".
const MoveNull Move = 0xFFFF

// NewMove builds an ordinary, non-special move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a pawn promotion to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	promoIdx := promo - Knight
	return Move(from) | Move(to)<<6 | Move(promoIdx)<<12 | Move(FlagPromotion)
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagEnPassant)
}

// NewCastling builds a castling move, encoded as the king's own two-square
// hop.
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagCastling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move's flag bits.
func (m Move) Flag() uint16 {
	return uint16(m) & 0xC000
}

// Promotion returns the promoted-to piece type; only meaningful when
// IsPromotion reports true.
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// IsCastling reports whether m is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant reports whether m is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCapture reports whether playing m on pos takes a piece, including the
// en passant case where the destination square itself is empty.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// IsQuiet reports whether m is neither a capture nor a promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// promotionLetters indexes the UCI promotion-piece suffix letter by
// PieceType-Knight (0=n, 1=b, 2=r, 3=q).
var promotionLetters = [...]byte{'n', 'b', 'r', 'q'}

// String renders m in UCI notation ("e2e4", "e7e8q"); NoMove renders as
// "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promotionLetters[m.Promotion()-Knight])
	}
	return s
}

// ParseMove decodes a UCI move string against pos, inferring castling and
// en passant from the piece actually standing on the origin square since
// UCI's wire format doesn't flag them explicitly.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}
	if pt == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-capacity move buffer, avoiding per-position
// allocation during move generation.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList returns an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends m.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently stored.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at i and j, used by in-place move-ordering sorts.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without reallocating its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the list's contents as a slice backed by the same array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo captures everything MakeMove mutates, so UnmakeMove can restore
// the position exactly.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
	Valid          bool
}
