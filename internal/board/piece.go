package board

// Color identifies a side: the player to move or a piece's owner.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other flips white/black.
func (c Color) Other() Color {
	return c ^ 1
}

// String names the color, for logging and debug output.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType is a piece kind independent of color (pawn, knight, ...).
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String names the piece type, for logging and debug output.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// pieceTypeChars holds the lowercase FEN letters, indexed by PieceType; the
// trailing space lets NoPieceType index the same table safely.
var pieceTypeChars = [...]byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}

// Char returns pt's lowercase FEN letter.
func (pt PieceType) Char() byte {
	if pt > NoPieceType {
		return ' '
	}
	return pieceTypeChars[pt]
}

// PieceValue is a flat centipawn material table indexed by PieceType,
// shared by the board package's own material-count helpers.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece packs a PieceType and a Color into one byte: value = type + 6*color.
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece packs a type and color, or NoPiece if either is out of range.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type unpacks p's PieceType.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color unpacks p's owning side.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// pieceChars holds FEN letters indexed by packed Piece value: uppercase for
// white (0-5), lowercase for black (6-11).
const pieceChars = "PNBRQKpnbrqk"

// String returns p's FEN letter, or a space for NoPiece.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string(pieceChars[p])
}

// PieceFromChar converts a single FEN piece letter to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value looks up p's centipawn material value from PieceValue.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
