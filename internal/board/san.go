package board

import (
	"strings"
)

// pieceLetters indexes the SAN/FEN uppercase piece letter by PieceType.
const pieceLetters = "PNBRQK"

// ToSAN renders m in Standard Algebraic Notation relative to pos (the
// position before m is played). Falls back to UCI notation if pos has no
// piece on m's origin square.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)

	if piece == NoPiece {
		return m.String()
	}

	if m.IsCastling() {
		if to > from {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != Pawn {
		sb.WriteByte(pieceLetters[pt])
		sb.WriteString(disambiguate(pos, m, pt))
	}

	isCapture := m.IsCapture(pos)
	if isCapture {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(pieceLetters[m.Promotion()])
	}

	newPos := pos.Copy()
	newPos.MakeMove(m)
	switch {
	case newPos.IsCheckmate():
		sb.WriteByte('#')
	case newPos.InCheck():
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguate returns the file, rank, or full-square prefix needed to
// distinguish m from other legal moves of the same piece type landing on
// the same destination; empty if m is already unambiguous.
func disambiguate(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()
	sameType := pos.Pieces[pos.SideToMove][pt]

	var candidates []Square
	allMoves := pos.GenerateLegalMoves()
	for i := 0; i < allMoves.Len(); i++ {
		move := allMoves.Get(i)
		if move.To() != to {
			continue
		}
		moveFrom := move.From()
		if moveFrom == from {
			continue
		}
		if sameType.IsSet(moveFrom) {
			candidates = append(candidates, moveFrom)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string('a' + byte(from.File()))
	case !sameRank:
		return string('1' + byte(from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN resolves a SAN token against pos's legal moves, returning
// NoMove (not an error) if no legal move matches the notation.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)

	if s == "O-O" || s == "0-0" {
		if pos.SideToMove == White {
			return NewCastling(E1, G1), nil
		}
		return NewCastling(E8, G8), nil
	}
	if s == "O-O-O" || s == "0-0-0" {
		if pos.SideToMove == White {
			return NewCastling(E1, C1), nil
		}
		return NewCastling(E8, C8), nil
	}

	// Remove check/checkmate markers
	s = strings.TrimSuffix(s, "+")
	s = strings.TrimSuffix(s, "#")

	// Parse promotion
	var promoPiece PieceType = NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 {
		promoChar := s[idx+1]
		switch promoChar {
		case 'N':
			promoPiece = Knight
		case 'B':
			promoPiece = Bishop
		case 'R':
			promoPiece = Rook
		case 'Q':
			promoPiece = Queen
		}
		s = s[:idx]
	}

	// Remove capture marker
	isCapture := strings.Contains(s, "x")
	s = strings.Replace(s, "x", "", -1)

	// Determine piece type
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		}
		s = s[1:]
	}

	// Parse destination (last 2 characters)
	if len(s) < 2 {
		return NoMove, nil
	}
	destStr := s[len(s)-2:]
	dest, err := ParseSquare(destStr)
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	// Parse disambiguation (file, rank, or both)
	var disambigFile, disambigRank int = -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '1')
		}
	}

	// Find the matching move
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.To() != dest {
			continue
		}

		from := m.From()
		piece := pos.PieceAt(from)
		if piece.Type() != pt {
			continue
		}

		// Check disambiguation
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}

		// Check capture
		if isCapture && !m.IsCapture(pos) {
			continue
		}

		// Check promotion
		if promoPiece != NoPieceType {
			if !m.IsPromotion() || m.Promotion() != promoPiece {
				continue
			}
		}

		return m, nil
	}

	return NoMove, nil
}

// MovesToSAN renders a sequence of moves as SAN, playing each one on a
// scratch copy of pos so later moves see the board state left by earlier
// ones.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
