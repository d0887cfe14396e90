package board

// Sliding-piece (bishop/rook) attacks are looked up through fancy magic
// bitboards: a per-square magic multiplier maps the relevant occupancy bits
// to a dense index into a flat, precomputed attack table, turning what
// would otherwise be ray-casting into a single multiply, shift, and load.

// Magic holds one square's magic-multiplication parameters.
type Magic struct {
	Mask   Bitboard // relevant occupancy bits (board edges excluded)
	Magic  uint64   // multiplier that hashes masked occupancy to a dense index
	Shift  uint8    // right-shift after multiplication
	Offset uint32   // this square's base offset into the shared attack table
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	// Attack tables (fancy magic bitboards)
	bishopTable [5248]Bitboard  // Total bishop attack table entries
	rookTable   [102400]Bitboard // Total rook attack table entries
)

// Pre-computed magic numbers (found through trial and error)
var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func initMagics() {
	buildMagicTable(bishopMagics[:], bishopMagicNumbers[:], bishopTable[:], bishopMask, bishopAttacksSlow)
	buildMagicTable(rookMagics[:], rookMagicNumbers[:], rookTable[:], rookMask, rookAttacksSlow)
}

// buildMagicTable fills magics and table for every square: for each square
// it enumerates every occupancy subset of the relevant mask, hashes it
// through the square's magic number, and stores the ray-cast attack set at
// the resulting index. Shared between bishops and rooks since the indexing
// scheme is identical; only the mask and slow-attack functions differ.
func buildMagicTable(magics []Magic, magicNumbers []uint64, table []Bitboard, maskFn func(Square) Bitboard, attacksSlow func(Square, Bitboard) Bitboard) {
	var offset uint32
	for sq := A1; sq <= H8; sq++ {
		mask := maskFn(sq)
		bits := mask.PopCount()
		number := magicNumbers[sq]

		magics[sq] = Magic{
			Mask:   mask,
			Magic:  number,
			Shift:  uint8(64 - bits),
			Offset: offset,
		}

		numEntries := 1 << bits
		for i := 0; i < numEntries; i++ {
			occ := indexToOccupancy(i, bits, mask)
			idx := (uint64(occ) * number) >> (64 - bits)
			table[offset+uint32(idx)] = attacksSlow(sq, occ)
		}
		offset += uint32(numEntries)
	}
}

// bishopMask returns sq's relevant diagonal occupancy bits: edge squares
// never block further sliding, so they're excluded from the mask entirely.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) & ^(Rank1 | Rank8 | FileA | FileH)
}

// rookMask returns sq's relevant file/rank occupancy bits, excluding edges
// except along the rook's own rank/file (where an edge square still blocks).
func rookMask(sq Square) Bitboard {
	file := sq.File()
	rank := sq.Rank()

	var mask Bitboard

	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}

	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}

	return mask
}

// indexToOccupancy maps a dense subset index back to the occupancy bitboard
// it represents, by distributing index's bits across mask's set squares.
func indexToOccupancy(index, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.LSB()
		mask &= mask - 1
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// slideRay walks one direction (df, dr) from sq until it runs off the board
// or hits an occupied square (the blocker itself is included, matching how
// a slider's attack set always covers the first piece it would capture).
func slideRay(sq Square, occupied Bitboard, df, dr int) Bitboard {
	var attacks Bitboard
	file, rank := sq.File()+df, sq.Rank()+dr
	for file >= 0 && file <= 7 && rank >= 0 && rank <= 7 {
		s := NewSquare(file, rank)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
		file += df
		rank += dr
	}
	return attacks
}

// bishopAttacksSlow ray-casts a bishop's four diagonals; used only at
// init time to populate the magic attack tables.
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slideRay(sq, occupied, 1, 1) | slideRay(sq, occupied, -1, 1) |
		slideRay(sq, occupied, 1, -1) | slideRay(sq, occupied, -1, -1)
}

// rookAttacksSlow ray-casts a rook's four files/ranks; used only at init
// time to populate the magic attack tables.
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slideRay(sq, occupied, 0, 1) | slideRay(sq, occupied, 0, -1) |
		slideRay(sq, occupied, 1, 0) | slideRay(sq, occupied, -1, 0)
}

// getBishopAttacks is the magic-bitboard lookup for a bishop on sq against
// the given full-board occupancy.
func getBishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift
	return bishopTable[m.Offset+uint32(idx)]
}

// getRookAttacks is the magic-bitboard lookup for a rook on sq against the
// given full-board occupancy.
func getRookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift
	return rookTable[m.Offset+uint32(idx)]
}
