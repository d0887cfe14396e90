package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: White Ra8/Ka1, Black Kh8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	if !pos.InCheck() {
		t.Fatal("expected black king in check")
	}
	if !pos.IsCheckmate() {
		t.Error("expected checkmate")
	}
	if pos.IsStalemate() {
		t.Error("checkmate should not also report stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can simply capture the checking rook.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	if pos.IsCheckmate() {
		t.Error("expected NOT checkmate: king can take the rook")
	}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("expected at least one legal move")
	}
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: Black king has no legal move and isn't in check.
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	if pos.InCheck() {
		t.Fatal("stalemate position should not be in check")
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate should not also report checkmate")
	}
}
