package board

import "testing"

func TestGivesCheckDirect(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	pos.UpdateCheckers()

	move := NewMove(A1, A8)
	if !pos.GivesCheck(move) {
		t.Error("expected Ra1-a8 to give check")
	}

	quiet := NewMove(E1, D1)
	if pos.GivesCheck(quiet) {
		t.Error("expected Ke1-d1 not to give check")
	}
}

func TestGivesCheckDiscovered(t *testing.T) {
	// White rook on a1, knight on a4 blocking the a-file, black king on a8.
	// Moving the knight off the file uncovers the rook's check.
	pos, err := ParseFEN("k7/8/8/8/N7/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	pos.UpdateCheckers()

	discovered := NewMove(A4, C5)
	if !pos.GivesCheck(discovered) {
		t.Error("expected Na4-c5 to discover check from Ra1")
	}

	// Staying on the a-file keeps the rook blocked.
	blocked := NewMove(A4, A5)
	if pos.GivesCheck(blocked) {
		t.Error("expected Na4-a5 not to give check (still blocks the rook)")
	}
}

func TestGenerateQuietChecksFindsDirectCheck(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	pos.UpdateCheckers()

	checks := pos.GenerateQuietChecks()
	found := false
	for i := 0; i < checks.Len(); i++ {
		m := checks.Get(i)
		if m.From() == A1 && m.To() == A8 {
			found = true
		}
		if m.IsCapture(pos) {
			t.Errorf("GenerateQuietChecks returned a capture: %v", m)
		}
		if !pos.GivesCheck(m) {
			t.Errorf("GenerateQuietChecks returned a non-checking move: %v", m)
		}
	}
	if !found {
		t.Error("expected Ra1-a8 among generated quiet checks")
	}
}

func TestGenerateQuietChecksExcludesNonChecks(t *testing.T) {
	pos := NewPosition()
	checks := pos.GenerateQuietChecks()
	if checks.Len() != 0 {
		t.Errorf("expected no quiet checks from the starting position, got %d", checks.Len())
	}
}
