package board

import "testing"

func TestNewPosition(t *testing.T) {
	pos := NewPosition()

	counts := map[Color]int{}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if piece := pos.PieceAt(rank, file); piece != NoPiece {
				counts[piece.Color()]++
			}
		}
	}
	if counts[White] != 16 || counts[Black] != 16 {
		t.Fatalf("piece counts = %v, want 16 per side", counts)
	}
	if pos.SideToMove != White {
		t.Errorf("SideToMove = %v, want White", pos.SideToMove)
	}
	if _, ok := pos.Selection(); ok {
		t.Error("new position should have no selection")
	}

	tests := []struct {
		rank, file int
		want       Piece
	}{
		{0, 0, WhiteRook},
		{0, 3, WhiteQueen},
		{0, 4, WhiteKing},
		{1, 5, WhitePawn},
		{6, 2, BlackPawn},
		{7, 1, BlackKnight},
		{7, 4, BlackKing},
		{4, 4, NoPiece},
	}
	for _, tc := range tests {
		if got := pos.PieceAt(tc.rank, tc.file); got != tc.want {
			t.Errorf("PieceAt(%d, %d) = %v, want %v", tc.rank, tc.file, got, tc.want)
		}
	}
}

func TestApplyMoveFlipsTurnAndClearsSelection(t *testing.T) {
	pos := NewPosition()
	pos.Select(1, 4)

	m, ok := pos.ApplyMove(3, 4)
	if !ok {
		t.Fatal("ApplyMove with a selection should succeed")
	}
	if m.From != NewSquare(1, 4) || m.To != NewSquare(3, 4) || m.Piece != WhitePawn || m.IsCapture() {
		t.Errorf("unexpected move record %+v", m)
	}
	if pos.SideToMove != Black {
		t.Errorf("SideToMove = %v, want Black", pos.SideToMove)
	}
	if _, ok := pos.Selection(); ok {
		t.Error("selection should be cleared after ApplyMove")
	}
	if pos.PieceAt(1, 4) != NoPiece || pos.PieceAt(3, 4) != WhitePawn {
		t.Error("pawn did not move from e2 to e4")
	}
}

func TestApplyMoveWithoutSelectionIsNoop(t *testing.T) {
	pos := NewPosition()
	pos.Select(0, 6)
	pos.ApplyMove(2, 5)

	before := pos.FEN()
	if _, ok := pos.ApplyMove(4, 4); ok {
		t.Fatal("second ApplyMove without a selection should report false")
	}
	if after := pos.FEN(); after != before {
		t.Errorf("position changed on no-op: %s -> %s", before, after)
	}
	if pos.SideToMove != Black {
		t.Errorf("SideToMove = %v, want Black", pos.SideToMove)
	}
}

func TestApplyMoveCapturesByOverwrite(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1")
	selectSquare(t, pos, "d1")

	m, _ := pos.ApplyMove(4, 3)
	if m.Captured != BlackPawn {
		t.Errorf("Captured = %v, want black pawn", m.Captured)
	}
	if pos.PieceAt(4, 3) != WhiteRook {
		t.Errorf("d5 holds %v, want white rook", pos.PieceAt(4, 3))
	}
	if m.String() != "d1xd5" {
		t.Errorf("String() = %q, want d1xd5", m.String())
	}
}

func TestEnPassantRemovesCapturedPawn(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1")
	selectSquare(t, pos, "e5")

	assertSameSquares(t, pos.LegalMoves(), mustSquares(t, "e6", "d6"))

	m, _ := pos.ApplyMove(5, 3)
	if !m.EnPassant || m.Captured != BlackPawn {
		t.Errorf("move record %+v, want en passant capture of a black pawn", m)
	}
	if pos.PieceAt(4, 3) != NoPiece {
		t.Error("d5 pawn should have been removed")
	}
	if pos.PieceAt(5, 3) != WhitePawn {
		t.Error("white pawn should stand on d6")
	}
}

func TestToggleSelect(t *testing.T) {
	pos := NewPosition()

	pos.ToggleSelect(1, 0)
	if sq, ok := pos.Selection(); !ok || sq != NewSquare(1, 0) {
		t.Fatalf("Selection() = %v, %v; want a2", sq, ok)
	}

	pos.ToggleSelect(1, 1)
	if sq, _ := pos.Selection(); sq != NewSquare(1, 1) {
		t.Fatalf("Selection() = %v, want b2", sq)
	}

	before := pos.FEN()
	pos.ToggleSelect(1, 1)
	if _, ok := pos.Selection(); ok {
		t.Error("selecting the same square again should cancel")
	}
	if pos.FEN() != before {
		t.Error("cancelling a selection must not touch the board")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	pos.Select(1, 0)

	c := pos.Clone()
	c.ApplyMove(2, 0)

	if pos.PieceAt(1, 0) != WhitePawn || pos.SideToMove != White {
		t.Error("mutating the clone changed the original")
	}
	if sq, ok := pos.Selection(); !ok || sq != NewSquare(1, 0) {
		t.Error("original selection lost after cloning")
	}
}

func TestOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected an index panic for rank 8")
		}
	}()
	NewPosition().PieceAt(8, 0)
}
