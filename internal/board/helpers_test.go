package board

import (
	"slices"
	"testing"
)

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func mustSquares(t *testing.T, names ...string) []Square {
	t.Helper()
	out := make([]Square, 0, len(names))
	for _, n := range names {
		sq, err := ParseSquare(n)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", n, err)
		}
		out = append(out, sq)
	}
	return out
}

func selectSquare(t *testing.T, p *Position, name string) {
	t.Helper()
	sq := mustSquares(t, name)[0]
	p.Select(sq.Rank(), sq.File())
}

// assertSameSquares compares two destination lists as sets.
func assertSameSquares(t *testing.T, got, want []Square) {
	t.Helper()
	g := slices.Clone(got)
	w := slices.Clone(want)
	slices.Sort(g)
	slices.Sort(w)
	if !slices.Equal(g, w) {
		t.Errorf("squares = %v, want %v", g, w)
	}
}
