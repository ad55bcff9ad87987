package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/storage"
)

func run(t *testing.T, c *Console, input string) string {
	t.Helper()
	var out bytes.Buffer
	c.in = strings.NewReader(input)
	c.out = &out
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestSelectAndMove(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "select e2\nmove e4\n")

	for _, want := range []string{"moves e2: e3 e4", "moved e2-e4", "Black to move"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if c.Position().SideToMove != board.Black {
		t.Error("turn did not pass to Black")
	}
}

func TestRejectsOpponentPiece(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "select e7\n")
	if !strings.Contains(out, "error: no White piece on e7") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRejectsIllegalDestination(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "fen 4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1\nmove e2d2\n")
	if !strings.Contains(out, "error: illegal move: d2") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if c.Position().SideToMove != board.White {
		t.Error("illegal move must not pass the turn")
	}
}

func TestMoveWithoutSelection(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "move e4\n")
	if !strings.Contains(out, "error: no piece selected") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDeselect(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "select g1\nselect g1\nmoves\n")
	if !strings.Contains(out, "deselected") || !strings.Contains(out, "moves: none selected") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMoveFromSelectedSquare(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "select e2\nmove e2e4\n")

	if strings.Contains(out, "deselected") || strings.Contains(out, "error:") {
		t.Errorf("move from the selected square dropped the selection:\n%s", out)
	}
	if !strings.Contains(out, "moved e2-e4") {
		t.Errorf("output missing the move:\n%s", out)
	}
}

func TestMoveFromOtherSquareReselects(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "select e2\nmove g1f3\n")
	if !strings.Contains(out, "moved g1-f3") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFoolsMateTranscript(t *testing.T) {
	c := New(nil, nil)
	out := run(t, c, "move f2f3\nmove e7e5\nmove g2g4\nmove d8h4\nhistory\n")

	if !strings.Contains(out, "checkmate, Black wins") {
		t.Errorf("expected checkmate:\n%s", out)
	}
	if !strings.Contains(out, "4. d8-h4") {
		t.Errorf("history missing last move:\n%s", out)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	c := New(nil, nil)
	c.SetStorage(store)
	run(t, c, "move e2e4\nsave\n")

	fresh := New(nil, nil)
	fresh.SetStorage(store)
	out := run(t, fresh, "load\nfen\n")

	if !strings.Contains(out, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1") {
		t.Errorf("loaded position wrong:\n%s", out)
	}
}

func TestFinishedGameIsRecorded(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	c := New(nil, nil)
	c.SetStorage(store)
	out := run(t, c, "move f2f3\nmove e7e5\nmove g2g4\nmove d8h4\nstats\n")

	if !strings.Contains(out, "games 1, white 0, black 1, stalemates 0, average 4.0 moves") {
		t.Errorf("stats not recorded:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	out := run(t, New(nil, nil), "castle\nquit\nnew\n")
	if !strings.Contains(out, `error: unknown command "castle"`) {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "ok") {
		t.Error("commands after quit should not run")
	}
}
