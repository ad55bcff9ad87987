package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewGame(t *testing.T) {
	m := NewManager()
	g, err := m.NewGame("")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := uuid.Parse(g.ID); err != nil {
		t.Errorf("game ID %q is not a UUID: %v", g.ID, err)
	}

	got, err := m.Get(g.ID)
	if err != nil || got != g {
		t.Fatalf("Get(%s) = %v, %v", g.ID, got, err)
	}

	st := g.State()
	if st.SideToMove != "White" || st.Status != "ongoing" || len(st.Pieces) != 32 {
		t.Errorf("unexpected initial state %+v", st)
	}
}

func TestNewGameRejectsBadFEN(t *testing.T) {
	if _, err := NewManager().NewGame("not a fen"); err == nil {
		t.Error("expected an error for a malformed FEN")
	}
}

func TestGetMissing(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Get error = %v, want ErrGameNotFound", err)
	}
	if err := m.Delete("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Delete error = %v, want ErrGameNotFound", err)
	}
}

func TestSelectAndMove(t *testing.T) {
	g, _ := NewManager().NewGame("")

	st, err := g.Select("g1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if st.Selected != "g1" || len(st.LegalMoves) != 2 {
		t.Errorf("select g1 state %+v", st)
	}

	if _, err := g.Select("e7"); !errors.Is(err, ErrNotYourPiece) {
		t.Errorf("Select(e7) error = %v, want ErrNotYourPiece", err)
	}

	st, err = g.Move("g1", "f3")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if st.SideToMove != "Black" || st.Selected != "" || st.Pieces["f3"] != "N" {
		t.Errorf("after Ng1-f3 state %+v", st)
	}
	if len(st.Moves) != 1 || st.Moves[0] != "g1-f3" {
		t.Errorf("Moves = %v", st.Moves)
	}
}

func TestSelectTwiceCancels(t *testing.T) {
	g, _ := NewManager().NewGame("")
	g.Select("e2")

	st, err := g.Select("e2")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if st.Selected != "" || len(st.LegalMoves) != 0 {
		t.Errorf("second select should cancel, got %+v", st)
	}
}

func TestMoveRejectsSelfCheck(t *testing.T) {
	g, _ := NewManager().NewGame("4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")

	if _, err := g.Move("e2", "a2"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Move error = %v, want ErrIllegalMove", err)
	}
	if st := g.State(); st.SideToMove != "White" {
		t.Error("rejected move passed the turn")
	}
}

func TestRefusedMoveKeepsSelection(t *testing.T) {
	g, _ := NewManager().NewGame("")
	g.Select("g1")

	if _, err := g.Move("e2", "e5"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Move error = %v, want ErrIllegalMove", err)
	}
	st := g.State()
	if st.Selected != "g1" || len(st.LegalMoves) != 2 {
		t.Errorf("selection after refused move = %q %v, want g1 with 2 moves", st.Selected, st.LegalMoves)
	}

	fresh, _ := NewManager().NewGame("")
	fresh.Move("e2", "e5")
	if st := fresh.State(); st.Selected != "" || len(st.LegalMoves) != 0 {
		t.Errorf("refused move left a selection: %+v", st)
	}
}

func TestConcurrentSelects(t *testing.T) {
	g, _ := NewManager().NewGame("")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.State()
			g.Select("b1")
		}()
	}
	wg.Wait()

	if st := g.State(); st.FEN != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1" {
		t.Errorf("board changed under concurrent selects: %s", st.FEN)
	}
}

func TestPruneIdle(t *testing.T) {
	m := NewManager()
	old, _ := m.NewGame("")
	fresh, _ := m.NewGame("")

	old.mu.Lock()
	old.updatedAt = time.Now().Add(-2 * time.Hour)
	old.mu.Unlock()

	if n := m.PruneIdle(time.Hour); n != 1 {
		t.Errorf("PruneIdle removed %d games, want 1", n)
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh game pruned: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}
