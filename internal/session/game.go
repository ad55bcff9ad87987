package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hailam/chessboard/internal/board"
)

// Game is one network game.
type Game struct {
	ID string

	mu        sync.Mutex
	pos       *board.Position
	legal     []board.Square
	moves     []string
	createdAt time.Time
	updatedAt time.Time
}

// GameState is the JSON view of a game sent to clients.
type GameState struct {
	ID         string            `json:"id"`
	FEN        string            `json:"fen"`
	Pieces     map[string]string `json:"pieces"`
	SideToMove string            `json:"side_to_move"`
	Selected   string            `json:"selected,omitempty"`
	LegalMoves []string          `json:"legal_moves"`
	InCheck    bool              `json:"in_check"`
	Status     string            `json:"status"`
	Moves      []string          `json:"moves"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// State returns a snapshot of the game.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

// Select selects a square of the side to move, or cancels if it is already
// selected, and returns the state with the legal destinations.
func (g *Game) Select(square string) (GameState, error) {
	sq, err := board.ParseSquare(square)
	if err != nil {
		return GameState{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.selectLocked(sq); err != nil {
		return GameState{}, err
	}
	return g.stateLocked(), nil
}

// Move plays from -> to for the side to move.
func (g *Game) Move(from, to string) (GameState, error) {
	fromSq, err := board.ParseSquare(from)
	if err != nil {
		return GameState{}, err
	}
	toSq, err := board.ParseSquare(to)
	if err != nil {
		return GameState{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// A refused move leaves the previous selection in place.
	prev, hadSelection := g.pos.Selection()
	prevLegal := g.legal
	restore := func() {
		g.pos.Deselect()
		if hadSelection {
			g.pos.Select(prev.Rank(), prev.File())
		}
		g.legal = prevLegal
	}

	if !hadSelection || prev != fromSq {
		if err := g.selectLocked(fromSq); err != nil {
			return GameState{}, err
		}
	}
	if !slices.Contains(g.legal, toSq) {
		restore()
		return GameState{}, fmt.Errorf("%w: %s-%s", ErrIllegalMove, fromSq, toSq)
	}

	m, _ := g.pos.ApplyMove(toSq.Rank(), toSq.File())
	g.moves = append(g.moves, m.String())
	g.legal = nil
	g.updatedAt = time.Now()

	return g.stateLocked(), nil
}

// selectLocked toggles the selection on sq. Only pieces of the side to move
// can become selected; a selected square may always be cancelled.
func (g *Game) selectLocked(sq board.Square) error {
	if cur, ok := g.pos.Selection(); !ok || cur != sq {
		piece := g.pos.At(sq)
		if piece == board.NoPiece || piece.Color() != g.pos.SideToMove {
			return fmt.Errorf("%w: %s", ErrNotYourPiece, sq)
		}
	}

	g.pos.ToggleSelect(sq.Rank(), sq.File())
	g.legal = nil
	if _, ok := g.pos.Selection(); ok {
		g.legal = g.pos.LegalMoves()
	}
	g.updatedAt = time.Now()
	return nil
}

func (g *Game) stateLocked() GameState {
	st := GameState{
		ID:         g.ID,
		FEN:        g.pos.FEN(),
		Pieces:     make(map[string]string, 32),
		SideToMove: g.pos.SideToMove.String(),
		LegalMoves: make([]string, 0, len(g.legal)),
		InCheck:    g.pos.InCheck(g.pos.SideToMove),
		Status:     g.pos.Status().String(),
		Moves:      slices.Clone(g.moves),
		UpdatedAt:  g.updatedAt,
	}
	if st.Moves == nil {
		st.Moves = []string{}
	}

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if piece := g.pos.PieceAt(rank, file); piece != board.NoPiece {
				st.Pieces[board.NewSquare(rank, file).String()] = piece.String()
			}
		}
	}
	if sq, ok := g.pos.Selection(); ok {
		st.Selected = sq.String()
	}
	for _, to := range g.legal {
		st.LegalMoves = append(st.LegalMoves, to.String())
	}
	return st
}

func (g *Game) lastUpdate() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updatedAt
}
