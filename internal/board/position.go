package board

import (
	"fmt"
	"strings"
)

// Move records what ApplyMove did. It is informational only.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	EnPassant bool
}

// IsCapture returns true if the move removed an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// String returns the move in long algebraic form, e.g. "e2-e4" or "e5xd6".
func (m Move) String() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return m.From.String() + sep + m.To.String()
}

// Position is the mutable board state: the grid, the side to move and the
// caller's pending selection.
type Position struct {
	squares [8][8]Piece // [rank][file]

	SideToMove Color

	// KingInCheck is refreshed by UpdateCheckStatus; it is not kept current
	// by ApplyMove.
	KingInCheck [2]bool

	selection Square
}

// NewEmptyPosition returns a position with no pieces, White to move.
func NewEmptyPosition() *Position {
	p := &Position{
		SideToMove: White,
		selection:  NoSquare,
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			p.squares[rank][file] = NoPiece
		}
	}
	return p
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	for file := 0; file < 8; file++ {
		p.Place(NewPiece(backRank[file], White), 0, file)
		p.Place(WhitePawn, 1, file)
		p.Place(BlackPawn, 6, file)
		p.Place(NewPiece(backRank[file], Black), 7, file)
	}
	return p
}

// Place puts a piece on a square, replacing whatever was there.
func (p *Position) Place(piece Piece, rank, file int) {
	p.squares[rank][file] = piece
}

// Remove empties a square and returns its previous contents.
func (p *Position) Remove(rank, file int) Piece {
	piece := p.squares[rank][file]
	p.squares[rank][file] = NoPiece
	return piece
}

// PieceAt returns the piece at (rank, file), or NoPiece if empty.
func (p *Position) PieceAt(rank, file int) Piece {
	return p.squares[rank][file]
}

// At returns the piece on sq, or NoPiece if empty.
func (p *Position) At(sq Square) Piece {
	return p.squares[sq.Rank()][sq.File()]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(rank, file int) bool {
	return p.squares[rank][file] == NoPiece
}

// Select records (rank, file) as the pending square. The caller is trusted to
// pass a square holding a piece of the side to move.
func (p *Position) Select(rank, file int) {
	p.selection = NewSquare(rank, file)
}

// Deselect clears the pending square.
func (p *Position) Deselect() {
	p.selection = NoSquare
}

// ToggleSelect selects (rank, file), or clears the selection if that square is
// already selected.
func (p *Position) ToggleSelect(rank, file int) {
	if p.selection == NewSquare(rank, file) {
		p.Deselect()
		return
	}
	p.Select(rank, file)
}

// Selection returns the pending square and whether one is set.
func (p *Position) Selection() (Square, bool) {
	return p.selection, p.selection != NoSquare
}

// ApplyMove moves the selected piece to (rank, file), capturing by overwrite,
// clears the selection and passes the turn. A pawn stepping diagonally onto an
// empty square also removes the enemy pawn beside it (en passant).
// Without a selection it does nothing and returns false.
func (p *Position) ApplyMove(rank, file int) (Move, bool) {
	from, ok := p.Selection()
	if !ok {
		return Move{}, false
	}

	fromRank, fromFile := from.Rank(), from.File()
	piece := p.squares[fromRank][fromFile]
	m := Move{
		From:     from,
		To:       NewSquare(rank, file),
		Piece:    piece,
		Captured: p.squares[rank][file],
	}

	if piece.Type() == Pawn && file != fromFile && m.Captured == NoPiece {
		if beside := p.squares[fromRank][file]; beside.Type() == Pawn && beside.IsEnemyOf(piece) {
			m.Captured = p.Remove(fromRank, file)
			m.EnPassant = true
		}
	}

	p.squares[fromRank][fromFile] = NoPiece
	p.squares[rank][file] = piece

	p.selection = NoSquare
	p.SideToMove = p.SideToMove.Other()

	return m, true
}

// Clone returns an independent deep copy of the position.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// String returns a visual representation of the position, rank 8 on top.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.squares[rank][file].Symbol())
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a  b  c  d  e  f  g  h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	return sb.String()
}
