package board

// GameStatus describes the side to move's situation.
type GameStatus uint8

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
)

// String returns the status name.
func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// LegalMoves returns the pseudo-legal destinations of the selected piece that
// do not leave its own king attacked. Each candidate is tried on a throwaway
// clone. It returns nil if nothing is selected.
func (p *Position) LegalMoves() []Square {
	candidates := p.PseudoLegalMoves()
	if len(candidates) == 0 {
		return nil
	}

	legal := make([]Square, 0, len(candidates))
	for _, to := range candidates {
		probe := p.Clone()
		probe.ApplyMove(to.Rank(), to.File())

		// ApplyMove flipped the turn, so the mover is the other side now.
		if !probe.InCheck(probe.SideToMove.Other()) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMovesFrom selects (rank, file) and returns its legal destinations.
// The selection is left in place.
func (p *Position) LegalMovesFrom(rank, file int) []Square {
	p.Select(rank, file)
	return p.LegalMoves()
}

// HasLegalMoves reports whether any piece of color c has a legal destination.
// The position's selection and side to move are left untouched.
func (p *Position) HasLegalMoves(c Color) bool {
	probe := p.Clone()
	probe.SideToMove = c
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := probe.squares[rank][file]
			if piece == NoPiece || piece.Color() != c {
				continue
			}
			if len(probe.LegalMovesFrom(rank, file)) > 0 {
				return true
			}
		}
	}
	return false
}

// Status returns Checkmate or Stalemate when the side to move has no legal
// move, Ongoing otherwise.
func (p *Position) Status() GameStatus {
	if p.HasLegalMoves(p.SideToMove) {
		return Ongoing
	}
	if p.InCheck(p.SideToMove) {
		return Checkmate
	}
	return Stalemate
}
