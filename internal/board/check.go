package board

import "slices"

// KingSquare locates the king of color c by scanning the board.
func (p *Position) KingSquare(c Color) (Square, bool) {
	king := NewPiece(King, c)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if p.squares[rank][file] == king {
				return NewSquare(rank, file), true
			}
		}
	}
	return NoSquare, false
}

// InCheck reports whether the king of color c is attacked. A side without a
// king is never in check.
func (p *Position) InCheck(c Color) bool {
	ksq, ok := p.KingSquare(c)
	if !ok {
		return false
	}
	return p.IsAttacked(ksq, c.Other())
}

// IsAttacked reports whether any piece of color by has sq among its generated
// destinations. Each attacker is run through the move generator as a temporary
// selection; the caller's selection is restored before returning.
// Pawns contribute their diagonal captures only: a push never takes a piece.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	saved := p.selection
	defer func() { p.selection = saved }()

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := p.squares[rank][file]
			if piece == NoPiece || piece.Color() != by {
				continue
			}
			p.selection = NewSquare(rank, file)
			if slices.Contains(p.generate(p.selection, genAttacks), sq) {
				return true
			}
		}
	}
	return false
}

// UpdateCheckStatus refreshes KingInCheck for both colors.
func (p *Position) UpdateCheckStatus() {
	p.KingInCheck[White] = p.InCheck(White)
	p.KingInCheck[Black] = p.InCheck(Black)
}
