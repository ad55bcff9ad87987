package board

// genMode controls which pawn moves the generator emits.
type genMode uint8

const (
	genMoves   genMode = iota // every candidate destination
	genAttacks                // squares a pawn covers diagonally; no pushes
)

type offset struct{ dr, df int }

var (
	rookDirs   = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingSteps  = queenDirs

	knightJumps = []offset{
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	}
)

// PseudoLegalMoves returns the destinations reachable by the selected piece
// under its movement rule, ignoring whether the move exposes its own king.
// The order is deterministic. It returns nil if nothing is selected.
func (p *Position) PseudoLegalMoves() []Square {
	sq, ok := p.Selection()
	if !ok {
		return nil
	}
	return p.generate(sq, genMoves)
}

// generate enumerates candidate destinations for the piece on sq.
func (p *Position) generate(sq Square, mode genMode) []Square {
	piece := p.At(sq)
	if piece == NoPiece {
		return nil
	}

	moves := make([]Square, 0, 28)
	rank, file := sq.Rank(), sq.File()

	switch piece.Type() {
	case Pawn:
		moves = p.pawnMoves(moves, piece, rank, file, mode)
	case Knight:
		moves = p.stepMoves(moves, piece, rank, file, knightJumps)
	case Bishop:
		moves = p.slideMoves(moves, piece, rank, file, bishopDirs)
	case Rook:
		moves = p.slideMoves(moves, piece, rank, file, rookDirs)
	case Queen:
		moves = p.slideMoves(moves, piece, rank, file, queenDirs)
	case King:
		moves = p.stepMoves(moves, piece, rank, file, kingSteps)
	case NoPieceType:
	}
	return moves
}

// pawnMoves appends pushes, diagonal captures and the en passant target.
// The en passant trigger is positional: the pawn stands on its fifth rank next
// to an enemy pawn. Whether that pawn just double-stepped is not tracked.
func (p *Position) pawnMoves(moves []Square, pawn Piece, rank, file int, mode genMode) []Square {
	dir, startRank, passantRank := 1, 1, 4
	if pawn.Color() == Black {
		dir, startRank, passantRank = -1, 6, 3
	}

	ahead := rank + dir
	if ahead < 0 || ahead > 7 {
		return moves
	}

	if mode == genMoves && p.IsEmpty(ahead, file) {
		moves = append(moves, NewSquare(ahead, file))
		if rank == startRank && p.IsEmpty(rank+2*dir, file) {
			moves = append(moves, NewSquare(rank+2*dir, file))
		}
	}

	for _, df := range [2]int{-1, 1} {
		f := file + df
		if f < 0 || f > 7 {
			continue
		}
		// Attack probes also count empty diagonals: a pawn covers them.
		target := p.squares[ahead][f]
		if target.IsEnemyOf(pawn) || (mode == genAttacks && target == NoPiece) {
			moves = append(moves, NewSquare(ahead, f))
		}
	}

	if mode == genMoves && rank == passantRank {
		for _, df := range [2]int{-1, 1} {
			f := file + df
			if f < 0 || f > 7 {
				continue
			}
			beside := p.squares[rank][f]
			if beside.Type() == Pawn && beside.IsEnemyOf(pawn) && p.IsEmpty(ahead, f) {
				moves = append(moves, NewSquare(ahead, f))
			}
		}
	}

	return moves
}

// slideMoves walks each ray until the edge or the first occupied square,
// which is included only when it holds an enemy piece.
func (p *Position) slideMoves(moves []Square, piece Piece, rank, file int, dirs []offset) []Square {
	for _, d := range dirs {
		r, f := rank+d.dr, file+d.df
		for onBoard(r, f) {
			target := p.squares[r][f]
			if target == NoPiece {
				moves = append(moves, NewSquare(r, f))
			} else {
				if target.IsEnemyOf(piece) {
					moves = append(moves, NewSquare(r, f))
				}
				break
			}
			r += d.dr
			f += d.df
		}
	}
	return moves
}

// stepMoves applies single fixed offsets; intervening squares are irrelevant.
func (p *Position) stepMoves(moves []Square, piece Piece, rank, file int, steps []offset) []Square {
	for _, d := range steps {
		r, f := rank+d.dr, file+d.df
		if !onBoard(r, f) {
			continue
		}
		if target := p.squares[r][f]; target == NoPiece || target.IsEnemyOf(piece) {
			moves = append(moves, NewSquare(r, f))
		}
	}
	return moves
}
