package board

import "strings"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
	NoColor // color of an empty square
)

// Other returns the opposing side.
func (c Color) Other() Color {
	return c ^ 1
}

var colorNames = [...]string{"White", "Black", "NoColor"}

func (c Color) String() string {
	return colorNames[min(c, NoColor)]
}

// PieceType is the kind of a piece, independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var typeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	return typeNames[min(pt, NoPieceType)]
}

// Piece packs kind and color into one byte as kind + color*6. Empty squares
// hold NoPiece, whose Color is NoColor.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// fenChars is indexed by Piece.
const fenChars = "PNBRQKpnbrqk"

func NewPiece(pt PieceType, c Color) Piece {
	return Piece(pt) + Piece(c)*6
}

// Type returns the kind of p, or NoPieceType for an empty square.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	return Color(min(p/6, Piece(NoColor)))
}

// IsEnemyOf reports whether p and other are pieces of opposite colors.
func (p Piece) IsEnemyOf(other Piece) bool {
	return p != NoPiece && other != NoPiece && p.Color() != other.Color()
}

// String returns the FEN letter of p, or a space for an empty square.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return fenChars[p : p+1]
}

var glyphs = [6]string{"♙", "♘", "♗", "♖", "♕", "♔"}

// Symbol is the diagram cell for p: a glyph plus W or B, e.g. "♙W".
func (p Piece) Symbol() string {
	if p >= NoPiece {
		return ". "
	}
	return glyphs[p.Type()] + p.Color().String()[:1]
}

// PieceFromChar maps a FEN letter to its piece. Anything else is NoPiece.
func PieceFromChar(c byte) Piece {
	if i := strings.IndexByte(fenChars, c); i >= 0 {
		return Piece(i)
	}
	return NoPiece
}
