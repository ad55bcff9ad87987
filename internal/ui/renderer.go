package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/board"
)

// Theme is the board color scheme.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
}

func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255},
		DarkSquare:     color.RGBA{181, 136, 99, 255},
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		LegalMoveColor: color.RGBA{130, 151, 105, 200},
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180},
		Background:     color.RGBA{40, 44, 52, 255},
	}
}

// Renderer draws the board and pieces. Coordinates passed in and out are
// logical pixels; the HiDPI scale is applied at draw time.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	scale      float64
	flipped    bool // Black at the bottom
}

func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
		scale:      1.0,
	}
}

func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

// SetFlipped puts rank 8 at the bottom when true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

func (r *Renderer) Flipped() bool {
	return r.flipped
}

func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard fills the 64 squares and the coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			c := r.theme.LightSquare
			if (rank+file)%2 == 0 {
				c = r.theme.DarkSquare
			}
			r.fillSquare(screen, board.NewSquare(rank, file), c)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels files along the bottom edge and ranks along the left.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := FaceWithSize(11 * r.scale)
	if face == nil {
		return
	}
	for i := 0; i < 8; i++ {
		file, rank := i, i
		if r.flipped {
			file, rank = 7-i, 7-i
		}

		// Label color contrasts with the square it sits on.
		fileSq := board.NewSquare(r.bottomRank(), file)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(r.s((i+1)*r.squareSize-10)), float64(r.s(r.boardSize-16)))
		op.ColorScale.ScaleWithColor(r.labelColor(fileSq))
		text.Draw(screen, string(rune('a'+file)), face, op)

		rankSq := board.NewSquare(rank, r.leftFile())
		op = &text.DrawOptions{}
		op.GeoM.Translate(float64(r.s(3)), float64(r.s((7-i)*r.squareSize+2)))
		op.ColorScale.ScaleWithColor(r.labelColor(rankSq))
		text.Draw(screen, string(rune('1'+rank)), face, op)
	}
}

func (r *Renderer) bottomRank() int {
	if r.flipped {
		return 7
	}
	return 0
}

func (r *Renderer) leftFile() int {
	if r.flipped {
		return 7
	}
	return 0
}

func (r *Renderer) labelColor(sq board.Square) color.RGBA {
	if (sq.Rank()+sq.File())%2 == 0 {
		return r.theme.LightSquare
	}
	return r.theme.DarkSquare
}

// DrawHighlights marks the last move, the selected square and its legal
// destinations.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, legal []board.Square, last *board.Move) {
	if last != nil {
		r.fillSquare(screen, last.From, r.theme.LastMoveColor)
		r.fillSquare(screen, last.To, r.theme.LastMoveColor)
	}
	if selected != board.NoSquare {
		r.fillSquare(screen, selected, r.theme.SelectedSquare)
	}
	for _, sq := range legal {
		x, y := r.SquareToScreen(sq)
		half := r.s(r.squareSize) / 2
		vector.DrawFilledCircle(screen, r.s(x)+half, r.s(y)+half, half*0.3, r.theme.LegalMoveColor, true)
	}
}

// DrawCheck tints the square of a king in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	r.fillSquare(screen, kingSq, r.theme.CheckColor)
}

func (r *Renderer) fillSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if sq == board.NoSquare {
		return
	}
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

// DrawPieces draws every piece except the one being dragged from skip.
// anims may be nil.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, skip board.Square, anims *AnimationManager) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(rank, file)
			piece := pos.PieceAt(rank, file)
			if piece == board.NoPiece || sq == skip {
				continue
			}

			x, y := r.SquareToScreen(sq)
			if anims != nil {
				dx := anims.ShakeOffset(sq)
				x += int(dx)
			}
			r.sprites.DrawPieceAt(screen, piece, int(r.s(x)), int(r.s(y)))
		}
	}
}

// DrawDraggedPiece centers piece on the logical mouse position.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, piece board.Piece, mouseX, mouseY int) {
	half := r.squareSize / 2
	r.sprites.DrawPieceAt(screen, piece, int(r.s(mouseX-half)), int(r.s(mouseY-half)))
}

// SquareToScreen returns the logical top-left corner of sq.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	col, row := sq.File(), 7-sq.Rank()
	if r.flipped {
		col, row = 7-col, 7-row
	}
	return col * r.squareSize, row * r.squareSize
}

// ScreenToSquare maps a logical pixel to the square under it, or NoSquare
// outside the board.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.NoSquare
	}
	col, row := x/r.squareSize, y/r.squareSize
	if r.flipped {
		col, row = 7-col, 7-row
	}
	return board.NewSquare(7-row, col)
}

func (r *Renderer) SquareSize() int {
	return r.squareSize
}

func (r *Renderer) Theme() *Theme {
	return r.theme
}
