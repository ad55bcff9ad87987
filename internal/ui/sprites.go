// Package ui is the Ebitengine desktop front-end: board rendering, mouse
// selection and the side panel.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// renderScale oversamples the SVG rasterization so pieces stay sharp when the
// window is scaled.
const renderScale = 3.0

// pieceName returns the texture name of a piece, e.g. "pawn-white".
func pieceName(p board.Piece) string {
	return strings.ToLower(p.Type().String()) + "-" + strings.ToLower(p.Color().String())
}

// SpriteManager holds one rasterized texture per piece.
type SpriteManager struct {
	pieces map[board.Piece]*ebiten.Image
	size   int
	scale  float64
}

func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces: make(map[board.Piece]*ebiten.Image, 12),
		size:   size,
		scale:  1.0,
	}
	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			piece := board.NewPiece(pt, c)
			img, err := rasterizePiece(piece, int(float64(size)*renderScale))
			if err != nil {
				log.Printf("[UI] %v", err)
				continue
			}
			sm.pieces[piece] = ebiten.NewImageFromImage(img)
		}
	}
	return sm
}

func rasterizePiece(p board.Piece, px int) (*image.RGBA, error) {
	path := "assets/pieces/" + pieceName(p) + ".svg"
	data, err := pieceAssets.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	icon.SetTarget(0, 0, float64(px), float64(px))

	rgba := image.NewRGBA(image.Rect(0, 0, px, px))
	scanner := rasterx.NewScannerGV(px, px, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(px, px, scanner), 1.0)
	return rgba, nil
}

// SetScale sets the device scale the pieces are drawn at.
func (sm *SpriteManager) SetScale(scale float64) {
	sm.scale = scale
}

// Piece returns the texture for p, or nil if it failed to load.
func (sm *SpriteManager) Piece(p board.Piece) *ebiten.Image {
	return sm.pieces[p]
}

// DrawPieceAt draws p with its top-left corner at device pixel (x, y).
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sprite := sm.pieces[p]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(sm.scale/renderScale, sm.scale/renderScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(sprite, op)
}

func (sm *SpriteManager) Size() int {
	return sm.size
}
