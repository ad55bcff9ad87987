package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	SectionLabelH  = 20
	moveRowHeight  = 22
	statusBarH     = 70
)

var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusCheck     = color.RGBA{255, 120, 120, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// Button is a clickable rectangle in logical pixels.
type Button struct {
	X, Y, W, H int
	Label      func() string
	OnClick    func()
	primary    bool
	hovered    bool
	pressed    bool
}

// Panel is the side bar: game actions, the move list and the status line.
type Panel struct {
	game    *Game
	buttons []*Button
	scale   float64

	scrollY    int
	maxScrollY int
}

func NewPanel(g *Game) *Panel {
	p := &Panel{game: g, scale: 1.0}

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	half := (w - 8) / 2
	y := PanelPadding + 8

	label := func(s string) func() string { return func() string { return s } }

	p.buttons = []*Button{
		{X: x, Y: y, W: w, H: ButtonHeight, Label: label("New Game"), OnClick: g.NewGameAction, primary: true},
		{X: x, Y: y + ButtonHeight + 8, W: half, H: ButtonHeight - 6, Label: label("Flip Board"), OnClick: g.FlipAction},
		{X: x + half + 8, Y: y + ButtonHeight + 8, W: half, H: ButtonHeight - 6, Label: func() string {
			if g.SoundEnabled() {
				return "Sound: On"
			}
			return "Sound: Off"
		}, OnClick: g.ToggleSoundAction},
		{X: x, Y: y + 2*ButtonHeight + 10, W: half, H: ButtonHeight - 6, Label: label("Save"), OnClick: g.SaveAction},
		{X: x + half + 8, Y: y + 2*ButtonHeight + 10, W: half, H: ButtonHeight - 6, Label: label("Load"), OnClick: g.LoadAction},
	}
	return p
}

func (p *Panel) SetScale(scale float64) {
	p.scale = scale
}

func (p *Panel) historyTop() int {
	last := p.buttons[len(p.buttons)-1]
	return last.Y + last.H + SectionSpacing
}

// HandleInput updates hover state and fires clicks. It returns true if the
// panel consumed the input.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if wheel := input.WheelY(); wheel != 0 && mx >= BoardSize && my >= p.historyTop() {
		p.scrollY = max(0, min(p.maxScrollY, p.scrollY-int(wheel*30)))
	}

	clicked := false
	for _, b := range p.buttons {
		b.hovered = input.IsInBounds(b.X, b.Y, b.W, b.H)
		b.pressed = b.hovered && input.IsLeftPressed()
		if b.hovered && input.IsLeftJustPressed() && !clicked {
			b.OnClick()
			clicked = true
		}
	}
	return clicked || (mx >= BoardSize && input.IsLeftJustPressed())
}

func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.buttons {
		if b.hovered {
			return true
		}
	}
	return false
}

func (p *Panel) sc(v int) float32 {
	return float32(float64(v) * p.scale)
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, p.sc(BoardSize), 0, p.sc(PanelWidth), p.sc(ScreenHeight), panelBg, false)

	for _, b := range p.buttons {
		p.drawButton(screen, b)
	}

	top := p.historyTop()
	p.drawText(screen, "Moves", BoardSize+PanelPadding, top-SectionLabelH, textMuted)
	p.drawMoveHistory(screen, top+4)
	p.drawStatusBar(screen)
}

func (p *Panel) drawButton(screen *ebiten.Image, b *Button) {
	bg, border, fg := buttonBg, buttonBorder, textSecondary
	if b.primary {
		bg, border, fg = accentColor, accentPressed, textPrimary
	}
	switch {
	case b.pressed && b.primary:
		bg = accentPressed
	case b.pressed:
		bg = buttonPressedBg
	case b.hovered && b.primary:
		bg = accentHover
	case b.hovered:
		bg, border = buttonHoverBg, accentColor
	}

	vector.DrawFilledRect(screen, p.sc(b.X), p.sc(b.Y), p.sc(b.W), p.sc(b.H), bg, false)
	vector.StrokeRect(screen, p.sc(b.X), p.sc(b.Y), p.sc(b.W), p.sc(b.H), 1, border, false)
	p.drawTextCentered(screen, b.Label(), b.X+b.W/2, b.Y+b.H/2, fg)
}

// drawMoveHistory lists moves two per row, White then Black, scrolled by
// scrollY.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, top int) {
	moves := p.game.MoveHistory()
	x := BoardSize + PanelPadding
	if len(moves) == 0 {
		p.drawText(screen, "No moves yet", x, top+5, textMuted)
		return
	}

	bottom := ScreenHeight - statusBarH
	visible := bottom - top
	rows := (len(moves) + 1) / 2
	p.maxScrollY = max(0, rows*moveRowHeight-visible)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	first := p.scrollY / moveRowHeight
	y := top - p.scrollY%moveRowHeight
	for row := first; row < rows && y <= bottom-moveRowHeight; row++ {
		if y >= top {
			if row%2 == 1 {
				vector.DrawFilledRect(screen, p.sc(x-4), p.sc(y-2), p.sc(PanelWidth-PanelPadding*2+8), p.sc(moveRowHeight), moveRowAlt, false)
			}
			p.drawText(screen, fmt.Sprintf("%d.", row+1), x, y, textMuted)
			p.drawText(screen, moves[2*row], x+36, y, textPrimary)
			if 2*row+1 < len(moves) {
				p.drawText(screen, moves[2*row+1], x+130, y, textPrimary)
			}
		}
		y += moveRowHeight
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	y := ScreenHeight - statusBarH
	x := BoardSize + PanelPadding
	vector.DrawFilledRect(screen, p.sc(x), p.sc(y-10), p.sc(PanelWidth-PanelPadding*2), p.sc(1), dividerColor, false)

	pos := p.game.Position()
	switch {
	case p.game.GameOver():
		p.drawText(screen, p.game.GameResult(), x, y, statusGameOver)
	case p.game.InCheck():
		p.drawText(screen, pos.SideToMove.String()+" to move - check!", x, y, statusCheck)
	default:
		p.drawText(screen, pos.SideToMove.String()+" to move", x, y, textPrimary)
	}

	if sq, ok := pos.Selection(); ok {
		p.drawText(screen, fmt.Sprintf("Selected %s: %d moves", sq, len(p.game.LegalMoves())), x, y+22, textSecondary)
	}

	if st := p.game.Stats(); st != nil && st.GamesPlayed > 0 {
		line := fmt.Sprintf("%d games  W %d  B %d  D %d  avg %.0f moves",
			st.GamesPlayed, st.WhiteWins, st.BlackWins, st.Stalemates, st.AverageMoves())
		p.drawText(screen, line, x, y+44, textMuted)
	}
}

func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := FaceWithSize(defaultFontSize * p.scale)
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(p.sc(x)), float64(p.sc(y)))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, cx, cy int, c color.Color) {
	face := FaceWithSize(defaultFontSize * p.scale)
	if face == nil {
		return
	}
	w, h := MeasureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(p.sc(cx))-w/2, float64(p.sc(cy))-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
