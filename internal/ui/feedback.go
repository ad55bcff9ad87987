package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/board"
)

// InvalidMoveReason explains why a drop was refused.
type InvalidMoveReason int

const (
	ReasonUnknown InvalidMoveReason = iota
	ReasonWouldLeaveKingInCheck
	ReasonBlockedByOwnPiece
	ReasonInvalidPieceMovement
)

func (r InvalidMoveReason) String() string {
	switch r {
	case ReasonWouldLeaveKingInCheck:
		return "Illegal move - King would be in check"
	case ReasonBlockedByOwnPiece:
		return "Square occupied by your piece"
	case ReasonInvalidPieceMovement:
		return "Invalid move for this piece"
	default:
		return "Invalid move"
	}
}

// ToastType selects a toast's colors.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastSuccess
)

type toast struct {
	message string
	kind    ToastType
	start   time.Time
	ttl     time.Duration
}

// alpha fades the toast in and out over 200ms at either end.
func (t *toast) alpha(now time.Time) float64 {
	const fade = 0.2
	elapsed := now.Sub(t.start).Seconds()
	remaining := t.ttl.Seconds() - elapsed
	switch {
	case elapsed < fade:
		return elapsed / fade
	case remaining < fade:
		return math.Max(remaining/fade, 0)
	default:
		return 1
	}
}

// ToastManager keeps at most three stacked notifications.
type ToastManager struct {
	toasts []*toast
}

const maxToasts = 3

func (tm *ToastManager) Show(message string, kind ToastType, ttl time.Duration) {
	tm.toasts = append(tm.toasts, &toast{message: message, kind: kind, start: time.Now(), ttl: ttl})
	if len(tm.toasts) > maxToasts {
		tm.toasts = tm.toasts[len(tm.toasts)-maxToasts:]
	}
}

func (tm *ToastManager) Update() {
	now := time.Now()
	live := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Sub(t.start) < t.ttl {
			live = append(live, t)
		}
	}
	tm.toasts = live
}

func (tm *ToastManager) Draw(screen *ebiten.Image, scale float64) {
	face := FaceWithSize(defaultFontSize * scale)
	if face == nil {
		return
	}

	now := time.Now()
	padding := 12 * scale
	y := 50 * scale
	for _, t := range tm.toasts {
		a := t.alpha(now)
		bg := color.RGBA{50, 100, 150, uint8(220 * a)}
		fg := color.RGBA{255, 255, 255, uint8(255 * a)}
		switch t.kind {
		case ToastWarning:
			bg = color.RGBA{180, 140, 20, uint8(220 * a)}
			fg = color.RGBA{40, 30, 0, uint8(255 * a)}
		case ToastSuccess:
			bg = color.RGBA{50, 150, 50, uint8(220 * a)}
		}

		w, h := MeasureText(t.message, face)
		boxW, boxH := w+padding*2, h+padding*2
		x := float64(BoardSize)*scale/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), bg, false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding)
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, t.message, face, op)

		y += boxH + 8*scale
	}
}

type shake struct {
	sq    board.Square
	start time.Time
}

type flash struct {
	sq    board.Square
	start time.Time
	color color.RGBA
}

const (
	shakeDuration  = 300 * time.Millisecond
	shakeIntensity = 8.0
	flashDuration  = 400 * time.Millisecond
)

// AnimationManager drives the shake and flash effects of a refused move.
type AnimationManager struct {
	shakes  []shake
	flashes []flash
}

func (am *AnimationManager) StartShake(sq board.Square) {
	am.shakes = append(am.shakes, shake{sq: sq, start: time.Now()})
}

func (am *AnimationManager) StartFlash(sq board.Square, c color.RGBA) {
	am.flashes = append(am.flashes, flash{sq: sq, start: time.Now(), color: c})
}

func (am *AnimationManager) Update() {
	now := time.Now()
	shakes := am.shakes[:0]
	for _, s := range am.shakes {
		if now.Sub(s.start) < shakeDuration {
			shakes = append(shakes, s)
		}
	}
	am.shakes = shakes

	flashes := am.flashes[:0]
	for _, f := range am.flashes {
		if now.Sub(f.start) < flashDuration {
			flashes = append(flashes, f)
		}
	}
	am.flashes = flashes
}

// ShakeOffset returns the horizontal displacement of the piece on sq: a
// damped sine over the shake duration.
func (am *AnimationManager) ShakeOffset(sq board.Square) float64 {
	for _, s := range am.shakes {
		if s.sq != sq {
			continue
		}
		progress := time.Since(s.start).Seconds() / shakeDuration.Seconds()
		if progress >= 1 {
			return 0
		}
		return shakeIntensity * math.Exp(-5*progress) * math.Sin(40*progress)
	}
	return 0
}

func (am *AnimationManager) DrawFlashes(screen *ebiten.Image, r *Renderer) {
	for _, f := range am.flashes {
		progress := time.Since(f.start).Seconds() / flashDuration.Seconds()
		if progress >= 1 {
			continue
		}
		c := f.color
		c.A = uint8(float64(c.A) * (1 - progress))
		r.fillSquare(screen, f.sq, c)
	}
}

// FeedbackManager turns game events into sounds, toasts and animations.
type FeedbackManager struct {
	toasts     ToastManager
	animations AnimationManager
	audio      *AudioManager
}

func NewFeedbackManager() *FeedbackManager {
	return &FeedbackManager{audio: NewAudioManager()}
}

func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
	fm.animations.Update()
}

func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	fm.animations.DrawFlashes(screen, r)
	fm.toasts.Draw(screen, r.scale)
}

func (fm *FeedbackManager) Animations() *AnimationManager {
	return &fm.animations
}

func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}

func (fm *FeedbackManager) OnInvalidMove(from, to board.Square, reason InvalidMoveReason) {
	fm.toasts.Show(reason.String(), ToastWarning, 2*time.Second)
	fm.animations.StartShake(from)
	fm.animations.StartFlash(to, color.RGBA{255, 80, 80, 150})
	fm.audio.Play(SoundInvalid)
}

func (fm *FeedbackManager) OnMoveMade(m board.Move) {
	if m.IsCapture() {
		fm.audio.Play(SoundCapture)
	} else {
		fm.audio.Play(SoundMove)
	}
	if m.EnPassant {
		fm.toasts.Show("En passant", ToastInfo, 1500*time.Millisecond)
	}
}

func (fm *FeedbackManager) OnCheck() {
	fm.toasts.Show("Check!", ToastWarning, 2*time.Second)
	fm.audio.Play(SoundCheck)
}

func (fm *FeedbackManager) OnCheckmate(winner board.Color) {
	fm.toasts.Show("Checkmate! "+winner.String()+" wins!", ToastSuccess, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}

func (fm *FeedbackManager) OnStalemate() {
	fm.toasts.Show("Stalemate - Draw", ToastInfo, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}

// Notify shows a plain informational toast.
func (fm *FeedbackManager) Notify(message string) {
	fm.toasts.Show(message, ToastInfo, 2*time.Second)
}
