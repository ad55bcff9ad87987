package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler snapshots mouse and keyboard state once per frame so every
// component sees the same events.
type InputHandler struct {
	mouseX, mouseY   int // logical pixels
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	wheelY           float64
	keys             []ebiten.Key
}

func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update reads the current frame's input. scale is the device scale factor.
func (ih *InputHandler) Update(scale float64) {
	if scale < 1.0 {
		scale = 1.0
	}
	rawX, rawY := ebiten.CursorPosition()
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	_, ih.wheelY = ebiten.Wheel()
	ih.keys = inpututil.AppendJustPressedKeys(ih.keys[:0])
}

func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// WheelY is the vertical scroll delta of this frame.
func (ih *InputHandler) WheelY() float64 {
	return ih.wheelY
}

// KeyJustPressed reports whether key went down this frame.
func (ih *InputHandler) KeyJustPressed(key ebiten.Key) bool {
	for _, k := range ih.keys {
		if k == key {
			return true
		}
	}
	return false
}

// IsInBounds reports whether the mouse is inside the logical rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}
