package ui

import (
	"bytes"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 16.0
)

var (
	fontsOnce     sync.Once
	regularSource *text.GoTextFaceSource
	boldSource    *text.GoTextFaceSource
)

func loadFonts() {
	var err error
	if regularSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		log.Printf("[UI] loading regular font: %v", err)
	}
	if boldSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		log.Printf("[UI] loading bold font: %v", err)
	}
}

// RegularFace returns the Go Regular face at the default size, or nil if the
// font could not be parsed.
func RegularFace() *text.GoTextFace {
	return FaceWithSize(defaultFontSize)
}

// BoldFace returns the Go Bold face at the title size.
func BoldFace() *text.GoTextFace {
	fontsOnce.Do(loadFonts)
	if boldSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: boldSource, Size: titleFontSize}
}

func FaceWithSize(size float64) *text.GoTextFace {
	fontsOnce.Do(loadFonts)
	if regularSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: regularSource, Size: size}
}

// MeasureText returns the advance and line height of s.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
