package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LabelStyle describes how RenderLabel draws text.
type LabelStyle struct {
	Foreground color.Color
	Background color.Color
	Padding    int
}

// NewLabelFace returns Go Regular at size points.
func NewLabelFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	return face, nil
}

// FallbackFace is the built-in bitmap face used when no outline font loads.
func FallbackFace() font.Face {
	return basicfont.Face7x13
}

// MeasureLabel returns the pixel size RenderLabel produces for text.
func MeasureLabel(face font.Face, text string, padding int) (w, h int) {
	m := face.Metrics()
	w = font.MeasureString(face, text).Ceil() + 2*padding
	h = (m.Ascent + m.Descent).Ceil() + 2*padding
	return w, h
}

// RenderLabel draws text on a filled rectangle sized to fit it.
func RenderLabel(face font.Face, text string, style LabelStyle) *image.RGBA {
	w, h := MeasureLabel(face, text, style.Padding)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if style.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)
	}

	fg := style.Foreground
	if fg == nil {
		fg = color.White
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(style.Padding, style.Padding+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}
