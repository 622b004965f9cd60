package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"

	// Decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrTruncated is returned when image data ends early.
	ErrTruncated = errors.New("image data truncated")

	// ErrEmpty is returned for zero-length input or zero-sized images.
	ErrEmpty = errors.New("empty image")
)

// Decode decodes PNG, JPEG, GIF, BMP, WebP or TGA data into RGBA pixels.
// TGA has no magic number, so it is selected by the name's extension;
// everything else is sniffed from the content.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var (
		img    image.Image
		format string
		err    error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
		format = "tga"
	} else {
		img, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s (%s): %w", name, format, ErrEmpty)
	}
	return ImageToRGBA(img), nil
}

// ImageToRGBA converts any image.Image to an origin-based *image.RGBA.
// Images that already are one are returned as is.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
