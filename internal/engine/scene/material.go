package scene

import (
	"image"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
)

// Material describes how a mesh surface is shaded.
type Material struct {
	Name        string
	BaseColor   mgl32.Vec4
	Map         *Texture
	DoubleSided bool
}

// NewMaterial returns a white, single-sided, untextured material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		BaseColor: mgl32.Vec4{1, 1, 1, 1},
	}
}

// Texture is image data shared by materials. It starts empty and is filled
// in when its asynchronous load finishes.
type Texture struct {
	Path    string
	image   *image.RGBA
	version int
}

// NewTexture creates an empty texture for path.
func NewTexture(path string) *Texture {
	return &Texture{Path: path}
}

// SetImage stores img as RGBA and bumps the version so renderers re-upload.
func (t *Texture) SetImage(img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	t.image = rgba
	t.version++
}

// Image returns the pixels, or nil while the texture is not loaded.
func (t *Texture) Image() *image.RGBA {
	return t.image
}

// Ready reports whether image data is available.
func (t *Texture) Ready() bool {
	return t.image != nil
}

// Version changes every time SetImage is called.
func (t *Texture) Version() int {
	return t.version
}
