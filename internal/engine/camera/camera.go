// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective is a fixed perspective camera looking from Position at Target.
type Perspective struct {
	FOV    float32 // Vertical field of view, degrees
	Aspect float32 // Width / height
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, 0},
		Target:   mgl32.Vec3{0, 0, -1},
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

// SetPosition moves the camera, keeping its viewing direction.
func (c *Perspective) SetPosition(x, y, z float32) {
	dir := c.Target.Sub(c.Position)
	c.Position = mgl32.Vec3{x, y, z}
	c.Target = c.Position.Add(dir)
}

// LookAt points the camera at a world position.
func (c *Perspective) LookAt(x, y, z float32) {
	c.Target = mgl32.Vec3{x, y, z}
}

// SetAspect updates the aspect ratio from a surface size.
func (c *Perspective) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Perspective) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the camera-to-clip matrix.
func (c *Perspective) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Project maps a world position to normalized device coordinates.
func (c *Perspective) Project(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, c.ViewProjection())
}

// Forward returns the unit viewing direction.
func (c *Perspective) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}
