// Package lighting provides the light rig the viewer shades models with.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showcase/internal/config"
)

// DefaultSpotAngle is the spot cone half-angle in radians.
const DefaultSpotAngle = math.Pi / 3

// Directional is a light infinitely far away.
type Directional struct {
	Direction mgl32.Vec3 // Normalized, pointing from the surface towards the light
	Color     mgl32.Vec3
	Intensity float32
}

// Ambient lights every surface evenly.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Spot is a positional light shining at Target inside a cone.
type Spot struct {
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Angle     float32 // Cone half-angle, radians
}

// Rig is the complete set of lights in the scene.
type Rig struct {
	Sun     Directional
	Ambient Ambient
	Spot    Spot
}

// NewRig builds a rig from configuration. A zero direction falls back to
// straight down.
func NewRig(cfg config.LightsConfig) Rig {
	dir := mgl32.Vec3(cfg.Directional.Direction)
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 1, 0}
	}
	return Rig{
		Sun: Directional{
			Direction: dir.Normalize(),
			Color:     mgl32.Vec3(cfg.Directional.Color),
			Intensity: cfg.Directional.Intensity,
		},
		Ambient: Ambient{
			Color:     mgl32.Vec3(cfg.Ambient.Color),
			Intensity: cfg.Ambient.Intensity,
		},
		Spot: Spot{
			Position:  mgl32.Vec3(cfg.Spot.Position),
			Color:     mgl32.Vec3(cfg.Spot.Color),
			Intensity: cfg.Spot.Intensity,
			Angle:     DefaultSpotAngle,
		},
	}
}

// Radiance returns the light's color scaled by its intensity.
func (d Directional) Radiance() mgl32.Vec3 { return d.Color.Mul(d.Intensity) }

// Radiance returns the light's color scaled by its intensity.
func (a Ambient) Radiance() mgl32.Vec3 { return a.Color.Mul(a.Intensity) }

// Radiance returns the light's color scaled by its intensity.
func (s Spot) Radiance() mgl32.Vec3 { return s.Color.Mul(s.Intensity) }

// Direction returns the unit vector from the spot towards its target.
func (s Spot) Direction() mgl32.Vec3 {
	d := s.Target.Sub(s.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// CosCutoff returns cos(Angle) for the shader's cone test.
func (s Spot) CosCutoff() float32 {
	return float32(math.Cos(float64(s.Angle)))
}
