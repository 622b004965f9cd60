package viewer

import (
	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/camera"
	"github.com/Faultbox/showcase/internal/engine/lighting"
	"github.com/Faultbox/showcase/internal/engine/scene"
)

// Rect is a drawing surface rectangle in pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ViewerContext bundles the scene, camera, registry and surface shared by
// every component.
type ViewerContext struct {
	Scene    *scene.Node
	Camera   *camera.Perspective
	Registry *Registry
	Surface  Rect
	Lights   lighting.Rig
}

// NewViewerContext builds the context described by cfg with every
// candidate Pending and an empty scene.
func NewViewerContext(cfg *config.Config) *ViewerContext {
	w, h := cfg.Window.Width, cfg.Window.Height

	cam := camera.NewPerspective(cfg.Camera.FOV, 1, cfg.Camera.Near, cfg.Camera.Far)
	cam.SetAspect(w, h)
	cam.Position = cfg.Camera.Position
	cam.Target = cfg.Camera.Target

	return &ViewerContext{
		Scene:    scene.NewNode("scene"),
		Camera:   cam,
		Registry: NewRegistry(SpecsFromConfig(cfg)...),
		Surface:  Rect{Width: float32(w), Height: float32(h)},
		Lights:   lighting.NewRig(cfg.Lights),
	}
}

// Attach resolves candidate id with root and adds root to the scene.
func (c *ViewerContext) Attach(id string, root *scene.Node) (*TrackedObject, error) {
	obj, err := c.Registry.Resolve(id, root)
	if err != nil {
		return nil, err
	}
	c.Scene.Add(root)
	return obj, nil
}

// Resize updates the surface and camera aspect.
func (c *ViewerContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Surface.Width = float32(width)
	c.Surface.Height = float32(height)
	c.Camera.SetAspect(width, height)
}
