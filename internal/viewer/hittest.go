package viewer

import (
	"github.com/Faultbox/showcase/internal/engine/camera"
	"github.com/Faultbox/showcase/internal/engine/picking"
)

// HitResult is the outcome of one hit test.
type HitResult struct {
	HitAny bool
	Index  int // Registry position, -1 when nothing is hit
}

// Miss is the result when no candidate intersects the ray.
var Miss = HitResult{Index: -1}

// HitTest casts a ray from cam through the pointer and returns the first
// Ready candidate, in registry order, whose subtree it intersects.
// Candidates after the first hit are not tested.
func HitTest(p PointerState, cam *camera.Perspective, reg *Registry) HitResult {
	ray := picking.RayFromCamera(p.NDC, cam.ViewMatrix(), cam.ProjectionMatrix())

	for i := 0; i < reg.Len(); i++ {
		obj := reg.Object(i)
		if obj == nil {
			continue
		}
		if len(picking.IntersectNode(ray, obj.Root, true)) > 0 {
			return HitResult{HitAny: true, Index: i}
		}
	}
	return Miss
}
