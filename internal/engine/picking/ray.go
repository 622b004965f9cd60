// Package picking provides ray casting and object picking utilities.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized for world rays
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// RayFromCamera builds a world-space ray through a point given in normalized
// device coordinates (-1..1, +Y up).
func RayFromCamera(ndc mgl32.Vec2, view, projection mgl32.Mat4) Ray {
	inv := projection.Mul4(view).Inv()

	// Unproject near and far points
	nearWorld := mgl32.TransformCoordinate(mgl32.Vec3{ndc[0], ndc[1], -1}, inv)
	farWorld := mgl32.TransformCoordinate(mgl32.Vec3{ndc[0], ndc[1], 1}, inv)

	dir := farWorld.Sub(nearWorld)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: nearWorld, Direction: dir}
}

// Transform maps the ray by m. The direction is not renormalized, so a
// parameter t means the same point before and after the transform.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	return Ray{
		Origin:    mgl32.TransformCoordinate(r.Origin, m),
		Direction: mgl32.TransformNormal(r.Direction, m),
	}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle intersects the ray with triangle abc using the
// Möller–Trumbore algorithm. When cullBack is set, triangles whose
// counter-clockwise front faces away from the ray are ignored.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3, cullBack bool) (t float32, hit bool) {
	const epsilon = 1e-12

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	// det < 0 means the ray sees the back of the triangle; near 0 it runs
	// parallel to the triangle's plane.
	if cullBack {
		if det < epsilon {
			return 0, false
		}
	} else if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r.Origin.Sub(a)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := invDet * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = invDet * edge2.Dot(q)
	if t <= 0 {
		// Line intersection behind the origin
		return 0, false
	}
	return t, true
}

// NewAABB creates an AABB from min and max corners, handling negative scales.
func NewAABB(lo, hi mgl32.Vec3) AABB {
	box := AABB{Min: lo, Max: hi}
	// Ensure min < max for each axis
	for axis := 0; axis < 3; axis++ {
		if box.Min[axis] > box.Max[axis] {
			box.Min[axis], box.Max[axis] = box.Max[axis], box.Min[axis]
		}
	}
	return box
}
