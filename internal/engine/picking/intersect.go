package picking

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showcase/internal/engine/scene"
)

// Intersection is a ray hit on a mesh node.
type Intersection struct {
	Node     *scene.Node
	Distance float32    // Along the world ray
	Point    mgl32.Vec3 // World space
	Triangle int
}

// IntersectNode casts r (world space) against the meshes under root and
// returns every hit sorted nearest first. With recursive unset only root
// itself is tested. Invisible nodes and their children are skipped.
func IntersectNode(r Ray, root *scene.Node, recursive bool) []Intersection {
	if root == nil {
		return nil
	}

	var hits []Intersection
	parentWorld := mgl32.Ident4()
	if p := root.Parent(); p != nil {
		parentWorld = p.WorldMatrix()
	}

	root.Walk(parentWorld, func(n *scene.Node, world mgl32.Mat4) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh != nil {
			hits = append(hits, intersectMesh(r, n, world)...)
		}
		return recursive
	})

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// intersectMesh tests every triangle of n's mesh in the node's local space.
func intersectMesh(r Ray, n *scene.Node, world mgl32.Mat4) []Intersection {
	mesh := n.Mesh
	if mesh.TriangleCount() == 0 || mesh.Bounds.IsEmpty() {
		return nil
	}
	if world.Det() == 0 {
		return nil
	}
	local := r.Transform(world.Inv())

	if _, ok := local.IntersectAABB(NewAABB(mesh.Bounds.Min, mesh.Bounds.Max)); !ok {
		return nil
	}

	cullBack := mesh.Material == nil || !mesh.Material.DoubleSided
	var hits []Intersection
	for i := 0; i < mesh.TriangleCount(); i++ {
		tri, ok := mesh.Triangle(i)
		if !ok {
			continue
		}
		t, ok := local.IntersectTriangle(tri[0], tri[1], tri[2], cullBack)
		if !ok {
			continue
		}
		hits = append(hits, Intersection{
			Node:     n,
			Distance: t,
			Point:    r.At(t),
			Triangle: i,
		})
	}
	return hits
}
