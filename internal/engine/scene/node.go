// Package scene provides the scene graph the viewer draws and picks against:
// nodes with local transforms, triangle meshes, materials and textures.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node's local translation, rotation and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat // Base orientation, usually from the asset
	Scale    mgl32.Vec3

	// Yaw is an extra rotation around +Y (radians) applied on top of Rotation.
	// The animation driver spins models by advancing it.
	Yaw float32
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns T * Ry(yaw) * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	if t.Yaw != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(t.Yaw))
	}
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Node is an element of the scene graph. A node with a mesh is drawable;
// any node may carry children.
type Node struct {
	Name      string
	Transform Transform

	// Fixed replaces Transform as the local matrix when set
	// (glTF nodes may specify a raw matrix instead of TRS).
	Fixed *mgl32.Mat4

	Mesh    *Mesh
	Visible bool

	Children []*Node
	parent   *Node
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: IdentityTransform(),
		Visible:   true,
	}
}

// NewMeshNode creates a visible node drawing mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the node n is attached to, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Fixed != nil {
		return *n.Fixed
	}
	return n.Transform.Matrix()
}

// WorldMatrix returns the node transform relative to the scene root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth-first with their world matrices.
// parentWorld is the world matrix of n's parent. Returning false from fn
// skips that node's children.
func (n *Node) Walk(parentWorld mgl32.Mat4, fn func(node *Node, world mgl32.Mat4) bool) {
	world := parentWorld.Mul4(n.LocalMatrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}

// Traverse visits n and every descendant depth-first, parents first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Materials returns the distinct materials used by meshes in the subtree.
func (n *Node) Materials() []*Material {
	var out []*Material
	seen := make(map[*Material]bool)
	n.Traverse(func(node *Node) {
		if node.Mesh == nil || node.Mesh.Material == nil {
			return
		}
		if m := node.Mesh.Material; !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	})
	return out
}
