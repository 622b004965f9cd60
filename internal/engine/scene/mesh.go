package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned bounding box in a mesh's local space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns bounds that contain nothing; Extend grows them.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e30, 1e30, 1e30},
		Max: mgl32.Vec3{-1e30, -1e30, -1e30},
	}
}

// IsEmpty reports whether no point was ever added.
func (b Bounds) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
	Material  *Material
	Bounds    Bounds
}

// NewMesh builds a mesh and computes its bounds. Missing normals are
// generated from face geometry; missing indices mean an unindexed list.
func NewMesh(name string, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32, material *Material) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if material == nil {
		material = NewMaterial("default")
	}
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
		Material:  material,
	}
	m.Bounds = EmptyBounds()
	for _, p := range positions {
		m.Bounds.Extend(p)
	}
	if len(m.Normals) != len(m.Positions) {
		m.Normals = computeNormals(m.Positions, m.Indices)
	}
	return m
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the corners of triangle i. The second result is false
// when an index points outside the vertex data.
func (m *Mesh) Triangle(i int) ([3]mgl32.Vec3, bool) {
	var tri [3]mgl32.Vec3
	for j := 0; j < 3; j++ {
		idx := int(m.Indices[i*3+j])
		if idx >= len(m.Positions) {
			return tri, false
		}
		tri[j] = m.Positions[idx]
	}
	return tri, true
}

// computeNormals accumulates area-weighted face normals per vertex.
func computeNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			continue
		}
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() < 1e-8 {
			normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}
