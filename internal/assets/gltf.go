package assets

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/showcase/internal/engine/scene"
)

// ErrNoGeometry is returned for documents without any triangle mesh.
var ErrNoGeometry = errors.New("model has no triangle geometry")

// DecodeModel decodes a binary (.glb) or JSON glTF 2.0 document with
// embedded buffers into a scene subtree. The returned root is a fresh node
// named after name; the document's scene nodes hang below it.
func DecodeModel(data []byte, name string) (*scene.Node, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}

	b := &builder{
		doc:       &doc,
		materials: make(map[int]*scene.Material),
		visiting:  make(map[int]bool),
	}
	root := scene.NewNode(name)
	for _, idx := range b.sceneNodes() {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	if b.meshes == 0 {
		return nil, ErrNoGeometry
	}
	return root, nil
}

type builder struct {
	doc       *gltf.Document
	materials map[int]*scene.Material
	fallback  *scene.Material
	visiting  map[int]bool
	meshes    int
}

// sceneNodes returns the root node indices of the default scene, or every
// parentless node when the document declares no scene.
func (b *builder) sceneNodes() []int {
	doc := b.doc
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *builder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	n := scene.NewNode(name)
	setTransform(n, src)

	if src.Mesh != nil {
		if err := b.attachMesh(n, *src.Mesh); err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
	}
	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func setTransform(n *scene.Node, src *gltf.Node) {
	if m := src.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var fixed mgl32.Mat4
		for i, v := range m {
			fixed[i] = float32(v)
		}
		n.Fixed = &fixed
		return
	}

	t := src.TranslationOrDefault()
	r := src.RotationOrDefault()
	s := src.ScaleOrDefault()
	n.Transform.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Transform.Rotation = mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}.Normalize()
	n.Transform.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// attachMesh adds the triangle primitives of mesh idx to n. A single
// primitive becomes n's mesh; several become child nodes.
func (b *builder) attachMesh(n *scene.Node, idx int) error {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", idx)
	}
	src := b.doc.Meshes[idx]

	var meshes []*scene.Mesh
	for i, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		m, err := b.primitive(fmt.Sprintf("%s#%d", src.Name, i), p)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		meshes = append(meshes, m)
	}

	switch len(meshes) {
	case 0:
	case 1:
		n.Mesh = meshes[0]
	default:
		for _, m := range meshes {
			n.Add(scene.NewMeshNode(m.Name, m))
		}
	}
	b.meshes += len(meshes)
	return nil
}

func (b *builder) primitive(name string, p *gltf.Primitive) (*scene.Mesh, error) {
	doc := b.doc

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	rawPos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(rawPos))
	for i, v := range rawPos {
		positions[i] = v
	}

	var normals []mgl32.Vec3
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		normals = make([]mgl32.Vec3, len(raw))
		for i, v := range raw {
			normals[i] = v
		}
	}

	var uvs []mgl32.Vec2
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
		uvs = make([]mgl32.Vec2, len(raw))
		for i, v := range raw {
			uvs[i] = v
		}
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	return scene.NewMesh(name, positions, normals, uvs, indices, b.material(p.Material)), nil
}

func (b *builder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// material returns the shared scene material for glTF material idx.
func (b *builder) material(idx *int) *scene.Material {
	if idx == nil || *idx < 0 || *idx >= len(b.doc.Materials) {
		if b.fallback == nil {
			b.fallback = scene.NewMaterial("default")
		}
		return b.fallback
	}
	if m, ok := b.materials[*idx]; ok {
		return m
	}

	src := b.doc.Materials[*idx]
	m := scene.NewMaterial(src.Name)
	m.DoubleSided = src.DoubleSided
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := pbr.BaseColorFactor
		m.BaseColor = mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
	}
	b.materials[*idx] = m
	return m
}
