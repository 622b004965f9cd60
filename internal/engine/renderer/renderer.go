// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/Faultbox/showcase/internal/engine/scene"
	"github.com/Faultbox/showcase/internal/engine/shader"
	"github.com/Faultbox/showcase/internal/engine/texture"
	"github.com/Faultbox/showcase/internal/viewer"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// Tooltip look
	FontSize   float64
	Padding    int
	Foreground color.Color
	Background color.Color
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

type gpuTexture struct {
	id      uint32
	version int
}

// Renderer draws the scene graph and the tooltip overlay.
// IMPORTANT: must be created and used on the thread owning the GL context.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram    *shader.Program
	overlayProgram *shader.Program

	meshes   map[*scene.Mesh]*gpuMesh
	textures map[*scene.Texture]*gpuTexture
	white    uint32

	quadVAO, quadVBO uint32

	face  font.Face
	style texture.LabelStyle
	label struct {
		text string
		tex  uint32
		w, h int
	}
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config:   cfg,
		log:      log,
		meshes:   make(map[*scene.Mesh]*gpuMesh),
		textures: make(map[*scene.Texture]*gpuTexture),
		style: texture.LabelStyle{
			Foreground: cfg.Foreground,
			Background: cfg.Background,
			Padding:    cfg.Padding,
		},
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 0) // Transparent background
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.meshProgram, err = shader.New("mesh", meshVertexShader, meshFragmentShader); err != nil {
		return nil, err
	}
	if r.overlayProgram, err = shader.New("overlay", overlayVertexShader, overlayFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, err
	}

	r.white = uploadTexture(0, texture.Solid(1, 1, color.White), false)
	r.createQuad()

	r.face, err = texture.NewLabelFace(cfg.FontSize)
	if err != nil {
		log.Warn("tooltip font unavailable, using fallback", zap.Error(err))
		r.face = texture.FallbackFace()
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		if m == nil {
			continue
		}
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.id)
	}
	r.meshes = nil
	r.textures = nil

	gl.DeleteTextures(1, &r.white)
	if r.label.tex != 0 {
		gl.DeleteTextures(1, &r.label.tex)
	}
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	r.meshProgram.Delete()
	r.overlayProgram.Delete()
	if r.face != nil {
		r.face.Close()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels returns the current color buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

// Draw renders the scene and, when visible, the tooltip.
func (r *Renderer) Draw(ctx *viewer.ViewerContext, tip viewer.TooltipState) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawScene(ctx)
	if tip.Visible && tip.Text != "" {
		r.drawTooltip(tip)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) drawScene(ctx *viewer.ViewerContext) {
	p := r.meshProgram
	p.Use()

	cam := ctx.Camera
	p.SetMat4("uView", cam.ViewMatrix())
	p.SetMat4("uProjection", cam.ProjectionMatrix())

	lights := ctx.Lights
	p.SetVec3("uAmbient", lights.Ambient.Radiance())
	p.SetVec3("uSunDir", lights.Sun.Direction)
	p.SetVec3("uSunColor", lights.Sun.Radiance())
	p.SetVec3("uSpotPos", lights.Spot.Position)
	p.SetVec3("uSpotDir", lights.Spot.Direction())
	p.SetVec3("uSpotColor", lights.Spot.Radiance())
	p.SetFloat("uSpotCutoff", lights.Spot.CosCutoff())
	p.SetInt("uMap", 0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.ActiveTexture(gl.TEXTURE0)

	ctx.Scene.Walk(mgl32.Ident4(), func(n *scene.Node, world mgl32.Mat4) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh != nil {
			r.drawMesh(n.Mesh, world)
		}
		return true
	})
	gl.BindVertexArray(0)
}

func (r *Renderer) drawMesh(m *scene.Mesh, world mgl32.Mat4) {
	gm := r.mesh(m)
	if gm == nil {
		return
	}

	p := r.meshProgram
	p.SetMat4("uModel", world)
	normal := world.Mat3().Inv().Transpose()
	gl.UniformMatrix3fv(p.Uniform("uNormalMatrix"), 1, false, &normal[0])

	mat := m.Material
	p.SetVec4("uBaseColor", mat.BaseColor)
	gl.BindTexture(gl.TEXTURE_2D, r.texture(mat.Map))

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)
}

// mesh returns the GPU buffers for m, uploading them on first use.
func (r *Renderer) mesh(m *scene.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		r.meshes[m] = nil
		return nil
	}

	// Interleaved position(3) normal(3) uv(2)
	const floatsPerVertex = 8
	const vertexSize = floatsPerVertex * 4
	vertices := make([]float32, 0, len(m.Positions)*floatsPerVertex)
	for i, pos := range m.Positions {
		n := mgl32.Vec3{0, 1, 0}
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		var uv mgl32.Vec2
		if i < len(m.UVs) {
			uv = m.UVs[i]
		}
		vertices = append(vertices, pos[0], pos[1], pos[2], n[0], n[1], n[2], uv[0], uv[1])
	}

	gm := &gpuMesh{count: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	r.meshes[m] = gm

	r.log.Debug("mesh uploaded",
		zap.String("mesh", m.Name),
		zap.Int("vertices", len(m.Positions)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return gm
}

// texture returns the GL texture for t, uploading new pixel versions.
// Unloaded or missing textures map to plain white.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || !t.Ready() {
		return r.white
	}
	gt, ok := r.textures[t]
	if ok && gt.version == t.Version() {
		return gt.id
	}
	if !ok {
		gt = &gpuTexture{}
		r.textures[t] = gt
	}
	gt.id = uploadTexture(gt.id, t.Image(), true)
	gt.version = t.Version()
	r.log.Debug("texture uploaded", zap.String("path", t.Path), zap.Int("version", gt.version))
	return gt.id
}

func (r *Renderer) createQuad() {
	quad := []float32{0, 0, 1, 0, 0, 1, 1, 1}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, unsafe.Pointer(&quad[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawTooltip(tip viewer.TooltipState) {
	if tip.Text != r.label.text || r.label.tex == 0 {
		img := texture.RenderLabel(r.face, tip.Text, r.style)
		r.label.tex = uploadTexture(r.label.tex, img, false)
		r.label.text = tip.Text
		r.label.w, r.label.h = img.Bounds().Dx(), img.Bounds().Dy()
	}

	w, h := float32(r.config.Width), float32(r.config.Height)
	rect := mgl32.Vec4{
		float32(tip.ScreenX)/w*2 - 1,
		1 - float32(tip.ScreenY+r.label.h)/h*2,
		float32(r.label.w) / w * 2,
		float32(r.label.h) / h * 2,
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	// Label pixels are premultiplied
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	p := r.overlayProgram
	p.Use()
	p.SetVec4("uRect", rect)
	p.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.label.tex)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// uploadTexture stores img in texture id, creating it when id is 0.
func uploadTexture(id uint32, img *image.RGBA, mipmap bool) uint32 {
	if id == 0 {
		gl.GenTextures(1, &id)
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	if mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	return id
}

var _ viewer.Drawer = (*Renderer)(nil)
