package viewer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/showcase/internal/assets"
)

// triangleGLB encodes a double-sided triangle in the XY plane with the
// origin strictly inside it.
func triangleGLB(t *testing.T) []byte {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {2, -1, 0}, {-1, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{Name: "paint", DoubleSided: true}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "tri", Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encode glb: %v", err)
	}
	return buf.Bytes()
}

func onePixelPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// runUntilSettled drives frames until no candidate is Pending.
func runUntilSettled(t *testing.T, s *Session) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := s.Frame(); err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
		pending, _, _ := s.ctx.Registry.Counts()
		if pending == 0 && s.Texture().Ready() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%d candidates still pending", pending)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSessionLoadsAndInteracts(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.ModelPath = "models/model.glb"
	cfg.Scene.TexturePath = "models/texture.png"
	cfg.Scene.Candidates[2].Model = "models/missing.glb"

	fsys := fstest.MapFS{
		"models/model.glb":   &fstest.MapFile{Data: triangleGLB(t)},
		"models/texture.png": &fstest.MapFile{Data: onePixelPNG(t)},
	}
	nav := &recordingNavigator{}
	s := NewSession(cfg, assets.NewLoader(assets.NewSource(fsys), nil), nil, nav, nil)
	defer s.Close()

	s.Start()
	runUntilSettled(t, s)

	reg := s.Context().Registry
	for i, want := range []HandleState{Ready, Ready, Failed} {
		if got := reg.Handle(i).State(); got != want {
			t.Errorf("candidate %d state = %s, want %s", i, got, want)
		}
	}
	if reg.Handle(2).Err() == nil {
		t.Error("failed candidate should keep its error")
	}
	if ready, total := s.Progress(); ready != 2 || total != 3 {
		t.Errorf("Progress() = %d/%d, want 2/3", ready, total)
	}

	for _, m := range reg.Object(0).Root.Materials() {
		if m.Map != s.Texture() {
			t.Errorf("material %q missing the shared texture", m.Name)
		}
	}

	// The centre ray passes through model2's origin, which lies inside its
	// triangle at any yaw.
	s.PointerMoved(centerX, centerY)
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if st := s.Machine().State(); st != (State{Kind: Hovering, Index: 1}) {
		t.Errorf("State() = %s, want hovering(1)", st)
	}

	s.PointerDown(centerX, centerY)
	if !s.PointerUp(centerX, centerY) {
		t.Fatal("PointerUp() should report a click on model2")
	}
	if len(nav.urls) != 1 || nav.urls[0] != "https://example.com/model2" {
		t.Errorf("opened %v", nav.urls)
	}

	// Release without a press is not a click.
	if s.PointerUp(centerX, centerY) {
		t.Error("release without press should not click")
	}
	if len(nav.urls) != 1 {
		t.Errorf("opened %d URLs, want 1", len(nav.urls))
	}
}

func TestSessionMissingTextureKeepsModels(t *testing.T) {
	cfg := testConfig()
	cfg.Scene.ModelPath = "models/model.glb"
	cfg.Scene.TexturePath = "models/nope.png"

	fsys := fstest.MapFS{"models/model.glb": &fstest.MapFile{Data: triangleGLB(t)}}
	s := NewSession(cfg, assets.NewLoader(assets.NewSource(fsys), nil), nil, nil, nil)
	defer s.Close()
	s.Start()

	deadline := time.Now().Add(5 * time.Second)
	handled := 0
	for handled < 4 {
		handled += s.Pump()
		if time.Now().After(deadline) {
			t.Fatalf("handled %d of 4 results", handled)
		}
		time.Sleep(time.Millisecond)
	}

	if ready, _ := s.Progress(); ready != 3 {
		t.Errorf("ready = %d, want 3", ready)
	}
	if s.Texture().Ready() {
		t.Error("missing texture should stay empty")
	}
}
