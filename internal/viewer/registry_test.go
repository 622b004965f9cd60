package viewer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/scene"
)

func TestSpecsFromConfigDefaults(t *testing.T) {
	specs := SpecsFromConfig(config.Default())
	if len(specs) != 3 {
		t.Fatalf("got %d specs, want 3", len(specs))
	}

	for i, want := range []struct{ id, label, url string }{
		{"model1", "Model 1", "https://example.com/model1"},
		{"model2", "Model 2", "https://example.com/model2"},
		{"model3", "Model 3", "https://example.com/model3"},
	} {
		s := specs[i]
		if s.ID != want.id || s.Label != want.label || s.URL != want.url {
			t.Errorf("spec %d = %+v, want %s/%s/%s", i, s, want.id, want.label, want.url)
		}
	}
	if specs[0].Position != (mgl32.Vec3{-6, -0.5, 0}) || specs[0].Scale != (mgl32.Vec3{10, 10, 10}) {
		t.Errorf("spec 0 placement = %v %v", specs[0].Position, specs[0].Scale)
	}
}

func TestSpecsFromConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.UseSingleModel()
	cfg.Scene.Candidates[0].URL = "https://example.org/x"
	cfg.Scene.Candidates[0].Scale = [3]float32{}

	specs := SpecsFromConfig(cfg)
	if specs[0].Label != "3D Model" || specs[0].URL != "https://example.org/x" {
		t.Errorf("spec = %+v", specs[0])
	}
	if specs[0].Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("zero scale should become unit scale, got %v", specs[0].Scale)
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry(SpecsFromConfig(config.Default())...)
	root := scene.NewNode("m")

	obj, err := reg.Resolve("model2", root)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if obj.Label != "Model 2" || obj.Root != root {
		t.Errorf("Resolve() = %+v", obj)
	}
	if root.Transform.Position != (mgl32.Vec3{0, -0.5, 0}) || root.Transform.Scale != (mgl32.Vec3{10, 10, 10}) {
		t.Errorf("root transform = %+v", root.Transform)
	}
	if reg.Object(1) != obj || reg.Object(0) != nil || reg.Object(7) != nil {
		t.Error("Object() should return only the Ready slot")
	}

	if _, err := reg.Resolve("model2", root); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second Resolve() error = %v, want ErrAlreadySettled", err)
	}
	if _, err := reg.Resolve("nope", root); !errors.Is(err, ErrUnknownCandidate) {
		t.Errorf("Resolve(unknown) error = %v, want ErrUnknownCandidate", err)
	}
	if _, err := reg.Resolve("model1", nil); err == nil {
		t.Error("Resolve(nil visual) should fail")
	}
}

func TestRegistryFail(t *testing.T) {
	reg := NewRegistry(SpecsFromConfig(config.Default())...)
	cause := errors.New("404")

	if err := reg.Fail("model1", cause); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	h, i, ok := reg.Lookup("model1")
	if !ok || i != 0 {
		t.Fatalf("Lookup() = %v, %d, %v", h, i, ok)
	}
	if h.State() != Failed || !errors.Is(h.Err(), cause) || h.Object() != nil {
		t.Errorf("handle = %s %v %v", h.State(), h.Err(), h.Object())
	}
	if _, err := reg.Resolve("model1", scene.NewNode("late")); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("Resolve after Fail error = %v, want ErrAlreadySettled", err)
	}
	if err := reg.Fail("model1", cause); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second Fail() error = %v", err)
	}
}

func TestRegistryEachAndCounts(t *testing.T) {
	reg := NewRegistry(SpecsFromConfig(config.Default())...)
	if _, err := reg.Resolve("model3", scene.NewNode("c")); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Resolve("model1", scene.NewNode("a")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Fail("model2", errors.New("broken")); err != nil {
		t.Fatal(err)
	}

	var order []int
	reg.Each(func(i int, _ *TrackedObject) { order = append(order, i) })
	if len(order) != 2 || order[0] != 0 || order[1] != 2 {
		t.Errorf("Each() visited %v, want [0 2]", order)
	}

	pending, ready, failed := reg.Counts()
	if pending != 0 || ready != 2 || failed != 1 {
		t.Errorf("Counts() = %d, %d, %d; want 0, 2, 1", pending, ready, failed)
	}
}

func TestRegistryDuplicateIDResolvesFirst(t *testing.T) {
	reg := NewRegistry(CandidateSpec{ID: "a"}, CandidateSpec{ID: "a"})
	if _, i, _ := reg.Lookup("a"); i != 0 {
		t.Errorf("Lookup() index = %d, want 0", i)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestHandleStateString(t *testing.T) {
	tests := map[HandleState]string{
		Pending:        "pending",
		Ready:          "ready",
		Failed:         "failed",
		HandleState(9): "HandleState(9)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("String() = %q, want %q", s.String(), want)
		}
	}
}

func TestAttachAddsToScene(t *testing.T) {
	ctx := NewViewerContext(config.Default())
	root := scene.NewNode("m")

	if _, err := ctx.Attach("model1", root); err != nil {
		t.Fatal(err)
	}
	if root.Parent() != ctx.Scene {
		t.Error("Attach() should add the model to the scene")
	}
	if _, err := ctx.Attach("missing", scene.NewNode("x")); err == nil {
		t.Error("Attach(unknown) should fail")
	}
	if len(ctx.Scene.Children) != 1 {
		t.Errorf("scene has %d children, want 1", len(ctx.Scene.Children))
	}
}
