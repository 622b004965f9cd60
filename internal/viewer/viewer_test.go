package viewer

import (
	"testing"

	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/scene"
)

// Pixel positions on the 1000x500 test surface.
const (
	centerX, centerY = 500, 250 // model2
	rightX           = 779      // model3, same row
	missX, missY     = 500, 20  // above everything
)

// testConfig puts three 2x2x2 boxes at x = -6, 0, 6 on the camera axis.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Camera.Position = [3]float32{0, 0, 8}
	cfg.Camera.Target = [3]float32{0, 0, 0}
	for i := range cfg.Scene.Candidates {
		cfg.Scene.Candidates[i].Position[1] = 0
		cfg.Scene.Candidates[i].Scale = [3]float32{1, 1, 1}
	}
	return cfg
}

func boxModel(name string) *scene.Node {
	root := scene.NewNode(name)
	root.Add(scene.NewMeshNode(name+"-mesh", scene.NewBox(name, 2, 2, 2, nil)))
	return root
}

// newTestContext builds a context and resolves the candidates at the given
// registry positions with box models; the rest stay Pending.
func newTestContext(t *testing.T, cfg *config.Config, ready ...int) *ViewerContext {
	t.Helper()
	ctx := NewViewerContext(cfg)
	for _, i := range ready {
		id := ctx.Registry.Handle(i).ID()
		if _, err := ctx.Attach(id, boxModel(id)); err != nil {
			t.Fatalf("Attach(%q) error = %v", id, err)
		}
	}
	return ctx
}

type recordingNavigator struct {
	urls []string
	err  error
}

func (n *recordingNavigator) Open(url string) error {
	n.urls = append(n.urls, url)
	return n.err
}

func newMachine(ctx *ViewerContext, nav Navigator, cfg MachineConfig) (*StateMachine, *PointerTracker) {
	p := NewPointerTracker(10, 10)
	return NewStateMachine(ctx, p, nav, cfg, nil), p
}
