package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showcase/internal/assets"
	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/scene"
)

// Session wires loading, pointer input and the per-frame driver around one
// ViewerContext. All methods must be called from the thread running frames.
type Session struct {
	cfg    *config.Config
	ctx    *ViewerContext
	loader *assets.Loader
	log    *zap.Logger

	texture *scene.Texture
	pointer *PointerTracker
	clicks  ClickDetector
	machine *StateMachine
	driver  *Driver
}

// NewSession builds the viewer described by cfg. drawer and nav may be nil.
func NewSession(cfg *config.Config, loader *assets.Loader, drawer Drawer, nav Navigator, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	ctx := NewViewerContext(cfg)
	pointer := NewPointerTracker(cfg.Tooltip.OffsetX, cfg.Tooltip.OffsetY)
	machine := NewStateMachine(ctx, pointer, nav, MachineConfig{
		Highlight:      cfg.Scene.Highlight.Enabled,
		HighlightColor: mgl32.Vec4(cfg.Scene.Highlight.Color),
	}, log)

	return &Session{
		cfg:     cfg,
		ctx:     ctx,
		loader:  loader,
		log:     log,
		pointer: pointer,
		machine: machine,
		driver:  NewDriver(ctx, machine, drawer, cfg.Scene.RotationSpeed),
	}
}

// Start requests the shared texture and one model per candidate.
func (s *Session) Start() {
	if s.cfg.Scene.TexturePath != "" {
		s.texture = s.loader.LoadTexture(s.cfg.Scene.TexturePath)
	}
	for _, c := range s.cfg.Scene.Candidates {
		s.loader.LoadModel(c.ID, s.cfg.ModelPathFor(c))
	}
	s.log.Info("loading assets",
		zap.Int("candidates", len(s.cfg.Scene.Candidates)),
		zap.String("texture", s.cfg.Scene.TexturePath),
	)
}

// Pump applies every finished load. It returns how many were applied.
func (s *Session) Pump() int {
	return s.loader.Drain(s.apply)
}

func (s *Session) apply(r assets.Result) {
	switch r.Kind {
	case assets.KindTexture:
		if r.Err != nil {
			s.log.Error("texture load failed", zap.String("path", r.Path), zap.Error(r.Err))
			return
		}
		r.Texture.SetImage(r.Image)
		s.log.Info("texture loaded",
			zap.String("path", r.Path),
			zap.Int("width", r.Image.Bounds().Dx()),
			zap.Int("height", r.Image.Bounds().Dy()),
		)

	case assets.KindModel:
		if r.Err != nil {
			s.log.Error("model load failed",
				zap.String("candidate", r.ID),
				zap.String("path", r.Path),
				zap.Error(r.Err),
			)
			if err := s.ctx.Registry.Fail(r.ID, r.Err); err != nil {
				s.log.Warn("unexpected load result", zap.String("candidate", r.ID), zap.Error(err))
			}
			return
		}

		assets.ApplyTexture(r.Model, s.texture)
		obj, err := s.ctx.Attach(r.ID, r.Model)
		if err != nil {
			s.log.Warn("model not attached", zap.String("candidate", r.ID), zap.Error(err))
			return
		}
		s.log.Info("model loaded",
			zap.String("candidate", obj.ID),
			zap.String("path", r.Path),
			zap.Int("materials", len(obj.Root.Materials())),
		)
	}
}

// PointerMoved records a pointer position in surface pixels.
func (s *Session) PointerMoved(x, y float32) {
	s.pointer.Update(x, y, s.ctx.Surface)
}

// PointerDown records a primary button press.
func (s *Session) PointerDown(x, y float32) {
	s.clicks.Press(x, y, s.ctx.Surface)
}

// PointerUp records a primary button release and dispatches the click it
// completes, if any. It reports whether a candidate was clicked.
func (s *Session) PointerUp(x, y float32) bool {
	if !s.clicks.Release(x, y, s.ctx.Surface) {
		return false
	}
	_, ok := s.machine.Click(x, y)
	return ok
}

// Resize updates the surface size.
func (s *Session) Resize(width, height int) {
	s.ctx.Resize(width, height)
}

// Frame applies finished loads, then advances and draws one frame.
func (s *Session) Frame() error {
	s.Pump()
	return s.driver.Frame()
}

// Progress returns how many candidates are ready and how many exist.
func (s *Session) Progress() (ready, total int) {
	_, ready, _ = s.ctx.Registry.Counts()
	return ready, s.ctx.Registry.Len()
}

// Context returns the shared viewer context.
func (s *Session) Context() *ViewerContext { return s.ctx }

// Machine returns the interaction state machine.
func (s *Session) Machine() *StateMachine { return s.machine }

// Texture returns the shared texture, or nil when none is configured.
func (s *Session) Texture() *scene.Texture { return s.texture }

// Close stops the loader.
func (s *Session) Close() {
	s.loader.Close()
}
