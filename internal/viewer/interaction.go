package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showcase/internal/engine/scene"
)

// StateKind distinguishes Idle from Hovering.
type StateKind int

const (
	Idle StateKind = iota
	Hovering
)

// State is the interaction state after the latest frame.
type State struct {
	Kind  StateKind
	Index int // Hovered registry position, -1 when Idle
}

func (s State) String() string {
	if s.Kind == Hovering {
		return fmt.Sprintf("hovering(%d)", s.Index)
	}
	return "idle"
}

// TooltipState is what the tooltip overlay shows.
type TooltipState struct {
	Visible bool
	Text    string
	ScreenX int
	ScreenY int
}

// Cursor is the pointer affordance over the drawing surface.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
)

func (c Cursor) String() string {
	if c == CursorPointer {
		return "pointer"
	}
	return "default"
}

// Navigator opens a URL outside the viewer.
type Navigator interface {
	Open(url string) error
}

// MachineConfig controls optional hover feedback.
type MachineConfig struct {
	Highlight      bool
	HighlightColor mgl32.Vec4
}

// StateMachine decides hover, tooltip and cursor state every frame and
// dispatches navigation on clicks.
type StateMachine struct {
	ctx     *ViewerContext
	pointer *PointerTracker
	nav     Navigator
	cfg     MachineConfig
	log     *zap.Logger

	state   State
	tooltip TooltipState
	cursor  Cursor

	// Original base colors of currently tinted materials.
	tinted map[*scene.Material]mgl32.Vec4
}

// NewStateMachine creates an Idle machine. nav may be nil, in which case
// clicks are only logged.
func NewStateMachine(ctx *ViewerContext, pointer *PointerTracker, nav Navigator, cfg MachineConfig, log *zap.Logger) *StateMachine {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateMachine{
		ctx:     ctx,
		pointer: pointer,
		nav:     nav,
		cfg:     cfg,
		log:     log,
		state:   State{Kind: Idle, Index: -1},
		tinted:  make(map[*scene.Material]mgl32.Vec4),
	}
}

// Frame recomputes the state from the current pointer position.
func (m *StateMachine) Frame() HitResult {
	hit := HitTest(m.pointer.Current(), m.ctx.Camera, m.ctx.Registry)

	prev := m.state
	if hit.HitAny {
		m.enterHovering(hit.Index)
	} else {
		m.enterIdle()
	}
	if prev != m.state {
		m.log.Debug("interaction state changed",
			zap.Stringer("from", prev),
			zap.Stringer("to", m.state),
		)
	}
	return hit
}

func (m *StateMachine) enterHovering(i int) {
	obj := m.ctx.Registry.Object(i)
	p := m.pointer.Current()

	if m.state.Kind == Hovering && m.state.Index != i {
		m.restoreHighlight()
	}
	m.state = State{Kind: Hovering, Index: i}
	m.tooltip = TooltipState{
		Visible: true,
		Text:    obj.Label,
		ScreenX: p.ScreenX,
		ScreenY: p.ScreenY,
	}
	m.cursor = CursorPointer

	if m.cfg.Highlight {
		m.applyHighlight(obj.Root)
	}
}

func (m *StateMachine) enterIdle() {
	m.restoreHighlight()
	m.state = State{Kind: Idle, Index: -1}
	m.tooltip.Visible = false
	m.cursor = CursorDefault
}

// applyHighlight tints every mesh material under root, remembering the
// color each had before its first tint.
func (m *StateMachine) applyHighlight(root *scene.Node) {
	for _, mat := range root.Materials() {
		if _, ok := m.tinted[mat]; !ok {
			m.tinted[mat] = mat.BaseColor
		}
		mat.BaseColor = m.cfg.HighlightColor
	}
}

func (m *StateMachine) restoreHighlight() {
	for mat, c := range m.tinted {
		mat.BaseColor = c
		delete(m.tinted, mat)
	}
}

// Click moves the pointer to (rawX, rawY), hit tests, and opens the hit
// candidate's URL. It reports whether a candidate was hit. The hover state
// is left unchanged.
func (m *StateMachine) Click(rawX, rawY float32) (HitResult, bool) {
	p := m.pointer.Update(rawX, rawY, m.ctx.Surface)
	hit := HitTest(p, m.ctx.Camera, m.ctx.Registry)
	if !hit.HitAny {
		return hit, false
	}

	obj := m.ctx.Registry.Object(hit.Index)
	m.log.Info("candidate clicked",
		zap.String("candidate", obj.ID),
		zap.Int("index", hit.Index),
		zap.String("url", obj.URL),
	)
	if m.nav != nil {
		if err := m.nav.Open(obj.URL); err != nil {
			m.log.Error("open url failed", zap.String("url", obj.URL), zap.Error(err))
		}
	}
	return hit, true
}

// State returns the state after the latest frame.
func (m *StateMachine) State() State { return m.state }

// Tooltip returns the tooltip after the latest frame.
func (m *StateMachine) Tooltip() TooltipState { return m.tooltip }

// Cursor returns the cursor affordance after the latest frame.
func (m *StateMachine) Cursor() Cursor { return m.cursor }

// ClickDetector turns primary-button press/release pairs into clicks.
type ClickDetector struct {
	pressed bool
}

// Press records a button press at (x, y).
func (d *ClickDetector) Press(x, y float32, surface Rect) {
	d.pressed = surface.Contains(x, y)
}

// Release reports whether the release at (x, y) completes a click: the
// press and the release both happened on the surface.
func (d *ClickDetector) Release(x, y float32, surface Rect) bool {
	clicked := d.pressed && surface.Contains(x, y)
	d.pressed = false
	return clicked
}
