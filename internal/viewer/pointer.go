package viewer

import "github.com/go-gl/mathgl/mgl32"

// PointerState is the latest pointer position.
type PointerState struct {
	NDC mgl32.Vec2 // Normalized device coordinates, +Y up; not clamped

	// Tooltip anchor: raw position plus the configured offset.
	ScreenX int
	ScreenY int
}

// PointerTracker converts raw surface pixels to normalized coordinates.
// Before the first Update the pointer sits at the surface centre.
type PointerTracker struct {
	offsetX int
	offsetY int
	state   PointerState
}

// NewPointerTracker creates a tracker that anchors the tooltip at the
// pointer plus (offsetX, offsetY).
func NewPointerTracker(offsetX, offsetY int) *PointerTracker {
	return &PointerTracker{offsetX: offsetX, offsetY: offsetY}
}

// Update records a pointer position given in the same pixel space as
// bounds. A bounds rect with no area keeps the previous normalized
// coordinates.
func (t *PointerTracker) Update(rawX, rawY float32, bounds Rect) PointerState {
	if !bounds.Empty() {
		t.state.NDC = mgl32.Vec2{
			(rawX-bounds.X)/bounds.Width*2 - 1,
			-((rawY-bounds.Y)/bounds.Height)*2 + 1,
		}
	}
	t.state.ScreenX = int(rawX) + t.offsetX
	t.state.ScreenY = int(rawY) + t.offsetY
	return t.state
}

// Current returns the latest state.
func (t *PointerTracker) Current() PointerState {
	return t.state
}
