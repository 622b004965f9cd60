package viewer

import (
	"fmt"
	"math"
)

// Drawer renders one frame of the scene with the tooltip overlay.
type Drawer interface {
	Draw(ctx *ViewerContext, tooltip TooltipState) error
}

// Driver advances the scene by one step per displayed frame.
type Driver struct {
	ctx     *ViewerContext
	machine *StateMachine
	drawer  Drawer
	delta   float32
	frames  uint64
}

// NewDriver creates a driver that spins every loaded model by delta
// radians per frame. drawer may be nil for headless use.
func NewDriver(ctx *ViewerContext, machine *StateMachine, drawer Drawer, delta float32) *Driver {
	return &Driver{
		ctx:     ctx,
		machine: machine,
		drawer:  drawer,
		delta:   delta,
	}
}

// Frame rotates every Ready model, updates the interaction state and
// draws. A draw error is returned; the next frame is unaffected.
func (d *Driver) Frame() error {
	d.ctx.Registry.Each(func(_ int, obj *TrackedObject) {
		obj.Root.Transform.Yaw = wrapAngle(obj.Root.Transform.Yaw + d.delta)
	})

	d.machine.Frame()
	d.frames++

	if d.drawer == nil {
		return nil
	}
	if err := d.drawer.Draw(d.ctx, d.machine.Tooltip()); err != nil {
		return fmt.Errorf("draw frame %d: %w", d.frames, err)
	}
	return nil
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	w := float32(math.Mod(float64(a), twoPi))
	if w < 0 {
		w += twoPi
	}
	if w >= twoPi {
		w = 0
	}
	return w
}
