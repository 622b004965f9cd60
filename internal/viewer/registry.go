// Package viewer implements the interactive core of the showcase: the
// asset registry, pointer tracking, hit testing, the hover/click state
// machine and the per-frame animation driver. It has no windowing or GL
// dependency; those are supplied through the Drawer and Navigator
// interfaces.
package viewer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/scene"
)

var (
	// ErrUnknownCandidate is returned for an identifier the registry does not hold.
	ErrUnknownCandidate = errors.New("unknown candidate")

	// ErrAlreadySettled is returned when a handle is resolved or failed twice.
	ErrAlreadySettled = errors.New("candidate already settled")
)

// HandleState is the load state of a candidate.
type HandleState int

const (
	Pending HandleState = iota
	Ready
	Failed
)

func (s HandleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("HandleState(%d)", int(s))
}

// CandidateSpec is the static description of one interactable model.
type CandidateSpec struct {
	ID       string
	Label    string
	URL      string
	Position mgl32.Vec3
	Scale    mgl32.Vec3
}

// SpecsFromConfig builds candidate specs in configured order, filling in
// the default "Model N" label and the templated URL.
func SpecsFromConfig(cfg *config.Config) []CandidateSpec {
	tmpl := cfg.Scene.URLTemplate
	if tmpl == "" {
		tmpl = config.DefaultURLTemplate
	}

	specs := make([]CandidateSpec, 0, len(cfg.Scene.Candidates))
	for i, c := range cfg.Scene.Candidates {
		spec := CandidateSpec{
			ID:       c.ID,
			Label:    c.Label,
			URL:      c.URL,
			Position: mgl32.Vec3(c.Position),
			Scale:    mgl32.Vec3(c.Scale),
		}
		if spec.Label == "" {
			spec.Label = fmt.Sprintf("Model %d", i+1)
		}
		if spec.URL == "" {
			spec.URL = fmt.Sprintf(tmpl, i+1)
		}
		if spec.Scale == (mgl32.Vec3{}) {
			spec.Scale = mgl32.Vec3{1, 1, 1}
		}
		specs = append(specs, spec)
	}
	return specs
}

// TrackedObject is a loaded, interactable model instance.
type TrackedObject struct {
	ID       string
	Label    string
	Root     *scene.Node
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	URL      string
}

// Rotation returns the current spin around the vertical axis in radians.
func (o *TrackedObject) Rotation() float32 {
	return o.Root.Transform.Yaw
}

// AssetHandle is the future-like slot for one candidate.
type AssetHandle struct {
	spec  CandidateSpec
	state HandleState
	obj   *TrackedObject
	err   error
}

// ID returns the candidate identifier.
func (h *AssetHandle) ID() string { return h.spec.ID }

// Spec returns the candidate's static description.
func (h *AssetHandle) Spec() CandidateSpec { return h.spec }

// State returns the load state.
func (h *AssetHandle) State() HandleState { return h.state }

// Object returns the tracked object, or nil unless the handle is Ready.
func (h *AssetHandle) Object() *TrackedObject { return h.obj }

// Err returns the failure reason, or nil unless the handle is Failed.
func (h *AssetHandle) Err() error { return h.err }

// Registry holds one handle per candidate in a fixed order. It is owned by
// the main loop and is not safe for concurrent use.
type Registry struct {
	handles []*AssetHandle
	index   map[string]int
}

// NewRegistry creates a registry with every candidate Pending. When an ID
// repeats, lookups resolve to its first occurrence.
func NewRegistry(specs ...CandidateSpec) *Registry {
	r := &Registry{
		handles: make([]*AssetHandle, 0, len(specs)),
		index:   make(map[string]int, len(specs)),
	}
	for i, s := range specs {
		r.handles = append(r.handles, &AssetHandle{spec: s})
		if _, dup := r.index[s.ID]; !dup {
			r.index[s.ID] = i
		}
	}
	return r
}

// Len returns the number of candidates.
func (r *Registry) Len() int { return len(r.handles) }

// Handle returns the handle at position i.
func (r *Registry) Handle(i int) *AssetHandle { return r.handles[i] }

// Lookup returns the handle and position for id.
func (r *Registry) Lookup(id string) (*AssetHandle, int, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, -1, false
	}
	return r.handles[i], i, true
}

// Object returns the tracked object at position i, or nil when it is not
// Ready or i is out of range.
func (r *Registry) Object(i int) *TrackedObject {
	if i < 0 || i >= len(r.handles) {
		return nil
	}
	return r.handles[i].obj
}

// Resolve moves a Pending candidate to Ready with root as its visual. The
// candidate's position and scale are applied to root.
func (r *Registry) Resolve(id string, root *scene.Node) (*TrackedObject, error) {
	h, _, err := r.pending(id)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("resolve %q: nil visual", id)
	}

	root.Transform.Position = h.spec.Position
	root.Transform.Scale = h.spec.Scale

	h.obj = &TrackedObject{
		ID:       h.spec.ID,
		Label:    h.spec.Label,
		Root:     root,
		Position: h.spec.Position,
		Scale:    h.spec.Scale,
		URL:      h.spec.URL,
	}
	h.state = Ready
	return h.obj, nil
}

// Fail moves a Pending candidate to Failed, keeping reason.
func (r *Registry) Fail(id string, reason error) error {
	h, _, err := r.pending(id)
	if err != nil {
		return err
	}
	h.state = Failed
	h.err = reason
	return nil
}

func (r *Registry) pending(id string) (*AssetHandle, int, error) {
	h, i, ok := r.Lookup(id)
	if !ok {
		return nil, -1, fmt.Errorf("%w: %q", ErrUnknownCandidate, id)
	}
	if h.state != Pending {
		return nil, -1, fmt.Errorf("%w: %q is %s", ErrAlreadySettled, id, h.state)
	}
	return h, i, nil
}

// Each calls fn for every Ready object in registry order.
func (r *Registry) Each(fn func(i int, obj *TrackedObject)) {
	for i, h := range r.handles {
		if h.state == Ready {
			fn(i, h.obj)
		}
	}
}

// Counts returns how many candidates are in each state.
func (r *Registry) Counts() (pending, ready, failed int) {
	for _, h := range r.handles {
		switch h.state {
		case Pending:
			pending++
		case Ready:
			ready++
		case Failed:
			failed++
		}
	}
	return pending, ready, failed
}
