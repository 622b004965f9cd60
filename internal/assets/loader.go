package assets

import (
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/showcase/internal/engine/scene"
	"github.com/Faultbox/showcase/internal/engine/texture"
)

// Result is a finished load. Exactly one of Model, Image or Err is set.
type Result struct {
	ID   string // Candidate the model was requested for; empty for textures
	Kind string
	Path string

	Model   *scene.Node
	Texture *scene.Texture // Target for Image
	Image   *image.RGBA

	Err error
}

// Loader runs loads in goroutines and queues their results until the main
// loop drains them.
type Loader struct {
	src     *Source
	log     *zap.Logger
	results chan Result
	done    chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewLoader creates a loader reading from src.
func NewLoader(src *Source, log *zap.Logger) *Loader {
	return &Loader{
		src:     src,
		log:     logger(log),
		results: make(chan Result, 16),
		done:    make(chan struct{}),
	}
}

// LoadModel starts loading the model at path for candidate id.
func (l *Loader) LoadModel(id, path string) {
	l.spawn(KindModel, path, func() Result {
		r := Result{ID: id, Kind: KindModel, Path: path}
		data, err := l.src.Read(path)
		if err == nil {
			r.Model, err = DecodeModel(data, path)
		}
		if err != nil {
			r.Err = &LoadError{Path: path, Kind: KindModel, Err: err}
		}
		return r
	})
}

// LoadTexture returns an empty texture for path and starts filling it.
// The pixels are attached when the result is applied on the main thread.
func (l *Loader) LoadTexture(path string) *scene.Texture {
	tex := scene.NewTexture(path)
	l.spawn(KindTexture, path, func() Result {
		r := Result{Kind: KindTexture, Path: path, Texture: tex}
		data, err := l.src.Read(path)
		if err == nil {
			r.Image, err = texture.Decode(data, path)
		}
		if err != nil {
			r.Err = &LoadError{Path: path, Kind: KindTexture, Err: err}
		}
		return r
	})
	return tex
}

// spawn runs load in a goroutine unless the loader is closed.
func (l *Loader) spawn(kind, path string, load func() Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.log.Warn("load after close", zap.String("kind", kind), zap.String("path", path))
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		r := load()
		select {
		case l.results <- r:
		case <-l.done:
		}
	}()
	l.log.Debug("load started", zap.String("kind", kind), zap.String("path", path))
}

// Drain calls fn for every result that is ready, without blocking.
// It returns how many were handled.
func (l *Loader) Drain(fn func(Result)) int {
	n := 0
	for {
		select {
		case r := <-l.results:
			fn(r)
			n++
		default:
			return n
		}
	}
}

// Results exposes the completion channel for callers that want to block.
func (l *Loader) Results() <-chan Result {
	return l.results
}

// Close stops accepting loads and waits for running ones. Results not yet
// drained are dropped.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.done)
	l.mu.Unlock()

	l.wg.Wait()
	hits, misses := l.src.Cache().Stats()
	l.log.Debug("loader closed", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))
}

// ApplyTexture sets tex as the color map of every mesh material under root.
func ApplyTexture(root *scene.Node, tex *scene.Texture) {
	if root == nil || tex == nil {
		return
	}
	for _, m := range root.Materials() {
		m.Map = tex
	}
}
