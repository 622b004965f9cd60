// Package app implements the viewer's main loop on top of SDL2 and OpenGL.
package app

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/showcase/internal/assets"
	"github.com/Faultbox/showcase/internal/config"
	"github.com/Faultbox/showcase/internal/engine/debug"
	"github.com/Faultbox/showcase/internal/engine/input"
	"github.com/Faultbox/showcase/internal/engine/renderer"
	"github.com/Faultbox/showcase/internal/engine/window"
	"github.com/Faultbox/showcase/internal/logger"
	"github.com/Faultbox/showcase/internal/viewer"
)

// App is the running viewer.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *viewer.Session
	shots    *debug.Screenshots

	screenshot bool // Capture after the next draw
}

// New opens the window and prepares the viewer described by cfg.
// Assets are read relative to the working directory.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("candidates", len(cfg.Scene.Candidates)),
	)

	a := &App{cfg: cfg, log: log}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	tip := cfg.Tooltip
	a.renderer, err = renderer.New(renderer.Config{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		FontSize:   tip.FontSize,
		Padding:    tip.Padding,
		Foreground: toColor(tip.Foreground),
		Background: toColor(tip.Background),
	}, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = debug.NewScreenshots(cfg.Logging.ScreenshotDir, "showcase")

	loader := assets.NewLoader(assets.NewSource(os.DirFS(".")), logger.Named("assets"))
	a.session = viewer.NewSession(cfg, loader, a.renderer, a.window, logger.Named("viewer"))

	log.Info("viewer initialized")
	return a, nil
}

// Run starts loading and runs the frame loop until the window closes.
func (a *App) Run() error {
	a.running = true
	a.session.Start()

	frameCount := 0
	fpsTimer := time.Now()
	lastReady := -1

	a.log.Info("starting frame loop")

	for a.running {
		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		if !a.running {
			break
		}

		// 2. Apply loads, animate, hit test, draw
		if err := a.session.Frame(); err != nil {
			a.log.Error("frame failed", zap.Error(err))
		}
		a.window.SetCursor(a.session.Machine().Cursor())
		if a.screenshot {
			a.saveScreenshot()
		}

		if ready, total := a.session.Progress(); ready != lastReady {
			a.window.SetTitle(fmt.Sprintf("%s (%d/%d)", a.cfg.Window.Title, ready, total))
			lastReady = ready
		}

		// 3. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, e := range a.input.Events() {
		x, y := float32(e.MouseX), float32(e.MouseY)
		switch e.Type {
		case input.EventMouseMove:
			a.session.PointerMoved(x, y)
		case input.EventMouseDown:
			if e.Primary() {
				a.session.PointerDown(x, y)
			}
		case input.EventMouseUp:
			if e.Primary() {
				a.session.PointerUp(x, y)
			}
		case input.EventWindowResize:
			a.session.Resize(e.Width, e.Height)
			a.renderer.Resize(e.Width, e.Height)
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_F12:
				a.screenshot = true
			}
		}
	}
}

func (a *App) saveScreenshot() {
	a.screenshot = false
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.shots.SaveFramebuffer(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// Close releases the loader, renderer and window.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.session != nil {
		a.session.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func toColor(c [4]float32) color.Color {
	return color.NRGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(c[3]),
	}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
