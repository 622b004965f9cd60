// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Tooltip TooltipConfig `yaml:"tooltip"`
	Lights  LightsConfig  `yaml:"lights"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds the drawing surface settings.
type WindowConfig struct {
	Title  string `yaml:"title" env:"SHOWCASE_WINDOW_TITLE"`
	Width  int    `yaml:"width" env:"SHOWCASE_WINDOW_WIDTH"`
	Height int    `yaml:"height" env:"SHOWCASE_WINDOW_HEIGHT"`
	VSync  bool   `yaml:"vsync" env:"SHOWCASE_WINDOW_VSYNC"`
}

// CameraConfig holds the fixed perspective camera.
type CameraConfig struct {
	FOV      float32    `yaml:"fov" env:"SHOWCASE_CAMERA_FOV"` // Vertical, degrees
	Near     float32    `yaml:"near" env:"SHOWCASE_CAMERA_NEAR"`
	Far      float32    `yaml:"far" env:"SHOWCASE_CAMERA_FAR"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// SceneConfig holds the models on display.
type SceneConfig struct {
	ModelPath     string          `yaml:"model_path" env:"SHOWCASE_MODEL_PATH"`
	TexturePath   string          `yaml:"texture_path" env:"SHOWCASE_TEXTURE_PATH"`
	RotationSpeed float32         `yaml:"rotation_speed" env:"SHOWCASE_ROTATION_SPEED"` // Radians per frame
	URLTemplate   string          `yaml:"url_template" env:"SHOWCASE_URL_TEMPLATE"`
	Highlight     HighlightConfig `yaml:"highlight"`
	Candidates    []Candidate     `yaml:"candidates"`
}

// HighlightConfig controls hover tinting of the hovered model.
type HighlightConfig struct {
	Enabled bool       `yaml:"enabled" env:"SHOWCASE_HIGHLIGHT"`
	Color   [4]float32 `yaml:"color"`
}

// Candidate describes one interactable model instance.
type Candidate struct {
	ID       string     `yaml:"id"`
	Label    string     `yaml:"label"`
	URL      string     `yaml:"url"`
	Model    string     `yaml:"model"` // Overrides Scene.ModelPath when set
	Position [3]float32 `yaml:"position"`
	Scale    [3]float32 `yaml:"scale"`
}

// TooltipConfig holds tooltip placement and look.
type TooltipConfig struct {
	OffsetX    int        `yaml:"offset_x" env:"SHOWCASE_TOOLTIP_OFFSET_X"`
	OffsetY    int        `yaml:"offset_y" env:"SHOWCASE_TOOLTIP_OFFSET_Y"`
	Padding    int        `yaml:"padding"`
	FontSize   float64    `yaml:"font_size"` // Points
	Background [4]float32 `yaml:"background"`
	Foreground [4]float32 `yaml:"foreground"`
}

// LightsConfig holds the scene light rig.
type LightsConfig struct {
	Directional DirectionalLight `yaml:"directional"`
	Ambient     AmbientLight     `yaml:"ambient"`
	Spot        SpotLight        `yaml:"spot"`
}

// DirectionalLight is a light infinitely far away along Direction.
type DirectionalLight struct {
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// SpotLight is a positional light.
type SpotLight struct {
	Position  [3]float32 `yaml:"position"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"SHOWCASE_LOG_LEVEL"`
	LogFile string `yaml:"log_file" env:"SHOWCASE_LOG_FILE"`

	// F12 saves the current frame here
	ScreenshotDir string `yaml:"screenshot_dir" env:"SHOWCASE_SCREENSHOT_DIR"`
}

// DefaultURLTemplate builds a candidate URL from its 1-based position.
const DefaultURLTemplate = "https://example.com/model%d"

// Default returns a Config with the three-model showcase.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Model Showcase",
			Width:  1000,
			Height: 500,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{0, 2, 8},
			Target:   [3]float32{0, 2, 0},
		},
		Scene: SceneConfig{
			ModelPath:     "models/model.glb",
			TexturePath:   "models/texture.jpg",
			RotationSpeed: 0.01,
			URLTemplate:   DefaultURLTemplate,
			Highlight: HighlightConfig{
				Enabled: false,
				Color:   [4]float32{1, 0.8, 0, 1},
			},
			Candidates: []Candidate{
				{ID: "model1", Position: [3]float32{-6, -0.5, 0}, Scale: [3]float32{10, 10, 10}},
				{ID: "model2", Position: [3]float32{0, -0.5, 0}, Scale: [3]float32{10, 10, 10}},
				{ID: "model3", Position: [3]float32{6, -0.5, 0}, Scale: [3]float32{10, 10, 10}},
			},
		},
		Tooltip: TooltipConfig{
			OffsetX:    10,
			OffsetY:    10,
			Padding:    4,
			FontSize:   14,
			Background: [4]float32{0, 0, 0, 0.75},
			Foreground: [4]float32{1, 1, 1, 1},
		},
		Lights: LightsConfig{
			Directional: DirectionalLight{
				Direction: [3]float32{10, 10, 10},
				Color:     [3]float32{1, 1, 1},
				Intensity: 1,
			},
			Ambient: AmbientLight{
				Color:     [3]float32{1, 1, 1},
				Intensity: 0.5,
			},
			Spot: SpotLight{
				Position:  [3]float32{5, 10, 5},
				Color:     [3]float32{1, 1, 1},
				Intensity: 2,
			},
		},
		Logging: LoggingConfig{
			Level:         "info",
			LogFile:       "",
			ScreenshotDir: "screenshots",
		},
	}
}

// UseSingleModel collapses the scene to one centred model with hover highlighting.
func (c *Config) UseSingleModel() {
	c.Scene.Candidates = []Candidate{{
		ID:       "model",
		Label:    "3D Model",
		Position: [3]float32{0, -0.5, 0},
		Scale:    [3]float32{10, 10, 10},
	}}
	c.Scene.Highlight.Enabled = true
}

// Validate reports every setting the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v out of range (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far))
	}
	if len(c.Scene.Candidates) == 0 {
		errs = append(errs, errors.New("scene has no candidates"))
	}
	seen := make(map[string]bool, len(c.Scene.Candidates))
	for i, cand := range c.Scene.Candidates {
		if cand.ID == "" {
			errs = append(errs, fmt.Errorf("candidate %d has no id", i))
			continue
		}
		if seen[cand.ID] {
			errs = append(errs, fmt.Errorf("duplicate candidate id %q", cand.ID))
		}
		seen[cand.ID] = true
		if cand.Model == "" && c.Scene.ModelPath == "" {
			errs = append(errs, fmt.Errorf("candidate %q has no model path", cand.ID))
		}
	}
	return errors.Join(errs...)
}

// ModelPathFor returns the asset path a candidate loads from.
func (c *Config) ModelPathFor(cand Candidate) string {
	if cand.Model != "" {
		return cand.Model
	}
	return c.Scene.ModelPath
}
