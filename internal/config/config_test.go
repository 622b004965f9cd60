package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1000 {
		t.Errorf("expected width 1000, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 500 {
		t.Errorf("expected height 500, got %d", cfg.Window.Height)
	}

	if cfg.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != [3]float32{0, 2, 8} {
		t.Errorf("expected camera at (0,2,8), got %v", cfg.Camera.Position)
	}

	if len(cfg.Scene.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cfg.Scene.Candidates))
	}
	wantX := []float32{-6, 0, 6}
	for i, cand := range cfg.Scene.Candidates {
		if cand.Position[0] != wantX[i] {
			t.Errorf("candidate %d x = %v, want %v", i, cand.Position[0], wantX[i])
		}
		if cand.Scale != [3]float32{10, 10, 10} {
			t.Errorf("candidate %d scale = %v, want 10", i, cand.Scale)
		}
	}
	if cfg.Scene.RotationSpeed != 0.01 {
		t.Errorf("expected rotation speed 0.01, got %v", cfg.Scene.RotationSpeed)
	}
	if cfg.Scene.Highlight.Enabled {
		t.Error("expected highlight to be disabled by default")
	}

	if cfg.Tooltip.OffsetX != 10 || cfg.Tooltip.OffsetY != 10 {
		t.Errorf("expected tooltip offset (10,10), got (%d,%d)", cfg.Tooltip.OffsetX, cfg.Tooltip.OffsetY)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir 'screenshots', got %q", cfg.Logging.ScreenshotDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestUseSingleModel(t *testing.T) {
	cfg := Default()
	cfg.UseSingleModel()

	if len(cfg.Scene.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cfg.Scene.Candidates))
	}
	if cfg.Scene.Candidates[0].Label != "3D Model" {
		t.Errorf("expected fixed label, got %q", cfg.Scene.Candidates[0].Label)
	}
	if !cfg.Scene.Highlight.Enabled {
		t.Error("expected highlight enabled for single model")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero width",
			mutate:  func(c *Config) { c.Window.Width = 0 },
			wantErr: "window size",
		},
		{
			name:    "near beyond far",
			mutate:  func(c *Config) { c.Camera.Near = 2000 },
			wantErr: "camera near",
		},
		{
			name:    "bad fov",
			mutate:  func(c *Config) { c.Camera.FOV = 180 },
			wantErr: "camera fov",
		},
		{
			name:    "no candidates",
			mutate:  func(c *Config) { c.Scene.Candidates = nil },
			wantErr: "no candidates",
		},
		{
			name: "duplicate id",
			mutate: func(c *Config) {
				c.Scene.Candidates[1].ID = c.Scene.Candidates[0].ID
			},
			wantErr: "duplicate candidate id",
		},
		{
			name: "missing model path",
			mutate: func(c *Config) {
				c.Scene.ModelPath = ""
			},
			wantErr: "no model path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestModelPathFor(t *testing.T) {
	cfg := Default()
	if got := cfg.ModelPathFor(cfg.Scene.Candidates[0]); got != "models/model.glb" {
		t.Errorf("ModelPathFor() = %q, want shared path", got)
	}
	cand := Candidate{ID: "x", Model: "other.glb"}
	if got := cfg.ModelPathFor(cand); got != "other.glb" {
		t.Errorf("ModelPathFor() = %q, want override", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

camera:
  fov: 60
  position: [1, 2, 3]

scene:
  model_path: "assets/robot.glb"
  rotation_speed: 0.02
  highlight:
    enabled: true
    color: [1, 0, 0, 1]
  candidates:
    - id: left
      label: "Left robot"
      url: "https://example.org/left"
      position: [-3, 0, 0]
      scale: [1, 1, 1]
    - id: right
      position: [3, 0, 0]
      scale: [2, 2, 2]

logging:
  level: "debug"
  log_file: "showcase.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected camera position (1,2,3), got %v", cfg.Camera.Position)
	}
	// Unset fields keep their defaults
	if cfg.Camera.Far != 1000 {
		t.Errorf("expected far to keep default 1000, got %v", cfg.Camera.Far)
	}
	if cfg.Scene.ModelPath != "assets/robot.glb" {
		t.Errorf("expected model path assets/robot.glb, got %s", cfg.Scene.ModelPath)
	}
	if !cfg.Scene.Highlight.Enabled {
		t.Error("expected highlight enabled")
	}
	if len(cfg.Scene.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cfg.Scene.Candidates))
	}
	if cfg.Scene.Candidates[0].Label != "Left robot" {
		t.Errorf("expected label 'Left robot', got %q", cfg.Scene.Candidates[0].Label)
	}
	if cfg.Scene.Candidates[1].Scale != [3]float32{2, 2, 2} {
		t.Errorf("expected scale 2, got %v", cfg.Scene.Candidates[1].Scale)
	}
	if cfg.Logging.LogFile != "showcase.log" {
		t.Errorf("expected log file 'showcase.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/showcase.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHOWCASE_WINDOW_WIDTH", "640")
	t.Setenv("SHOWCASE_ROTATION_SPEED", "0.05")
	t.Setenv("SHOWCASE_LOG_LEVEL", "warn")

	cfg := Default()
	if err := loadFromEnv(cfg); err != nil {
		t.Fatalf("loadFromEnv() error: %v", err)
	}

	if cfg.Window.Width != 640 {
		t.Errorf("expected width 640 from env, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 500 {
		t.Errorf("expected height to keep default 500, got %d", cfg.Window.Height)
	}
	if cfg.Scene.RotationSpeed != 0.05 {
		t.Errorf("expected rotation speed 0.05 from env, got %v", cfg.Scene.RotationSpeed)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn from env, got %s", cfg.Logging.Level)
	}
	if len(cfg.Scene.Candidates) != 3 {
		t.Errorf("expected candidates untouched, got %d", len(cfg.Scene.Candidates))
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("SHOWCASE_WINDOW_WIDTH", "wide")

	err := loadFromEnv(Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "single flag",
			setup: func() { *flagSingle = true },
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Scene.Candidates) != 1 {
					t.Errorf("expected one candidate, got %d", len(cfg.Scene.Candidates))
				}
			},
			teardown: func() { *flagSingle = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1280
				*flagHeight = 640
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 1280 || cfg.Window.Height != 640 {
					t.Errorf("expected 1280x640, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "model flag",
			setup: func() { *flagModel = "custom.glb" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.ModelPath != "custom.glb" {
					t.Errorf("expected model path custom.glb, got %s", cfg.Scene.ModelPath)
				}
			},
			teardown: func() { *flagModel = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1600
  height: 900
scene:
  rotation_speed: 0.03
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()
	t.Setenv("SHOWCASE_WINDOW_WIDTH", "1700")
	t.Setenv("SHOWCASE_ROTATION_SPEED", "0.04")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats env beats file
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Scene.RotationSpeed != 0.04 {
		t.Errorf("expected rotation speed 0.04 from env, got %v", cfg.Scene.RotationSpeed)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("scene:\n  candidates: []\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid config error, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Scene.Candidates[0].Label = "Saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile() error: %v", err)
	}
	if loaded.Scene.Candidates[0].Label != "Saved" {
		t.Errorf("expected saved label, got %q", loaded.Scene.Candidates[0].Label)
	}
}
