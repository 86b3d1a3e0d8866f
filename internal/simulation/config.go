// Package simulation provides configuration for the light simulation.
// Values are fixed at startup; a config file may override the defaults.
package simulation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"chosenoffset.com/lightbounce/internal/core/geom"
	"chosenoffset.com/lightbounce/internal/core/raytrace"
	"chosenoffset.com/lightbounce/internal/core/scene"
)

// Config holds all simulation parameters
type Config struct {
	Scene   SceneConfig   `json:"scene" toml:"scene"`
	Tracing TracingConfig `json:"tracing" toml:"tracing"`
	Display DisplayConfig `json:"display" toml:"display"`
}

// SceneConfig defines the bounds, the light and the occluders
type SceneConfig struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`

	Light     CircleConfig   `json:"light" toml:"light"`
	Occluders []CircleConfig `json:"occluders" toml:"occluders"`

	MovingOccluder int     `json:"moving_occluder" toml:"moving_occluder"` // -1 disables oscillation
	Speed          float64 `json:"speed" toml:"speed"`                     // units per second
}

// CircleConfig is a circle with an outline color
type CircleConfig struct {
	X     float64    `json:"x" toml:"x"`
	Y     float64    `json:"y" toml:"y"`
	R     float64    `json:"r" toml:"r"`
	Color [3]float32 `json:"color" toml:"color"`
}

// TracingConfig defines the ray bundle and bounce behavior
type TracingConfig struct {
	Rays       int          `json:"rays" toml:"rays"`
	MaxBounces int          `json:"max_bounces" toml:"max_bounces"`
	Offset     float64      `json:"offset" toml:"offset"`   // restart distance past a hit
	Workers    int          `json:"workers" toml:"workers"` // 0 means one per CPU
	Palette    [][3]float32 `json:"palette" toml:"palette"` // color per bounce depth
}

// DisplayConfig defines presentation details
type DisplayConfig struct {
	OutlineSides    int      `json:"outline_sides" toml:"outline_sides"`
	LineWidth       float32  `json:"line_width" toml:"line_width"`
	MetricsInterval Duration `json:"metrics_interval" toml:"metrics_interval"`
	Title           string   `json:"title" toml:"title"`
}

// Duration is a time.Duration that decodes from strings like "1s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}
	return d.UnmarshalText([]byte(s))
}

// DefaultConfig returns the classic three-occluder scene
func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Width:  1200,
			Height: 600,
			Light:  CircleConfig{X: 300, Y: 300, R: 40, Color: [3]float32{1, 1, 1}},
			Occluders: []CircleConfig{
				{X: 700, Y: 300, R: 80, Color: [3]float32{0.8, 0.1, 0.1}},
				{X: 900, Y: 525, R: 40, Color: [3]float32{0.1, 0.8, 0.1}},
				{X: 900, Y: 120, R: 40, Color: [3]float32{0.5, 0.2, 0.8}},
			},
			MovingOccluder: 0,
			Speed:          100,
		},
		Tracing: TracingConfig{
			Rays:       15000,
			MaxBounces: 3,
			Offset:     raytrace.DefaultOffset,
			Workers:    0,
			Palette:    paletteConfig(raytrace.DefaultPalette),
		},
		Display: DisplayConfig{
			OutlineSides:    100,
			LineWidth:       1,
			MetricsInterval: Duration{time.Second},
			Title:           "Light Bounce",
		},
	}
}

// LoadConfig loads a config file on top of the defaults. Files ending in
// .toml are decoded as TOML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Wrap(err, "failed to read simulation config")
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, errors.Wrap(err, "failed to parse simulation config")
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse simulation config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the config for values the simulation cannot run with
func (c *Config) Validate() error {
	s := c.Scene
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return errors.Errorf("scene size must be positive, got %gx%g", s.Width, s.Height)
	case s.Light.R < 0:
		return errors.Errorf("light radius must not be negative, got %g", s.Light.R)
	case s.MovingOccluder >= len(s.Occluders) || s.MovingOccluder < -1:
		return errors.Errorf("moving occluder %d out of range for %d occluders", s.MovingOccluder, len(s.Occluders))
	case c.Tracing.Rays < 0:
		return errors.Errorf("ray count must not be negative, got %d", c.Tracing.Rays)
	case c.Tracing.MaxBounces < 0:
		return errors.Errorf("max bounces must not be negative, got %d", c.Tracing.MaxBounces)
	case c.Tracing.Offset < 0:
		return errors.Errorf("bounce offset must not be negative, got %g", c.Tracing.Offset)
	case c.Tracing.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Tracing.Workers)
	case len(c.Tracing.Palette) == 0:
		return errors.New("palette must have at least one color")
	case c.Display.OutlineSides < 3:
		return errors.Errorf("outline sides must be at least 3, got %d", c.Display.OutlineSides)
	case c.Display.LineWidth <= 0:
		return errors.Errorf("line width must be positive, got %g", c.Display.LineWidth)
	}
	for i, o := range s.Occluders {
		if o.R < 0 {
			return errors.Errorf("occluder %d radius must not be negative, got %g", i, o.R)
		}
	}
	return nil
}

// Bounds returns the scene border rectangle
func (c *Config) Bounds() geom.Rect {
	return geom.Rect{W: c.Scene.Width, H: c.Scene.Height}
}

// Workers resolves the tracing worker count
func (c *Config) Workers() int {
	if c.Tracing.Workers > 0 {
		return c.Tracing.Workers
	}
	return runtime.NumCPU()
}

// NewScene builds the initial scene state
func (c *Config) NewScene() *scene.Scene {
	occ := make([]scene.Occluder, len(c.Scene.Occluders))
	for i, o := range c.Scene.Occluders {
		occ[i] = scene.Occluder{Circle: o.circle(), Color: rgb(o.Color)}
	}
	return scene.New(c.Bounds(), c.Scene.Light.circle(), occ, c.Scene.MovingOccluder, c.Scene.Speed)
}

// LightColor returns the outline color of the light
func (c *Config) LightColor() geom.RGB {
	return rgb(c.Scene.Light.Color)
}

// NewTracer builds the bounce tracer
func (c *Config) NewTracer() *raytrace.Tracer {
	t := raytrace.NewTracer(c.Tracing.MaxBounces, c.Bounds())
	t.Offset = c.Tracing.Offset
	t.Workers = c.Workers()
	t.Palette = make([]geom.RGB, len(c.Tracing.Palette))
	for i, p := range c.Tracing.Palette {
		t.Palette[i] = rgb(p)
	}
	return t
}

func (o CircleConfig) circle() geom.Circle {
	return geom.Circle{Center: geom.Point{X: o.X, Y: o.Y}, R: o.R}
}

func rgb(c [3]float32) geom.RGB {
	return geom.RGB{R: c[0], G: c[1], B: c[2]}
}

func paletteConfig(p []geom.RGB) [][3]float32 {
	out := make([][3]float32, len(p))
	for i, c := range p {
		out[i] = [3]float32{c.R, c.G, c.B}
	}
	return out
}
