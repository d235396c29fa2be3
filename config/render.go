package config

import "fmt"

// RenderConfig controls the optional plot and animation output. Rendering is
// a startup capability: when disabled here, render requests downgrade to a
// warning instead of probing for support at call time.
type RenderConfig struct {
	// Enabled switches rendering on.
	Enabled bool `json:"enabled"`
	// Animation additionally writes a GIF over the covered time range.
	Animation bool `json:"animation"`
	// Width and Height are the frame dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`
	// FPS is the animation frame rate.
	FPS int `json:"fps"`
}

// SetDefaults applies sane defaults.
func (c *RenderConfig) SetDefaults() {
	if c.Width == 0 {
		c.Width = 1000
	}
	if c.Height == 0 {
		c.Height = 1000
	}
	if c.FPS == 0 {
		c.FPS = 2
	}
}

// Validate checks frame parameters.
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render: frame dimensions must be positive")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("render: fps must be positive")
	}
	return nil
}
