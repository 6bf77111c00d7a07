// Package config loads the region-clip-mcp TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/region-clip-mcp/internal/xmp"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full configuration file.
type Config struct {
	Output Output `toml:"output"`
	Rights Rights `toml:"rights"`
	Log    Log    `toml:"log"`
}

// Output controls how clips are encoded and where they are written.
type Output struct {
	MimeType    string `toml:"mime_type"`
	JPEGQuality int    `toml:"jpeg_quality"`
	// Background is a hex colour painted under transparent pixels of JPEG
	// output.
	Background string `toml:"background"`
	// Dir is the object root for written clips. Empty disables writing.
	Dir string `toml:"dir"`
}

// Rights holds the licence policy and the fields applied to every clip
// unless a request overrides them.
type Rights struct {
	AllowMissingLicense bool       `toml:"allow_missing_license"`
	Defaults            xmp.Rights `toml:"defaults"`
}

// Log controls logging.
type Log struct {
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: Output{
			MimeType:    "image/jpeg",
			JPEGQuality: 90,
			Background:  "#ffffff",
		},
	}
}

// Load reads the file at path over the defaults. An empty path or a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys missing
// from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Output.MimeType {
	case "image/jpeg", "image/png":
	default:
		return fmt.Errorf("%w: output.mime_type %q is not image/jpeg or image/png", ErrInvalidConfig, c.Output.MimeType)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("%w: output.jpeg_quality %d is outside 1-100", ErrInvalidConfig, c.Output.JPEGQuality)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor parses Output.Background.
func (c *Config) BackgroundColor() (color.Color, error) {
	col, err := colorful.Hex(c.Output.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: output.background %q: %v", ErrInvalidConfig, c.Output.Background, err)
	}
	return col, nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
