// Package config provides configuration loading and management.
package config

import (
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
)

// Config represents the full configuration for fuckteslacam.
type Config struct {
	// Input/Output
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`

	// Capture
	CaptureFPS      float64 `yaml:"capture_fps"`
	ChunkIntervalMs int     `yaml:"chunk_interval_ms"`
	GraceWaitMs     int     `yaml:"grace_wait_ms"`

	// Progress
	ProgressIntervalMs int `yaml:"progress_interval_ms"`

	// Encoding
	Bitrate int `yaml:"bitrate"`
	Quality int `yaml:"quality"`

	// Stamp
	Stamp StampConfig `yaml:"stamp"`

	// External tools
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// StampConfig represents watermark styling options.
type StampConfig struct {
	TextColor   string `yaml:"text_color"`
	PanelColor  string `yaml:"panel_color"`
	MinFontSize int    `yaml:"min_font_size"`
	FontDivisor int    `yaml:"font_divisor"`
	PadDivisor  int    `yaml:"pad_divisor"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Capture
		CaptureFPS:      30.0,
		ChunkIntervalMs: 1000,
		GraceWaitMs:     1000,

		// Progress
		ProgressIntervalMs: 500,

		// Encoding
		Bitrate: 8_000_000,
		Quality: 30,

		// Stamp
		Stamp: StampConfig{
			TextColor:   "#ffffff",
			PanelColor:  "#000000",
			MinFontSize: 16,
			FontDivisor: 30,
			PadDivisor:  50,
		},

		// Debug
		DebugDir: "./debug",

		// Logging
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToStampStyle converts the stamp configuration to a pipeline.StampStyle.
func (c Config) ToStampStyle() pipeline.StampStyle {
	style := pipeline.DefaultStampStyle()
	style.TextColor = ParseColor(c.Stamp.TextColor)
	style.PanelColor = ParseColor(c.Stamp.PanelColor)
	if c.Stamp.MinFontSize > 0 {
		style.MinFontSize = c.Stamp.MinFontSize
	}
	if c.Stamp.FontDivisor > 0 {
		style.FontDivisor = c.Stamp.FontDivisor
	}
	if c.Stamp.PadDivisor > 0 {
		style.PadDivisor = c.Stamp.PadDivisor
	}
	return style
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	var r, g, b uint8
	for i, c := range []byte{hex[0], hex[1]} {
		v := hexValue(c)
		if i == 0 {
			r = v << 4
		} else {
			r |= v
		}
	}
	for i, c := range []byte{hex[2], hex[3]} {
		v := hexValue(c)
		if i == 0 {
			g = v << 4
		} else {
			g |= v
		}
	}
	for i, c := range []byte{hex[4], hex[5]} {
		v := hexValue(c)
		if i == 0 {
			b = v << 4
		} else {
			b |= v
		}
	}

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
