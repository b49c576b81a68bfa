package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.CaptureFPS != 30.0 {
		t.Errorf("CaptureFPS = %v, want 30", cfg.CaptureFPS)
	}
	if cfg.ChunkIntervalMs != 1000 {
		t.Errorf("ChunkIntervalMs = %d, want 1000", cfg.ChunkIntervalMs)
	}
	if cfg.GraceWaitMs != 1000 {
		t.Errorf("GraceWaitMs = %d, want 1000", cfg.GraceWaitMs)
	}
	if cfg.ProgressIntervalMs != 500 {
		t.Errorf("ProgressIntervalMs = %d, want 500", cfg.ProgressIntervalMs)
	}
	if cfg.Bitrate != 8_000_000 {
		t.Errorf("Bitrate = %d, want 8000000", cfg.Bitrate)
	}
}

func TestLoadFromFile_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
capture_fps: 24
grace_wait_ms: 250
stamp:
  text_color: "#ffcc00"
  min_font_size: 20
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CaptureFPS != 24 {
		t.Errorf("CaptureFPS = %v, want 24", cfg.CaptureFPS)
	}
	if cfg.GraceWaitMs != 250 {
		t.Errorf("GraceWaitMs = %d, want 250", cfg.GraceWaitMs)
	}
	// Untouched keys keep their defaults.
	if cfg.ChunkIntervalMs != 1000 {
		t.Errorf("ChunkIntervalMs = %d, want default 1000", cfg.ChunkIntervalMs)
	}
	if cfg.Stamp.MinFontSize != 20 {
		t.Errorf("Stamp.MinFontSize = %d, want 20", cfg.Stamp.MinFontSize)
	}
	if cfg.Stamp.PanelColor != "#000000" {
		t.Errorf("Stamp.PanelColor = %q, want default", cfg.Stamp.PanelColor)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.Color
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"00ff00", color.RGBA{G: 255, A: 255}},
		{"#FFFFFF", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"", color.Black},
		{"#fff", color.Black},
	}

	for _, tt := range tests {
		if got := ParseColor(tt.input); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToStampStyle(t *testing.T) {
	cfg := Defaults()
	cfg.Stamp.TextColor = "#ff0000"
	cfg.Stamp.FontDivisor = 20

	style := cfg.ToStampStyle()
	if style.TextColor != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("TextColor = %v", style.TextColor)
	}
	if style.FontDivisor != 20 {
		t.Errorf("FontDivisor = %d, want 20", style.FontDivisor)
	}
	if style.MinFontSize != 16 {
		t.Errorf("MinFontSize = %d, want 16", style.MinFontSize)
	}
}
