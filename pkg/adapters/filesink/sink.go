// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSourceJSON saves the probed source metadata as JSON.
func (s *Sink) SaveSourceJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "source.json")
	return s.fs.WriteFile(path, data)
}

// SaveStampedFrame saves a composited frame.
func (s *Sink) SaveStampedFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatJPEG, 85)
	if err != nil {
		return fmt.Errorf("encode stamped frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.jpg", index))
	return s.fs.WriteFile(path, data)
}

// SaveSegmentsJSON saves the captured segment index as JSON.
func (s *Sink) SaveSegmentsJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "segments.json")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
