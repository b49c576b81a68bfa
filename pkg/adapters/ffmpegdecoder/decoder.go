// Package ffmpegdecoder provides playback-ordered frame delivery through an
// external ffmpeg process.
//
// ffmpeg reads the container from stdin and emits raw RGBA frames on stdout;
// each frame is exactly width*height*4 bytes, so frame boundaries fall out of
// the byte count alone.
package ffmpegdecoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegbin"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Decoder implements ports.FrameSource using ffmpeg.
type Decoder struct {
	input io.Reader
	info  ports.SourceInfo

	mu       sync.Mutex
	cmd      *exec.Cmd
	stopOnce sync.Once
	stopped  bool
}

// New creates a decoder over raw container data. info supplies the frame
// geometry and rate established by probing.
func New(input io.Reader, info ports.SourceInfo) *Decoder {
	return &Decoder{input: input, info: info}
}

// Play starts ffmpeg and returns a channel delivering frames in presentation
// order. The channel is closed at end-of-stream or on decode failure.
func (d *Decoder) Play(ctx context.Context) (<-chan ports.VideoFrame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd != nil {
		return nil, fmt.Errorf("ffmpegdecoder: already playing")
	}
	if d.info.Width <= 0 || d.info.Height <= 0 {
		return nil, fmt.Errorf("ffmpegdecoder: invalid frame geometry %dx%d", d.info.Width, d.info.Height)
	}

	ffmpegPath, err := ffmpegbin.Find()
	if err != nil {
		return nil, err
	}

	args := []string{
		"-i", "pipe:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stdin = d.input
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpegdecoder: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpegdecoder: start ffmpeg: %w", err)
	}
	d.cmd = cmd

	fps := d.info.FPS
	if fps <= 0 {
		fps = 30.0
	}
	frameDurationMs := int(1000.0 / fps)

	ch := make(chan ports.VideoFrame, 4)
	go func() {
		defer close(ch)
		defer cmd.Wait()

		frameSize := d.info.Width * d.info.Height * 4
		index := 0
		for {
			buf := make([]byte, frameSize)
			if _, err := io.ReadFull(stdout, buf); err != nil {
				// EOF or a short trailing read ends the stream.
				return
			}

			img := &image.RGBA{
				Pix:    buf,
				Stride: d.info.Width * 4,
				Rect:   image.Rect(0, 0, d.info.Width, d.info.Height),
			}
			frame := ports.VideoFrame{
				Image:       img,
				TimestampMs: int(float64(index) * 1000.0 / fps),
				DurationMs:  frameDurationMs,
			}

			select {
			case <-ctx.Done():
				return
			case ch <- frame:
			}
			index++
		}
	}()

	return ch, nil
}

// Stop kills the decoding process. Safe to call more than once or before
// Play.
func (d *Decoder) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.stopped = true
		if d.cmd != nil && d.cmd.Process != nil {
			d.cmd.Process.Kill()
		}
	})
}

// Ensure Decoder implements ports.FrameSource
var _ ports.FrameSource = (*Decoder)(nil)
