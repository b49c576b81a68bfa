// Package ffmpegencoder provides incremental video encoding through an
// external ffmpeg process.
//
// ffmpeg consumes raw RGBA frames on stdin and emits the encoded stream on
// stdout. Both supported formats are chunk-concatenatable: fragmented MP4
// for H.264 and WebM for VP9, so Flush can hand out stream chunks while
// encoding is still in progress.
package ffmpegencoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegbin"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// ErrNotInitialized is returned when the encoder is used before Begin or
// after End.
var ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

// ErrUnsupportedCodec is returned by New for codecs this adapter cannot
// produce.
var ErrUnsupportedCodec = errors.New("ffmpegencoder: unsupported codec")

// Encoder implements ports.VideoEncoder on top of an ffmpeg process.
type Encoder struct {
	codec  string
	width  int
	height int

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  bytes.Buffer
	pending bytes.Buffer
	readerW sync.WaitGroup
	closed  bool
}

// New creates an encoder for "h264" or "vp9".
func New(codec string) (*Encoder, error) {
	switch codec {
	case "h264", "vp9":
		return &Encoder{codec: codec}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, codec)
	}
}

// Begin starts the ffmpeg process.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return fmt.Errorf("ffmpegencoder: already started")
	}

	ffmpegPath, err := ffmpegbin.Find()
	if err != nil {
		return err
	}

	e.width = width
	e.height = height
	e.closed = false
	e.pending.Reset()

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.2f", fps),
		"-i", "pipe:0",
	}

	switch e.codec {
	case "h264":
		args = append(args,
			"-c:v", "libx264",
			"-preset", "fast",
			"-pix_fmt", "yuv420p",
			"-profile:v", "baseline",
			"-level", "3.1",
		)
		if opts.Bitrate > 0 {
			args = append(args, "-b:v", fmt.Sprintf("%d", opts.Bitrate))
		} else {
			args = append(args, "-crf", crfArg(opts.Quality))
		}
		// Fragmented output so stdout chunks concatenate into a valid MP4.
		args = append(args,
			"-movflags", "+frag_keyframe+empty_moov+default_base_moof",
			"-f", "mp4",
			"pipe:1",
		)
	case "vp9":
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-deadline", "realtime",
			"-pix_fmt", "yuv420p",
		)
		if opts.Bitrate > 0 {
			args = append(args, "-b:v", fmt.Sprintf("%d", opts.Bitrate))
		} else {
			args = append(args, "-crf", crfArg(opts.Quality), "-b:v", "0")
		}
		args = append(args, "-f", "webm", "pipe:1")
	}

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stderr = &e.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpegencoder: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpegencoder: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpegencoder: start ffmpeg: %w", err)
	}

	e.cmd = cmd
	e.stdin = stdin

	e.readerW.Add(1)
	go func() {
		defer e.readerW.Done()
		buf := make([]byte, 64*1024)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				e.mu.Lock()
				e.pending.Write(buf[:n])
				e.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	return nil
}

// crfArg maps the 0-63 quality scale to x264/vpx CRF.
func crfArg(quality int) string {
	if quality <= 0 || quality > 63 {
		return "23"
	}
	crf := quality * 51 / 63
	if crf > 51 {
		crf = 51
	}
	return fmt.Sprintf("%d", crf)
}

// EncodeFrame writes one raw RGBA frame to the ffmpeg process.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	stdin := e.stdin
	closed := e.closed
	width, height := e.width, e.height
	e.mu.Unlock()

	if stdin == nil || closed {
		return ErrNotInitialized
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Dx() != width || rgba.Bounds().Dy() != height {
		converted := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(converted, converted.Bounds(), img, img.Bounds().Min, draw.Src)
		rgba = converted
	}

	if _, err := stdin.Write(rgba.Pix); err != nil {
		return fmt.Errorf("ffmpegencoder: write frame: %w\nstderr: %s", err, e.stderr.String())
	}
	return nil
}

// Flush returns output produced since the previous Flush.
func (e *Encoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending.Len() == 0 {
		return nil, nil
	}
	out := make([]byte, e.pending.Len())
	copy(out, e.pending.Bytes())
	e.pending.Reset()
	return out, nil
}

// End closes the input stream, waits for ffmpeg to drain and returns the
// remaining output.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	if e.stdin == nil || e.closed {
		e.mu.Unlock()
		return nil, ErrNotInitialized
	}
	e.closed = true
	stdin := e.stdin
	e.stdin = nil
	cmd := e.cmd
	e.mu.Unlock()

	stdin.Close()

	// The stdout reader exits at EOF, after ffmpeg has emitted everything.
	e.readerW.Wait()
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpegencoder: ffmpeg failed: %w\nstderr: %s", err, e.stderr.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending.Len() == 0 {
		return nil, nil
	}
	out := make([]byte, e.pending.Len())
	copy(out, e.pending.Bytes())
	e.pending.Reset()
	return out, nil
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
