// Package mjpegencoder provides in-process Motion JPEG encoding into a
// fragmented MP4 stream. It needs no external tools, so it serves as the
// always-available fallback encoding.
//
// Flush output is segment-structured: the first drain carries the
// initialization segment (ftyp + moov), later drains carry one moof + mdat
// fragment each. Concatenating all drains in order yields a valid fragmented
// MP4 file.
package mjpegencoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// ErrNotInitialized is returned when the encoder is used before Begin or
// after End.
var ErrNotInitialized = errors.New("mjpegencoder: encoder not initialized")

const trackID = uint32(1)

type pendingSample struct {
	data        []byte
	timestampMs int
}

// Encoder implements ports.VideoEncoder producing MJPEG in fragmented MP4.
type Encoder struct {
	mu sync.Mutex

	width       int
	height      int
	fps         float64
	timescale   uint32
	jpegQuality int

	initSeg     []byte
	initEmitted bool
	seqNo       uint32
	samples     []pendingSample
	started     bool
	ended       bool
}

// New creates a new MJPEG encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin builds the initialization segment for the given geometry.
func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("mjpegencoder: already started")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("mjpegencoder: invalid dimensions %dx%d", width, height)
	}
	if fps <= 0 {
		fps = 30.0
	}

	e.width = width
	e.height = height
	e.fps = fps
	e.timescale = uint32(fps * 1000)
	e.jpegQuality = jpegQuality(opts.Quality)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(e.timescale, "video", "en")

	trak := init.Moov.Trak
	entry := mp4.CreateVisualSampleEntryBox("jpeg", uint16(width), uint16(height), nil)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return fmt.Errorf("mjpegencoder: encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return fmt.Errorf("mjpegencoder: encode moov: %w", err)
	}

	e.initSeg = buf.Bytes()
	e.initEmitted = false
	e.seqNo = 1
	e.samples = nil
	e.started = true
	e.ended = false

	return nil
}

// jpegQuality maps the CRF-style 0-63 scale (lower is better) to the JPEG
// 1-100 scale (higher is better).
func jpegQuality(quality int) int {
	if quality <= 0 || quality > 63 {
		return 85
	}
	q := 100 - quality
	if q < 40 {
		q = 40
	}
	return q
}

// EncodeFrame compresses one frame and queues it for the next fragment.
func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return ErrNotInitialized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.jpegQuality}); err != nil {
		return fmt.Errorf("mjpegencoder: encode frame: %w", err)
	}

	e.samples = append(e.samples, pendingSample{data: buf.Bytes(), timestampMs: timestampMs})
	return nil
}

// Flush returns the bytes produced since the previous drain: the init
// segment on the first call, then one fragment per call when frames are
// queued.
func (e *Encoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, ErrNotInitialized
	}
	return e.drain()
}

// drain is called with the lock held.
func (e *Encoder) drain() ([]byte, error) {
	var buf bytes.Buffer

	if !e.initEmitted {
		buf.Write(e.initSeg)
		e.initEmitted = true
	}

	if len(e.samples) > 0 {
		frag, err := mp4.CreateFragment(e.seqNo, trackID)
		if err != nil {
			return nil, fmt.Errorf("mjpegencoder: create fragment: %w", err)
		}

		defaultDur := uint32(float64(e.timescale) / e.fps)
		for i, s := range e.samples {
			dur := defaultDur
			if i < len(e.samples)-1 {
				d := e.samples[i+1].timestampMs - s.timestampMs
				if d > 0 {
					dur = uint32(uint64(d) * uint64(e.timescale) / 1000)
				}
			}
			decodeTime := uint64(s.timestampMs) * uint64(e.timescale) / 1000

			// Every MJPEG frame is intra-coded.
			frag.AddFullSample(mp4.FullSample{
				Sample: mp4.Sample{
					Flags: mp4.SyncSampleFlags,
					Size:  uint32(len(s.data)),
					Dur:   dur,
				},
				DecodeTime: decodeTime,
				Data:       s.data,
			})
		}

		if err := frag.Encode(&buf); err != nil {
			return nil, fmt.Errorf("mjpegencoder: encode fragment: %w", err)
		}

		e.seqNo++
		e.samples = nil
	}

	if buf.Len() == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

// End emits any remaining queued frames and deactivates the encoder.
func (e *Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return nil, ErrNotInitialized
	}
	e.ended = true
	return e.drain()
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
