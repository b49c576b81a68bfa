// Package capture consumes the composited frame buffer as a continuous video
// stream, encodes it incrementally and buffers the encoded segments.
package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Options configures the capture cadence. The capture rate is intentionally
// decoupled from the source frame rate: compositing follows playback while
// capture samples the frame buffer on its own clock.
type Options struct {
	FPS           float64       // nominal capture rate
	ChunkInterval time.Duration // one segment is emitted per interval
	Bitrate       int           // target bitrate in bps
	Quality       int           // CRF-style 0-63
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		FPS:           30.0,
		ChunkInterval: time.Second,
	}
}

type recorderState int

const (
	recorderIdle recorderState = iota
	recorderRunning
	recorderStopped
)

// Recorder binds the frame buffer to an encoder and appends the encoder's
// incremental output to the segment buffer in arrival order.
type Recorder struct {
	fb     *pipeline.FrameBuffer
	enc    ports.VideoEncoder
	segs   *pipeline.SegmentBuffer
	opts   Options
	sink   ports.DebugSink
	logger ports.Logger

	mu       sync.Mutex
	state    recorderState
	firstErr error

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewRecorder creates a capture recorder. The segment buffer is owned by the
// recorder until Stop returns; afterwards ownership passes to finalization.
func NewRecorder(fb *pipeline.FrameBuffer, enc ports.VideoEncoder, segs *pipeline.SegmentBuffer, opts Options, sink ports.DebugSink, logger ports.Logger) *Recorder {
	if opts.FPS <= 0 {
		opts.FPS = DefaultOptions().FPS
	}
	if opts.ChunkInterval <= 0 {
		opts.ChunkInterval = DefaultOptions().ChunkInterval
	}
	return &Recorder{
		fb:     fb,
		enc:    enc,
		segs:   segs,
		opts:   opts,
		sink:   sink,
		logger: logger.WithComponent("capture"),
		quit:   make(chan struct{}),
	}
}

// Start initializes the encoder and begins sampling the frame buffer.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != recorderIdle {
		return fmt.Errorf("capture: recorder already started")
	}

	encOpts := ports.EncoderOptions{Bitrate: r.opts.Bitrate, Quality: r.opts.Quality}
	if err := r.enc.Begin(r.fb.Width(), r.fb.Height(), r.opts.FPS, encOpts); err != nil {
		return fmt.Errorf("capture: begin encoder: %w", err)
	}

	r.state = recorderRunning
	r.wg.Add(1)
	go r.loop()

	r.logger.Debug("Capture started at %.1f fps, %s chunks", r.opts.FPS, r.opts.ChunkInterval)
	return nil
}

// loop samples the frame buffer at the capture rate and drains the encoder
// once per chunk interval. The two cadences are independent timers.
func (r *Recorder) loop() {
	defer r.wg.Done()

	frameTicker := time.NewTicker(time.Duration(float64(time.Second) / r.opts.FPS))
	defer frameTicker.Stop()
	chunkTicker := time.NewTicker(r.opts.ChunkInterval)
	defer chunkTicker.Stop()

	start := time.Now()
	index := 0

	for {
		select {
		case <-r.quit:
			return
		case <-frameTicker.C:
			elapsedMs := int(time.Since(start).Milliseconds())
			snap := r.fb.Snapshot()
			if err := r.enc.EncodeFrame(snap, elapsedMs); err != nil {
				r.recordErr(fmt.Errorf("encode frame at %dms: %w", elapsedMs, err))
			}
			if r.sink != nil && r.sink.Enabled() {
				if err := r.sink.SaveStampedFrame(index, snap); err != nil {
					r.logger.Warn("Failed to save debug frame %d: %s", index, err)
				}
			}
			index++
		case <-chunkTicker.C:
			r.drain()
		}
	}
}

// drain appends any encoded output produced since the last drain as exactly
// one segment.
func (r *Recorder) drain() {
	data, err := r.enc.Flush()
	if err != nil {
		r.recordErr(fmt.Errorf("flush encoder: %w", err))
		return
	}
	if len(data) > 0 {
		r.segs.Append(data)
	}
}

func (r *Recorder) recordErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.firstErr == nil {
		r.firstErr = err
		r.logger.Warn("Capture error: %s", err)
	}
}

// Stop finalizes the in-flight chunk and deactivates the encoder. Calling
// Stop when the recorder is not running is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != recorderRunning {
		r.mu.Unlock()
		return nil
	}
	r.state = recorderStopped
	r.mu.Unlock()

	close(r.quit)
	r.wg.Wait()

	// Final drain plus the encoder's tail output.
	r.drain()
	tail, err := r.enc.End()
	if err != nil {
		r.recordErr(fmt.Errorf("end encoder: %w", err))
	} else if len(tail) > 0 {
		r.segs.Append(tail)
	}

	r.logger.Debug("Capture stopped with %d segments (%d bytes)", r.segs.Len(), r.segs.TotalBytes())

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}
