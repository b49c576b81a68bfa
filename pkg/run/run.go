// Package run coordinates a complete watermarking run: validation, timestamp
// extraction, capability negotiation, playback-driven compositing, capture
// and finalization.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MuggleFighter/fuckteslacam/pkg/capture"
	"github.com/MuggleFighter/fuckteslacam/pkg/finalize"
	"github.com/MuggleFighter/fuckteslacam/pkg/naming"
	"github.com/MuggleFighter/fuckteslacam/pkg/negotiate"
	"github.com/MuggleFighter/fuckteslacam/pkg/overlay"
	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
	"github.com/MuggleFighter/fuckteslacam/pkg/progress"
	"github.com/MuggleFighter/fuckteslacam/pkg/pump"
)

// Config contains tuning parameters for a run. Zero values fall back to the
// defaults of the component they configure.
type Config struct {
	CaptureFPS       float64
	ChunkInterval    time.Duration
	GraceWait        time.Duration // wait between playback end and capture stop
	ProgressInterval time.Duration
	Bitrate          int
	Quality          int
	Style            pipeline.StampStyle
	Ladder           []pipeline.EncodingProfile
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		CaptureFPS:       30.0,
		ChunkInterval:    time.Second,
		GraceWait:        time.Second,
		ProgressInterval: 500 * time.Millisecond,
		Bitrate:          8_000_000,
		Quality:          30,
		Style:            pipeline.DefaultStampStyle(),
		Ladder:           negotiate.DefaultLadder(),
	}
}

// Source is one input clip offered to the coordinator.
type Source struct {
	Name      string // original filename, carries the recording timestamp
	MediaType string // declared media type, e.g. "video/mp4"; empty skips the check
	Data      io.ReadSeeker
}

// Result is the outcome of a successful run.
type Result struct {
	RunID         string
	Artifact      pipeline.OutputArtifact
	Profile       pipeline.EncodingProfile
	SuggestedName string
	TimeOrigin    time.Time
	Degraded      bool // the filename carried no timestamp, current time was used
}

// SourceFactory opens a frame source over probed input data.
type SourceFactory func(r io.Reader, info ports.SourceInfo) ports.FrameSource

// EncoderFactory creates an encoder for the negotiated profile.
type EncoderFactory func(profile pipeline.EncodingProfile) (ports.VideoEncoder, error)

// Coordinator owns the run lifecycle. One coordinator processes one run at a
// time; a new run may start once the previous one has finished either way.
type Coordinator struct {
	prober   ports.MediaProber
	caps     ports.EncoderCapabilities
	renderer ports.Renderer
	sources  SourceFactory
	encoders EncoderFactory
	sink     ports.DebugSink
	logger   ports.Logger
	cfg      Config

	mu    sync.Mutex
	state pipeline.RunState
}

// NewCoordinator creates a run coordinator.
func NewCoordinator(
	prober ports.MediaProber,
	caps ports.EncoderCapabilities,
	renderer ports.Renderer,
	sources SourceFactory,
	encoders EncoderFactory,
	sink ports.DebugSink,
	logger ports.Logger,
	cfg Config,
) *Coordinator {
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = negotiate.DefaultLadder()
	}
	if cfg.Style == (pipeline.StampStyle{}) {
		cfg.Style = pipeline.DefaultStampStyle()
	}
	return &Coordinator{
		prober:   prober,
		caps:     caps,
		renderer: renderer,
		sources:  sources,
		encoders: encoders,
		sink:     sink,
		logger:   logger.WithComponent("run"),
		cfg:      cfg,
		state:    pipeline.StateIdle,
	}
}

// State returns the current run state.
func (c *Coordinator) State() pipeline.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s pipeline.RunState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run processes one source end to end. onProgress, when non-nil, receives
// whole percentages in [0, 100]; 100 is published exactly once, when
// finalization begins.
func (c *Coordinator) Run(ctx context.Context, src Source, onProgress func(percent int)) (*Result, error) {
	c.mu.Lock()
	switch c.state {
	case pipeline.StateIdle, pipeline.StateReady, pipeline.StateFailed:
		c.state = pipeline.StateNegotiating
	default:
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.mu.Unlock()

	result, err := c.run(ctx, src, onProgress)
	if err != nil {
		c.setState(pipeline.StateFailed)
		return nil, err
	}
	c.setState(pipeline.StateReady)
	return result, nil
}

func (c *Coordinator) run(ctx context.Context, src Source, onProgress func(percent int)) (*Result, error) {
	runID := uuid.NewString()
	c.logger.Info("Run %s: %s", runID, src.Name)

	if src.MediaType != "" && !strings.HasPrefix(src.MediaType, "video/") {
		return nil, fmt.Errorf("%w %q: expected a video file", ErrUnsupportedMedia, src.MediaType)
	}

	origin, degraded := c.timeOrigin(src.Name)

	info, err := c.prober.Probe(src.Data)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}
	c.logger.Debug("Source %dx%d, %dms, %s/%s", info.Width, info.Height, info.DurationMs, info.Codec, info.Container)

	negotiated, err := negotiate.NewStage(c.caps, c.logger).Execute(ctx, pipeline.NegotiateInput{Ladder: c.cfg.Ladder})
	if err != nil {
		return nil, err
	}
	profile := negotiated.Profile
	c.logger.Info("Encoding as %s", profile)

	if c.sink != nil && c.sink.Enabled() {
		if data, err := json.Marshal(info); err == nil {
			c.sink.SaveSourceJSON(data)
		}
	}

	encoder, err := c.encoders(profile)
	if err != nil {
		return nil, fmt.Errorf("create encoder for %s: %w", profile, err)
	}

	fb := pipeline.NewFrameBuffer(info.Width, info.Height)
	compositor := overlay.NewCompositor(c.renderer, info.Width, c.cfg.Style)
	segments := pipeline.NewSegmentBuffer()

	recorder := capture.NewRecorder(fb, encoder, segments, capture.Options{
		FPS:           c.cfg.CaptureFPS,
		ChunkInterval: c.cfg.ChunkInterval,
		Bitrate:       profile.Bitrate,
		Quality:       c.cfg.Quality,
	}, c.sink, c.logger)

	source := c.sources(src.Data, info)
	frames := pump.New(source, compositor, fb, origin, c.logger)

	publish := func(percent int) {
		if onProgress != nil {
			onProgress(percent)
		}
	}
	tracker := progress.New(
		func() (int64, int64) { return frames.PositionMs(), int64(info.DurationMs) },
		publish,
		c.cfg.ProgressInterval,
		c.logger,
	)

	c.setState(pipeline.StateCapturing)

	if err := recorder.Start(); err != nil {
		return nil, err
	}
	if err := frames.Start(ctx); err != nil {
		recorder.Stop()
		return nil, fmt.Errorf("%w: %w", ErrPlayback, err)
	}
	tracker.Start()

	select {
	case <-frames.Done():
	case <-ctx.Done():
		frames.Stop()
		<-frames.Done()
	}

	// Finalization sequence: stop pacing first, let one more chunk interval
	// land the trailing encoded data, then stop capture.
	c.setState(pipeline.StateFinalizing)
	frames.Stop()
	tracker.Complete()
	tracker.Stop()

	c.graceWait(ctx)

	if err := recorder.Stop(); err != nil {
		c.logger.Warn("Capture reported an error: %s", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.sink != nil && c.sink.Enabled() {
		c.saveSegmentIndex(segments)
	}

	finalized, err := finalize.NewStage(c.logger).Execute(ctx, pipeline.FinalizeInput{
		Segments: segments,
		Profile:  profile,
	})
	if err != nil {
		if errors.Is(err, finalize.ErrNoData) {
			return nil, err
		}
		return nil, fmt.Errorf("finalizing output failed: %w", err)
	}

	c.logger.Info("Run %s ready: %d bytes of %s", runID, len(finalized.Artifact.Data), profile.Container)
	return &Result{
		RunID:         runID,
		Artifact:      finalized.Artifact,
		Profile:       profile,
		SuggestedName: naming.SuggestedOutputName(src.Name, profile.Container),
		TimeOrigin:    origin,
		Degraded:      degraded,
	}, nil
}

// timeOrigin extracts the recording start instant from the source name. A
// name without a usable timestamp degrades to the current time.
func (c *Coordinator) timeOrigin(name string) (time.Time, bool) {
	origin, err := naming.ParseClipTimestamp(name)
	if err != nil {
		c.logger.Warn("Cannot read a timestamp from %q, using current time", name)
		return time.Now(), true
	}
	return origin, false
}

func (c *Coordinator) graceWait(ctx context.Context) {
	wait := c.cfg.GraceWait
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

type segmentIndexEntry struct {
	Index     int       `json:"index"`
	Bytes     int       `json:"bytes"`
	ArrivedAt time.Time `json:"arrived_at"`
}

func (c *Coordinator) saveSegmentIndex(segments *pipeline.SegmentBuffer) {
	snapshot := segments.Snapshot()
	index := make([]segmentIndexEntry, len(snapshot))
	for i, seg := range snapshot {
		index[i] = segmentIndexEntry{Index: i, Bytes: len(seg.Data), ArrivedAt: seg.ArrivedAt}
	}
	if data, err := json.Marshal(index); err == nil {
		c.sink.SaveSegmentsJSON(data)
	}
}
