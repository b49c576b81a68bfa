package run

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/finalize"
	"github.com/MuggleFighter/fuckteslacam/pkg/mocks"
	"github.com/MuggleFighter/fuckteslacam/pkg/negotiate"
	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

type fixture struct {
	prober   *mocks.MediaProber
	caps     *mocks.EncoderCapabilities
	renderer *mocks.Renderer
	source   *mocks.FrameSource
	encoder  *mocks.VideoEncoder
	sink     *mocks.DebugSink
	logger   *mocks.Logger
	cfg      Config
}

func newFixture(frames ...ports.VideoFrame) *fixture {
	return &fixture{
		prober: mocks.NewMediaProber(ports.SourceInfo{
			Width: 64, Height: 48, DurationMs: 100, FPS: 30, Codec: "h264", Container: "mp4",
		}),
		caps:     mocks.NewEncoderCapabilities("h264"),
		renderer: &mocks.Renderer{},
		source:   mocks.NewFrameSource(frames...),
		encoder:  &mocks.VideoEncoder{},
		sink:     mocks.NewDebugSink(false),
		logger:   mocks.NewLogger(),
		cfg: Config{
			CaptureFPS:       100.0,
			ChunkInterval:    20 * time.Millisecond,
			GraceWait:        10 * time.Millisecond,
			ProgressInterval: 5 * time.Millisecond,
		},
	}
}

func (f *fixture) coordinator() *Coordinator {
	return NewCoordinator(
		f.prober,
		f.caps,
		f.renderer,
		func(r io.Reader, info ports.SourceInfo) ports.FrameSource { return f.source },
		func(profile pipeline.EncodingProfile) (ports.VideoEncoder, error) { return f.encoder, nil },
		f.sink,
		f.logger,
		f.cfg,
	)
}

func testSource(name string) Source {
	return Source{
		Name:      name,
		MediaType: "video/mp4",
		Data:      bytes.NewReader([]byte{0x00}),
	}
}

func shortClip(n int) []ports.VideoFrame {
	frames := make([]ports.VideoFrame, n)
	for i := range frames {
		frames[i] = ports.VideoFrame{
			Image:       image.NewRGBA(image.Rect(0, 0, 64, 48)),
			TimestampMs: i * 10,
			DurationMs:  10,
		}
	}
	return frames
}

func TestRun_EndToEnd(t *testing.T) {
	f := newFixture(shortClip(5)...)
	c := f.coordinator()

	var mu sync.Mutex
	var percents []int
	result, err := c.Run(context.Background(), testSource("2024-03-01_14-05-09-front.mp4"), func(p int) {
		mu.Lock()
		percents = append(percents, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Profile.Codec != "h264" {
		t.Errorf("profile = %s, want h264", result.Profile)
	}
	if result.SuggestedName != "2024-03-01_14-05-09-front_watermarked.mp4" {
		t.Errorf("suggested name = %q", result.SuggestedName)
	}
	if result.Degraded {
		t.Error("run marked degraded despite a valid timestamp")
	}
	want := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)
	if !result.TimeOrigin.Equal(want) {
		t.Errorf("time origin = %v, want %v", result.TimeOrigin, want)
	}
	if len(result.Artifact.Data) == 0 {
		t.Error("empty artifact")
	}
	if result.Artifact.Container != "mp4" {
		t.Errorf("artifact container = %q, want mp4", result.Artifact.Container)
	}
	if c.State() != pipeline.StateReady {
		t.Errorf("state = %s, want ready", c.State())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Errorf("progress = %v, want trailing 100", percents)
	}
	prev := -1
	for _, p := range percents {
		if p <= prev {
			t.Fatalf("progress not increasing: %v", percents)
		}
		prev = p
	}
}

func TestRun_RejectsNonVideoMediaType(t *testing.T) {
	f := newFixture()
	c := f.coordinator()

	src := testSource("2024-03-01_14-05-09.mp4")
	src.MediaType = "text/plain"

	_, err := c.Run(context.Background(), src, nil)
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("error = %v, want ErrUnsupportedMedia", err)
	}
	if msg := UserMessage(err); msg != `unsupported media type "text/plain": expected a video file` {
		t.Errorf("user message = %q", msg)
	}
	if c.State() != pipeline.StateFailed {
		t.Errorf("state = %s, want failed", c.State())
	}
}

func TestRun_DegradesWithoutTimestamp(t *testing.T) {
	f := newFixture(shortClip(2)...)
	c := f.coordinator()

	before := time.Now()
	result, err := c.Run(context.Background(), testSource("garbage.mp4"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Degraded {
		t.Error("run not marked degraded")
	}
	if result.TimeOrigin.Before(before) {
		t.Error("degraded origin is not the current time")
	}
	if len(f.logger.Warnings()) == 0 {
		t.Error("no warning logged for the unparsable name")
	}
}

func TestRun_NoCapability(t *testing.T) {
	f := newFixture()
	f.caps = mocks.NewEncoderCapabilities() // nothing supported
	c := f.coordinator()

	_, err := c.Run(context.Background(), testSource("2024-03-01_14-05-09.mp4"), nil)
	if !errors.Is(err, negotiate.ErrNoCapability) {
		t.Fatalf("error = %v, want ErrNoCapability", err)
	}
	if msg := UserMessage(err); msg != "no supported encoding available on this system" {
		t.Errorf("user message = %q", msg)
	}
}

func TestRun_PlaybackFailure(t *testing.T) {
	f := newFixture()
	f.source.PlayErr = errors.New("decoder exploded")
	c := f.coordinator()

	_, err := c.Run(context.Background(), testSource("2024-03-01_14-05-09.mp4"), nil)
	if !errors.Is(err, ErrPlayback) {
		t.Fatalf("error = %v, want ErrPlayback", err)
	}
	if !strings.Contains(UserMessage(err), "playback could not be started") {
		t.Errorf("user message = %q", UserMessage(err))
	}
	if c.State() != pipeline.StateFailed {
		t.Errorf("state = %s, want failed", c.State())
	}
}

func TestRun_EmptyCaptureFails(t *testing.T) {
	f := newFixture(shortClip(2)...)
	f.encoder.FlushFunc = func() ([]byte, error) { return nil, nil }
	f.encoder.EndFunc = func() ([]byte, error) { return nil, nil }
	c := f.coordinator()

	_, err := c.Run(context.Background(), testSource("2024-03-01_14-05-09.mp4"), nil)
	if !errors.Is(err, finalize.ErrNoData) {
		t.Fatalf("error = %v, want ErrNoData", err)
	}
	if msg := UserMessage(err); msg != "no video data was captured" {
		t.Errorf("user message = %q", msg)
	}
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	// A long clip keeps the first run live while the second is attempted.
	frames := make([]ports.VideoFrame, 100)
	for i := range frames {
		frames[i] = ports.VideoFrame{
			Image:       image.NewRGBA(image.Rect(0, 0, 64, 48)),
			TimestampMs: i * 50,
		}
	}
	f := newFixture(frames...)
	c := f.coordinator()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, testSource("2024-03-01_14-05-09.mp4"), nil)
	}()

	// Wait for the first run to leave idle.
	deadline := time.Now().Add(2 * time.Second)
	for c.State() == pipeline.StateIdle {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Run(context.Background(), testSource("2024-03-01_14-05-10.mp4"), nil); !errors.Is(err, ErrBusy) {
		t.Errorf("error = %v, want ErrBusy", err)
	}

	cancel()
	<-done
}

func TestRun_ContextCancelFailsRun(t *testing.T) {
	frames := make([]ports.VideoFrame, 100)
	for i := range frames {
		frames[i] = ports.VideoFrame{
			Image:       image.NewRGBA(image.Rect(0, 0, 64, 48)),
			TimestampMs: i * 50,
		}
	}
	f := newFixture(frames...)
	c := f.coordinator()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := c.Run(ctx, testSource("2024-03-01_14-05-09.mp4"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if c.State() != pipeline.StateFailed {
		t.Errorf("state = %s, want failed", c.State())
	}
}

func TestRun_SavesDebugArtifacts(t *testing.T) {
	f := newFixture(shortClip(3)...)
	f.sink = mocks.NewDebugSink(true)
	c := f.coordinator()

	if _, err := c.Run(context.Background(), testSource("2024-03-01_14-05-09.mp4"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.sink.SourceJSON) == 0 {
		t.Error("source metadata not saved")
	}
	if len(f.sink.SegmentsJSON) == 0 {
		t.Error("segment index not saved")
	}
	if len(f.sink.StampedFrames) == 0 {
		t.Error("no stamped frames saved")
	}
}
