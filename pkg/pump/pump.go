// Package pump drives compositing at playback cadence: it consumes decoded
// frames in presentation order and stamps each one into the frame buffer at
// its presentation time.
package pump

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/overlay"
	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Pump composites frames as playback advances. One instance serves one run.
type Pump struct {
	source     ports.FrameSource
	compositor *overlay.Compositor
	fb         *pipeline.FrameBuffer
	origin     time.Time
	logger     ports.Logger

	positionMs atomic.Int64
	stopped    atomic.Bool
	stopOnce   sync.Once
	done       chan struct{}
}

// New creates a frame pump. origin is the wall-clock instant corresponding
// to playback position zero.
func New(source ports.FrameSource, compositor *overlay.Compositor, fb *pipeline.FrameBuffer, origin time.Time, logger ports.Logger) *Pump {
	return &Pump{
		source:     source,
		compositor: compositor,
		fb:         fb,
		origin:     origin,
		logger:     logger.WithComponent("pump"),
		done:       make(chan struct{}),
	}
}

// Start begins playback and compositing. It returns an error only when
// playback cannot begin; afterwards the pump runs until end-of-stream or
// Stop, and Done is closed either way.
func (p *Pump) Start(ctx context.Context) error {
	frames, err := p.source.Play(ctx)
	if err != nil {
		close(p.done)
		return fmt.Errorf("start playback: %w", err)
	}

	go p.loop(ctx, frames)
	return nil
}

// loop paces frames against a wall clock anchored at loop start, so the
// compositing cadence matches playback cadence instead of running ahead of
// the decoder.
func (p *Pump) loop(ctx context.Context, frames <-chan ports.VideoFrame) {
	defer close(p.done)

	start := time.Now()
	count := 0

	for frame := range frames {
		if p.stopped.Load() {
			// Stopped mid-stream: end the loop silently.
			return
		}

		due := start.Add(time.Duration(frame.TimestampMs) * time.Millisecond)
		if wait := time.Until(due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		at := p.origin.Add(time.Duration(frame.TimestampMs) * time.Millisecond)
		p.compositor.Stamp(p.fb, frame.Image, at)
		p.positionMs.Store(int64(frame.TimestampMs))
		count++
	}

	p.logger.Debug("Playback ended after %d frames", count)
}

// Done is closed when the pump has finished, either by reaching
// end-of-stream or by being stopped.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}

// PositionMs returns the playback position of the last composited frame.
func (p *Pump) PositionMs() int64 {
	return p.positionMs.Load()
}

// Stop halts playback. It is idempotent and safe to call after the pump has
// already ended.
func (p *Pump) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		p.source.Stop()
	})
}
