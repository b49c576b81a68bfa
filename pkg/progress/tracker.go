// Package progress derives a whole-percent completion figure from playback
// position and publishes it at a fixed sampling interval.
package progress

import (
	"sync"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// PositionFunc reports the current playback position and the total duration,
// both in milliseconds. A zero or negative duration yields zero percent.
type PositionFunc func() (currentMs, durationMs int64)

// PublishFunc receives each published percentage in [0, 100].
type PublishFunc func(percent int)

// Tracker samples playback position on a ticker and publishes a monotonic
// percentage. Sampled values are capped at 99; only Complete publishes 100,
// at the moment finalization begins.
type Tracker struct {
	position PositionFunc
	publish  PublishFunc
	interval time.Duration
	logger   ports.Logger

	mu        sync.Mutex
	last      int
	completed bool
	running   bool

	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates a tracker. interval defaults to 500ms when non-positive.
func New(position PositionFunc, publish PublishFunc, interval time.Duration, logger ports.Logger) *Tracker {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Tracker{
		position: position,
		publish:  publish,
		interval: interval,
		logger:   logger.WithComponent("progress"),
		quit:     make(chan struct{}),
	}
}

// Start begins periodic sampling. Calling Start twice is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.wg.Add(1)
	go t.loop()
}

func (t *Tracker) loop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			return
		case <-ticker.C:
			t.sample()
		}
	}
}

func (t *Tracker) sample() {
	currentMs, durationMs := t.position()

	percent := 0
	if durationMs > 0 {
		percent = int(currentMs * 100 / durationMs)
	}
	if percent < 0 {
		percent = 0
	}
	// 100 is reserved for Complete.
	if percent > 99 {
		percent = 99
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed || percent <= t.last {
		return
	}
	t.last = percent
	t.publish(percent)
}

// Complete publishes exactly 100 once and suppresses further samples.
func (t *Tracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.completed = true
	t.last = 100
	t.publish(100)
}

// Stop halts sampling. It is idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()

	close(t.quit)
	t.wg.Wait()
}

// Last returns the most recently published percentage.
func (t *Tracker) Last() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
