package mocks

import (
	"context"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource that delivers a
// fixed list of frames and then closes the channel. Stop interrupts delivery
// the way a real decoder teardown would.
type FrameSource struct {
	mu sync.Mutex

	Frames    []ports.VideoFrame
	PlayErr   error
	PlayCount int
	StopCount int

	quit     chan struct{}
	quitOnce sync.Once
}

// NewFrameSource creates a mock source that will deliver the given frames.
func NewFrameSource(frames ...ports.VideoFrame) *FrameSource {
	return &FrameSource{
		Frames: frames,
		quit:   make(chan struct{}),
	}
}

func (m *FrameSource) Play(ctx context.Context) (<-chan ports.VideoFrame, error) {
	m.mu.Lock()
	m.PlayCount++
	err := m.PlayErr
	frames := m.Frames
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	ch := make(chan ports.VideoFrame)
	go func() {
		defer close(ch)
		for _, f := range frames {
			select {
			case <-ctx.Done():
				return
			case <-m.quit:
				return
			case ch <- f:
			}
		}
	}()
	return ch, nil
}

func (m *FrameSource) Stop() {
	m.mu.Lock()
	m.StopCount++
	m.mu.Unlock()
	m.quitOnce.Do(func() { close(m.quit) })
}

var _ ports.FrameSource = (*FrameSource)(nil)
