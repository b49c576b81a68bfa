package mocks

import (
	"image"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SourceJSON    []byte
	StampedFrames map[int]image.Image
	SegmentsJSON  []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:       enabled,
		StampedFrames: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSourceJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceJSON = data
	return nil
}

func (m *DebugSink) SaveStampedFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StampedFrames[index] = img
	return nil
}

func (m *DebugSink) SaveSegmentsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SegmentsJSON = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
