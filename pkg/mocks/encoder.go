package mocks

import (
	"image"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	mu sync.Mutex

	BeginFunc       func(width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image, timestampMs int) error
	FlushFunc       func() ([]byte, error)
	EndFunc         func() ([]byte, error)

	// Recorded calls for verification
	BeginCalled      bool
	BeginWidth       int
	BeginHeight      int
	BeginFPS         float64
	EncodeFrameCalls []EncodeFrameCall
	FlushCalled      int
	EndCalled        int
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	TimestampMs int
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.BeginWidth = width
	m.BeginHeight = height
	m.BeginFPS = fps
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	m.mu.Lock()
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{TimestampMs: timestampMs})
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, timestampMs)
	}
	return nil
}

func (m *VideoEncoder) Flush() ([]byte, error) {
	m.mu.Lock()
	m.FlushCalled++
	m.mu.Unlock()
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return []byte{0xCA}, nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	m.mu.Lock()
	m.EndCalled++
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return []byte{0xFE}, nil
}

// FrameCount returns the number of EncodeFrame calls so far.
func (m *VideoEncoder) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.EncodeFrameCalls)
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
