package ports

import (
	"context"
	"image"
)

// VideoFrame represents a decoded video frame with timing information.
type VideoFrame struct {
	Image       image.Image
	TimestampMs int // presentation time relative to the start of the source
	DurationMs  int
}

// SourceInfo describes an opened video source.
type SourceInfo struct {
	Width      int
	Height     int
	DurationMs int
	FPS        float64
	Codec      string
	Container  string
}

// FrameSource abstracts playback-ordered frame delivery from a video source.
type FrameSource interface {
	// Play starts decoding and returns a channel that delivers frames in
	// presentation order. The channel is closed at end-of-stream.
	Play(ctx context.Context) (<-chan VideoFrame, error)

	// Stop halts decoding and releases resources. Calling Stop more than
	// once, or before Play, is safe.
	Stop()
}
