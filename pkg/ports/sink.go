package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSourceJSON saves the probed source metadata as JSON.
	SaveSourceJSON(data []byte) error

	// SaveStampedFrame saves a composited frame.
	SaveStampedFrame(index int, img image.Image) error

	// SaveSegmentsJSON saves the captured segment index as JSON.
	SaveSegmentsJSON(data []byte) error
}
