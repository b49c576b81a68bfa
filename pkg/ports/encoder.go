package ports

import (
	"image"
)

// VideoEncoder abstracts incremental video encoding operations.
//
// Unlike a whole-file encoder, output is drained in chunks: Flush returns
// the bytes produced since the previous drain, so a caller can buffer
// encoded segments while encoding is still in progress. Concatenating all
// drained chunks in order reconstructs the complete stream.
type VideoEncoder interface {
	// Begin initializes the encoder with the specified dimensions and frame rate.
	Begin(width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame encodes a single frame at the specified timestamp.
	EncodeFrame(img image.Image, timestampMs int) error

	// Flush returns encoded output produced since the previous Flush.
	// A nil or empty slice means nothing has been emitted yet.
	Flush() ([]byte, error)

	// End finalizes encoding and returns any remaining encoded output.
	// The encoder cannot be reused after End.
	End() ([]byte, error)
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Bitrate int // Target bitrate in bps (0 = encoder default)
	Quality int // CRF-style value: 0-63 (lower is higher quality)
}
