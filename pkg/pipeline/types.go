package pipeline

import (
	"fmt"
	"image/color"
	"time"
)

// =============================================================================
// Encoding
// =============================================================================

// EncodingProfile identifies one negotiated output encoding.
// It is chosen once per run and immutable for the run's lifetime.
type EncodingProfile struct {
	Container string // container extension without the dot, e.g. "mp4"
	Codec     string // codec identifier, e.g. "h264", "vp9", "mjpeg"
	Bitrate   int    // target bitrate in bps (0 = encoder default)
}

// String returns a short human-readable description of the profile.
func (p EncodingProfile) String() string {
	if p.Bitrate > 0 {
		return fmt.Sprintf("%s/%s @ %.1f Mbps", p.Codec, p.Container, float64(p.Bitrate)/1e6)
	}
	return fmt.Sprintf("%s/%s", p.Codec, p.Container)
}

// NegotiateInput contains parameters for capability negotiation.
type NegotiateInput struct {
	// Ladder is the preference order to try, best first.
	Ladder []EncodingProfile
}

// NegotiateResult contains the negotiated profile.
type NegotiateResult struct {
	Profile EncodingProfile
}

// =============================================================================
// Finalization
// =============================================================================

// FinalizeInput contains the captured segments to assemble.
type FinalizeInput struct {
	Segments *SegmentBuffer
	Profile  EncodingProfile
}

// FinalizeResult contains the assembled output.
type FinalizeResult struct {
	Artifact OutputArtifact
}

// OutputArtifact is the finalized output of one run.
// It is immutable once produced.
type OutputArtifact struct {
	Data       []byte
	Container  string // container extension, matches the run's EncodingProfile
	ProducedAt time.Time
}

// =============================================================================
// Run state
// =============================================================================

// RunState tracks the lifecycle of a single watermarking run.
type RunState int

const (
	StateIdle RunState = iota
	StateNegotiating
	StateCapturing
	StateFinalizing
	StateReady
	StateFailed
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateCapturing:
		return "capturing"
	case StateFinalizing:
		return "finalizing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Stamp styling
// =============================================================================

// StampStyle defines watermark styling and sizing rules.
// Font size and padding are derived from the source's natural width once at
// load time and stay fixed for the whole run.
type StampStyle struct {
	TextColor   color.Color
	PanelColor  color.Color
	MinFontSize int // floor for the derived font size
	FontDivisor int // font size = max(MinFontSize, round(width/FontDivisor))
	PadDivisor  int // padding = width / PadDivisor
}

// DefaultStampStyle returns the default watermark styling.
func DefaultStampStyle() StampStyle {
	return StampStyle{
		TextColor:   color.White,
		PanelColor:  color.RGBA{R: 0, G: 0, B: 0, A: 255},
		MinFontSize: 16,
		FontDivisor: 30,
		PadDivisor:  50,
	}
}
