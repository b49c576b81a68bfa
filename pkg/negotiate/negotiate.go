// Package negotiate selects the output encoding for a run by querying the
// runtime's encoder capabilities in a fixed preference order.
package negotiate

import (
	"context"
	"errors"

	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// ErrNoCapability is returned when no profile in the ladder is supported.
// Retrying without a capability change cannot succeed, so callers must treat
// this as fatal for the run.
var ErrNoCapability = errors.New("negotiate: no supported encoding available")

// DefaultLadder returns the encoding preference order, best first. The
// ordering is a compatibility contract: two systems with the same
// capabilities must pick the same profile.
func DefaultLadder() []pipeline.EncodingProfile {
	return []pipeline.EncodingProfile{
		{Container: "mp4", Codec: "h264", Bitrate: 8_000_000},
		{Container: "webm", Codec: "vp9", Bitrate: 8_000_000},
		// Maximally compatible fallback, encoded in-process.
		{Container: "mp4", Codec: "mjpeg"},
	}
}

// Stage negotiates an EncodingProfile against runtime capabilities.
type Stage struct {
	caps   ports.EncoderCapabilities
	logger ports.Logger
}

// NewStage creates a new negotiation stage.
func NewStage(caps ports.EncoderCapabilities, logger ports.Logger) *Stage {
	return &Stage{
		caps:   caps,
		logger: logger.WithComponent("negotiate"),
	}
}

// Execute returns the first supported profile from the ladder, or
// ErrNoCapability if none is supported.
func (s *Stage) Execute(ctx context.Context, input pipeline.NegotiateInput) (pipeline.NegotiateResult, error) {
	ladder := input.Ladder
	if len(ladder) == 0 {
		ladder = DefaultLadder()
	}

	for _, profile := range ladder {
		select {
		case <-ctx.Done():
			return pipeline.NegotiateResult{}, ctx.Err()
		default:
		}

		if s.caps.Supports(profile.Codec) {
			s.logger.Debug("Selected encoding %s", profile)
			return pipeline.NegotiateResult{Profile: profile}, nil
		}
		s.logger.Debug("Encoding %s not supported, trying next", profile)
	}

	return pipeline.NegotiateResult{}, ErrNoCapability
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.NegotiateInput, pipeline.NegotiateResult] = (*Stage)(nil)
