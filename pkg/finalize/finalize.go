// Package finalize assembles the captured segments into the final output
// artifact.
package finalize

import (
	"context"
	"errors"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// ErrNoData is returned when finalization is requested but no segments were
// captured.
var ErrNoData = errors.New("finalize: no video data was captured")

// Stage concatenates captured segments in arrival order into one artifact.
// Segment order is the stream order; no transcoding happens here.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a finalization stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("finalize")}
}

// Execute assembles the output. An empty segment buffer is a failed run.
func (s *Stage) Execute(ctx context.Context, input pipeline.FinalizeInput) (pipeline.FinalizeResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.FinalizeResult{}, err
	}
	if input.Segments == nil || input.Segments.Len() == 0 {
		return pipeline.FinalizeResult{}, ErrNoData
	}

	data := input.Segments.Concat()
	s.logger.Debug("Assembled %d segments into %d bytes of %s", input.Segments.Len(), len(data), input.Profile.Container)

	return pipeline.FinalizeResult{
		Artifact: pipeline.OutputArtifact{
			Data:       data,
			Container:  input.Profile.Container,
			ProducedAt: time.Now(),
		},
	}, nil
}

var _ pipeline.Stage[pipeline.FinalizeInput, pipeline.FinalizeResult] = (*Stage)(nil)
