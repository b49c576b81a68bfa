package finalize

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/MuggleFighter/fuckteslacam/pkg/mocks"
	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
)

func TestStage_ConcatenatesInArrivalOrder(t *testing.T) {
	segs := pipeline.NewSegmentBuffer()
	segs.Append([]byte{0x01, 0x02})
	segs.Append([]byte{0x03})
	segs.Append([]byte{0x04, 0x05, 0x06})

	stage := NewStage(mocks.NewLogger())
	result, err := stage.Execute(context.Background(), pipeline.FinalizeInput{
		Segments: segs,
		Profile:  pipeline.EncodingProfile{Container: "mp4", Codec: "h264"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if !bytes.Equal(result.Artifact.Data, want) {
		t.Errorf("data = %v, want %v", result.Artifact.Data, want)
	}
	if result.Artifact.Container != "mp4" {
		t.Errorf("container = %q, want mp4", result.Artifact.Container)
	}
	if result.Artifact.ProducedAt.IsZero() {
		t.Error("ProducedAt not set")
	}
}

func TestStage_EmptyBufferFails(t *testing.T) {
	stage := NewStage(mocks.NewLogger())

	_, err := stage.Execute(context.Background(), pipeline.FinalizeInput{
		Segments: pipeline.NewSegmentBuffer(),
		Profile:  pipeline.EncodingProfile{Container: "webm", Codec: "vp9"},
	})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}

	_, err = stage.Execute(context.Background(), pipeline.FinalizeInput{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("nil buffer error = %v, want ErrNoData", err)
	}
}

func TestStage_CanceledContext(t *testing.T) {
	segs := pipeline.NewSegmentBuffer()
	segs.Append([]byte{0x01})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := NewStage(mocks.NewLogger())
	_, err := stage.Execute(ctx, pipeline.FinalizeInput{Segments: segs})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
