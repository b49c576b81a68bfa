package filesink

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/MuggleFighter/fuckteslacam/pkg/mocks"
)

func TestSink_SavesArtifacts(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New("debug", fs, renderer)

	if !sink.Enabled() {
		t.Fatal("file sink must report enabled")
	}

	if err := sink.SaveSourceJSON([]byte(`{"width":64}`)); err != nil {
		t.Fatalf("SaveSourceJSON failed: %v", err)
	}
	if _, ok := fs.Files[filepath.Join("debug", "source.json")]; !ok {
		t.Error("source.json not written")
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := sink.SaveStampedFrame(3, img); err != nil {
		t.Fatalf("SaveStampedFrame failed: %v", err)
	}
	if _, ok := fs.Files[filepath.Join("debug", "frames", "frame-0003.jpg")]; !ok {
		t.Error("stamped frame not written")
	}

	if err := sink.SaveSegmentsJSON([]byte(`[]`)); err != nil {
		t.Fatalf("SaveSegmentsJSON failed: %v", err)
	}
	if _, ok := fs.Files[filepath.Join("debug", "segments.json")]; !ok {
		t.Error("segments.json not written")
	}
}
