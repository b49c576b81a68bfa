package mjpegencoder

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEncoder_FirstFlushCarriesInitSegment(t *testing.T) {
	encoder := New()
	if err := encoder.Begin(64, 48, 30.0, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	data, err := encoder.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(data) < 8 {
		t.Fatal("init segment too short")
	}
	if got := string(data[4:8]); got != "ftyp" {
		t.Errorf("first box = %q, want ftyp", got)
	}

	// A second Flush without frames has nothing to say.
	data, err = encoder.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if data != nil {
		t.Errorf("second empty Flush returned %d bytes", len(data))
	}
}

func TestEncoder_FragmentsFollowInit(t *testing.T) {
	encoder := New()
	if err := encoder.Begin(64, 48, 30.0, ports.EncoderOptions{Quality: 30}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	init, err := encoder.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	img := createTestImage(64, 48, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	for i := 0; i < 3; i++ {
		if err := encoder.EncodeFrame(img, i*33); err != nil {
			t.Fatalf("EncodeFrame %d failed: %v", i, err)
		}
	}

	frag, err := encoder.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(frag) < 8 {
		t.Fatal("fragment too short")
	}
	if got := string(frag[4:8]); got != "moof" {
		t.Errorf("fragment first box = %q, want moof", got)
	}
	if bytes.Contains(frag, []byte("ftyp")) {
		t.Error("init segment re-emitted in a later drain")
	}
	_ = init
}

func TestEncoder_ConcatenatedDrainsDecode(t *testing.T) {
	encoder := New()
	if err := encoder.Begin(64, 48, 30.0, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	var stream bytes.Buffer
	img := createTestImage(64, 48, color.RGBA{G: 180, A: 255})

	for chunk := 0; chunk < 3; chunk++ {
		for i := 0; i < 4; i++ {
			ts := (chunk*4 + i) * 33
			if err := encoder.EncodeFrame(img, ts); err != nil {
				t.Fatalf("EncodeFrame failed: %v", err)
			}
		}
		data, err := encoder.Flush()
		if err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
		stream.Write(data)
	}

	tail, err := encoder.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	stream.Write(tail)

	parsed, err := mp4.DecodeFile(bytes.NewReader(stream.Bytes()))
	if err != nil {
		t.Fatalf("concatenated stream does not parse as MP4: %v", err)
	}
	if !parsed.IsFragmented() {
		t.Error("stream is not fragmented")
	}
	if got := len(parsed.Segments); got == 0 {
		t.Error("no media segments found")
	}
}

func TestEncoder_EndEmitsQueuedFrames(t *testing.T) {
	encoder := New()
	if err := encoder.Begin(32, 32, 30.0, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	img := createTestImage(32, 32, color.RGBA{B: 255, A: 255})
	if err := encoder.EncodeFrame(img, 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	data, err := encoder.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	// Init plus one fragment, never drained before.
	if got := string(data[4:8]); got != "ftyp" {
		t.Errorf("first box = %q, want ftyp", got)
	}
	if !bytes.Contains(data, []byte("moof")) {
		t.Error("no fragment in End output")
	}

	if _, err := encoder.End(); err == nil {
		t.Error("second End should fail")
	}
}

func TestEncoder_UseBeforeBegin(t *testing.T) {
	encoder := New()

	img := createTestImage(16, 16, color.RGBA{A: 255})
	if err := encoder.EncodeFrame(img, 0); err == nil {
		t.Error("EncodeFrame before Begin should fail")
	}
	if _, err := encoder.Flush(); err == nil {
		t.Error("Flush before Begin should fail")
	}
}

func TestEncoder_InvalidDimensions(t *testing.T) {
	encoder := New()
	if err := encoder.Begin(0, 48, 30.0, ports.EncoderOptions{}); err == nil {
		t.Error("Begin with zero width should fail")
	}
}

func TestJpegQuality(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{0, 85},   // default
		{10, 90},  // high quality
		{30, 70},  // medium
		{63, 40},  // floor
		{100, 85}, // out of range falls back to default
	}

	for _, tt := range tests {
		if got := jpegQuality(tt.quality); got != tt.want {
			t.Errorf("jpegQuality(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}
