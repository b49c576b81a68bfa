package mp4probe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/mjpegencoder"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// encodeClip produces a small fragmented MP4 to probe.
func encodeClip(t *testing.T, width, height int) []byte {
	t.Helper()

	enc := mjpegencoder.New()
	if err := enc.Begin(width, height, 30.0, ports.EncoderOptions{}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	for i := 0; i < 5; i++ {
		if err := enc.EncodeFrame(img, i*33); err != nil {
			t.Fatalf("EncodeFrame failed: %v", err)
		}
	}

	data, err := enc.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	return data
}

func TestProbe_ReadsGeometryAndCodec(t *testing.T) {
	data := encodeClip(t, 128, 96)
	r := bytes.NewReader(data)

	info, err := New().Probe(r)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if info.Width != 128 || info.Height != 96 {
		t.Errorf("dimensions = %dx%d, want 128x96", info.Width, info.Height)
	}
	if info.Codec != "mjpeg" {
		t.Errorf("codec = %q, want mjpeg", info.Codec)
	}
	if info.Container != "mp4" {
		t.Errorf("container = %q, want mp4", info.Container)
	}
}

func TestProbe_RewindsReader(t *testing.T) {
	data := encodeClip(t, 64, 48)
	r := bytes.NewReader(data)

	if _, err := New().Probe(r); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Errorf("reader position = %d after Probe, want 0", pos)
	}
}

func TestProbe_GarbageInput(t *testing.T) {
	r := bytes.NewReader([]byte("this is not a video file at all, not even close"))
	if _, err := New().Probe(r); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestProbe_NoVideoTrack(t *testing.T) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(48000, "audio", "en")

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	_, err := New().Probe(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrNoVideoTrack) {
		t.Errorf("error = %v, want ErrNoVideoTrack", err)
	}
}
