package pipeline

import (
	"image"
	"image/color"
	"sync"
	"testing"
)

func TestFrameBuffer_SetAndSnapshot(t *testing.T) {
	fb := NewFrameBuffer(4, 4)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	fb.Set(src)

	snap := fb.Snapshot()
	if got := snap.RGBAAt(2, 2); got.R != 200 {
		t.Errorf("snapshot pixel = %v, want R=200", got)
	}
	if fb.Writes() != 1 {
		t.Errorf("writes = %d, want 1", fb.Writes())
	}

	// The snapshot is a copy: later writes must not leak into it.
	src2 := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fb.Set(src2)
	if got := snap.RGBAAt(2, 2); got.R != 200 {
		t.Errorf("snapshot mutated by later write: %v", got)
	}
}

func TestFrameBuffer_DimensionsFixed(t *testing.T) {
	fb := NewFrameBuffer(64, 48)

	// Writing a larger frame must not grow the buffer.
	big := image.NewRGBA(image.Rect(0, 0, 128, 96))
	fb.Set(big)

	if fb.Width() != 64 || fb.Height() != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", fb.Width(), fb.Height())
	}
	snap := fb.Snapshot()
	if snap.Bounds().Dx() != 64 || snap.Bounds().Dy() != 48 {
		t.Errorf("snapshot bounds = %v", snap.Bounds())
	}
}

func TestFrameBuffer_ConcurrentAccess(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			fb.Set(src)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			fb.Snapshot()
		}
	}()
	wg.Wait()

	if fb.Writes() != 200 {
		t.Errorf("writes = %d, want 200", fb.Writes())
	}
}
