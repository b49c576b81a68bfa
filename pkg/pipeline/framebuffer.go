package pipeline

import (
	"image"
	"image/draw"
	"sync"
)

// FrameBuffer is the compositing destination for one run. Its dimensions are
// fixed at construction and never change afterwards.
//
// It is written by the frame pump (one writer) and sampled by the capture
// pipeline (one reader); a lock keeps a sample from observing a half-written
// frame.
type FrameBuffer struct {
	mu     sync.RWMutex
	img    *image.RGBA
	width  int
	height int
	writes uint64
}

// NewFrameBuffer creates a frame buffer with fixed dimensions.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// Width returns the fixed buffer width.
func (b *FrameBuffer) Width() int { return b.width }

// Height returns the fixed buffer height.
func (b *FrameBuffer) Height() int { return b.height }

// Set replaces the buffer contents with the given image, scaled positionally
// to the top-left corner. Source pixels outside the buffer are discarded.
func (b *FrameBuffer) Set(img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	draw.Draw(b.img, b.img.Bounds(), img, img.Bounds().Min, draw.Src)
	b.writes++
}

// Snapshot returns a copy of the current buffer contents. The copy is safe
// to read while the buffer keeps being written.
func (b *FrameBuffer) Snapshot() *image.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	dst := image.NewRGBA(b.img.Bounds())
	copy(dst.Pix, b.img.Pix)
	return dst
}

// Writes returns the number of frames written so far.
func (b *FrameBuffer) Writes() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}
