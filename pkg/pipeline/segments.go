package pipeline

import (
	"sync"
	"time"
)

// Segment is one opaque encoded chunk emitted by the capture pipeline.
type Segment struct {
	Data      []byte
	ArrivedAt time.Time
}

// SegmentBuffer is an ordered, append-only sequence of encoded segments.
// Insertion order is the only ordering that reconstructs a valid stream, so
// segments are never reordered or removed.
type SegmentBuffer struct {
	mu   sync.Mutex
	segs []Segment
}

// NewSegmentBuffer creates an empty segment buffer.
func NewSegmentBuffer() *SegmentBuffer {
	return &SegmentBuffer{}
}

// Append adds one segment at the end of the buffer.
func (b *SegmentBuffer) Append(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.segs = append(b.segs, Segment{Data: data, ArrivedAt: time.Now()})
}

// Len returns the number of buffered segments.
func (b *SegmentBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.segs)
}

// TotalBytes returns the combined size of all buffered segments.
func (b *SegmentBuffer) TotalBytes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, s := range b.segs {
		total += len(s.Data)
	}
	return total
}

// Snapshot returns a copy of the current segment list in arrival order.
func (b *SegmentBuffer) Snapshot() []Segment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Segment, len(b.segs))
	copy(out, b.segs)
	return out
}

// Concat joins all segments in arrival order into one byte stream.
func (b *SegmentBuffer) Concat() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, s := range b.segs {
		total += len(s.Data)
	}
	out := make([]byte, 0, total)
	for _, s := range b.segs {
		out = append(out, s.Data...)
	}
	return out
}
