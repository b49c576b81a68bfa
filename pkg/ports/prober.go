package ports

import (
	"io"
)

// MediaProber validates a media source and extracts its basic properties.
type MediaProber interface {
	// Probe reads container metadata from the source and returns its
	// properties. The reader is rewound to the start before returning.
	// An error means the source is not a usable video.
	Probe(r io.ReadSeeker) (SourceInfo, error)
}
