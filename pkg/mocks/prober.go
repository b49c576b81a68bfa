package mocks

import (
	"io"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// MediaProber is a mock implementation of ports.MediaProber.
type MediaProber struct {
	Info     ports.SourceInfo
	ProbeErr error

	ProbeCount int
}

// NewMediaProber creates a prober returning the given source info.
func NewMediaProber(info ports.SourceInfo) *MediaProber {
	return &MediaProber{Info: info}
}

func (m *MediaProber) Probe(r io.ReadSeeker) (ports.SourceInfo, error) {
	m.ProbeCount++
	if m.ProbeErr != nil {
		return ports.SourceInfo{}, m.ProbeErr
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ports.SourceInfo{}, err
	}
	return m.Info, nil
}

var _ ports.MediaProber = (*MediaProber)(nil)
