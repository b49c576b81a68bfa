package mocks

import (
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// EncoderCapabilities is a mock implementation of ports.EncoderCapabilities
// backed by a fixed set of supported codecs.
type EncoderCapabilities struct {
	Codecs map[string]bool

	// SupportsCalls records the codecs queried, in order.
	SupportsCalls []string
}

// NewEncoderCapabilities creates a capability set supporting the given codecs.
func NewEncoderCapabilities(codecs ...string) *EncoderCapabilities {
	m := &EncoderCapabilities{Codecs: make(map[string]bool)}
	for _, c := range codecs {
		m.Codecs[c] = true
	}
	return m
}

func (m *EncoderCapabilities) Supports(codec string) bool {
	m.SupportsCalls = append(m.SupportsCalls, codec)
	return m.Codecs[codec]
}

var _ ports.EncoderCapabilities = (*EncoderCapabilities)(nil)
