// Package ffmpegcaps reports encoder availability by querying the installed
// ffmpeg build.
package ffmpegcaps

import (
	"os/exec"
	"strings"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegbin"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Capabilities implements ports.EncoderCapabilities. MJPEG is encoded
// in-process and is always available; the other codecs require the matching
// library in the ffmpeg build.
type Capabilities struct {
	once     sync.Once
	encoders map[string]bool
}

// New creates a capability prober. The ffmpeg encoder list is queried once,
// on first use.
func New() *Capabilities {
	return &Capabilities{}
}

// Supports reports whether the codec can be encoded on this system.
func (c *Capabilities) Supports(codec string) bool {
	switch codec {
	case "mjpeg":
		return true
	case "h264":
		return c.hasEncoder("libx264")
	case "vp9":
		return c.hasEncoder("libvpx-vp9")
	default:
		return false
	}
}

func (c *Capabilities) hasEncoder(name string) bool {
	c.once.Do(c.load)
	return c.encoders[name]
}

// load parses `ffmpeg -encoders`. Each entry line has a flags column, then
// the encoder name, then a description.
func (c *Capabilities) load() {
	c.encoders = make(map[string]bool)

	ffmpegPath, err := ffmpegbin.Find()
	if err != nil {
		return
	}

	out, err := exec.Command(ffmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Video encoder flag columns start with V.
		if !strings.HasPrefix(fields[0], "V") {
			continue
		}
		c.encoders[fields[1]] = true
	}
}

// Ensure Capabilities implements ports.EncoderCapabilities
var _ ports.EncoderCapabilities = (*Capabilities)(nil)
