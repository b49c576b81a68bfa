package run

import (
	"errors"

	"github.com/MuggleFighter/fuckteslacam/pkg/finalize"
	"github.com/MuggleFighter/fuckteslacam/pkg/negotiate"
)

// Sentinel errors returned by Coordinator.Run. Their wording is shown to end
// users, so it stays free of internal terminology.
var (
	// ErrBusy is returned when a run is requested while another is live.
	ErrBusy = errors.New("another run is already in progress")

	// ErrUnsupportedMedia is returned for sources that are not video.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrPlayback is returned when decoding cannot begin.
	ErrPlayback = errors.New("playback could not be started")
)

// UserMessage maps an error from Run to a message suitable for end users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, negotiate.ErrNoCapability):
		return "no supported encoding available on this system"
	case errors.Is(err, finalize.ErrNoData):
		return "no video data was captured"
	default:
		return err.Error()
	}
}
