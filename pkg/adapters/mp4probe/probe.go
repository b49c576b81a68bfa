// Package mp4probe validates MP4 sources and extracts their basic
// properties by parsing the container in-process.
package mp4probe

import (
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// ErrNoVideoTrack is returned when the container holds no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// codecNames maps sample entry box types to codec identifiers.
var codecNames = map[string]string{
	"avc1": "h264",
	"avc3": "h264",
	"hvc1": "hevc",
	"hev1": "hevc",
	"vp09": "vp9",
	"av01": "av1",
	"jpeg": "mjpeg",
}

// Prober implements ports.MediaProber for MP4 containers.
type Prober struct{}

// New creates a new MP4 prober.
func New() *Prober {
	return &Prober{}
}

// Probe parses container metadata and rewinds the reader.
func (p *Prober) Probe(r io.ReadSeeker) (ports.SourceInfo, error) {
	defer r.Seek(0, io.SeekStart)

	parsed, err := mp4.DecodeFile(r)
	if err != nil {
		return ports.SourceInfo{}, fmt.Errorf("mp4probe: parse container: %w", err)
	}

	moov := parsed.Moov
	if parsed.Init != nil && parsed.Init.Moov != nil {
		moov = parsed.Init.Moov
	}
	if moov == nil {
		return ports.SourceInfo{}, fmt.Errorf("mp4probe: no moov box")
	}

	var video *mp4.TrakBox
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			video = trak
			break
		}
	}
	if video == nil {
		return ports.SourceInfo{}, ErrNoVideoTrack
	}

	info := ports.SourceInfo{
		Container: "mp4",
		Width:     int(uint32(video.Tkhd.Width) >> 16),
		Height:    int(uint32(video.Tkhd.Height) >> 16),
	}

	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		info.DurationMs = int(moov.Mvhd.Duration * 1000 / uint64(moov.Mvhd.Timescale))
	}

	info.Codec = trackCodec(video)
	info.FPS = trackFPS(video)

	if info.Width <= 0 || info.Height <= 0 {
		return ports.SourceInfo{}, fmt.Errorf("mp4probe: invalid video dimensions %dx%d", info.Width, info.Height)
	}

	return info, nil
}

func trackCodec(trak *mp4.TrakBox) string {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ""
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if name, ok := codecNames[child.Type()]; ok {
			return name
		}
	}
	if len(trak.Mdia.Minf.Stbl.Stsd.Children) > 0 {
		return trak.Mdia.Minf.Stbl.Stsd.Children[0].Type()
	}
	return ""
}

// trackFPS derives the frame rate from the sample table. Fragmented files
// carry no stts entries; callers fall back to a default rate.
func trackFPS(trak *mp4.TrakBox) float64 {
	mdhd := trak.Mdia.Mdhd
	if mdhd == nil || mdhd.Duration == 0 || mdhd.Timescale == 0 {
		return 0
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl == nil || stbl.Stts == nil {
		return 0
	}

	var samples uint64
	for _, count := range stbl.Stts.SampleCount {
		samples += uint64(count)
	}
	if samples == 0 {
		return 0
	}

	seconds := float64(mdhd.Duration) / float64(mdhd.Timescale)
	if seconds <= 0 {
		return 0
	}
	return float64(samples) / seconds
}

// Ensure Prober implements ports.MediaProber
var _ ports.MediaProber = (*Prober)(nil)
