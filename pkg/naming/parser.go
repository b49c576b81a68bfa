// Package naming handles dashcam clip filenames: extracting the recording
// start instant encoded in the name, and deriving output file names.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ClipTimeLayout is the layout of the instant encoded in a clip filename,
// after the dash-separated time fields are normalized to colons.
const ClipTimeLayout = "2006-01-02 15:04:05"

// ParseClipTimestamp extracts the recording start instant from a clip
// filename of the shape <date>_<time>[...], where date is YYYY-MM-DD and
// time is at least three dash-separated numeric fields HH-MM-SS. Trailing
// fields (milliseconds, camera labels, extension) are ignored.
//
//	2024-03-01_14-05-09-000.mp4 -> 2024-03-01 14:05:09 local time
//
// An error means the name does not carry a usable timestamp; callers are
// expected to substitute the current time and continue.
func ParseClipTimestamp(filename string) (time.Time, error) {
	base := filepath.Base(filename)

	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("naming: %q has no underscore-separated time part", base)
	}
	datePart := parts[0]

	fields := strings.Split(parts[1], "-")
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("naming: %q has fewer than three time fields", parts[1])
	}

	stamp := fmt.Sprintf("%s %s:%s:%s", datePart, fields[0], fields[1], fields[2])
	t, err := time.ParseInLocation(ClipTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("naming: parse %q: %w", stamp, err)
	}
	return t, nil
}
