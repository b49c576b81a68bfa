// Package ffmpegbin locates the ffmpeg executable used by the decoding and
// encoding adapters.
package ffmpegbin

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// ErrNotFound is returned when no ffmpeg executable can be located.
var ErrNotFound = errors.New("ffmpeg not found")

var (
	mu         sync.Mutex
	customPath string
)

// SetPath overrides ffmpeg discovery with an explicit executable path.
// An empty string restores automatic discovery.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	customPath = path
}

// IsAvailable checks if ffmpeg is available on the system.
func IsAvailable() bool {
	_, err := Find()
	return err == nil
}

// Find searches for ffmpeg.
// Priority: 1) path set via SetPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func Find() (string, error) {
	mu.Lock()
	custom := customPath
	mu.Unlock()

	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	path, err := exec.LookPath(execName)
	if err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else if runtime.GOOS == "darwin" {
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrNotFound
}
