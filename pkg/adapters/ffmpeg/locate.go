// Package ffmpeg locates the ffmpeg and ffprobe executables used by the
// subprocess-based adapters.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

var (
	mu                sync.RWMutex
	customFFmpegPath  string
	customFFprobePath string
)

// SetFFmpegPath overrides ffmpeg discovery. An empty path restores it.
func SetFFmpegPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	customFFmpegPath = path
}

// SetFFprobePath overrides ffprobe discovery. An empty path restores it.
func SetFFprobePath(path string) {
	mu.Lock()
	defer mu.Unlock()
	customFFprobePath = path
}

// FindFFmpeg searches for ffmpeg.
// Priority: 1) SetFFmpegPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg() (string, error) {
	mu.RLock()
	custom := customFFmpegPath
	mu.RUnlock()
	return find("ffmpeg", custom, "FFMPEG_PATH", ErrFFmpegNotFound)
}

// FindFFprobe searches for ffprobe in the same order, using FFPROBE_PATH.
func FindFFprobe() (string, error) {
	mu.RLock()
	custom := customFFprobePath
	mu.RUnlock()
	return find("ffprobe", custom, "FFPROBE_PATH", ErrFFprobeNotFound)
}

// IsAvailable reports whether ffmpeg can be found.
func IsAvailable() bool {
	_, err := FindFFmpeg()
	return err == nil
}

func find(name, custom, envVar string, notFound error) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", notFound, custom)
	}

	if envPath := os.Getenv(envVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s %s not found", notFound, envVar, envPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths(execName) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", notFound
}

func commonPaths(execName string) []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\` + execName,
			`C:\Program Files\ffmpeg\bin\` + execName,
			`C:\Program Files (x86)\ffmpeg\bin\` + execName,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/" + execName,
			"/usr/local/bin/" + execName,
			"/usr/bin/" + execName,
		}
	default:
		return []string{
			"/usr/bin/" + execName,
			"/usr/local/bin/" + execName,
			"/opt/homebrew/bin/" + execName,
			"/snap/bin/" + execName,
		}
	}
}
