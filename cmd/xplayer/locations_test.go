package main

import (
	"strings"
	"testing"

	"github.com/user/xplayer/pkg/adapters/logger"
	"github.com/user/xplayer/pkg/mocks"
)

func TestExpandLocations_Folder(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAll("/music")
	fs.MkdirAll("/music/live.mkv")
	for _, p := range []string{"/music/b.MP3", "/music/a.wav", "/music/cover.jpg", "/music/notes.txt", "/music/c.mkv"} {
		fs.WriteFile(p, nil)
	}

	got := expandLocations(fs, []string{"/music", "/other/clip.mp4", "https://example.com/v.mp4"}, logger.NewNoop())

	expected := []string{"/music/a.wav", "/music/b.MP3", "/music/c.mkv", "/other/clip.mp4", "https://example.com/v.mp4"}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestExpandLocations_FolderWithoutMedia(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAll("/photos")
	fs.WriteFile("/photos/a.jpg", nil)

	got := expandLocations(fs, []string{"/photos"}, logger.NewNoop())
	if len(got) != 0 {
		t.Errorf("expected no locations, got %v", got)
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := map[string]bool{
		"a.mp3":   true,
		"a.WAV":   true,
		"a.mp4":   true,
		"a.avi":   true,
		"a.mkv":   true,
		"a.flac":  false,
		"a":       false,
		"mp4":     false,
		"a.mp4.x": false,
	}
	for name, expected := range tests {
		if got := isMediaFile(name); got != expected {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}
}
