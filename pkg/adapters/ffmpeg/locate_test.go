package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindFFmpeg_CustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}

	SetFFmpegPath(bin)
	defer SetFFmpegPath("")

	got, err := FindFFmpeg()
	if err != nil {
		t.Fatalf("FindFFmpeg failed: %v", err)
	}
	if got != bin {
		t.Errorf("expected %s, got %s", bin, got)
	}
}

func TestFindFFmpeg_MissingCustomPath(t *testing.T) {
	SetFFmpegPath(filepath.Join(t.TempDir(), "nope"))
	defer SetFFmpegPath("")

	if _, err := FindFFmpeg(); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFprobe_EnvPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	t.Setenv("FFPROBE_PATH", bin)

	got, err := FindFFprobe()
	if err != nil {
		t.Fatalf("FindFFprobe failed: %v", err)
	}
	if got != bin {
		t.Errorf("expected %s, got %s", bin, got)
	}

	t.Setenv("FFPROBE_PATH", filepath.Join(dir, "missing"))
	if _, err := FindFFprobe(); !errors.Is(err, ErrFFprobeNotFound) {
		t.Errorf("expected ErrFFprobeNotFound, got %v", err)
	}
}
