package main

import (
	"path/filepath"
	"strings"

	"github.com/user/xplayer/pkg/metadata"
	"github.com/user/xplayer/pkg/ports"
)

// mediaExtensions are the file types picked up when a folder is given.
var mediaExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".mp4": true,
	".avi": true,
	".mkv": true,
}

func isMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// expandLocations replaces each folder argument with the supported media
// files directly inside it, in name order. URLs and plain files pass through.
func expandLocations(fs ports.FileSystem, args []string, log ports.Logger) []string {
	var out []string
	for _, arg := range args {
		if metadata.IsRemote(arg) {
			out = append(out, arg)
			continue
		}
		isDir, err := fs.IsDir(arg)
		if err != nil || !isDir {
			out = append(out, arg)
			continue
		}

		names, err := fs.ReadDir(arg)
		if err != nil {
			log.Warn("Failed to read folder %s: %v", arg, err)
			continue
		}
		found := 0
		for _, name := range names {
			path := filepath.Join(arg, name)
			if !isMediaFile(name) {
				continue
			}
			if sub, _ := fs.IsDir(path); sub {
				continue
			}
			out = append(out, path)
			found++
		}
		if found == 0 {
			log.Warn("No supported media files in %s", arg)
		}
	}
	return out
}
