// Package ytdlpresolver turns web page URLs into direct media URLs with
// yt-dlp. Local paths and direct file URLs pass through unchanged.
package ytdlpresolver

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	ytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/user/xplayer/pkg/metadata"
	"github.com/user/xplayer/pkg/ports"
)

// DefaultFormat asks for the best video and audio, merged or split.
const DefaultFormat = "bv*+ba/b"

var (
	ErrResolve   = errors.New("ytdlpresolver: resolve failed")
	ErrNoFormats = errors.New("ytdlpresolver: no playable format")
)

// directExtensions are media files that ffmpeg reads over http without help.
var directExtensions = map[string]bool{
	".mp4": true, ".m4v": true, ".mov": true, ".mkv": true, ".webm": true,
	".avi": true, ".ts": true, ".m3u8": true, ".mp3": true, ".m4a": true,
}

var (
	installOnce sync.Once
	installErr  error
)

// ExtractFunc runs yt-dlp for one URL.
type ExtractFunc func(ctx context.Context, url, format string) (*ytdlp.ExtractedInfo, error)

// Resolver implements ports.Resolver.
type Resolver struct {
	format  string
	extract ExtractFunc
	log     ports.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFormat sets the yt-dlp format selector.
func WithFormat(format string) Option {
	return func(r *Resolver) { r.format = format }
}

// WithExtractFunc replaces the yt-dlp invocation.
func WithExtractFunc(fn ExtractFunc) Option {
	return func(r *Resolver) { r.extract = fn }
}

func New(log ports.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		format:  DefaultFormat,
		extract: runYtdlp,
		log:     log.WithComponent("ytdlp"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, location string) (ports.Resolved, error) {
	if !NeedsExtraction(location) {
		return ports.Resolved{Video: location, Audio: location}, nil
	}

	r.log.Info("Resolving %s with yt-dlp", location)
	info, err := r.extract(ctx, location, r.format)
	if err != nil {
		return ports.Resolved{}, fmt.Errorf("%w: %v", ErrResolve, err)
	}
	resolved, err := pick(info)
	if err != nil {
		return ports.Resolved{}, err
	}
	if resolved.Audio != resolved.Video {
		r.log.Debug("Resolved %s into separate video and audio streams", location)
	}
	return resolved, nil
}

// NeedsExtraction reports whether location is a web URL that is not itself a
// media file.
func NeedsExtraction(location string) bool {
	if !metadata.IsRemote(location) {
		return false
	}
	lower := strings.ToLower(location)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	p := lower
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return !directExtensions[path.Ext(p)]
}

// pick chooses playable URLs. With two requested formats the first is the
// video and the second the audio.
func pick(info *ytdlp.ExtractedInfo) (ports.Resolved, error) {
	if info == nil {
		return ports.Resolved{}, ErrNoFormats
	}
	for len(info.Entries) > 0 {
		first := firstEntry(info.Entries)
		if first == nil {
			return ports.Resolved{}, ErrNoFormats
		}
		info = first
	}

	out := ports.Resolved{Title: deref(info.Title)}
	var urls []string
	for _, f := range info.RequestedFormats {
		if f != nil && isHTTP(f.URL) {
			urls = append(urls, f.URL)
		}
	}
	switch {
	case len(urls) >= 2:
		out.Video, out.Audio = urls[0], urls[1]
	case len(urls) == 1:
		out.Video, out.Audio = urls[0], urls[0]
	case isHTTP(deref(info.URL)):
		out.Video, out.Audio = *info.URL, *info.URL
	default:
		// Formats are listed worst to best.
		for _, f := range info.Formats {
			if f != nil && isHTTP(f.URL) {
				out.Video, out.Audio = f.URL, f.URL
			}
		}
	}
	if out.Video == "" {
		return ports.Resolved{}, ErrNoFormats
	}
	return out, nil
}

func firstEntry(entries []*ytdlp.ExtractedInfo) *ytdlp.ExtractedInfo {
	for _, e := range entries {
		if e != nil {
			return e
		}
	}
	return nil
}

func runYtdlp(ctx context.Context, url, format string) (*ytdlp.ExtractedInfo, error) {
	installOnce.Do(func() {
		_, installErr = ytdlp.Install(ctx, nil)
	})
	if installErr != nil {
		return nil, fmt.Errorf("install yt-dlp: %w", installErr)
	}

	res, err := ytdlp.New().
		Format(format).
		NoCheckCertificates().
		NoPlaylist().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}
	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, errors.New("parse yt-dlp json: no info returned")
	}
	return infos[0], nil
}

func isHTTP(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ ports.Resolver = (*Resolver)(nil)
