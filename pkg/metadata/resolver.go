// Package metadata resolves media metadata from several probers. Duration
// is best-effort: each step of a fixed chain is tried in turn and the step
// that succeeded is recorded, ending at a fallback so a duration is never
// zero.
package metadata

import (
	"context"
	"strings"
	"time"

	"github.com/user/xplayer/pkg/ports"
)

const (
	DefaultFallbackDuration = time.Hour
	DefaultFrameRate        = 30.0
)

// Resolver runs in-process probers in order and consults an external
// prober only when none of them yields a duration.
type Resolver struct {
	probers    []ports.MetadataProber
	external   ports.MetadataProber
	fs         ports.FileSystem
	fallback   time.Duration
	defaultFPS float64
	log        ports.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExternal sets the prober used for step 5.
func WithExternal(p ports.MetadataProber) Option {
	return func(r *Resolver) { r.external = p }
}

// WithFileSystem enables the bit rate estimate for local files.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(r *Resolver) { r.fs = fs }
}

// WithFallback sets the duration reported when every step fails.
func WithFallback(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.fallback = d
		}
	}
}

// WithDefaultFrameRate sets the frame rate used when no prober reports one.
func WithDefaultFrameRate(fps float64) Option {
	return func(r *Resolver) {
		if fps > 0 {
			r.defaultFPS = fps
		}
	}
}

// NewResolver creates a resolver over probers, asked in the given order.
func NewResolver(log ports.Logger, probers []ports.MetadataProber, opts ...Option) *Resolver {
	r := &Resolver{
		probers:    probers,
		fallback:   DefaultFallbackDuration,
		defaultFPS: DefaultFrameRate,
		log:        log.WithComponent("metadata"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve probes location. Prober failures are logged and skipped; an error
// is returned only when ctx is done or there is nothing to ask.
func (r *Resolver) Resolve(ctx context.Context, location string) (ports.Metadata, error) {
	if len(r.probers) == 0 && r.external == nil {
		return ports.Metadata{}, ErrNoProbers
	}

	results := r.probe(ctx, location, r.probers)
	if err := ctx.Err(); err != nil {
		return ports.Metadata{}, err
	}

	meta := ports.Metadata{Location: location}
	meta.DurationMs, meta.DurationSource = r.duration(location, results)

	if meta.DurationMs == 0 && r.external != nil {
		ext := r.probe(ctx, location, []ports.MetadataProber{r.external})
		if err := ctx.Err(); err != nil {
			return ports.Metadata{}, err
		}
		results = append(results, ext...)
		if len(ext) > 0 {
			if ms := externalDuration(ext[0]); ms > 0 {
				meta.DurationMs, meta.DurationSource = ms, ports.DurationFromProbe
			}
		}
	}
	if meta.DurationMs == 0 {
		meta.DurationMs = r.fallback.Milliseconds()
		meta.DurationSource = ports.DurationFromFallback
		r.log.Warn("No duration for %s, assuming %d ms", location, meta.DurationMs)
	}

	fillStreams(&meta, results)
	if meta.FrameRate <= 0 {
		meta.FrameRate = r.defaultFPS
	}
	r.log.Debug("Resolved %s: %d ms (%s), %.3f fps, %dx%d",
		location, meta.DurationMs, meta.DurationSource, meta.FrameRate, meta.Width, meta.Height)
	return meta, nil
}

func (r *Resolver) probe(ctx context.Context, location string, probers []ports.MetadataProber) []ports.ProbeResult {
	var results []ports.ProbeResult
	for _, p := range probers {
		if ctx.Err() != nil {
			return results
		}
		res, err := p.Probe(ctx, location)
		if err != nil {
			r.log.Debug("Prober %s failed on %s: %v", p.Name(), location, err)
			continue
		}
		results = append(results, res)
	}
	return results
}

// duration runs steps 1 to 4 across all in-process results.
func (r *Resolver) duration(location string, results []ports.ProbeResult) (int64, ports.DurationSource) {
	for _, res := range results {
		if res.DurationMs > 0 {
			return res.DurationMs, ports.DurationFromDecoder
		}
	}
	for _, res := range results {
		if ms, key, ok := durationFromTags(res.Tags); ok {
			r.log.Debug("Duration of %s taken from tag %s", location, key)
			return ms, ports.DurationFromTags
		}
	}
	for _, res := range results {
		if res.FrameCount > 0 && res.FrameRate > 0 {
			return int64(float64(res.FrameCount) * 1000 / res.FrameRate), ports.DurationFromFrames
		}
	}
	if size := r.size(location); size > 0 {
		for _, res := range results {
			if res.BitRate > 0 {
				return size * 8 * 1000 / res.BitRate, ports.DurationFromBitrate
			}
		}
	}
	return 0, ""
}

func (r *Resolver) size(location string) int64 {
	if r.fs == nil || IsRemote(location) {
		return 0
	}
	size, err := r.fs.Size(location)
	if err != nil {
		return 0
	}
	return size
}

func externalDuration(res ports.ProbeResult) int64 {
	if res.DurationMs > 0 {
		return res.DurationMs
	}
	if ms, _, ok := durationFromTags(res.Tags); ok {
		return ms
	}
	return 0
}

// fillStreams copies the first non-zero stream parameters.
func fillStreams(meta *ports.Metadata, results []ports.ProbeResult) {
	for _, res := range results {
		if meta.FrameRate <= 0 && res.FrameRate > 0 {
			meta.FrameRate = res.FrameRate
		}
		if meta.Width == 0 && res.Width > 0 {
			meta.Width, meta.Height = res.Width, res.Height
		}
		if meta.AudioSampleRate == 0 && res.AudioSampleRate > 0 {
			meta.AudioSampleRate = res.AudioSampleRate
		}
		if meta.AudioChannels == 0 && res.AudioChannels > 0 {
			meta.AudioChannels = res.AudioChannels
		}
	}
}

// IsRemote reports whether location is a URL rather than a local path.
func IsRemote(location string) bool {
	return strings.Contains(location, "://") && !strings.HasPrefix(location, "file://")
}
