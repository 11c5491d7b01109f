package summarizer

import "time"

// Summary contains everything collected during one playback session.
type Summary struct {
	GeneratedAt time.Time
	StartedAt   time.Time

	Settings Settings
	Items    []ItemReport
	Stats    StatsInfo
}

// Settings records how the session was configured.
type Settings struct {
	Mode   string
	Volume int
	Rate   float64
	Device string
}

// ItemReport describes one played media item.
type ItemReport struct {
	Location       string
	Title          string
	DurationMs     int64
	DurationSource string
	PositionMs     int64
	StopReason     string
	Error          string
}

// StatsInfo holds engine counters at the end of the session.
type StatsInfo struct {
	FramesPresented int64
	FramesDropped   int64
	DecodeRetries   int64
	Seeks           int64
	SeekFallbacks   int64
	AudioFailures   int64
	Resyncs         int
	MaxDriftMs      int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	now := time.Now()
	return &Summary{GeneratedAt: now, StartedAt: now}
}

// Elapsed returns the wall time from StartedAt to GeneratedAt.
func (s *Summary) Elapsed() time.Duration {
	return s.GeneratedAt.Sub(s.StartedAt)
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

func NewBuilder() *Builder {
	return &Builder{summary: NewSummary()}
}

// StartedAt overrides the session start time.
func (b *Builder) StartedAt(t time.Time) *Builder {
	b.summary.StartedAt = t
	return b
}

func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddItem appends one played item.
func (b *Builder) AddItem(item ItemReport) *Builder {
	b.summary.Items = append(b.summary.Items, item)
	return b
}

func (b *Builder) WithStats(stats StatsInfo) *Builder {
	b.summary.Stats = stats
	return b
}

// Build stamps GeneratedAt and returns the Summary.
func (b *Builder) Build() *Summary {
	b.summary.GeneratedAt = time.Now()
	return b.summary
}
