// Package clock derives the playback position from elapsed wall time.
package clock

import "time"

// Clock is the authoritative playback position. It advances by elapsed wall
// time scaled by the playback rate and is independent of frames rendered.
// It is not safe for concurrent use.
type Clock struct {
	positionMs float64
	durationMs int64
}

// New creates a Clock at position zero with an unknown duration.
func New() *Clock {
	return &Clock{}
}

// Reset moves the clock to startMs.
func (c *Clock) Reset(startMs int64) {
	c.positionMs = float64(startMs)
	c.clamp()
}

// SetDuration sets the upper bound of the position. Zero or negative leaves
// the position unbounded above.
func (c *Clock) SetDuration(durationMs int64) {
	c.durationMs = durationMs
	c.clamp()
}

// Duration returns the configured duration.
func (c *Clock) Duration() int64 {
	return c.durationMs
}

// Tick advances the clock by elapsed wall time multiplied by rate and returns
// the new position in milliseconds.
func (c *Clock) Tick(elapsed time.Duration, rate float64) int64 {
	if elapsed > 0 && rate > 0 {
		c.positionMs += float64(elapsed) / float64(time.Millisecond) * rate
		c.clamp()
	}
	return c.Position()
}

// Position returns the current position in milliseconds.
func (c *Clock) Position() int64 {
	return int64(c.positionMs)
}

// AtEnd reports whether the position reached a known duration.
func (c *Clock) AtEnd() bool {
	return c.durationMs > 0 && c.Position() >= c.durationMs
}

func (c *Clock) clamp() {
	if c.positionMs < 0 {
		c.positionMs = 0
	}
	if c.durationMs > 0 && c.positionMs > float64(c.durationMs) {
		c.positionMs = float64(c.durationMs)
	}
}
