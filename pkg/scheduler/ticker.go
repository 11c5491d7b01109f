// Package scheduler provides periodic task schedulers: a wall-clock one for
// real playback and a manually advanced one for deterministic simulation.
package scheduler

import (
	"sync"
	"time"

	"github.com/user/xplayer/pkg/ports"
)

// Ticker runs tasks on time.Ticker, one goroutine per task.
type Ticker struct{}

// NewTicker creates a wall-clock scheduler.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Now returns the current wall-clock time.
func (t *Ticker) Now() time.Time {
	return time.Now()
}

// Every calls fn every interval until the returned task is stopped.
func (t *Ticker) Every(interval time.Duration, fn func()) ports.Task {
	task := &tickerTask{done: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-task.done:
				return
			case <-ticker.C:
				select {
				case <-task.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return task
}

type tickerTask struct {
	once sync.Once
	done chan struct{}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.done) })
}

var _ ports.Scheduler = (*Ticker)(nil)
