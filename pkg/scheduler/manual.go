package scheduler

import (
	"sync"
	"time"

	"github.com/user/xplayer/pkg/ports"
)

// Manual is a scheduler whose time only moves when Advance is called.
// Tasks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

// NewManual creates a Manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every registers fn to run every interval of simulated time.
func (m *Manual) Every(interval time.Duration, fn func()) ports.Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{
		owner:    m,
		seq:      m.seq,
		interval: interval,
		next:     m.now.Add(interval),
		fn:       fn,
	}
	m.tasks = append(m.tasks, task)
	return task
}

// Advance moves simulated time forward by d, firing every task that comes
// due on the way in due-time order. Ties fire in registration order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		task := m.nextDueLocked(target)
		if task == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = task.next
		task.next = task.next.Add(task.interval)
		fn := task.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of active tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.next.After(target) {
			continue
		}
		if best == nil || t.next.Before(best.next) || (t.next.Equal(best.next) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(task *manualTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

type manualTask struct {
	owner    *Manual
	seq      int
	interval time.Duration
	next     time.Time
	fn       func()
}

func (t *manualTask) Stop() {
	t.owner.remove(t)
}

var _ ports.Scheduler = (*Manual)(nil)
