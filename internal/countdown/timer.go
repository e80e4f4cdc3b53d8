// Package countdown implements a single-shot, wall-clock based countdown.
//
// The timer keeps an absolute deadline instead of decrementing a counter, so
// late or irregular polls never accumulate drift. It owns no goroutine: the
// caller polls it at PollInterval while it is running.
package countdown

import (
	"time"

	"github.com/sadopc/hangboard/internal/clock"
)

// PollInterval is how often callers are expected to call Poll.
const PollInterval = 100 * time.Millisecond

type state int

const (
	stateStopped state = iota
	stateRunning
	statePaused
	stateExpired
)

type Timer struct {
	clock clock.Clock
	state state

	duration  time.Duration
	deadline  time.Time
	remaining time.Duration // captured on pause

	onTick   func(remaining time.Duration)
	onExpire func()
}

func New(c clock.Clock) *Timer {
	if c == nil {
		c = clock.System{}
	}
	return &Timer{clock: c}
}

// Start begins a new countdown of d, discarding any paused remainder.
func (t *Timer) Start(d time.Duration, onTick func(remaining time.Duration), onExpire func()) {
	if d < 0 {
		d = 0
	}
	t.duration = d
	t.remaining = d
	t.onTick = onTick
	t.onExpire = onExpire
	t.deadline = t.clock.Now().Add(d)
	t.state = stateRunning
}

// Pause stops polling and returns the exact remaining time.
func (t *Timer) Pause() time.Duration {
	if t.state != stateRunning {
		return t.remaining
	}
	t.remaining = t.left()
	t.state = statePaused
	return t.remaining
}

// Resume restarts the deadline from the remaining time captured by Pause.
func (t *Timer) Resume() {
	if t.state != statePaused {
		return
	}
	t.deadline = t.clock.Now().Add(t.remaining)
	t.state = stateRunning
}

// SetRunning pauses or resumes to match running.
func (t *Timer) SetRunning(running bool) {
	if running {
		t.Resume()
	} else {
		t.Pause()
	}
}

// Stop cancels the countdown. No callback fires after Stop.
func (t *Timer) Stop() {
	t.state = stateStopped
	t.onTick = nil
	t.onExpire = nil
}

// Poll recomputes the remaining time and fires the callbacks. The expiry
// callback fires exactly once; it may start a new countdown on t.
func (t *Timer) Poll() {
	if t.state != stateRunning {
		return
	}
	r := t.left()
	t.remaining = r
	if t.onTick != nil {
		t.onTick(r)
	}
	if t.state != stateRunning || r > 0 {
		return
	}
	t.state = stateExpired
	expire := t.onExpire
	t.onTick = nil
	t.onExpire = nil
	if expire != nil {
		expire()
	}
}

// Remaining returns the time left, computed live while running.
func (t *Timer) Remaining() time.Duration {
	if t.state == stateRunning {
		return t.left()
	}
	if t.state == stateStopped {
		return 0
	}
	return t.remaining
}

func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) left() time.Duration {
	r := t.deadline.Sub(t.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}
