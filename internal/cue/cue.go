// Package cue delivers the audible and logged signals of a workout.
package cue

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Notifier receives fire-and-forget workout cues.
type Notifier interface {
	HangStart()
	HangEnd()
	CountdownTick()
	SetComplete()
}

type Nop struct{}

func (Nop) HangStart()     {}
func (Nop) HangEnd()       {}
func (Nop) CountdownTick() {}
func (Nop) SetComplete()   {}

// Bell rings the terminal bell. Each cue has its own ring count.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

const (
	ringsHangStart = 1
	ringsHangEnd   = 2
	ringsTick      = 1
	ringsSetDone   = 3
)

func (b *Bell) ring(n int) {
	if b == nil || b.out == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.out, strings.Repeat("\a", n))
}

func (b *Bell) HangStart()     { b.ring(ringsHangStart) }
func (b *Bell) HangEnd()       { b.ring(ringsHangEnd) }
func (b *Bell) CountdownTick() { b.ring(ringsTick) }
func (b *Bell) SetComplete()   { b.ring(ringsSetDone) }

// Log records every cue at debug level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) emit(name string) {
	if l.Logger != nil {
		l.Logger.Debug("cue", "kind", name)
	}
}

func (l Log) HangStart()     { l.emit("hang_start") }
func (l Log) HangEnd()       { l.emit("hang_end") }
func (l Log) CountdownTick() { l.emit("countdown_tick") }
func (l Log) SetComplete()   { l.emit("set_complete") }

// Multi fans a cue out to every notifier in order.
type Multi []Notifier

func (m Multi) HangStart() {
	for _, n := range m {
		n.HangStart()
	}
}

func (m Multi) HangEnd() {
	for _, n := range m {
		n.HangEnd()
	}
}

func (m Multi) CountdownTick() {
	for _, n := range m {
		n.CountdownTick()
	}
}

func (m Multi) SetComplete() {
	for _, n := range m {
		n.SetComplete()
	}
}

// Recorder keeps the names of received cues. Useful in tests.
type Recorder struct {
	mu   sync.Mutex
	Cues []string
}

func (r *Recorder) add(name string) {
	r.mu.Lock()
	r.Cues = append(r.Cues, name)
	r.mu.Unlock()
}

// Count returns how many times a cue was received.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Cues {
		if c == name {
			n++
		}
	}
	return n
}

func (r *Recorder) HangStart()     { r.add("hang_start") }
func (r *Recorder) HangEnd()       { r.add("hang_end") }
func (r *Recorder) CountdownTick() { r.add("countdown_tick") }
func (r *Recorder) SetComplete()   { r.add("set_complete") }
