package session

import (
	"time"

	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/history"
)

func (e *Engine) State() engine.State { return e.state }

// Active reports whether a session is running or showing its done screen.
func (e *Engine) Active() bool { return e.state.Phase != engine.Idle }

func (e *Engine) Program() (catalog.Program, bool) { return e.program, e.selected }

func (e *Engine) Registry() *catalog.Registry { return e.registry }

func (e *Engine) Timing() catalog.Timing { return e.timing }

func (e *Engine) CountdownCues() bool { return e.cues }

func (e *Engine) StartedAt() time.Time { return e.startedAt }

func (e *Engine) exerciseAt(i int) (catalog.Exercise, bool) {
	if i < 0 || i >= len(e.program.Exercises) {
		return catalog.Exercise{}, false
	}
	return e.program.Exercises[i], true
}

// Exercise returns the exercise at the current position.
func (e *Engine) Exercise() (catalog.Exercise, bool) {
	if !e.Active() {
		return catalog.Exercise{}, false
	}
	return e.exerciseAt(e.state.HoldIndex)
}

// NextExercise returns the exercise after the current one.
func (e *Engine) NextExercise() (catalog.Exercise, bool) {
	if !e.Active() {
		return catalog.Exercise{}, false
	}
	return e.exerciseAt(e.state.HoldIndex + 1)
}

// Reps returns the rep count of the current set.
func (e *Engine) Reps() int {
	return engine.RepsForSet(e.state, e.program.Exercises, e.timing.Set1Reps, e.timing.Set2Reps)
}

// Remaining is the time left in the current phase.
func (e *Engine) Remaining() time.Duration { return e.timer.Remaining() }

// PhaseDuration is the full length of the current phase.
func (e *Engine) PhaseDuration() time.Duration { return e.timer.Duration() }

// LastRecord returns the record of the most recently finished or bailed
// session.
func (e *Engine) LastRecord() (history.Record, bool) {
	if e.last == nil {
		return history.Record{}, false
	}
	return *e.last, true
}

func (e *Engine) Notes() string { return e.notes }

func (e *Engine) HoldNote(exerciseID string) string { return e.holdNotes[exerciseID] }
