// Package session owns a live workout: its position, its weights and the
// countdown of the current phase.
//
// Engine is single-threaded. Every operation, including Poll, must be
// called from the same goroutine; transitions commit fully before the next
// event is handled. Persistence is fire-and-forget through a Persister.
package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/countdown"
	"github.com/sadopc/hangboard/internal/cue"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/weights"
)

var (
	ErrNoProgram     = errors.New("no program selected")
	ErrSessionActive = errors.New("session in progress")
)

const (
	// DoneLinger is how long the done phase shows before returning to idle.
	DoneLinger = 3 * time.Second
	// CueWindow is the final stretch of prep and hang in which countdown
	// ticks fire.
	CueWindow = 3 * time.Second
)

// WeightLoader reads a program's stored baselines.
type WeightLoader interface {
	LoadWeights(program string) (weights.Stored, error)
}

// Persister receives durable writes. Implementations must not block.
type Persister interface {
	SaveSession(r history.Record)
	SaveWeight(program, exerciseID string, p weights.Pair)
	ResetWeights(program string)
}

type Options struct {
	Clock     clock.Clock
	Logger    *slog.Logger
	Notifier  cue.Notifier
	Loader    WeightLoader
	Persister Persister
	// Timing defaults to catalog.Standard.
	Timing catalog.Timing
	NewID  func() string
}

type listener struct {
	id int
	fn func(engine.State)
}

type Engine struct {
	clock     clock.Clock
	logger    *slog.Logger
	notifier  cue.Notifier
	loader    WeightLoader
	persister Persister
	newID     func() string

	registry *catalog.Registry
	program  catalog.Program
	selected bool
	timing   catalog.Timing
	cues     bool

	state   engine.State
	weights *weights.Model
	timer   *countdown.Timer
	lastCue int

	startedAt time.Time
	notes     string
	holdNotes map[string]string
	last      *history.Record

	listeners []listener
	nextID    int
}

func New(reg *catalog.Registry, opts Options) *Engine {
	e := &Engine{
		clock:     opts.Clock,
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		loader:    opts.Loader,
		persister: opts.Persister,
		newID:     opts.NewID,
		registry:  reg,
		timing:    opts.Timing,
		cues:      true,
		holdNotes: make(map[string]string),
	}
	if e.clock == nil {
		e.clock = clock.System{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.notifier == nil {
		e.notifier = cue.Nop{}
	}
	if e.timing.Name == "" {
		e.timing = catalog.Standard
	}
	e.timer = countdown.New(e.clock)
	return e
}

// OnStateChanged registers fn to run after every committed change. The
// returned func removes it.
func (e *Engine) OnStateChanged(fn func(engine.State)) func() {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return func() {
		kept := make([]listener, 0, len(e.listeners))
		for _, l := range e.listeners {
			if l.id != id {
				kept = append(kept, l)
			}
		}
		e.listeners = kept
	}
}

// notify runs the listeners registered when the change was committed.
// Removal never mutates a slice notify may be ranging over.
func (e *Engine) notify() {
	for _, l := range e.listeners {
		l.fn(e.state)
	}
}

// Select makes id the active program and loads its stored weights. A load
// failure is logged and leaves the catalog defaults in place.
func (e *Engine) Select(id string) error {
	if e.Active() {
		return ErrSessionActive
	}
	p, err := e.registry.Get(id)
	if err != nil {
		return err
	}
	var stored weights.Stored
	if e.loader != nil {
		stored, err = e.loader.LoadWeights(p.StorageKey())
		if err != nil {
			e.logger.Warn("load weights failed", "program", p.StorageKey(), "error", err)
			stored = nil
		}
	}
	e.program = p
	e.selected = true
	e.weights = weights.New(p.Exercises, stored)
	e.notify()
	return nil
}

// SetTiming changes the global durations. Phases already running keep
// their countdown.
func (e *Engine) SetTiming(t catalog.Timing) {
	e.timing = t
}

func (e *Engine) SetCountdownCues(on bool) {
	e.cues = on
}

func (e *Engine) Start() error {
	if !e.selected {
		return ErrNoProgram
	}
	if e.Active() {
		return ErrSessionActive
	}
	e.weights.ClearOverrides()
	e.notes = ""
	e.holdNotes = make(map[string]string)
	e.last = nil
	e.startedAt = e.clock.Now()
	e.logger.Info("session started", "program", e.program.ID, "timing", e.timing.Name)
	e.enter(engine.Initial())
	return nil
}

// Advance ends the current phase early, as a skipped break does.
func (e *Engine) Advance() {
	if e.state.Phase == engine.Idle {
		return
	}
	e.enter(engine.Advance(e.state, e.program.Exercises, e.timing.Set1Reps, e.timing.Set2Reps))
}

func (e *Engine) SkipSet() {
	if e.inWorkout() {
		e.enter(engine.SkipSet(e.state, e.program.Exercises))
	}
}

func (e *Engine) SkipNextSet() {
	if e.inWorkout() {
		e.enter(engine.SkipNextSet(e.state, e.program.Exercises))
	}
}

func (e *Engine) SkipNextHold() {
	if e.inWorkout() {
		e.enter(engine.SkipNextHold(e.state, e.program.Exercises))
	}
}

// Dismiss leaves the done screen without waiting for it to time out.
func (e *Engine) Dismiss() {
	if e.state.Phase == engine.Done {
		e.enter(engine.State{Phase: engine.Idle})
	}
}

func (e *Engine) Pause() {
	if !e.inWorkout() || e.state.Paused {
		return
	}
	e.state.Paused = true
	e.timer.Pause()
	e.notify()
}

func (e *Engine) Resume() {
	if !e.inWorkout() || !e.state.Paused {
		return
	}
	e.state.Paused = false
	e.timer.Resume()
	e.notify()
}

func (e *Engine) TogglePause() {
	if e.state.Paused {
		e.Resume()
	} else {
		e.Pause()
	}
}

// Bail ends the session at its current position. The second result is
// false when nothing new was recorded: the engine was idle, or the
// session had already finished and been recorded.
func (e *Engine) Bail() (history.Record, bool) {
	switch e.state.Phase {
	case engine.Idle:
		return history.Record{}, false
	case engine.Done:
		var rec history.Record
		if e.last != nil {
			rec = *e.last
		}
		e.enter(engine.State{Phase: engine.Idle})
		return rec, false
	}

	rec := e.record(true)
	e.last = &rec
	e.save(rec)
	e.logger.Info("session bailed",
		"program", e.program.ID,
		"hold", e.state.HoldIndex,
		"set", e.state.SetNumber,
		"id", rec.ID)
	e.enter(engine.State{Phase: engine.Idle})
	return rec, true
}

// Poll drives the phase countdown. Call it every countdown.PollInterval.
func (e *Engine) Poll() {
	e.timer.Poll()
}

func (e *Engine) inWorkout() bool {
	switch e.state.Phase {
	case engine.Prep, engine.Hanging, engine.Resting, engine.Break:
		return true
	}
	return false
}

// enter commits next and starts its countdown.
func (e *Engine) enter(next engine.State) {
	holds := e.program.Exercises
	if next.Phase == engine.Prep {
		if ex, ok := e.exerciseAt(next.HoldIndex); ok && ex.RestOnly {
			next = engine.Advance(next, holds, e.timing.Set1Reps, e.timing.Set2Reps)
		}
	}

	e.timer.Stop()
	e.lastCue = 0
	e.state = next

	switch next.Phase {
	case engine.Idle:
		e.state = engine.State{Phase: engine.Idle}
	case engine.Done:
		e.state.Paused = false
		e.complete()
		e.timer.Start(DoneLinger, nil, e.Dismiss)
	case engine.Hanging:
		e.notifier.HangStart()
		e.startPhase()
	default:
		e.startPhase()
	}
	e.notify()
}

func (e *Engine) startPhase() {
	e.timer.Start(e.phaseDuration(e.state), e.tick, e.expire)
	e.timer.SetRunning(!e.state.Paused)
}

func (e *Engine) phaseDuration(s engine.State) time.Duration {
	ex, ok := e.exerciseAt(s.HoldIndex)
	if !ok {
		return 0
	}
	switch s.Phase {
	case engine.Prep:
		return ex.Prep(e.timing)
	case engine.Hanging:
		return ex.Hang(e.timing)
	case engine.Resting:
		return ex.Rest(e.timing)
	case engine.Break:
		return ex.Break(e.timing)
	}
	return 0
}

func (e *Engine) tick(remaining time.Duration) {
	if !e.cues || remaining <= 0 || remaining > CueWindow {
		return
	}
	if p := e.state.Phase; p != engine.Prep && p != engine.Hanging {
		return
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs == e.lastCue {
		return
	}
	e.lastCue = secs
	e.notifier.CountdownTick()
}

func (e *Engine) expire() {
	s := e.state
	holds := e.program.Exercises
	if s.Phase == engine.Hanging {
		e.notifier.HangEnd()
		if engine.IsLastRep(s, holds, e.timing.Set1Reps, e.timing.Set2Reps) && engine.IsLastSet(s, holds) {
			e.notifier.SetComplete()
		}
	}
	e.enter(engine.Advance(s, holds, e.timing.Set1Reps, e.timing.Set2Reps))
}

func (e *Engine) complete() {
	rec := e.record(false)
	e.last = &rec
	e.save(rec)
	e.logger.Info("session completed", "program", e.program.ID, "id", rec.ID,
		"duration", rec.CompletedAt.Sub(rec.StartedAt).Round(time.Second))
}

func (e *Engine) record(bailed bool) history.Record {
	notes := make(map[string]string, len(e.holdNotes))
	for id, n := range e.holdNotes {
		notes[id] = n
	}
	return history.Build(history.BuildParams{
		WorkoutType: e.program.ID,
		StartedAt:   e.startedAt,
		CompletedAt: e.clock.Now(),
		Bailed:      bailed,
		HoldIndex:   e.state.HoldIndex,
		SetNumber:   e.state.SetNumber,
		Exercises:   e.program.Exercises,
		Weight:      e.weights.Effective,
		Set1Reps:    e.timing.Set1Reps,
		Set2Reps:    e.timing.Set2Reps,
		Notes:       e.notes,
		HoldNotes:   notes,
		NewID:       e.newID,
	})
}

func (e *Engine) save(rec history.Record) {
	if e.persister != nil {
		e.persister.SaveSession(rec)
	}
}

// SetNotes sets the session notes. On the done screen the finished
// record is updated and saved again.
func (e *Engine) SetNotes(notes string) {
	e.notes = notes
	if e.state.Phase == engine.Done && e.last != nil {
		e.last.Notes = notes
		e.save(*e.last)
	}
}

// SetHoldNote sets the note of one exercise, with the same done-screen
// behaviour as SetNotes. Ids outside the selected program are ignored.
func (e *Engine) SetHoldNote(exerciseID, note string) {
	if _, ok := e.program.Find(exerciseID); !ok {
		return
	}
	if note == "" {
		delete(e.holdNotes, exerciseID)
	} else {
		e.holdNotes[exerciseID] = note
	}
	if e.state.Phase == engine.Done && e.last != nil {
		holds := append([]history.HoldRecord(nil), e.last.Holds...)
		for i := range holds {
			if holds[i].HoldID == exerciseID {
				holds[i].Notes = note
			}
		}
		e.last.Holds = holds
		e.save(*e.last)
	}
}
