package session

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/countdown"
	"github.com/sadopc/hangboard/internal/cue"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/weights"
)

type fakePersister struct {
	sessions []history.Record
	weights  map[string]weights.Pair
	resets   []string
}

func (f *fakePersister) SaveSession(r history.Record) { f.sessions = append(f.sessions, r) }

func (f *fakePersister) SaveWeight(program, id string, p weights.Pair) {
	if f.weights == nil {
		f.weights = make(map[string]weights.Pair)
	}
	f.weights[program+"/"+id] = p
}

func (f *fakePersister) ResetWeights(program string) { f.resets = append(f.resets, program) }

type fakeLoader struct {
	stored map[string]weights.Stored
	err    error
	asked  []string
}

func (f *fakeLoader) LoadWeights(program string) (weights.Stored, error) {
	f.asked = append(f.asked, program)
	if f.err != nil {
		return nil, f.err
	}
	return f.stored[program], nil
}

// quick builds an exercise whose every phase lasts one second.
func quick(id string, sets, reps int) catalog.Exercise {
	return catalog.Exercise{
		ID: id, Name: strings.ToUpper(id), NumSets: sets, RepsPerSet: reps,
		PrepSecs: 1, HangSecs: 1, RestSecs: 1, BreakSecs: 1,
	}
}

func program(exercises ...catalog.Exercise) catalog.Program {
	return catalog.Program{ID: "p", Name: "Test", Exercises: exercises}
}

type harness struct {
	e     *Engine
	clock *clock.Fake
	store *fakePersister
	cues  *cue.Recorder
}

func newHarness(t *testing.T, p catalog.Program) *harness {
	t.Helper()
	reg, err := catalog.NewRegistry(p)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	h := &harness{
		clock: clock.NewFake(time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)),
		store: &fakePersister{},
		cues:  &cue.Recorder{},
	}
	n := 0
	h.e = New(reg, Options{
		Clock:     h.clock,
		Notifier:  h.cues,
		Persister: h.store,
		NewID:     func() string { n++; return fmt.Sprintf("rec-%d", n) },
	})
	if err := h.e.Select(p.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func (h *harness) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += countdown.PollInterval {
		h.clock.Advance(countdown.PollInterval)
		h.e.Poll()
	}
}

func (h *harness) phase() engine.Phase { return h.e.State().Phase }

func TestFullSessionRunsToDoneThenIdle(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1), quick("b", 1, 1)))
	h.start(t)

	// prep, hang, break, prep, hang: one second each.
	h.run(5 * time.Second)
	if h.phase() != engine.Done {
		t.Fatalf("phase = %v, want done", h.phase())
	}
	if len(h.store.sessions) != 1 {
		t.Fatalf("saved %d records, want 1", len(h.store.sessions))
	}
	rec := h.store.sessions[0]
	if rec.Bailed || rec.WorkoutType != "p" || rec.ID != "rec-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CompletedAt.Sub(rec.StartedAt) != 5*time.Second {
		t.Fatalf("duration = %v", rec.CompletedAt.Sub(rec.StartedAt))
	}
	for _, hr := range rec.Holds {
		if !hr.Set1.Completed || hr.Set2 != nil {
			t.Fatalf("hold %s: %+v", hr.HoldID, hr)
		}
	}

	if got := h.cues.Count("hang_start"); got != 2 {
		t.Fatalf("hang_start = %d, want 2", got)
	}
	if got := h.cues.Count("hang_end"); got != 2 {
		t.Fatalf("hang_end = %d, want 2", got)
	}
	if got := h.cues.Count("set_complete"); got != 2 {
		t.Fatalf("set_complete = %d, want 2", got)
	}
	// One tick per second inside the cue window of each prep and hang.
	if got := h.cues.Count("countdown_tick"); got != 4 {
		t.Fatalf("countdown_tick = %d, want 4", got)
	}

	h.run(DoneLinger)
	if h.phase() != engine.Idle {
		t.Fatalf("phase = %v, want idle after linger", h.phase())
	}
	if len(h.store.sessions) != 1 {
		t.Fatal("done must be recorded once")
	}
}

func TestRepsWithinSet(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 2)))
	h.start(t)
	var phases []engine.Phase
	h.e.OnStateChanged(func(s engine.State) { phases = append(phases, s.Phase) })

	h.run(4 * time.Second)
	want := []engine.Phase{engine.Hanging, engine.Resting, engine.Hanging, engine.Done}
	if fmt.Sprint(phases) != fmt.Sprint(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	if got := h.cues.Count("set_complete"); got != 1 {
		t.Fatalf("set_complete = %d, want 1 on the last rep only", got)
	}
}

func TestListenerMayRemoveItselfWhileNotified(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	calls := make([]int, 3)
	var off func()
	off = h.e.OnStateChanged(func(engine.State) {
		calls[0]++
		off()
	})
	h.e.OnStateChanged(func(engine.State) { calls[1]++ })
	h.e.OnStateChanged(func(engine.State) { calls[2]++ })

	h.start(t)
	if fmt.Sprint(calls) != "[1 1 1]" {
		t.Fatalf("calls after first change = %v, want [1 1 1]", calls)
	}
	h.run(time.Second)
	if calls[0] != 1 {
		t.Fatalf("removed listener ran %d times, want 1", calls[0])
	}
	if calls[1] != calls[2] || calls[1] < 2 {
		t.Fatalf("remaining listeners out of step: %v", calls)
	}
}

func TestRemoveListenerTwiceIsHarmless(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	var n int
	off := h.e.OnStateChanged(func(engine.State) { n++ })
	h.e.OnStateChanged(func(engine.State) {})
	off()
	off()
	h.start(t)
	if n != 0 {
		t.Fatalf("removed listener ran %d times", n)
	}
}

func TestCountdownTicksInLongHang(t *testing.T) {
	ex := quick("a", 1, 1)
	ex.PrepSecs, ex.HangSecs = 10, 7
	h := newHarness(t, program(ex))
	h.start(t)
	h.run(10 * time.Second)
	if got := h.cues.Count("countdown_tick"); got != 3 {
		t.Fatalf("ticks during prep = %d, want 3", got)
	}
	h.run(7 * time.Second)
	if got := h.cues.Count("countdown_tick"); got != 6 {
		t.Fatalf("ticks after hang = %d, want 6", got)
	}
}

func TestCountdownCuesDisabled(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	h.e.SetCountdownCues(false)
	h.start(t)
	h.run(3 * time.Second)
	if got := h.cues.Count("countdown_tick"); got != 0 {
		t.Fatalf("countdown_tick = %d, want 0", got)
	}
	if h.cues.Count("hang_start") != 1 {
		t.Fatal("other cues still fire")
	}
}

func TestPauseFreezesCountdown(t *testing.T) {
	h := newHarness(t, program(quick("a", 2, 2)))
	h.start(t)
	h.run(500 * time.Millisecond)

	h.e.Pause()
	if !h.e.State().Paused {
		t.Fatal("state should be paused")
	}
	if got := h.e.Remaining(); got != 500*time.Millisecond {
		t.Fatalf("remaining = %v, want 500ms", got)
	}
	h.run(10 * time.Second)
	if h.phase() != engine.Prep || h.e.Remaining() != 500*time.Millisecond {
		t.Fatalf("paused prep moved: %v %v", h.phase(), h.e.Remaining())
	}

	h.e.TogglePause()
	h.run(500 * time.Millisecond)
	if h.phase() != engine.Hanging {
		t.Fatalf("phase = %v, want hanging after resume", h.phase())
	}
	if h.e.PhaseDuration() != time.Second {
		t.Fatalf("hang duration = %v", h.e.PhaseDuration())
	}
}

func TestSkipWhilePausedStaysPaused(t *testing.T) {
	h := newHarness(t, program(quick("a", 2, 1)))
	h.start(t)
	h.e.Pause()
	h.e.SkipSet()
	s := h.e.State()
	if s.Phase != engine.Break || !s.Paused {
		t.Fatalf("state = %+v, want paused break", s)
	}
	h.run(5 * time.Second)
	if h.phase() != engine.Break || h.e.Remaining() != time.Second {
		t.Fatalf("paused break moved: %v %v", h.phase(), h.e.Remaining())
	}
	h.e.Resume()
	h.run(time.Second)
	s = h.e.State()
	if s.Phase != engine.Prep || s.SetNumber != 2 || s.RepIndex != 0 {
		t.Fatalf("state = %+v, want prep of set 2", s)
	}
}

func TestPauseIgnoredOutsideWorkout(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	h.e.Pause()
	if h.e.State().Paused {
		t.Fatal("idle engine cannot pause")
	}
}

func TestRestOnlyNeverEntersHang(t *testing.T) {
	pull := catalog.Exercise{ID: "pull", Name: "Pull-ups", NumSets: 1, RestOnly: true, BreakSecs: 1}
	h := newHarness(t, program(pull, quick("b", 1, 1)))
	var phases []engine.Phase
	h.e.OnStateChanged(func(s engine.State) { phases = append(phases, s.Phase) })
	h.start(t)

	if h.phase() != engine.Break {
		t.Fatalf("phase = %v, want break", h.phase())
	}
	if phases[0] != engine.Break {
		t.Fatalf("first committed phase = %v, want break", phases[0])
	}
	h.run(time.Second)
	s := h.e.State()
	if s.Phase != engine.Prep || s.HoldIndex != 1 {
		t.Fatalf("state = %+v, want prep of hold 1", s)
	}
	if h.cues.Count("hang_start") != 0 {
		t.Fatal("rest-only exercise fired hang_start")
	}
}

func TestSkipNextHoldJumpsToBreak(t *testing.T) {
	h := newHarness(t, program(quick("a", 2, 1), quick("b", 2, 1), quick("c", 2, 1), quick("d", 2, 1)))
	h.start(t)
	h.e.SkipNextHold()
	s := h.e.State()
	if s.Phase != engine.Break || s.HoldIndex != 1 || s.SetNumber != 2 {
		t.Fatalf("state = %+v", s)
	}
	h.e.Advance()
	s = h.e.State()
	if s.Phase != engine.Prep || s.HoldIndex != 2 || s.SetNumber != 1 {
		t.Fatalf("state = %+v, want prep of hold 2", s)
	}
	h.e.SkipNextHold()
	if h.phase() != engine.Done {
		t.Fatalf("skip to the final exercise should finish, got %v", h.phase())
	}
}

func threeTwoSet() catalog.Program {
	return program(quick("h0", 2, 1), quick("h1", 2, 1), quick("h2", 2, 1))
}

func TestBailRecordsPosition(t *testing.T) {
	h := newHarness(t, threeTwoSet())
	h.start(t)
	h.e.SkipNextSet()
	h.e.Advance()
	if s := h.e.State(); s.HoldIndex != 1 || s.SetNumber != 1 {
		t.Fatalf("setup position = %+v", s)
	}

	rec, ok := h.e.Bail()
	if !ok || !rec.Bailed {
		t.Fatalf("Bail = %+v, %v", rec, ok)
	}
	if h.phase() != engine.Idle {
		t.Fatalf("phase = %v, want idle", h.phase())
	}
	if len(h.store.sessions) != 1 || h.store.sessions[0].ID != rec.ID {
		t.Fatal("bailed record not saved")
	}
	want := [][2]bool{{true, true}, {false, false}, {false, false}}
	for i, hr := range rec.Holds {
		if hr.Set1.Completed != want[i][0] || hr.Set2.Completed != want[i][1] {
			t.Fatalf("hold %d = (%v, %v), want %v", i, hr.Set1.Completed, hr.Set2.Completed, want[i])
		}
	}
	if last, ok := h.e.LastRecord(); !ok || last.ID != rec.ID {
		t.Fatal("LastRecord should return the bailed record")
	}
}

func TestBailIdleRecordsNothing(t *testing.T) {
	h := newHarness(t, threeTwoSet())
	if _, ok := h.e.Bail(); ok {
		t.Fatal("bail while idle should record nothing")
	}
	if len(h.store.sessions) != 0 {
		t.Fatal("nothing should be saved")
	}
}

func TestBailDuringDoneDoesNotRecordTwice(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	h.start(t)
	h.run(2 * time.Second)
	if h.phase() != engine.Done {
		t.Fatalf("phase = %v", h.phase())
	}
	rec, ok := h.e.Bail()
	if ok || rec.Bailed {
		t.Fatalf("Bail on done = %+v, %v", rec, ok)
	}
	if len(h.store.sessions) != 1 {
		t.Fatalf("saved %d records, want 1", len(h.store.sessions))
	}
	if h.phase() != engine.Idle {
		t.Fatal("bail always returns to idle")
	}
}

func TestStartErrors(t *testing.T) {
	reg, _ := catalog.NewRegistry(threeTwoSet())
	e := New(reg, Options{Clock: clock.NewFake(time.Now())})
	if err := e.Start(); !errors.Is(err, ErrNoProgram) {
		t.Fatalf("err = %v, want ErrNoProgram", err)
	}
	if err := e.Select("zz"); !errors.Is(err, catalog.ErrUnknownProgram) {
		t.Fatalf("err = %v, want ErrUnknownProgram", err)
	}
	e.Select("p")
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("err = %v, want ErrSessionActive", err)
	}
	if err := e.Select("p"); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("err = %v, want ErrSessionActive", err)
	}
}

func TestStartClearsOverrides(t *testing.T) {
	h := newHarness(t, threeTwoSet())
	h.start(t)
	h.e.SetSessionOverride("h0", 1, 10)
	if got := h.e.EffectiveWeight("h0", 1); got != 10 {
		t.Fatalf("override = %v", got)
	}
	h.e.Bail()
	if h.store.sessions[0].Holds[0].Set1.Weight != 10 {
		t.Fatal("record should capture the override")
	}
	h.start(t)
	if got := h.e.EffectiveWeight("h0", 1); got != 0 {
		t.Fatalf("override survived a new session: %v", got)
	}
	if len(h.store.weights) != 0 {
		t.Fatal("session override must not be persisted")
	}
}

func edgeProgram() catalog.Program {
	edge := quick("edge", 2, 1)
	edge.DefaultSet1Weight, edge.DefaultSet2Weight = 5, 15
	return program(edge, quick("next", 2, 1))
}

func TestAdjustSet2BetweenSets(t *testing.T) {
	h := newHarness(t, edgeProgram())
	h.start(t)
	if h.e.AdjustSet2(2.5) {
		t.Fatal("set 2 adjust is only offered in the break after set 1")
	}
	h.e.SkipSet()
	if _, ok := h.e.Set2Adjustable(); !ok {
		t.Fatal("expected set 2 to be adjustable")
	}
	h.e.AdjustSet2(2.5)
	if got := h.e.EffectiveWeight("edge", 2); got != 17.5 {
		t.Fatalf("effective set2 = %v, want 17.5", got)
	}
	if got := h.store.weights["p/edge"]; got != (weights.Pair{Set1: 5, Set2: 17.5}) {
		t.Fatalf("persisted = %+v", got)
	}
	h.e.AdjustSet2(2.5)
	if h.e.EffectiveWeight("edge", 2) != 20 || h.e.BaseWeight("edge").Set2 != 20 {
		t.Fatalf("second adjust: effective %v base %v", h.e.EffectiveWeight("edge", 2), h.e.BaseWeight("edge"))
	}

	h.e.Advance() // prep of set 2
	if _, ok := h.e.Set2Adjustable(); ok {
		t.Fatal("set 2 adjust closes once set 2 starts")
	}
}

func TestProgressionTargets(t *testing.T) {
	pull := catalog.Exercise{ID: "pull", Name: "Pull-ups", NumSets: 1, RestOnly: true, BreakSecs: 1}
	jug := quick("jug", 1, 1)
	jug.SkipProgression = true
	h := newHarness(t, program(quick("a", 1, 1), pull, jug, quick("c", 1, 1)))
	h.start(t)

	if p := h.e.ProgressionTargets(); p.Finished != nil || p.Upcoming != nil {
		t.Fatal("no prompts during prep")
	}
	h.e.SkipSet()
	p := h.e.ProgressionTargets()
	if p.Finished == nil || p.Finished.ID != "a" {
		t.Fatalf("finished = %v, want a", p.Finished)
	}
	if p.Upcoming != nil {
		t.Fatal("rest-only upcoming exercise has no prompt")
	}

	h.e.Advance() // rest-only pull-ups go straight to break
	p = h.e.ProgressionTargets()
	if p.Finished != nil || p.Upcoming == nil || p.Upcoming.ID != "jug" {
		t.Fatalf("targets after pull-ups = %+v", p)
	}

	h.e.Advance()
	h.e.SkipSet()
	p = h.e.ProgressionTargets()
	if p.Finished != nil {
		t.Fatal("skip-progression exercise has no prompt")
	}
	if p.Upcoming == nil || p.Upcoming.ID != "c" {
		t.Fatalf("upcoming = %v, want c", p.Upcoming)
	}
	got := h.e.AdjustBase(p.Upcoming.ID, -5)
	if got != (weights.Pair{Set1: -5, Set2: -5}) {
		t.Fatalf("AdjustBase = %+v", got)
	}
	if h.store.weights["p/c"] != got {
		t.Fatal("base adjustment not persisted")
	}
}

func TestAdjustNextWeightPersists(t *testing.T) {
	h := newHarness(t, edgeProgram())
	for i := 0; i < 3; i++ {
		h.e.AdjustNextWeight("edge", 1, 2.5)
	}
	if got := h.store.weights["p/edge"]; got.Set1 != 12.5 || got.Set2 != 15 {
		t.Fatalf("persisted = %+v", got)
	}
}

func TestResetWeights(t *testing.T) {
	h := newHarness(t, edgeProgram())
	h.e.AdjustBase("edge", 10)
	h.e.ResetWeights()
	if got := h.e.BaseWeight("edge"); got != (weights.Pair{Set1: 5, Set2: 15}) {
		t.Fatalf("base after reset = %+v", got)
	}
	if len(h.store.resets) != 1 || h.store.resets[0] != "p" {
		t.Fatalf("resets = %v", h.store.resets)
	}
}

func TestSelectLoadsSharedWeights(t *testing.T) {
	loader := &fakeLoader{stored: map[string]weights.Stored{
		catalog.ProgramRepeaters: {"large-edge": {Set1: 20, Set2: 30}},
	}}
	e := New(catalog.Default(), Options{Clock: clock.NewFake(time.Now()), Loader: loader})
	if err := e.Select(catalog.ProgramTest); err != nil {
		t.Fatal(err)
	}
	if len(loader.asked) != 1 || loader.asked[0] != catalog.ProgramRepeaters {
		t.Fatalf("asked for %v, want the repeaters key", loader.asked)
	}
	if got := e.EffectiveWeight("large-edge", 2); got != 30 {
		t.Fatalf("set2 = %v, want 30", got)
	}
	if got := e.EffectiveWeight("sloper", 1); got != -17.5 {
		t.Fatalf("missing entry should use default, got %v", got)
	}
}

func TestSelectLoadFailureFallsBackToDefaults(t *testing.T) {
	var logs bytes.Buffer
	loader := &fakeLoader{err: errors.New("disk on fire")}
	e := New(catalog.Default(), Options{
		Clock:  clock.NewFake(time.Now()),
		Loader: loader,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	if err := e.Select(catalog.ProgramRepeaters); err != nil {
		t.Fatalf("load failure must not fail select: %v", err)
	}
	if got := e.EffectiveWeight("large-edge", 1); got != 5 {
		t.Fatalf("set1 = %v, want default 5", got)
	}
	if !strings.Contains(logs.String(), "load weights failed") {
		t.Fatalf("failure not logged: %q", logs.String())
	}
}

func TestStateListeners(t *testing.T) {
	h := newHarness(t, threeTwoSet())
	calls := 0
	remove := h.e.OnStateChanged(func(engine.State) { calls++ })
	h.start(t)
	h.e.Pause()
	h.e.Resume()
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	remove()
	h.e.SkipSet()
	if calls != 3 {
		t.Fatal("removed listener still called")
	}
}

func TestNotesOnDoneUpdateRecord(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	h.start(t)
	h.e.SetHoldNote("a", "crispy")
	h.run(2 * time.Second)
	if h.store.sessions[0].Holds[0].Notes != "crispy" {
		t.Fatal("hold note not recorded")
	}

	h.e.SetNotes("good day")
	h.e.SetHoldNote("a", "")
	if len(h.store.sessions) != 3 {
		t.Fatalf("saved %d times, want 3", len(h.store.sessions))
	}
	final := h.store.sessions[2]
	if final.ID != h.store.sessions[0].ID || final.Notes != "good day" || final.Holds[0].Notes != "" {
		t.Fatalf("final record = %+v", final)
	}
	if h.store.sessions[0].Holds[0].Notes != "crispy" {
		t.Fatal("earlier saved record was mutated")
	}
}

func TestHoldNoteIgnoresUnknownExercise(t *testing.T) {
	h := newHarness(t, program(quick("a", 1, 1)))
	h.start(t)
	h.e.SetHoldNote("nope", "lost")
	if got := h.e.HoldNote("nope"); got != "" {
		t.Fatalf("note for unknown exercise = %q, want none", got)
	}
}

func TestShortTimingOverridesDurations(t *testing.T) {
	reg := catalog.Default()
	e := New(reg, Options{Clock: clock.NewFake(time.Now()), Timing: catalog.Short})
	e.Select(catalog.ProgramRepeaters)
	e.Start()
	if got := e.PhaseDuration(); got != catalog.Short.Prep {
		t.Fatalf("prep = %v, want %v", got, catalog.Short.Prep)
	}
	if got := e.Reps(); got != 7 {
		t.Fatalf("reps = %d, want 7", got)
	}
	if ex, ok := e.Exercise(); !ok || ex.ID != "jug" {
		t.Fatalf("exercise = %+v", ex)
	}
	if next, ok := e.NextExercise(); !ok || next.ID != "large-edge" {
		t.Fatalf("next = %+v", next)
	}
}

type fakeBackend struct {
	mu       sync.Mutex
	sessions []history.Record
	weights  int
	resets   int
	err      error
}

func (b *fakeBackend) AddSession(r history.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sessions = append(b.sessions, r)
	return nil
}

func (b *fakeBackend) SaveWeight(string, string, weights.Pair) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.weights++
	return b.err
}

func (b *fakeBackend) ResetWeights(string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets++
	return b.err
}

func TestAsyncRecorderDrainsOnClose(t *testing.T) {
	b := &fakeBackend{}
	r := NewAsyncRecorder(b, nil)
	r.SaveSession(history.Record{ID: "1"})
	r.SaveSession(history.Record{ID: "2"})
	r.SaveWeight("a", "jug", weights.Pair{})
	r.ResetWeights("a")
	r.Close()
	r.Close()

	if len(b.sessions) != 2 || b.sessions[0].ID != "1" || b.weights != 1 || b.resets != 1 {
		t.Fatalf("backend = %+v", b)
	}
}

func TestAsyncRecorderLogsFailures(t *testing.T) {
	var logs syncBuffer
	b := &fakeBackend{err: errors.New("database is locked")}
	r := NewAsyncRecorder(b, slog.New(slog.NewTextHandler(&logs, nil)))
	r.SaveSession(history.Record{ID: "1"})
	r.Close()
	r.SaveSession(history.Record{ID: "2"})

	out := logs.String()
	if !strings.Contains(out, "persist failed") || !strings.Contains(out, "database is locked") {
		t.Fatalf("failure not logged: %q", out)
	}
	if !strings.Contains(out, "recorder closed") {
		t.Fatalf("dropped write not logged: %q", out)
	}
}

func TestEngineWithAsyncRecorder(t *testing.T) {
	b := &fakeBackend{}
	r := NewAsyncRecorder(b, nil)
	reg, _ := catalog.NewRegistry(program(quick("a", 1, 1)))
	c := clock.NewFake(time.Now())
	e := New(reg, Options{Clock: c, Persister: r})
	e.Select("p")
	e.Start()
	for i := 0; i < 20; i++ {
		c.Advance(countdown.PollInterval)
		e.Poll()
	}
	r.Close()
	if len(b.sessions) != 1 {
		t.Fatalf("backend got %d sessions, want 1", len(b.sessions))
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
