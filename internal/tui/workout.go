package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
)

var phaseLabels = map[engine.Phase]string{
	engine.Idle:    "READY",
	engine.Prep:    "GET READY",
	engine.Hanging: "HANG",
	engine.Resting: "REST",
	engine.Break:   "BREAK",
	engine.Done:    "DONE",
}

type noteTarget int

const (
	noteSession noteTarget = iota
	noteHold
)

type workoutModel struct {
	engine *session.Engine
	store  *store.Store
	clock  clock.Clock
	width  int
	height int

	bailArmedAt time.Time

	formActive bool
	form       *huh.Form
	formTarget noteTarget
	formHoldID string
	// Form field pointer (survives value copies)
	formNotes *string
}

func newWorkoutModel(e *session.Engine, s *store.Store, c clock.Clock) workoutModel {
	notes := ""
	if c == nil {
		c = clock.System{}
	}
	return workoutModel{engine: e, store: s, clock: c, formNotes: &notes}
}

func (w *workoutModel) setSize(width, h int) {
	w.width = width
	w.height = h
}

func (w workoutModel) bailArmed() bool {
	return !w.bailArmedAt.IsZero() && w.clock.Now().Sub(w.bailArmedAt) < bailConfirmWindow
}

func (w workoutModel) update(msg tea.Msg) (workoutModel, tea.Cmd) {
	if w.formActive && w.form != nil {
		return w.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	st := w.engine.State()
	switch st.Phase {
	case engine.Idle:
		if key.Matches(km, keys.Start) || key.Matches(km, keys.Enter) {
			if err := w.engine.Start(); err != nil {
				return w, func() tea.Msg { return errStatus("Start failed: %v", err) }
			}
		}
		return w, nil
	case engine.Done:
		switch {
		case key.Matches(km, keys.Enter), key.Matches(km, keys.SkipBreak):
			w.engine.Dismiss()
		case key.Matches(km, keys.Notes):
			return w.showNotesForm(noteSession, "")
		}
		return w, nil
	}

	switch {
	case key.Matches(km, keys.Pause):
		w.engine.TogglePause()
	case key.Matches(km, keys.SkipBreak), key.Matches(km, keys.Enter):
		if st.Phase == engine.Break {
			w.engine.Advance()
		}
	case key.Matches(km, keys.SkipSet):
		w.engine.SkipSet()
	case key.Matches(km, keys.SkipNextSet):
		w.engine.SkipNextSet()
	case key.Matches(km, keys.SkipNextHold):
		w.engine.SkipNextHold()
	case key.Matches(km, keys.Inc):
		w.adjust(weightStep)
	case key.Matches(km, keys.Dec):
		w.adjust(-weightStep)
	case key.Matches(km, keys.Set2Inc):
		w.adjustUpcoming(weightStep)
	case key.Matches(km, keys.Set2Dec):
		w.adjustUpcoming(-weightStep)
	case key.Matches(km, keys.Bail):
		return w.bail()
	case key.Matches(km, keys.Notes):
		return w.showNotesForm(noteSession, "")
	case key.Matches(km, keys.HoldNote):
		if ex, ok := w.engine.Exercise(); ok {
			return w.showNotesForm(noteHold, ex.ID)
		}
	}
	return w, nil
}

// adjust changes the weight the current phase offers: the session
// override in prep, set 2 between sets, the finished exercise's baseline
// after its last set.
func (w workoutModel) adjust(delta float64) {
	st := w.engine.State()
	ex, ok := w.engine.Exercise()
	if !ok || ex.RestOnly {
		return
	}
	switch st.Phase {
	case engine.Prep:
		w.engine.SetSessionOverride(ex.ID, st.SetNumber, delta)
	case engine.Break:
		if w.engine.AdjustSet2(delta) {
			return
		}
		if p := w.engine.ProgressionTargets(); p.Finished != nil {
			w.engine.AdjustBase(p.Finished.ID, delta)
		}
	}
}

func (w workoutModel) adjustUpcoming(delta float64) {
	if w.engine.AdjustSet2(delta) {
		return
	}
	if p := w.engine.ProgressionTargets(); p.Upcoming != nil {
		w.engine.AdjustBase(p.Upcoming.ID, delta)
	}
}

func (w workoutModel) bail() (workoutModel, tea.Cmd) {
	if !w.bailArmed() {
		w.bailArmedAt = w.clock.Now()
		return w, func() tea.Msg { return statusMsg{text: "Press x again to end the session"} }
	}
	w.bailArmedAt = time.Time{}
	rec, ok := w.engine.Bail()
	if !ok {
		return w, nil
	}
	return w, func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Session ended after %s", history.FormatDuration(rec))}
	}
}

func (w workoutModel) showNotesForm(target noteTarget, holdID string) (workoutModel, tea.Cmd) {
	title := "Session notes"
	switch target {
	case noteSession:
		*w.formNotes = w.engine.Notes()
		if w.engine.State().Phase == engine.Done {
			if rec, ok := w.engine.LastRecord(); ok {
				*w.formNotes = rec.Notes
			}
		}
	case noteHold:
		*w.formNotes = w.engine.HoldNote(holdID)
		if ex, ok := w.engine.Exercise(); ok {
			title = ex.Name + " notes"
		}
	}

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title(title).Value(w.formNotes),
		),
	).WithShowHelp(true)
	w.formTarget = target
	w.formHoldID = holdID
	w.formActive = true
	return w, w.form.Init()
}

func (w workoutModel) updateForm(msg tea.Msg) (workoutModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			w.formActive = false
			w.form = nil
			return w, nil
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		w.formActive = false
		w.form = nil
		return w, w.saveNotes()
	}
	return w, cmd
}

// saveNotes applies the submitted form. When the session went idle while
// the form was open, the finished record is updated in the store directly.
func (w workoutModel) saveNotes() tea.Cmd {
	notes := strings.TrimSpace(*w.formNotes)
	saved := func() tea.Msg { return statusMsg{text: "Notes saved"} }
	if w.engine.State().Phase != engine.Idle {
		if w.formTarget == noteHold {
			w.engine.SetHoldNote(w.formHoldID, notes)
		} else {
			w.engine.SetNotes(notes)
		}
		return saved
	}

	rec, ok := w.engine.LastRecord()
	if !ok {
		return nil
	}
	if w.formTarget == noteHold {
		holds := append([]history.HoldRecord(nil), rec.Holds...)
		for i := range holds {
			if holds[i].HoldID == w.formHoldID {
				holds[i].Notes = notes
			}
		}
		rec.Holds = holds
	} else {
		rec.Notes = notes
	}
	return func() tea.Msg {
		if err := w.store.UpdateSession(rec); err != nil {
			return errStatus("Save notes: %v", err)
		}
		return saved()
	}
}

func (w workoutModel) view() string {
	width := w.width - 4
	title := titleStyle.Render("Workout")

	if w.formActive && w.form != nil {
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", w.form.View()),
		)
	}

	st := w.engine.State()
	var body string
	switch st.Phase {
	case engine.Idle:
		body = w.renderIdle(width)
	case engine.Done:
		body = w.renderDone(width)
	default:
		body = w.renderActive(width, st)
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", w.renderControls(st)),
	)
}

func (w workoutModel) renderIdle(width int) string {
	p, ok := w.engine.Program()
	if !ok {
		return mutedStyle.Render("No program selected")
	}
	lines := []string{
		timerStyle.Width(width - 6).Render(p.Name),
		mutedStyle.Render(fmt.Sprintf("%d exercises  timing: %s", len(p.Exercises), w.engine.Timing().Name)),
	}
	if rec, ok := w.engine.LastRecord(); ok {
		outcome := successStyle.Render("completed")
		if rec.Bailed {
			outcome = warningStyle.Render("bailed")
		}
		lines = append(lines, "", fmt.Sprintf("Last session: %s  %s", outcome, history.FormatDuration(rec)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (w workoutModel) renderDone(width int) string {
	rec, _ := w.engine.LastRecord()
	lines := []string{
		successStyle.Bold(true).Width(width - 6).Align(lipgloss.Center).Render("Done!"),
		successStyle.Bold(true).Render("SESSION COMPLETE"),
		mutedStyle.Render("Duration " + history.FormatDuration(rec)),
		"",
	}
	for _, h := range rec.Holds {
		lines = append(lines, fmt.Sprintf("%-24s %s", h.HoldName, renderHoldSets(h)))
	}
	if rec.Notes != "" {
		lines = append(lines, "", mutedStyle.Render("Notes: "+rec.Notes))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderHoldSets(h history.HoldRecord) string {
	sets := []string{renderSet(h.Set1)}
	if h.Set2 != nil {
		sets = append(sets, renderSet(*h.Set2))
	}
	return strings.Join(sets, "  ")
}

func renderSet(s history.SetRecord) string {
	text := fmt.Sprintf("%s x%d", history.FormatWeight(s.Weight), s.Reps)
	if s.Completed {
		return successStyle.Render("● " + text)
	}
	return mutedStyle.Render("○ " + text)
}

func (w workoutModel) renderActive(width int, st engine.State) string {
	ex, _ := w.engine.Exercise()
	p, _ := w.engine.Program()

	style := timerStyle
	phaseStyle := accentStyle.Bold(true)
	switch st.Phase {
	case engine.Prep:
		phaseStyle = warningStyle.Bold(true)
	case engine.Resting, engine.Break:
		phaseStyle = successStyle.Bold(true)
	}
	label := phaseLabels[st.Phase]
	if st.Paused {
		style = timerPausedStyle
		label += " (paused)"
	}

	lines := []string{
		highlightStyle.Render(fmt.Sprintf("%s  %d/%d", ex.Name, st.HoldIndex+1, len(p.Exercises))),
		mutedStyle.Render(fmt.Sprintf("Set %d/%d  ·  %s elapsed", st.SetNumber, ex.Sets(),
			formatClock(w.clock.Now().Sub(w.engine.StartedAt())))),
		"",
		style.Width(width - 6).Render(formatClock(w.engine.Remaining())),
		phaseStyle.Render(label),
		renderBar(w.engine.Remaining(), w.engine.PhaseDuration(), min(width-10, 40)),
		"",
	}

	if ex.RestOnly {
		lines = append(lines, mutedStyle.Render("Rest only"))
	} else {
		weight := history.FormatWeight(w.engine.EffectiveWeight(ex.ID, st.SetNumber))
		reps := w.engine.Reps()
		rep := st.RepIndex + 1
		if st.Phase == engine.Prep || st.Phase == engine.Break {
			rep = 0
		}
		lines = append(lines, fmt.Sprintf("Weight %s  Rep %d/%d", titleStyle.Render(weight), rep, reps))
	}

	if st.Phase == engine.Break {
		lines = append(lines, w.renderBreakPrompts()...)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (w workoutModel) renderBreakPrompts() []string {
	var lines []string
	if ex, ok := w.engine.Set2Adjustable(); ok {
		lines = append(lines, "", fmt.Sprintf("Set 2 weight %s  (+/-)",
			highlightStyle.Render(history.FormatWeight(w.engine.EffectiveWeight(ex.ID, 2)))))
	}
	prog := w.engine.ProgressionTargets()
	if prog.Finished != nil {
		base := w.engine.BaseWeight(prog.Finished.ID)
		lines = append(lines, "", fmt.Sprintf("Next time %s: %s / %s  (+/-)", prog.Finished.Name,
			highlightStyle.Render(history.FormatWeight(base.Set1)),
			highlightStyle.Render(history.FormatWeight(base.Set2))))
	}
	if prog.Upcoming != nil {
		base := w.engine.BaseWeight(prog.Upcoming.ID)
		lines = append(lines, fmt.Sprintf("Up next %s: %s / %s  (]/[)", prog.Upcoming.Name,
			highlightStyle.Render(history.FormatWeight(base.Set1)),
			highlightStyle.Render(history.FormatWeight(base.Set2))))
	} else if next, ok := w.engine.NextExercise(); ok {
		lines = append(lines, mutedStyle.Render("Up next "+next.Name))
	}
	return lines
}

func (w workoutModel) renderControls(st engine.State) string {
	switch st.Phase {
	case engine.Idle:
		return mutedStyle.Render("s: start  q: quit")
	case engine.Done:
		return mutedStyle.Render("enter: continue  o: notes")
	}
	if w.bailArmed() {
		return errorStyle.Render("x: confirm end session")
	}
	controls := "space: pause  s/S/H: skip set/next set/next hold  x: end  o: notes"
	if st.Phase == engine.Break {
		controls = "n: skip break  " + controls
	}
	return mutedStyle.Render(controls)
}

// renderBar draws the remaining share of a phase.
func renderBar(remaining, total time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = int(float64(width) * float64(remaining) / float64(total))
	}
	filled = max(0, min(width, filled))
	return accentStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
