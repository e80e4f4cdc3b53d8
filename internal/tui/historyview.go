package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
)

type historyFormKind int

const (
	formKindNotes historyFormKind = iota
	formKindManual
)

type historyModel struct {
	store  *store.Store
	engine *session.Engine
	clock  clock.Clock
	width  int
	height int

	records     []history.Record
	cursor      int
	deleteArmed bool

	formActive bool
	formKind   historyFormKind
	form       *huh.Form
	editing    history.Record
	// Form field pointers (survive value copies)
	formNotes *string
	manual    *manualForm
}

func newHistoryModel(s *store.Store, e *session.Engine, c clock.Clock) historyModel {
	notes := ""
	return historyModel{store: s, engine: e, clock: c, formNotes: &notes}
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

type historyDataMsg struct {
	records []history.Record
	err     error
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := h.store.ListSessions()
		return historyDataMsg{records: records, err: err}
	}
}

func (h historyModel) selected() (history.Record, bool) {
	if h.cursor < 0 || h.cursor >= len(h.records) {
		return history.Record{}, false
	}
	return h.records[h.cursor], true
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, func() tea.Msg { return errStatus("Load history: %v", msg.err) }
		}
		h.records = msg.records
		if h.cursor >= len(h.records) {
			h.cursor = max(0, len(h.records)-1)
		}
		return h, nil

	case tea.KeyMsg:
		armed := h.deleteArmed
		h.deleteArmed = false
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.records)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Delete):
			rec, ok := h.selected()
			if !ok {
				return h, nil
			}
			if !armed {
				h.deleteArmed = true
				return h, func() tea.Msg { return statusMsg{text: "Press d again to delete this session"} }
			}
			return h, h.delete(rec.ID)
		case key.Matches(msg, keys.Notes):
			if rec, ok := h.selected(); ok {
				return h.showForm(rec)
			}
		case key.Matches(msg, keys.Enter):
			if rec, ok := h.selected(); ok {
				return h.showManualForm(&rec)
			}
		case key.Matches(msg, keys.Log):
			return h.showManualForm(nil)
		}
	}
	return h, nil
}

func (h historyModel) delete(id string) tea.Cmd {
	s := h.store
	return func() tea.Msg {
		if err := s.DeleteSession(id); err != nil {
			return errStatus("Delete failed: %v", err)
		}
		records, err := s.ListSessions()
		return historyDataMsg{records: records, err: err}
	}
}

func (h historyModel) showForm(rec history.Record) (historyModel, tea.Cmd) {
	*h.formNotes = rec.Notes
	h.editing = rec
	h.formKind = formKindNotes
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Notes").Value(h.formNotes),
		).Title(rec.StartedAt.Format("Mon Jan 02 15:04")),
	).WithShowHelp(true)
	h.formActive = true
	return h, h.form.Init()
}

// showManualForm opens the log workout form, prefilled from rec when
// editing.
func (h historyModel) showManualForm(rec *history.Record) (historyModel, tea.Cmd) {
	h.manual, h.form = newManualForm(h.engine.Registry(), rec, h.clock.Now())
	h.formKind = formKindManual
	h.formActive = true
	return h, h.form.Init()
}

// saveManual stores the manual form. An edit re-reads the stored record so
// fields the form does not cover are kept.
func (h historyModel) saveManual() tea.Cmd {
	f := h.manual
	s := h.store
	params, err := f.params(h.engine.Registry(), h.engine.Timing())
	if err != nil {
		return func() tea.Msg { return errStatus("Log workout: %v", err) }
	}
	return func() tea.Msg {
		if f.editing == nil {
			if err := s.AddSession(history.Manual(params)); err != nil {
				return errStatus("Log workout: %v", err)
			}
		} else {
			stored, err := s.GetSession(f.editing.ID)
			if err != nil {
				return errStatus("Edit workout: %v", err)
			}
			params.HoldNotes = holdNotes(stored)
			if err := s.UpdateSession(history.Amend(stored, params)); err != nil {
				return errStatus("Edit workout: %v", err)
			}
		}
		records, err := s.ListSessions()
		return historyDataMsg{records: records, err: err}
	}
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.form = nil
		if h.formKind == formKindManual {
			return h, h.saveManual()
		}
		rec := h.editing
		rec.Notes = strings.TrimSpace(*h.formNotes)
		s := h.store
		return h, func() tea.Msg {
			if err := s.UpdateSession(rec); err != nil {
				return errStatus("Save notes: %v", err)
			}
			records, err := s.ListSessions()
			return historyDataMsg{records: records, err: err}
		}
	}
	return h, cmd
}

func (h historyModel) view() string {
	w := h.width - 4
	title := titleStyle.Render("History")

	if h.formActive && h.form != nil {
		if h.formKind == formKindManual {
			title = titleStyle.Render("Log Past Workout")
			if h.manual.editing != nil {
				title = titleStyle.Render("Edit Workout")
			}
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View()),
		)
	}

	if len(h.records) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  No sessions yet"),
			"", mutedStyle.Render("  a: log past workout"),
		))
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-18s %-8s %10s %8s  %s", "Started", "Program", "Duration", "Sets", "")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 60)))))

	// Keep the cursor inside a window that fits the panel.
	visible := max(5, h.height-16)
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}
	end := min(len(h.records), start+visible)

	for i := start; i < end; i++ {
		rec := h.records[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		done, total := completedSets(rec)
		var tags []string
		if rec.Bailed {
			tags = append(tags, warningStyle.Render("bailed"))
		}
		if rec.Imported {
			tags = append(tags, mutedStyle.Render("imported"))
		}
		line := style.Render(fmt.Sprintf("%s%-18s %-8s %10s %8s", cursor,
			rec.StartedAt.Format("Mon Jan 02 15:04"),
			rec.WorkoutType,
			history.FormatDuration(rec),
			fmt.Sprintf("%d/%d", done, total),
		))
		rows = append(rows, line+"  "+strings.Join(tags, " "))
	}

	detail := ""
	if rec, ok := h.selected(); ok {
		detail = renderRecordDetail(rec)
	}

	hint := "  enter: edit  o: notes  a: log past workout  d: delete  e: export"
	if h.deleteArmed {
		hint = "  d: confirm delete  any other key: cancel"
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", strings.Join(rows, "\n"), "", detail, "", mutedStyle.Render(hint),
	))
}

func renderRecordDetail(rec history.Record) string {
	var lines []string
	for _, h := range rec.Holds {
		line := fmt.Sprintf("  %-24s %s", h.HoldName, renderHoldSets(h))
		if h.Notes != "" {
			line += mutedStyle.Render("  " + h.Notes)
		}
		lines = append(lines, line)
	}
	if rec.Notes != "" {
		lines = append(lines, "", subtitleStyle.Render("  Notes: "+rec.Notes))
	}
	return strings.Join(lines, "\n")
}

// completedSets counts completed and recorded sets of a session.
func completedSets(rec history.Record) (done, total int) {
	for _, h := range rec.Holds {
		total++
		if h.Set1.Completed {
			done++
		}
		if h.Set2 != nil {
			total++
			if h.Set2.Completed {
				done++
			}
		}
	}
	return done, total
}
