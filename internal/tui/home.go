package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
)

type homeModel struct {
	engine *session.Engine
	store  *store.Store
	width  int
	height int

	cursor     int
	resetArmed bool
}

func newHomeModel(e *session.Engine, s *store.Store) homeModel {
	return homeModel{engine: e, store: s}
}

func (h *homeModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

// startedMsg tells the app to switch to the workout view.
type startedMsg struct{}

func (h homeModel) exercises() []catalog.Exercise {
	p, ok := h.engine.Program()
	if !ok {
		return nil
	}
	return p.Exercises
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	armed := h.resetArmed
	h.resetArmed = false

	switch {
	case key.Matches(km, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(km, keys.Down):
		if h.cursor < len(h.exercises())-1 {
			h.cursor++
		}
	case key.Matches(km, keys.Left):
		return h.cycleProgram(-1)
	case key.Matches(km, keys.Right):
		return h.cycleProgram(1)
	case key.Matches(km, keys.Inc):
		return h.adjust(func(id string) { h.engine.AdjustBase(id, weightStep) })
	case key.Matches(km, keys.Dec):
		return h.adjust(func(id string) { h.engine.AdjustBase(id, -weightStep) })
	case key.Matches(km, keys.Set2Inc):
		return h.adjust(func(id string) { h.engine.AdjustNextWeight(id, 2, weightStep) })
	case key.Matches(km, keys.Set2Dec):
		return h.adjust(func(id string) { h.engine.AdjustNextWeight(id, 2, -weightStep) })
	case key.Matches(km, keys.Reset):
		if !armed {
			h.resetArmed = true
			return h, func() tea.Msg { return statusMsg{text: "Press R again to reset weights"} }
		}
		h.engine.ResetWeights()
		return h, func() tea.Msg { return statusMsg{text: "Weights reset to defaults"} }
	case key.Matches(km, keys.Start), key.Matches(km, keys.Enter):
		if err := h.engine.Start(); err != nil {
			return h, func() tea.Msg { return errStatus("Start failed: %v", err) }
		}
		return h, func() tea.Msg { return startedMsg{} }
	}
	return h, nil
}

func (h homeModel) adjust(fn func(id string)) (homeModel, tea.Cmd) {
	exs := h.exercises()
	if h.cursor >= len(exs) {
		return h, nil
	}
	ex := exs[h.cursor]
	if ex.RestOnly {
		return h, nil
	}
	fn(ex.ID)
	return h, nil
}

// cycleProgram selects the next visible program and remembers it.
func (h homeModel) cycleProgram(dir int) (homeModel, tea.Cmd) {
	if h.engine.Active() {
		return h, nil
	}
	programs := h.engine.Registry().List(false)
	if len(programs) == 0 {
		return h, nil
	}
	cur, _ := h.engine.Program()
	idx := 0
	for i, p := range programs {
		if p.ID == cur.ID {
			idx = i
		}
	}
	idx = (idx + dir + len(programs)) % len(programs)
	next := programs[idx]
	if err := h.engine.Select(next.ID); err != nil {
		return h, func() tea.Msg { return errStatus("Select failed: %v", err) }
	}
	h.cursor = 0
	if err := h.store.SetSetting(store.SettingProgram, next.ID); err != nil {
		return h, func() tea.Msg { return errStatus("Save setting: %v", err) }
	}
	return h, nil
}

func (h homeModel) view() string {
	w := h.width - 4

	p, ok := h.engine.Program()
	if !ok {
		return panelStyle.Width(w).Render(mutedStyle.Render("No program selected"))
	}

	var tabs []string
	for _, prog := range h.engine.Registry().List(false) {
		if prog.ID == p.ID {
			tabs = append(tabs, activeTabStyle.Render(prog.Name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(prog.Name))
		}
	}
	if p.Hidden {
		tabs = append(tabs, activeTabStyle.Render(p.Name))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Program"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))

	timing := h.engine.Timing()
	info := mutedStyle.Render(fmt.Sprintf("  timing: %s  reps: %d/%d", timing.Name, timing.Set1Reps, timing.Set2Reps))

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-26s %5s %8s %8s", "Exercise", "Sets", "Set 1", "Set 2")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 52)))))
	for i, ex := range p.Exercises {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		set1, set2 := "", ""
		if ex.RestOnly {
			set1 = "rest"
		} else {
			base := h.engine.BaseWeight(ex.ID)
			set1 = history.FormatWeight(base.Set1)
			if ex.Sets() >= 2 {
				set2 = history.FormatWeight(base.Set2)
			}
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s %5d %8s %8s", cursor, ex.Name, ex.Sets(), set1, set2)))
	}

	hint := "  s: start  ←/→: program  +/-: weight  ]/[: set 2  R: reset"
	if h.resetArmed {
		hint = "  R: confirm reset  any other key: cancel"
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, info, "", strings.Join(rows, "\n"), "", mutedStyle.Render(hint),
	))
}
