package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/countdown"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/export"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	engine *session.Engine
	store  *store.Store
	clock  clock.Clock
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	home     homeModel
	workout  workoutModel
	history  historyModel
	progress progressModel
	settings settingsModel

	help    help.Model
	status  string
	isError bool
}

// NewApp builds the UI over a configured engine. c drives the bail
// confirmation window and the progress calendar; nil means the system
// clock.
func NewApp(e *session.Engine, s *store.Store, c clock.Clock) App {
	if c == nil {
		c = clock.System{}
	}
	h := help.New()
	h.ShowAll = false

	return App{
		engine:     e,
		store:      s,
		clock:      c,
		activeView: viewHome,
		home:       newHomeModel(e, s),
		workout:    newWorkoutModel(e, s, c),
		history:    newHistoryModel(s, e, c),
		progress:   newProgressModel(s, e.Registry(), c),
		settings:   newSettingsModel(e, s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.history.refresh(),
		a.progress.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(countdown.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.workout.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.progress.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHome
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWorkout
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewProgress
			return a, a.progress.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Export) && a.activeView != viewWorkout:
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		}

	case tickMsg:
		a.engine.Poll()
		return a, tickCmd()

	case startedMsg:
		a.activeView = viewWorkout
		a.status = ""
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isError = false
		a.exportPicking = false
		return a, nil

	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd

	case progressDataMsg:
		var cmd tea.Cmd
		a.progress, cmd = a.progress.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

// quit ends a running session as a bail so it is recorded.
func (a App) quit() tea.Cmd {
	switch a.engine.State().Phase {
	case engine.Idle, engine.Done:
	default:
		a.engine.Bail()
	}
	return tea.Quit
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewWorkout:
		a.workout, cmd = a.workout.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewProgress:
		a.progress, cmd = a.progress.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewWorkout:
		return a.workout.formActive
	case viewHistory:
		return a.history.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.refresh()
	case viewProgress:
		return a.progress.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view()
	case viewWorkout:
		content = a.workout.view()
	case viewHistory:
		content = a.history.view()
	case viewProgress:
		content = a.progress.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("hangboard")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Session indicator in footer
	sessionInfo := ""
	st := a.engine.State()
	if st.Phase.Timed() {
		text := fmt.Sprintf(" ● %s %s", st.Phase, formatClock(a.engine.Remaining()))
		sessionInfo = successStyle.Render(text)
		if st.Paused {
			sessionInfo = warningStyle.Render(" ⏸ " + formatClock(a.engine.Remaining()))
		}
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	s := a.store
	now := a.clock.Now()
	return func() tea.Msg {
		records, err := s.ListSessions()
		if err != nil {
			return errStatus("Export error: %v", err)
		}

		home, _ := os.UserHomeDir()
		dateStr := now.Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("hangboard-export-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return errStatus("CSV error: %v", err)
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("hangboard-export-%s.json", dateStr))
			if err := export.ToJSON(records, path); err != nil {
				return errStatus("JSON error: %v", err)
			}
		}

		return exportDoneMsg{path: path}
	}
}
