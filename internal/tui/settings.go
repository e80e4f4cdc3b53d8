package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
)

type settingsModel struct {
	engine *session.Engine
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	program *string
	timing  *string
	cues    *string
}

func newSettingsModel(e *session.Engine, s *store.Store) settingsModel {
	prog, timing, cues := "", "", ""
	return settingsModel{
		engine:  e,
		store:   s,
		program: &prog,
		timing:  &timing,
		cues:    &cues,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

// ApplySettings configures e from the stored settings. An unknown stored
// program falls back to the first visible one.
func ApplySettings(e *session.Engine, s *store.Store) error {
	t, _ := catalog.TimingByName(s.SettingOr(store.SettingTimingVariant, catalog.Standard.Name))
	e.SetTiming(t)
	e.SetCountdownCues(s.SettingOr(store.SettingCountdownCues, "on") != "off")

	id := s.SettingOr(store.SettingProgram, catalog.ProgramRepeaters)
	err := e.Select(id)
	if errors.Is(err, catalog.ErrUnknownProgram) {
		programs := e.Registry().List(false)
		if len(programs) == 0 {
			return err
		}
		err = e.Select(programs[0].ID)
	}
	if err != nil {
		return fmt.Errorf("select program %q: %w", id, err)
	}
	return nil
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.program = s.getVal(store.SettingProgram, catalog.ProgramRepeaters)
	*s.timing = s.getVal(store.SettingTimingVariant, catalog.Standard.Name)
	*s.cues = s.getVal(store.SettingCountdownCues, "on")

	var programs []huh.Option[string]
	for _, p := range s.engine.Registry().List(true) {
		programs = append(programs, huh.NewOption(p.Name, p.ID))
	}
	var timings []huh.Option[string]
	for _, name := range catalog.TimingNames() {
		timings = append(timings, huh.NewOption(name, name))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Program").
				Options(programs...).Value(s.program),
			huh.NewSelect[string]().Title("Timing").
				Options(timings...).Value(s.timing),
			huh.NewSelect[string]().Title("Countdown cues").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.cues),
		).Title("Workout"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), func() tea.Msg { return errStatus("Settings: %v", err) })
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return statusMsg{text: "Settings saved"} })
	}

	return s, cmd
}

// saveSettings stores the form values and applies them to the engine. A
// program change is refused while a session runs.
func (s settingsModel) saveSettings() error {
	if s.engine.Active() {
		if cur, _ := s.engine.Program(); cur.ID != *s.program {
			*s.program = cur.ID
		}
	}
	for _, kv := range []store.Setting{
		{Key: store.SettingProgram, Value: *s.program},
		{Key: store.SettingTimingVariant, Value: *s.timing},
		{Key: store.SettingCountdownCues, Value: *s.cues},
	} {
		if err := s.store.SetSetting(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	if s.engine.Active() {
		t, _ := catalog.TimingByName(*s.timing)
		s.engine.SetTiming(t)
		s.engine.SetCountdownCues(*s.cues != "off")
		return nil
	}
	return ApplySettings(s.engine, s.store)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(s.formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) formatSettingValue(k, v string) string {
	switch k {
	case store.SettingProgram:
		if p, err := s.engine.Registry().Get(v); err == nil {
			return p.Name
		}
	case store.SettingTimingVariant:
		if t, ok := catalog.TimingByName(v); ok {
			return fmt.Sprintf("%s (prep %s, hang %s, rest %s, break %s)", t.Name, t.Prep, t.Hang, t.Rest, t.Break)
		}
	}
	return v
}
