package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start        key.Binding
	Bail         key.Binding
	Pause        key.Binding
	SkipBreak    key.Binding
	SkipSet      key.Binding
	SkipNextSet  key.Binding
	SkipNextHold key.Binding
	Inc          key.Binding
	Dec          key.Binding
	Set2Inc      key.Binding
	Set2Dec      key.Binding
	Notes        key.Binding
	HoldNote     key.Binding
	Reset        key.Binding
	Log          key.Binding
	Delete       key.Binding
	Export       key.Binding
	Tab1         key.Binding
	Tab2         key.Binding
	Tab3         key.Binding
	Tab4         key.Binding
	Tab5         key.Binding
	Tab          key.Binding
	Help         key.Binding
	Enter        key.Binding
	Back         key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Bail: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "end session"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	SkipBreak: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "skip break"),
	),
	SkipSet: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip set"),
	),
	SkipNextSet: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "skip next set"),
	),
	SkipNextHold: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "skip next hold"),
	),
	Inc: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "weight +2.5"),
	),
	Dec: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "weight -2.5"),
	),
	Set2Inc: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "set 2 / next +2.5"),
	),
	Set2Dec: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "set 2 / next -2.5"),
	),
	Notes: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "notes"),
	),
	HoldNote: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "hold note"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset weights"),
	),
	Log: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "log past workout"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "home"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "workout"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "history"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "progress"),
	),
	Tab5: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Bail, k.Pause, k.SkipBreak, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Bail, k.Pause, k.SkipBreak},
		{k.SkipSet, k.SkipNextSet, k.SkipNextHold},
		{k.Inc, k.Dec, k.Set2Inc, k.Set2Dec, k.Reset},
		{k.Notes, k.HoldNote, k.Log, k.Delete, k.Export},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5},
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Back, k.Quit},
	}
}
