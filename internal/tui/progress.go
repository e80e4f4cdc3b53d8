package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/clock"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/store"
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type progressModel struct {
	store    *store.Store
	registry *catalog.Registry
	clock    clock.Clock
	width    int
	height   int

	records    []history.Record
	programIdx int
	holdIdx    int

	trend []history.TrendPoint
	chart barchart.Model
}

func newProgressModel(s *store.Store, reg *catalog.Registry, c clock.Clock) progressModel {
	if c == nil {
		c = clock.System{}
	}
	return progressModel{
		store:    s,
		registry: reg,
		clock:    c,
		chart:    barchart.New(60, 12),
	}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type progressDataMsg struct {
	records []history.Record
	err     error
}

func (p progressModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := p.store.ListSessions()
		return progressDataMsg{records: records, err: err}
	}
}

func (p progressModel) programs() []catalog.Program {
	return p.registry.List(false)
}

func (p progressModel) program() (catalog.Program, bool) {
	programs := p.programs()
	if p.programIdx < 0 || p.programIdx >= len(programs) {
		return catalog.Program{}, false
	}
	return programs[p.programIdx], true
}

// trackable returns the exercises that carry a weight.
func trackable(prog catalog.Program) []catalog.Exercise {
	var out []catalog.Exercise
	for _, ex := range prog.Exercises {
		if !ex.RestOnly {
			out = append(out, ex)
		}
	}
	return out
}

func (p progressModel) hold() (catalog.Exercise, bool) {
	prog, ok := p.program()
	if !ok {
		return catalog.Exercise{}, false
	}
	holds := trackable(prog)
	if p.holdIdx < 0 || p.holdIdx >= len(holds) {
		return catalog.Exercise{}, false
	}
	return holds[p.holdIdx], true
}

func (p progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case progressDataMsg:
		if msg.err != nil {
			return p, func() tea.Msg { return errStatus("Load history: %v", msg.err) }
		}
		p.records = msg.records
		p.buildChart()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if n := len(p.programs()); n > 0 {
				p.programIdx = (p.programIdx + n - 1) % n
				p.holdIdx = 0
			}
		case key.Matches(msg, keys.Right):
			if n := len(p.programs()); n > 0 {
				p.programIdx = (p.programIdx + 1) % n
				p.holdIdx = 0
			}
		case key.Matches(msg, keys.Up):
			if p.holdIdx > 0 {
				p.holdIdx--
			}
		case key.Matches(msg, keys.Down):
			if prog, ok := p.program(); ok && p.holdIdx < len(trackable(prog))-1 {
				p.holdIdx++
			}
		default:
			return p, nil
		}
		p.buildChart()
	}
	return p, nil
}

func (p *progressModel) buildChart() {
	chartWidth := p.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if p.height > 36 {
		chartHeight = 14
	}
	p.chart = barchart.New(chartWidth, chartHeight)

	prog, okProg := p.program()
	ex, okHold := p.hold()
	p.trend = nil
	if !okProg || !okHold {
		return
	}
	p.trend = history.BuildTrend(p.records, ex.ID, prog.ID)
	if len(p.trend) == 0 {
		return
	}

	// Weights are relative to bodyweight and may be negative; bars show the
	// height above the lightest point.
	lowest := p.trend[0].Weight
	for _, pt := range p.trend {
		lowest = min(lowest, pt.Weight)
	}

	bars := make([]barchart.BarData, 0, len(p.trend))
	for _, pt := range p.trend {
		style := lipgloss.NewStyle().Foreground(colorSecondary)
		switch {
		case pt.PR:
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		case pt.Bailed:
			style = lipgloss.NewStyle().Foreground(colorWarning)
		}
		bars = append(bars, barchart.BarData{
			Label: history.FormatWeight(pt.Weight),
			Values: []barchart.BarValue{{
				Name:  pt.Date.Format("Jan 02"),
				Value: pt.Weight - lowest + weightStep,
				Style: style,
			}},
		})
	}
	p.chart.PushAll(bars)
	p.chart.Draw()
}

func (p progressModel) view() string {
	w := p.width - 4

	var tabs []string
	prog, _ := p.program()
	for _, pr := range p.programs() {
		if pr.ID == prog.ID {
			tabs = append(tabs, activeTabStyle.Render(pr.Name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(pr.Name))
		}
	}
	stats := history.ComputeStats(p.records)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progress"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
		"  ", mutedStyle.Render(fmt.Sprintf("%d sessions completed", stats.TotalCompleted)),
	)

	holdLabel := mutedStyle.Render("  No exercises")
	if ex, ok := p.hold(); ok {
		holdLabel = highlightStyle.Render("  "+ex.Name) + mutedStyle.Render("  set 1 weight, last sessions")
	}

	chartView := mutedStyle.Render("  No sessions for this exercise")
	if len(p.trend) > 0 {
		chartView = p.chart.View()
	}
	legend := "  " + successStyle.Render("█ PR") + "  " + warningStyle.Render("█ bailed") + "  " +
		lipgloss.NewStyle().Foreground(colorSecondary).Render("█ session")

	nav := mutedStyle.Render("  ←/→: program  ↑/↓: exercise")

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", holdLabel, chartView, legend, "", p.renderCalendar(), "", nav,
	))
}

// renderCalendar draws the training calendar with weeks as columns.
func (p progressModel) renderCalendar() string {
	now := p.clock.Now()
	weeks := history.BuildCalendar(p.records, now)
	labels := history.CalendarMonthLabels(weeks)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var b strings.Builder
	b.WriteString("      ")
	for _, l := range labels {
		fmt.Fprintf(&b, "%-4s", l)
	}
	b.WriteString("\n")

	for d := 0; d < 7; d++ {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s ", weekdayLabels[d])))
		for _, week := range weeks {
			day := week[d]
			switch {
			case day.Date.After(today):
				b.WriteString("    ")
			case day.WorkoutType == "":
				b.WriteString(mutedStyle.Render(" ·  "))
			default:
				b.WriteString(programStyle(day.WorkoutType).Render(" ■  "))
			}
		}
		if d < 6 {
			b.WriteString("\n")
		}
	}

	var legend []string
	for _, pr := range p.programs() {
		legend = append(legend, programStyle(pr.ID).Render("■")+" "+pr.Name)
	}
	legend = append(legend, programStyle(history.BothPrograms).Render("■")+" both")
	return b.String() + "\n\n  " + strings.Join(legend, "  ")
}
