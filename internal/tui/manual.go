package tui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/history"
)

// manualForm holds the values of the log/edit workout form. Its fields are
// bound to huh inputs by pointer, so the form lives behind a pointer too.
type manualForm struct {
	editing *history.Record // nil when logging a new session

	day     string
	program string
	notes   string
	// Per program id, so switching program keeps what was typed.
	offsets map[string]*string
	weights map[string]map[string]*string
}

var errNotANumber = errors.New("enter a number, e.g. -17.5")

func parseWeightInput(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errNotANumber
	}
	return v, nil
}

func validateWeightInput(s string) error {
	_, err := parseWeightInput(s)
	return err
}

func validateDayInput(s string) error {
	if _, err := history.ParseDay(strings.TrimSpace(s), time.Local); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func formatWeightInput(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// formPrograms lists the visible programs plus the record's own program
// when it is hidden.
func formPrograms(reg *catalog.Registry, rec *history.Record) []catalog.Program {
	programs := reg.List(false)
	if rec == nil {
		return programs
	}
	for _, p := range programs {
		if p.ID == rec.WorkoutType {
			return programs
		}
	}
	if p, err := reg.Get(rec.WorkoutType); err == nil {
		programs = append(programs, p)
	}
	return programs
}

func hasTwoSetWeights(p catalog.Program) bool {
	for _, ex := range p.Exercises {
		if history.Weighted(ex) && ex.Sets() >= 2 {
			return true
		}
	}
	return false
}

func newManualForm(reg *catalog.Registry, rec *history.Record, today time.Time) (*manualForm, *huh.Form) {
	programs := formPrograms(reg, rec)
	f := &manualForm{
		editing: rec,
		day:     today.In(time.Local).Format(history.DayLayout),
		offsets: make(map[string]*string),
		weights: make(map[string]map[string]*string),
	}
	if len(programs) > 0 {
		f.program = programs[0].ID
	}
	if rec != nil {
		f.day = rec.StartedAt.In(time.Local).Format(history.DayLayout)
		f.notes = rec.Notes
		if _, err := reg.Get(rec.WorkoutType); err == nil {
			f.program = rec.WorkoutType
		}
	}

	var options []huh.Option[string]
	for _, p := range programs {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Date").Placeholder(history.DayLayout).
				Value(&f.day).Validate(validateDayInput),
			huh.NewSelect[string]().Title("Program").
				Options(options...).Value(&f.program),
			huh.NewText().Title("Notes").Value(&f.notes),
		).Title("Session"),
	}

	for _, p := range programs {
		var source *history.Record
		if rec != nil && rec.WorkoutType == p.ID {
			source = rec
		}
		set1, offset := history.ManualInputs(p.Exercises, source)

		var fields []huh.Field
		if hasTwoSetWeights(p) {
			v := formatWeightInput(offset)
			f.offsets[p.ID] = &v
			fields = append(fields, huh.NewInput().Title("Set 2 offset").
				Description("added to set 1 for later sets").
				Value(&v).Validate(validateWeightInput))
		}
		inputs := make(map[string]*string)
		for _, ex := range p.Exercises {
			w, ok := set1[ex.ID]
			if !ok {
				continue
			}
			v := formatWeightInput(w)
			inputs[ex.ID] = &v
			fields = append(fields, huh.NewInput().Title(ex.Name).
				Value(&v).Validate(validateWeightInput))
		}
		f.weights[p.ID] = inputs
		if len(fields) == 0 {
			continue
		}
		id := p.ID
		groups = append(groups, huh.NewGroup(fields...).
			Title(p.Name+": set 1 weights").
			WithHideFunc(func() bool { return f.program != id }))
	}

	return f, huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
}

// params turns the form values into builder input. Hold notes are left to
// the caller.
func (f *manualForm) params(reg *catalog.Registry, t catalog.Timing) (history.ManualParams, error) {
	at, err := history.ParseDay(strings.TrimSpace(f.day), time.Local)
	if err != nil {
		return history.ManualParams{}, err
	}
	p, err := reg.Get(f.program)
	if err != nil {
		return history.ManualParams{}, err
	}

	set1 := make(map[string]float64)
	for id, v := range f.weights[p.ID] {
		w, err := parseWeightInput(*v)
		if err != nil {
			return history.ManualParams{}, err
		}
		set1[id] = w
	}
	var offset float64
	if v, ok := f.offsets[p.ID]; ok {
		if offset, err = parseWeightInput(*v); err != nil {
			return history.ManualParams{}, err
		}
	}

	return history.ManualParams{
		WorkoutType: p.ID,
		At:          at,
		Exercises:   p.Exercises,
		Set1Weights: set1,
		Set2Offset:  offset,
		Set1Reps:    t.Set1Reps,
		Set2Reps:    t.Set2Reps,
		Notes:       strings.TrimSpace(f.notes),
	}, nil
}

func holdNotes(rec history.Record) map[string]string {
	notes := make(map[string]string)
	for _, h := range rec.Holds {
		if h.Notes != "" {
			notes[h.HoldID] = h.Notes
		}
	}
	return notes
}
