package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/hangboard/internal/catalog"
)

// DayLayout is the date format of hand-entered sessions.
const DayLayout = "2006-01-02"

// ManualParams describes a session logged after the fact.
type ManualParams struct {
	WorkoutType string
	At          time.Time
	Exercises   []catalog.Exercise

	// Set1 weights by exercise id. Missing ids use the catalog default.
	Set1Weights map[string]float64
	// Set2Offset is added to the set-1 weight for every later set.
	Set2Offset float64
	Set1Reps   int
	Set2Reps   int

	Notes     string
	HoldNotes map[string]string

	// NewID defaults to a random UUID.
	NewID func() string
}

// Manual builds a hand-entered record: every set completed, no duration,
// marked imported. Rest-only and fixed-weight exercises record weight 0.
func Manual(p ManualParams) Record {
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return Record{
		ID:          newID(),
		WorkoutType: p.WorkoutType,
		StartedAt:   p.At,
		CompletedAt: p.At,
		Holds:       manualHolds(p),
		Notes:       p.Notes,
		Imported:    true,
	}
}

// Amend rewrites orig from p and keeps its id, flags and timed duration.
func Amend(orig Record, p ManualParams) Record {
	rec := orig
	rec.WorkoutType = p.WorkoutType
	rec.StartedAt = p.At
	rec.CompletedAt = p.At
	if d := orig.Duration(); d > 0 {
		rec.CompletedAt = p.At.Add(d)
	}
	rec.Holds = manualHolds(p)
	rec.Notes = p.Notes
	return rec
}

func manualHolds(p ManualParams) []HoldRecord {
	holds := make([]HoldRecord, len(p.Exercises))
	for i, ex := range p.Exercises {
		w, ok := p.Set1Weights[ex.ID]
		if !ok {
			w = ex.DefaultWeight(1)
		}
		offset := p.Set2Offset
		if !Weighted(ex) {
			w, offset = 0, 0
		}
		h := HoldRecord{
			HoldID:   ex.ID,
			HoldName: ex.Name,
			Set1: SetRecord{
				Weight:    w,
				Reps:      ex.RepsFor(1, p.Set1Reps, p.Set2Reps),
				Completed: true,
			},
			Notes: p.HoldNotes[ex.ID],
		}
		if ex.Sets() >= 2 {
			h.Set2 = &SetRecord{
				Weight:    w + offset,
				Reps:      ex.RepsFor(2, p.Set1Reps, p.Set2Reps),
				Completed: true,
			}
		}
		holds[i] = h
	}
	return holds
}

// Weighted reports whether a hand-entered session records a weight for ex.
func Weighted(ex catalog.Exercise) bool {
	return !ex.RestOnly && !ex.SkipProgression
}

// ManualInputs returns the form values that reproduce rec: set-1 weights
// of the weighted exercises and the set-2 offset of the first two-set one.
// A nil rec yields catalog defaults.
func ManualInputs(exercises []catalog.Exercise, rec *Record) (map[string]float64, float64) {
	set1 := make(map[string]float64)
	offset, found := 0.0, false
	for _, ex := range exercises {
		if !Weighted(ex) {
			continue
		}
		set1[ex.ID] = ex.DefaultWeight(1)
		if !found && ex.Sets() >= 2 {
			offset, found = ex.DefaultWeight(2)-ex.DefaultWeight(1), true
		}
	}
	if rec == nil {
		return set1, offset
	}

	found = false
	for _, ex := range exercises {
		if !Weighted(ex) {
			continue
		}
		h, ok := rec.Hold(ex.ID)
		if !ok {
			continue
		}
		set1[ex.ID] = h.Set1.Weight
		if !found && h.Set2 != nil {
			offset, found = h.Set2.Weight-h.Set1.Weight, true
		}
	}
	return set1, offset
}

// ParseDay reads a DayLayout date as noon in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
}
