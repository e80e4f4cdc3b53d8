package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/hangboard/internal/catalog"
)

// WeightFunc resolves the weight of an exercise's set.
type WeightFunc func(exerciseID string, setNumber int) float64

type BuildParams struct {
	WorkoutType string
	StartedAt   time.Time
	CompletedAt time.Time
	Bailed      bool

	// Position of the session when it ended.
	HoldIndex int
	SetNumber int

	Exercises []catalog.Exercise
	Weight    WeightFunc
	Set1Reps  int
	Set2Reps  int

	Notes     string
	HoldNotes map[string]string

	// NewID defaults to a random UUID.
	NewID func() string
}

// Build captures a session as a record. Weights are resolved now, rep
// counts are the nominal counts of each set.
func Build(p BuildParams) Record {
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	weight := p.Weight
	if weight == nil {
		weight = func(string, int) float64 { return 0 }
	}

	holds := make([]HoldRecord, len(p.Exercises))
	for i, ex := range p.Exercises {
		set1Done, set2Done := completion(p.Bailed, i, p.HoldIndex, p.SetNumber)
		h := HoldRecord{
			HoldID:   ex.ID,
			HoldName: ex.Name,
			Set1: SetRecord{
				Weight:    weight(ex.ID, 1),
				Reps:      ex.RepsFor(1, p.Set1Reps, p.Set2Reps),
				Completed: set1Done,
			},
			Notes: p.HoldNotes[ex.ID],
		}
		if ex.Sets() >= 2 {
			h.Set2 = &SetRecord{
				Weight:    weight(ex.ID, 2),
				Reps:      ex.RepsFor(2, p.Set1Reps, p.Set2Reps),
				Completed: set2Done,
			}
		}
		holds[i] = h
	}

	return Record{
		ID:          newID(),
		WorkoutType: p.WorkoutType,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
		Bailed:      p.Bailed,
		Holds:       holds,
		Notes:       p.Notes,
	}
}

func completion(bailed bool, i, holdIndex, setNumber int) (set1, set2 bool) {
	switch {
	case !bailed, i < holdIndex:
		return true, true
	case i == holdIndex:
		return setNumber >= 2, false
	default:
		return false, false
	}
}
