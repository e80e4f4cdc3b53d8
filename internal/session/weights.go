package session

import (
	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/weights"
)

// EffectiveWeight resolves the weight of a set in the selected program.
func (e *Engine) EffectiveWeight(exerciseID string, set int) float64 {
	if e.weights == nil {
		return 0
	}
	return e.weights.Effective(exerciseID, set)
}

// BaseWeight returns the stored baseline of an exercise.
func (e *Engine) BaseWeight(exerciseID string) weights.Pair {
	if e.weights == nil {
		return weights.Pair{}
	}
	return e.weights.Base(exerciseID)
}

// SetSessionOverride changes a set's weight for this session only.
func (e *Engine) SetSessionOverride(exerciseID string, set int, delta float64) float64 {
	if e.weights == nil {
		return 0
	}
	v := e.weights.SetSessionOverride(exerciseID, set, delta)
	e.notify()
	return v
}

// AdjustNextWeight changes a set's stored baseline and saves it.
func (e *Engine) AdjustNextWeight(exerciseID string, set int, delta float64) weights.Pair {
	if e.weights == nil {
		return weights.Pair{}
	}
	p := e.weights.AdjustNextWeight(exerciseID, set, delta)
	e.saveWeight(exerciseID, p)
	e.notify()
	return p
}

// AdjustBase moves both sets of an exercise's baseline by delta.
func (e *Engine) AdjustBase(exerciseID string, delta float64) weights.Pair {
	if e.weights == nil {
		return weights.Pair{}
	}
	e.weights.AdjustNextWeight(exerciseID, 1, delta)
	p := e.weights.AdjustNextWeight(exerciseID, 2, delta)
	e.saveWeight(exerciseID, p)
	e.notify()
	return p
}

func (e *Engine) saveWeight(exerciseID string, p weights.Pair) {
	key := e.program.StorageKey()
	e.logger.Info("weight adjusted", "program", key, "exercise", exerciseID, "set1", p.Set1, "set2", p.Set2)
	if e.persister != nil {
		e.persister.SaveWeight(key, exerciseID, p)
	}
}

// Set2Adjustable returns the exercise whose set 2 weight may be changed
// now: during the break between set 1 and set 2 of a two-set exercise.
func (e *Engine) Set2Adjustable() (catalog.Exercise, bool) {
	ex, ok := e.Exercise()
	if !ok || e.state.Phase != engine.Break || ex.RestOnly {
		return catalog.Exercise{}, false
	}
	if ex.Sets() != 2 || e.state.SetNumber != 1 {
		return catalog.Exercise{}, false
	}
	return ex, true
}

// AdjustSet2 changes the current exercise's set 2 weight for this session
// and for future sessions.
func (e *Engine) AdjustSet2(delta float64) bool {
	ex, ok := e.Set2Adjustable()
	if !ok {
		return false
	}
	e.weights.SetSessionOverride(ex.ID, 2, delta)
	p := e.weights.AdjustNextWeight(ex.ID, 2, delta)
	e.saveWeight(ex.ID, p)
	e.notify()
	return true
}

// Progression is the pair of exercises offered for a baseline change in
// the break after an exercise's last set.
type Progression struct {
	Finished *catalog.Exercise
	Upcoming *catalog.Exercise
}

// ProgressionTargets returns the exercises whose baseline may be adjusted
// now. Finished is nil for exercises that skip progression; Upcoming is
// nil at the end of the program and for rest-only exercises.
func (e *Engine) ProgressionTargets() Progression {
	var p Progression
	ex, ok := e.Exercise()
	if !ok || e.state.Phase != engine.Break || e.state.SetNumber < ex.Sets() {
		return p
	}
	if !ex.SkipProgression && !ex.RestOnly {
		p.Finished = &ex
	}
	if next, ok := e.NextExercise(); ok && !next.RestOnly {
		p.Upcoming = &next
	}
	return p
}

// ResetWeights restores the selected program's baselines to the catalog
// defaults.
func (e *Engine) ResetWeights() {
	if e.weights == nil {
		return
	}
	e.weights.Reset()
	key := e.program.StorageKey()
	e.logger.Info("weights reset", "program", key)
	if e.persister != nil {
		e.persister.ResetWeights(key)
	}
	e.notify()
}
