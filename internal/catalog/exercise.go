package catalog

import "time"

// DefaultNumSets applies when an exercise leaves NumSets unset.
const DefaultNumSets = 2

// Exercise is one hold in a program. Zero values mean "not set": a zero
// RepsPerSet falls back to Set1Reps/Set2Reps, a zero duration falls back to
// the active Timing.
type Exercise struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	NumSets           int     `yaml:"num_sets"`
	RepsPerSet        int     `yaml:"reps_per_set"`
	Set1Reps          int     `yaml:"set1_reps"`
	Set2Reps          int     `yaml:"set2_reps"`
	DefaultSet1Weight float64 `yaml:"default_set1_weight"`
	DefaultSet2Weight float64 `yaml:"default_set2_weight"`
	RestOnly          bool    `yaml:"rest_only"`
	SkipProgression   bool    `yaml:"skip_progression"`
	PrepSecs          int     `yaml:"prep_secs"`
	HangSecs          int     `yaml:"hang_secs"`
	RestSecs          int     `yaml:"rest_secs"`
	BreakSecs         int     `yaml:"break_secs"`
}

// Sets returns the number of sets, never less than one.
func (e Exercise) Sets() int {
	if e.NumSets <= 0 {
		return DefaultNumSets
	}
	return e.NumSets
}

// RepsFor returns the nominal rep count of the given set. Sets after the
// second use the set-2 count.
func (e Exercise) RepsFor(setNumber, globalSet1, globalSet2 int) int {
	if e.RepsPerSet > 0 {
		return e.RepsPerSet
	}
	if setNumber <= 1 {
		if e.Set1Reps > 0 {
			return e.Set1Reps
		}
		return globalSet1
	}
	if e.Set2Reps > 0 {
		return e.Set2Reps
	}
	return globalSet2
}

// DefaultWeight returns the catalog baseline for a set.
func (e Exercise) DefaultWeight(setNumber int) float64 {
	if setNumber <= 1 {
		return e.DefaultSet1Weight
	}
	return e.DefaultSet2Weight
}

func (e Exercise) Prep(t Timing) time.Duration  { return secsOr(e.PrepSecs, t.Prep) }
func (e Exercise) Hang(t Timing) time.Duration  { return secsOr(e.HangSecs, t.Hang) }
func (e Exercise) Rest(t Timing) time.Duration  { return secsOr(e.RestSecs, t.Rest) }
func (e Exercise) Break(t Timing) time.Duration { return secsOr(e.BreakSecs, t.Break) }

func secsOr(secs int, fallback time.Duration) time.Duration {
	if secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
