package catalog

import "time"

// Timing is a named set of global phase durations and rep counts.
type Timing struct {
	Name     string
	Prep     time.Duration
	Hang     time.Duration
	Rest     time.Duration
	Break    time.Duration
	Set1Reps int
	Set2Reps int
}

var (
	Standard = Timing{
		Name:     "standard",
		Prep:     10 * time.Second,
		Hang:     7 * time.Second,
		Rest:     3 * time.Second,
		Break:    180 * time.Second,
		Set1Reps: 7,
		Set2Reps: 6,
	}

	// Short runs the whole machine end to end in a few minutes.
	Short = Timing{
		Name:     "short",
		Prep:     3 * time.Second,
		Hang:     2 * time.Second,
		Rest:     1 * time.Second,
		Break:    5 * time.Second,
		Set1Reps: 7,
		Set2Reps: 6,
	}
)

var timings = []Timing{Standard, Short}

// TimingByName looks up a variant, falling back to Standard.
func TimingByName(name string) (Timing, bool) {
	for _, t := range timings {
		if t.Name == name {
			return t, true
		}
	}
	return Standard, false
}

func TimingNames() []string {
	names := make([]string, len(timings))
	for i, t := range timings {
		names[i] = t.Name
	}
	return names
}
