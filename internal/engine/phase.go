package engine

// Phase is a step of the workout session.
type Phase int

const (
	Idle Phase = iota
	Prep
	Hanging
	Resting
	Break
	Done
)

var phaseNames = map[Phase]string{
	Idle:    "idle",
	Prep:    "prep",
	Hanging: "hanging",
	Resting: "resting",
	Break:   "break",
	Done:    "done",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Timed reports whether the phase runs a countdown.
func (p Phase) Timed() bool {
	return p == Prep || p == Hanging || p == Resting || p == Break
}
