package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewWorkout
	viewHistory
	viewProgress
	viewSettings
)

var viewNames = []string{"Home", "Workout", "History", "Progress", "Settings"}

// weightStep is the increment of every weight adjuster, in kg.
const weightStep = 2.5

// bailConfirmWindow is how long a first bail press stays armed.
const bailConfirmWindow = 3 * time.Second

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func errStatus(format string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf(format, err), isError: true}
}

// --- Helpers ---

// formatClock renders a countdown as MM:SS, rounding partial seconds up
// so the display reaches 00:00 only when the phase ends.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
