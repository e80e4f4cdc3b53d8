package history

import (
	"fmt"
	"strconv"
	"time"
)

// FormatWeight renders a weight relative to bodyweight.
func FormatWeight(w float64) string {
	if w == 0 {
		return "BW"
	}
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if w > 0 {
		return "+" + s
	}
	return s
}

// FormatDuration renders a record's length, "—" for manual entries.
func FormatDuration(r Record) string {
	if r.Manual() {
		return "—"
	}
	secs := int(r.Duration().Round(time.Second) / time.Second)
	m, s := secs/60, secs%60
	switch {
	case m == 0:
		return fmt.Sprintf("%ds", s)
	case s == 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%dm %ds", m, s)
	}
}
