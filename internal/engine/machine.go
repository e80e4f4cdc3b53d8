// Package engine holds the pure phase state machine of a workout session.
//
// Every function takes a State by value and returns the next State; inputs
// are never mutated and identical inputs always produce identical outputs.
// Out-of-range positions and unknown phases return the input unchanged.
package engine

import "github.com/sadopc/hangboard/internal/catalog"

// State is the position of a running session.
type State struct {
	Phase     Phase
	HoldIndex int
	SetNumber int
	RepIndex  int
	Paused    bool
}

// Initial is the state a session starts in.
func Initial() State {
	return State{Phase: Prep, HoldIndex: 0, SetNumber: 1, RepIndex: 0}
}

func current(s State, holds []catalog.Exercise) (catalog.Exercise, bool) {
	if s.HoldIndex < 0 || s.HoldIndex >= len(holds) {
		return catalog.Exercise{}, false
	}
	return holds[s.HoldIndex], true
}

func isLastHold(s State, holds []catalog.Exercise) bool {
	return s.HoldIndex >= len(holds)-1
}

// RepsForSet returns the rep count of the state's current set.
func RepsForSet(s State, holds []catalog.Exercise, set1Reps, set2Reps int) int {
	ex, ok := current(s, holds)
	if !ok {
		return 0
	}
	return ex.RepsFor(s.SetNumber, set1Reps, set2Reps)
}

// IsLastRep reports whether the current rep is the final one of its set.
func IsLastRep(s State, holds []catalog.Exercise, set1Reps, set2Reps int) bool {
	return s.RepIndex >= RepsForSet(s, holds, set1Reps, set2Reps)-1
}

// IsLastSet reports whether the current set is the exercise's final set.
func IsLastSet(s State, holds []catalog.Exercise) bool {
	ex, ok := current(s, holds)
	if !ok {
		return false
	}
	return s.SetNumber >= ex.Sets()
}

// Advance moves the session to its next phase after the current one ends.
func Advance(s State, holds []catalog.Exercise, set1Reps, set2Reps int) State {
	if s.Phase == Done {
		s.Phase = Idle
		return s
	}
	ex, ok := current(s, holds)
	if !ok {
		return s
	}

	switch s.Phase {
	case Prep:
		if ex.RestOnly {
			s.Phase = Break
			return s
		}
		s.Phase = Hanging
		s.RepIndex = 0
	case Hanging:
		switch {
		case s.RepIndex < ex.RepsFor(s.SetNumber, set1Reps, set2Reps)-1:
			s.Phase = Resting
		case s.SetNumber < ex.Sets():
			s.Phase = Break
		case isLastHold(s, holds):
			s.Phase = Done
		default:
			s.Phase = Break
		}
	case Resting:
		s.Phase = Hanging
		s.RepIndex++
	case Break:
		switch {
		case s.SetNumber < ex.Sets():
			s.Phase = Prep
			s.SetNumber++
			s.RepIndex = 0
		case !isLastHold(s, holds):
			s.Phase = Prep
			s.HoldIndex++
			s.SetNumber = 1
			s.RepIndex = 0
		default:
			s.Phase = Done
		}
	}
	return s
}

// SkipSet abandons the rest of the current set.
func SkipSet(s State, holds []catalog.Exercise) State {
	ex, ok := current(s, holds)
	if !ok {
		return s
	}
	if s.SetNumber >= ex.Sets() && isLastHold(s, holds) {
		s.Phase = Done
		return s
	}
	s.Phase = Break
	return s
}

// SkipNextSet abandons the remaining sets of the current exercise by moving
// to its final set and entering the break.
func SkipNextSet(s State, holds []catalog.Exercise) State {
	ex, ok := current(s, holds)
	if !ok {
		return s
	}
	if isLastHold(s, holds) {
		s.Phase = Done
		return s
	}
	s.SetNumber = ex.Sets()
	s.Phase = Break
	return s
}

// SkipNextHold abandons the exercise after the current one. When that
// exercise is the last in the catalog the session ends instead.
func SkipNextHold(s State, holds []catalog.Exercise) State {
	if _, ok := current(s, holds); !ok {
		return s
	}
	next := s.HoldIndex + 1
	if next >= len(holds)-1 {
		s.Phase = Done
		return s
	}
	s.HoldIndex = next
	s.SetNumber = holds[next].Sets()
	s.Phase = Break
	return s
}
