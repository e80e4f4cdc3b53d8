// Package weights resolves the resistance used for each set.
//
// Stored baselines carry over between sessions and are persisted per
// program. Overrides live for one session only. The two are separate types
// so the persistence boundary is explicit.
package weights

import "github.com/sadopc/hangboard/internal/catalog"

// Pair is the stored baseline of one exercise.
type Pair struct {
	Set1 float64 `json:"set1"`
	Set2 float64 `json:"set2"`
}

func (p Pair) get(set int) float64 {
	if set <= 1 {
		return p.Set1
	}
	return p.Set2
}

func (p *Pair) add(set int, delta float64) {
	if set <= 1 {
		p.Set1 += delta
	} else {
		p.Set2 += delta
	}
}

// Stored maps exercise id to its durable baseline.
type Stored map[string]Pair

// Override is a session-only weight. A nil slot is unset.
type Override struct {
	Set1 *float64
	Set2 *float64
}

func (o Override) get(set int) *float64 {
	if set <= 1 {
		return o.Set1
	}
	return o.Set2
}

// Overrides maps exercise id to its session-only weights.
type Overrides map[string]Override

// Defaults returns the catalog baselines of exercises.
func Defaults(exercises []catalog.Exercise) Stored {
	s := make(Stored, len(exercises))
	for _, e := range exercises {
		s[e.ID] = Pair{Set1: e.DefaultSet1Weight, Set2: e.DefaultSet2Weight}
	}
	return s
}

// Model resolves effective weights for one program. It is not safe for
// concurrent use.
type Model struct {
	exercises map[string]catalog.Exercise
	order     []catalog.Exercise
	stored    Stored
	overrides Overrides
}

// New builds a model over exercises. A nil stored mapping starts empty, so
// every lookup falls back to the catalog defaults.
func New(exercises []catalog.Exercise, stored Stored) *Model {
	m := &Model{
		exercises: make(map[string]catalog.Exercise, len(exercises)),
		order:     exercises,
		stored:    make(Stored, len(stored)),
		overrides: make(Overrides),
	}
	for _, e := range exercises {
		m.exercises[e.ID] = e
	}
	for id, p := range stored {
		m.stored[id] = p
	}
	return m
}

// Effective returns the session override, else the stored baseline, else
// the catalog default. Unknown ids resolve to 0.
func (m *Model) Effective(id string, set int) float64 {
	if o, ok := m.overrides[id]; ok {
		if v := o.get(set); v != nil {
			return *v
		}
	}
	return m.base(id, set)
}

func (m *Model) base(id string, set int) float64 {
	if p, ok := m.stored[id]; ok {
		return p.get(set)
	}
	if e, ok := m.exercises[id]; ok {
		return e.DefaultWeight(set)
	}
	return 0
}

// Base returns the stored baseline, seeded from the catalog when absent.
func (m *Model) Base(id string) Pair {
	return Pair{Set1: m.base(id, 1), Set2: m.base(id, 2)}
}

// SetSessionOverride sets the session weight of a set to its effective
// weight plus delta. Stored baselines are untouched.
func (m *Model) SetSessionOverride(id string, set int, delta float64) float64 {
	v := m.Effective(id, set) + delta
	o := m.overrides[id]
	if set <= 1 {
		o.Set1 = &v
	} else {
		o.Set2 = &v
	}
	m.overrides[id] = o
	return v
}

// AdjustNextWeight adds delta to the stored baseline of a set and returns
// the updated pair.
func (m *Model) AdjustNextWeight(id string, set int, delta float64) Pair {
	p := m.Base(id)
	p.add(set, delta)
	m.stored[id] = p
	return p
}

// Stored returns a copy of the durable baselines.
func (m *Model) Stored() Stored {
	out := make(Stored, len(m.stored))
	for id, p := range m.stored {
		out[id] = p
	}
	return out
}

func (m *Model) ClearOverrides() {
	m.overrides = make(Overrides)
}

// Reset restores every stored baseline to the catalog default and clears
// the session overrides.
func (m *Model) Reset() Stored {
	m.stored = Defaults(m.order)
	m.ClearOverrides()
	return m.Stored()
}
