package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownProgram = errors.New("unknown program")

// Program is an ordered exercise catalog.
type Program struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// WeightKey names the stored-weight mapping. Programs that share a key
	// share their persisted baselines. Empty means ID.
	WeightKey string     `yaml:"weight_key"`
	Hidden    bool       `yaml:"hidden"`
	Exercises []Exercise `yaml:"exercises"`
}

func (p Program) StorageKey() string {
	if p.WeightKey != "" {
		return p.WeightKey
	}
	return p.ID
}

// Find returns the exercise with the given id.
func (p Program) Find(id string) (Exercise, bool) {
	for _, e := range p.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

// Validate checks what the session engine relies on: ids present and unique, counts non-negative.
func (p Program) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("program id is required")
	}
	if len(p.Exercises) == 0 {
		return fmt.Errorf("program %q: no exercises", p.ID)
	}
	seen := make(map[string]bool, len(p.Exercises))
	for i, e := range p.Exercises {
		if e.ID == "" {
			return fmt.Errorf("program %q: exercise %d: id is required", p.ID, i)
		}
		if seen[e.ID] {
			return fmt.Errorf("program %q: duplicate exercise id %q", p.ID, e.ID)
		}
		seen[e.ID] = true
		if e.NumSets < 0 {
			return fmt.Errorf("program %q: exercise %q: num_sets must be positive", p.ID, e.ID)
		}
		if e.RepsPerSet < 0 || e.Set1Reps < 0 || e.Set2Reps < 0 {
			return fmt.Errorf("program %q: exercise %q: rep counts must not be negative", p.ID, e.ID)
		}
	}
	return nil
}

// Registry holds the programs available to the app, in display order.
type Registry struct {
	order []string
	byID  map[string]Program
}

func NewRegistry(programs ...Program) (*Registry, error) {
	r := &Registry{byID: make(map[string]Program)}
	for _, p := range programs {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers p, replacing any program with the same id in place.
func (r *Registry) Add(p Program) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *Registry) Get(id string) (Program, error) {
	p, ok := r.byID[id]
	if !ok {
		return Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, id)
	}
	return p, nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// List returns programs in registration order. Hidden programs are
// included only when all is true.
func (r *Registry) List(all bool) []Program {
	var out []Program
	for _, id := range r.order {
		p := r.byID[id]
		if p.Hidden && !all {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IDs returns every registered program id, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
