// Package history defines the persisted session record, builds records
// from a finished or bailed session, validates bulk imports and derives
// progress statistics.
package history

import (
	"encoding/json"
	"time"
)

type SetRecord struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

type HoldRecord struct {
	HoldID   string     `json:"holdId"`
	HoldName string     `json:"holdName"`
	Set1     SetRecord  `json:"set1"`
	Set2     *SetRecord `json:"set2"` // nil for one-set exercises
	Notes    string     `json:"notes,omitempty"`
}

// Record is one logged session. Timestamps are encoded as Unix
// milliseconds.
type Record struct {
	ID          string
	WorkoutType string
	StartedAt   time.Time
	CompletedAt time.Time
	Bailed      bool
	Holds       []HoldRecord
	Notes       string
	Imported    bool
}

type wireRecord struct {
	ID          string       `json:"id"`
	WorkoutType string       `json:"workoutType"`
	StartedAt   int64        `json:"startedAt"`
	CompletedAt int64        `json:"completedAt"`
	Bailed      bool         `json:"bailed"`
	Holds       []HoldRecord `json:"holds"`
	Notes       string       `json:"notes,omitempty"`
	Imported    bool         `json:"imported,omitempty"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	holds := r.Holds
	if holds == nil {
		holds = []HoldRecord{}
	}
	return json.Marshal(wireRecord{
		ID:          r.ID,
		WorkoutType: r.WorkoutType,
		StartedAt:   r.StartedAt.UnixMilli(),
		CompletedAt: r.CompletedAt.UnixMilli(),
		Bailed:      r.Bailed,
		Holds:       holds,
		Notes:       r.Notes,
		Imported:    r.Imported,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = w.record()
	return nil
}

func (w wireRecord) record() Record {
	return Record{
		ID:          w.ID,
		WorkoutType: w.WorkoutType,
		StartedAt:   time.UnixMilli(w.StartedAt),
		CompletedAt: time.UnixMilli(w.CompletedAt),
		Bailed:      w.Bailed,
		Holds:       w.Holds,
		Notes:       w.Notes,
		Imported:    w.Imported,
	}
}

// Manual reports whether the record was entered by hand rather than timed.
func (r Record) Manual() bool {
	return r.StartedAt.Equal(r.CompletedAt)
}

// Duration is the timed length of the session, zero for manual entries.
func (r Record) Duration() time.Duration {
	if r.Manual() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Hold returns the record of the given exercise.
func (r Record) Hold(id string) (HoldRecord, bool) {
	for _, h := range r.Holds {
		if h.HoldID == id {
			return h, true
		}
	}
	return HoldRecord{}, false
}
