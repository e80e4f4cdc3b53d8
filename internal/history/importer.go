package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/hangboard/internal/catalog"
)

var ErrInvalidRecord = errors.New("invalid record")

// legacyBeginner is the workout type older exports used for Repeaters.
const legacyBeginner = "beginner"

// ParseImport decodes a JSON array of externally authored records. Every
// item must carry a string id, a workout type accepted by validType, a
// numeric startedAt and a holds array. The first invalid item fails the
// whole batch. Accepted records get a fresh id and are marked imported.
// The legacy "beginner" type is read as Repeaters.
func ParseImport(data []byte, validType func(string) bool, newID func() string) ([]Record, error) {
	if newID == nil {
		newID = uuid.NewString
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", ErrInvalidRecord, err)
	}

	out := make([]Record, 0, len(items))
	for i, raw := range items {
		rec, err := parseItem(raw, validType)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rec.ID = newID()
		rec.Imported = true
		out = append(out, rec)
	}
	return out, nil
}

func parseItem(raw json.RawMessage, validType func(string) bool) (Record, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Record{}, invalid(raw, "not an object")
	}
	if _, ok := fields["id"].(string); !ok {
		return Record{}, invalid(raw, "id must be a string")
	}
	wt, ok := fields["workoutType"].(string)
	if wt == legacyBeginner {
		wt = catalog.ProgramRepeaters
	}
	if !ok || (validType != nil && !validType(wt)) {
		return Record{}, invalid(raw, "unknown workoutType")
	}
	if _, ok := fields["startedAt"].(float64); !ok {
		return Record{}, invalid(raw, "startedAt must be a number")
	}
	if _, ok := fields["holds"].([]any); !ok {
		return Record{}, invalid(raw, "holds must be an array")
	}

	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return Record{}, invalid(raw, err.Error())
	}
	w.WorkoutType = wt
	if v, ok := fields["completedAt"]; !ok || v == nil {
		w.CompletedAt = w.StartedAt
	}
	return w.record(), nil
}

func invalid(raw json.RawMessage, reason string) error {
	snippet := bytes.TrimSpace(raw)
	if len(snippet) > 60 {
		snippet = snippet[:60]
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, reason, snippet)
}
