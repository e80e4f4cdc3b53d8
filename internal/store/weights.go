package store

import (
	"fmt"

	"github.com/sadopc/hangboard/internal/weights"
)

// LoadWeights returns the stored baselines of a program's weight key.
func (s *Store) LoadWeights(program string) (weights.Stored, error) {
	rows, err := s.db.Query(`SELECT exercise_id, set1, set2 FROM weights WHERE program = ?`, program)
	if err != nil {
		return nil, fmt.Errorf("load weights %q: %w", program, err)
	}
	defer rows.Close()

	out := make(weights.Stored)
	for rows.Next() {
		var id string
		var p weights.Pair
		if err := rows.Scan(&id, &p.Set1, &p.Set2); err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, rows.Err()
}

// SaveWeight upserts one exercise baseline.
func (s *Store) SaveWeight(program, exerciseID string, p weights.Pair) error {
	_, err := s.db.Exec(
		`INSERT INTO weights (program, exercise_id, set1, set2) VALUES (?, ?, ?, ?)
		 ON CONFLICT(program, exercise_id) DO UPDATE SET set1 = excluded.set1, set2 = excluded.set2`,
		program, exerciseID, p.Set1, p.Set2,
	)
	if err != nil {
		return fmt.Errorf("save weight %s/%s: %w", program, exerciseID, err)
	}
	return nil
}

// ResetWeights deletes a program's stored baselines so lookups fall back
// to catalog defaults.
func (s *Store) ResetWeights(program string) error {
	if _, err := s.db.Exec(`DELETE FROM weights WHERE program = ?`, program); err != nil {
		return fmt.Errorf("reset weights %q: %w", program, err)
	}
	return nil
}
