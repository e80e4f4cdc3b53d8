package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/hangboard/internal/history"
)

const sessionColumns = `id, workout_type, started_at, completed_at, bailed, imported, notes, holds`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSession(db execer, r history.Record) error {
	holds, err := marshalHolds(r.Holds)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   workout_type = excluded.workout_type,
		   started_at   = excluded.started_at,
		   completed_at = excluded.completed_at,
		   bailed       = excluded.bailed,
		   imported     = excluded.imported,
		   notes        = excluded.notes,
		   holds        = excluded.holds`,
		r.ID, r.WorkoutType, r.StartedAt.UnixMilli(), r.CompletedAt.UnixMilli(),
		r.Bailed, r.Imported, r.Notes, holds,
	)
	return err
}

// AddSession stores r, replacing any session with the same id.
func (s *Store) AddSession(r history.Record) error {
	if r.ID == "" {
		return fmt.Errorf("add session: id is required")
	}
	if err := insertSession(s.db, r); err != nil {
		return fmt.Errorf("add session %s: %w", r.ID, err)
	}
	return nil
}

// UpdateSession overwrites an existing session.
func (s *Store) UpdateSession(r history.Record) error {
	holds, err := marshalHolds(r.Holds)
	if err != nil {
		return fmt.Errorf("update session %s: %w", r.ID, err)
	}
	res, err := s.db.Exec(
		`UPDATE sessions SET workout_type = ?, started_at = ?, completed_at = ?, bailed = ?, imported = ?, notes = ?, holds = ?
		 WHERE id = ?`,
		r.WorkoutType, r.StartedAt.UnixMilli(), r.CompletedAt.UnixMilli(), r.Bailed, r.Imported, r.Notes, holds, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", r.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update session %s: %w", r.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetSession(id string) (history.Record, error) {
	r, err := scanSession(s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return history.Record{}, fmt.Errorf("get session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return history.Record{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return r, nil
}

// ListSessions returns every session, newest first.
func (s *Store) ListSessions() ([]history.Record, error) {
	rows, err := s.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ImportSessions inserts records in one transaction. Either all of them
// are stored or none are.
func (s *Store) ImportSessions(records []history.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		if err := insertSession(tx, r); err != nil {
			return fmt.Errorf("import session %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (history.Record, error) {
	var (
		r                  history.Record
		started, completed int64
		holds              string
	)
	err := row.Scan(&r.ID, &r.WorkoutType, &started, &completed, &r.Bailed, &r.Imported, &r.Notes, &holds)
	if err != nil {
		return history.Record{}, err
	}
	r.StartedAt = time.UnixMilli(started)
	r.CompletedAt = time.UnixMilli(completed)
	if err := json.Unmarshal([]byte(holds), &r.Holds); err != nil {
		return history.Record{}, fmt.Errorf("decode holds: %w", err)
	}
	return r, nil
}

func marshalHolds(holds []history.HoldRecord) (string, error) {
	if holds == nil {
		holds = []history.HoldRecord{}
	}
	b, err := json.Marshal(holds)
	if err != nil {
		return "", fmt.Errorf("encode holds: %w", err)
	}
	return string(b), nil
}
