package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/hangboard/internal/history"
)

var csvHeader = []string{
	"Session", "Program", "Started", "Completed", "Duration", "Bailed", "Imported",
	"Hold ID", "Hold", "Set", "Weight", "Reps", "Completed Set", "Notes",
}

// WriteCSV writes one row per recorded set.
func WriteCSV(out io.Writer, records []history.Record) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		session := []string{
			r.ID,
			r.WorkoutType,
			r.StartedAt.Local().Format(time.RFC3339),
			r.CompletedAt.Local().Format(time.RFC3339),
			history.FormatDuration(r),
			strconv.FormatBool(r.Bailed),
			strconv.FormatBool(r.Imported),
		}
		for _, h := range r.Holds {
			sets := []*history.SetRecord{&h.Set1, h.Set2}
			for i, s := range sets {
				if s == nil {
					continue
				}
				row := append(append([]string(nil), session...),
					h.HoldID,
					h.HoldName,
					strconv.Itoa(i+1),
					strconv.FormatFloat(s.Weight, 'f', -1, 64),
					strconv.Itoa(s.Reps),
					strconv.FormatBool(s.Completed),
					h.Notes,
				)
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

func ToCSV(records []history.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
