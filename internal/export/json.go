package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/hangboard/internal/history"
)

// WriteJSON writes records as a JSON array. The output is accepted by
// ReadImport.
func WriteJSON(w io.Writer, records []history.Record) error {
	if records == nil {
		records = []history.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func ToJSON(records []history.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	if err := WriteJSON(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadImport parses a JSON export for bulk import. See history.ParseImport.
func ReadImport(r io.Reader, validType func(string) bool) ([]history.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	return history.ParseImport(data, validType, nil)
}

func ReadImportFile(path string, validType func(string) bool) ([]history.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return ReadImport(f, validType)
}
