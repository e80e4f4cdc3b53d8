package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/session"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--db", filepath.Join(dir, "test.db"),
		"--log", filepath.Join(dir, "test.log"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

const importDoc = `[
  {"id": "old-1", "workoutType": "a", "startedAt": 1760000000000, "completedAt": 1760001200000,
   "bailed": false, "holds": [], "notes": "from the old app"}
]`

func TestImportHistoryExport(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "import.json")
	if err := os.WriteFile(file, []byte(importDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "import", file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 1 sessions") {
		t.Fatalf("import output = %q", out)
	}

	out, err = execute(t, dir, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{"completed,imported", "20m", "from the old app", "1 sessions, 1 completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("history output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, dir, "export", "--format", "csv", "--out", "-")
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !strings.HasPrefix(out, "Session,") {
		t.Fatalf("csv output should start with the header, got %q", out)
	}

	jsonPath := filepath.Join(dir, "out.json")
	if _, err := execute(t, dir, "export", "--out", jsonPath); err != nil {
		t.Fatalf("export json: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"imported": true`) {
		t.Fatalf("json export missing imported flag:\n%s", data)
	}
}

func TestImportRejectsUnknownProgram(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.json")
	doc := strings.Replace(importDoc, `"workoutType": "a"`, `"workoutType": "z"`, 1)
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "import", file); err == nil {
		t.Fatal("import of an unknown program should fail")
	}

	out, err := execute(t, dir, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no sessions") {
		t.Fatalf("failed import must not write anything, got %q", out)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "export", "--format", "xml"); err == nil {
		t.Fatal("export --format xml should fail")
	}
}

func TestCatalogFlagAddsProgram(t *testing.T) {
	dir := t.TempDir()
	cat := filepath.Join(dir, "catalog.yaml")
	yamlDoc := `programs:
  - id: c
    name: Custom
    exercises:
      - id: c-edge
        name: Edge
        num_sets: 1
        reps_per_set: 3
`
	if err := os.WriteFile(cat, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "import.json")
	doc := strings.Replace(importDoc, `"workoutType": "a"`, `"workoutType": "c"`, 1)
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "--catalog", cat, "import", file); err != nil {
		t.Fatalf("import with custom catalog: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	start := time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	r := history.Record{
		WorkoutType: "b",
		StartedAt:   start,
		CompletedAt: start,
		Bailed:      true,
		Holds:       []history.HoldRecord{{HoldID: "b-jug"}},
	}
	got := summarize(r)
	want := "2026-10-14 07:00\tb\t—\tbailed\t1 holds"
	if got != want {
		t.Fatalf("summarize = %q, want %q", got, want)
	}
}

func TestTracePhasesLogsStateChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := session.New(catalog.Default(), session.Options{})
	off := tracePhases(e, logger)
	if err := e.Select(catalog.ProgramRepeaters); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "phase=prep") {
		t.Fatalf("log missing the prep transition:\n%s", buf.String())
	}

	off()
	buf.Reset()
	e.Bail()
	if buf.Len() != 0 {
		t.Fatalf("removed tracer still logging: %s", buf.String())
	}
}
