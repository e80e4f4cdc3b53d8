package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/hangboard/internal/catalog"
	"github.com/sadopc/hangboard/internal/cue"
	"github.com/sadopc/hangboard/internal/engine"
	"github.com/sadopc/hangboard/internal/export"
	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/session"
	"github.com/sadopc/hangboard/internal/store"
	"github.com/sadopc/hangboard/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dbPath      string
	catalogPath string
	logPath     string
	debug       bool
}

// deps are the resources every command opens.
type deps struct {
	store    *store.Store
	registry *catalog.Registry
	logger   *slog.Logger
	logFile  io.Closer
}

func (d *deps) Close() {
	d.store.Close()
	if d.logFile != nil {
		d.logFile.Close()
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "hangboard",
		Short:         "Hangboard training timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := open(opts)
			if err != nil {
				return err
			}
			defer d.Close()
			return runTUI(d)
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (default <config dir>/hangboard/hangboard.db)")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML file with extra or replacement programs")
	root.PersistentFlags().StringVar(&opts.logPath, "log", "", "log file path (default <config dir>/hangboard/hangboard.log)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	root.AddCommand(newExportCmd(&opts))
	root.AddCommand(newImportCmd(&opts))
	root.AddCommand(newHistoryCmd(&opts))
	return root
}

func open(opts options) (*deps, error) {
	logger, logFile, err := openLogger(opts.logPath, opts.debug)
	if err != nil {
		return nil, err
	}

	reg := catalog.Default()
	if opts.catalogPath != "" {
		if err := catalog.LoadFile(reg, opts.catalogPath); err != nil {
			logFile.Close()
			return nil, err
		}
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			logFile.Close()
			return nil, err
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger.Info("opened", "db", dbPath, "programs", strings.Join(reg.IDs(), ","))
	return &deps{store: s, registry: reg, logger: logger, logFile: logFile}, nil
}

func openLogger(path string, debug bool) (*slog.Logger, *os.File, error) {
	if path == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(cfg, "hangboard", "hangboard.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

func runTUI(d *deps) error {
	rec := session.NewAsyncRecorder(d.store, d.logger)
	defer rec.Close()

	eng := session.New(d.registry, session.Options{
		Logger:    d.logger,
		Notifier:  cue.Multi{cue.NewBell(os.Stderr), cue.Log{Logger: d.logger}},
		Loader:    d.store,
		Persister: rec,
	})
	defer tracePhases(eng, d.logger)()
	if err := tui.ApplySettings(eng, d.store); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewApp(eng, d.store, nil), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// tracePhases logs every committed state change at debug level.
func tracePhases(e *session.Engine, logger *slog.Logger) func() {
	return e.OnStateChanged(func(s engine.State) {
		logger.Debug("state changed", "phase", s.Phase, "hold", s.HoldIndex,
			"set", s.SetNumber, "rep", s.RepIndex, "paused", s.Paused)
	})
}

func newExportCmd(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session history as JSON or CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q: want json or csv", format)
			}
			d, err := open(*opts)
			if err != nil {
				return err
			}
			defer d.Close()

			records, err := d.store.ListSessions()
			if err != nil {
				return err
			}
			if out == "-" {
				if format == "csv" {
					return export.WriteCSV(cmd.OutOrStdout(), records)
				}
				return export.WriteJSON(cmd.OutOrStdout(), records)
			}
			if out == "" {
				out = fmt.Sprintf("hangboard-export-%s.%s", time.Now().Format("2006-01-02"), format)
			}
			if format == "csv" {
				err = export.ToCSV(records, out)
			} else {
				err = export.ToJSON(records, out)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|csv")
	cmd.Flags().StringVar(&out, "out", "", "output file, - for stdout")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import sessions from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := open(*opts)
			if err != nil {
				return err
			}
			defer d.Close()

			records, err := export.ReadImportFile(args[0], d.registry.Has)
			if err != nil {
				return err
			}
			if err := d.store.ImportSessions(records); err != nil {
				return err
			}
			d.logger.Info("sessions imported", "file", args[0], "count", len(records))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d sessions\n", len(records))
			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open(*opts)
			if err != nil {
				return err
			}
			defer d.Close()

			records, err := d.store.ListSessions()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(w, "no sessions")
				return nil
			}
			for i, r := range records {
				if limit > 0 && i >= limit {
					break
				}
				_, _ = fmt.Fprintln(w, summarize(r))
			}
			stats := history.ComputeStats(records)
			_, _ = fmt.Fprintf(w, "%d sessions, %d completed\n", len(records), stats.TotalCompleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to print, 0 for all")
	return cmd
}

func summarize(r history.Record) string {
	status := "completed"
	if r.Bailed {
		status = "bailed"
	}
	if r.Imported {
		status += ",imported"
	}
	line := fmt.Sprintf("%s\t%s\t%s\t%s\t%d holds", r.StartedAt.Format("2006-01-02 15:04"), r.WorkoutType,
		history.FormatDuration(r), status, len(r.Holds))
	if r.Notes != "" {
		line += "\t" + r.Notes
	}
	return line
}
