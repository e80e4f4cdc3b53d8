package session

import (
	"log/slog"
	"sync"

	"github.com/sadopc/hangboard/internal/history"
	"github.com/sadopc/hangboard/internal/weights"
)

const recorderQueue = 64

// Backend is the durable storage written by AsyncRecorder.
type Backend interface {
	AddSession(r history.Record) error
	SaveWeight(program, exerciseID string, p weights.Pair) error
	ResetWeights(program string) error
}

type job struct {
	op  string
	run func() error
}

// AsyncRecorder performs Backend writes on a single worker goroutine.
// Calls never block; a failed or dropped write is logged.
type AsyncRecorder struct {
	backend Backend
	logger  *slog.Logger
	jobs    chan job
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewAsyncRecorder(b Backend, logger *slog.Logger) *AsyncRecorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &AsyncRecorder{
		backend: b,
		logger:  logger,
		jobs:    make(chan job, recorderQueue),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *AsyncRecorder) loop() {
	defer close(r.done)
	for j := range r.jobs {
		if err := j.run(); err != nil {
			r.logger.Error("persist failed", "op", j.op, "error", err)
		}
	}
}

func (r *AsyncRecorder) submit(op string, run func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("recorder closed, write dropped", "op", op)
		return
	}
	select {
	case r.jobs <- job{op: op, run: run}:
	default:
		r.logger.Warn("write queue full, write dropped", "op", op)
	}
}

func (r *AsyncRecorder) SaveSession(rec history.Record) {
	r.submit("save_session", func() error { return r.backend.AddSession(rec) })
}

func (r *AsyncRecorder) SaveWeight(program, exerciseID string, p weights.Pair) {
	r.submit("save_weight", func() error { return r.backend.SaveWeight(program, exerciseID, p) })
}

func (r *AsyncRecorder) ResetWeights(program string) {
	r.submit("reset_weights", func() error { return r.backend.ResetWeights(program) })
}

// Close stops accepting writes and waits for queued ones to finish.
func (r *AsyncRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	<-r.done
}
