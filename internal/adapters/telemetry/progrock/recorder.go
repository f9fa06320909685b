// Package progrock records signing progress on a progrock tape.
package progrock

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/signet/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Summary counts finished vertices by result.
type Summary struct {
	Done   int
	Failed int
	Cached int
}

// Recorder implements ports.Telemetry on top of a progrock writer.
// Each recorded unit of work gets its own vertex, even when a module is
// recorded more than once in a run.
type Recorder struct {
	w      progrock.Writer
	rec    *progrock.Recorder
	logger ports.Logger

	mu      sync.Mutex
	seq     int
	summary Summary
}

// New creates a Recorder writing to an in-memory tape. A nil logger disables
// the closing summary.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(progrock.NewTape(), logger)
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer, logger ports.Logger) *Recorder {
	return &Recorder{
		w:      w,
		rec:    progrock.NewRecorder(w),
		logger: logger,
	}
}

// Record starts a vertex named after the unit of work.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	r.seq++
	id := digest.FromString(strconv.Itoa(r.seq) + "/" + name)
	r.mu.Unlock()

	return ctx, &Vertex{vertex: r.rec.Vertex(id, name), done: r.finish}
}

// Summary returns the counts of vertices finished so far.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

func (r *Recorder) finish(err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case err != nil:
		r.summary.Failed++
	case cached:
		r.summary.Cached++
	default:
		r.summary.Done++
	}
}

// Close logs the run summary and closes the writer when it supports it.
func (r *Recorder) Close() error {
	if r.logger != nil {
		s := r.Summary()
		r.logger.Debug(fmt.Sprintf("progress recorded: %d done, %d failed, %d unchanged",
			s.Done, s.Failed, s.Cached))
	}
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
