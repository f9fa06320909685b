package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is one unit of work on the tape, usually a single module.
type Vertex struct {
	vertex *progrock.VertexRecorder
	done   func(err error, cached bool)

	once   sync.Once
	cached bool
}

// Stdout returns the vertex output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Log writes a level-prefixed line. Warnings and errors go to the error stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.vertex.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.vertex.Stderr()
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", level, msg)
}

// Complete finishes the vertex. Only the first call is counted.
func (v *Vertex) Complete(err error) {
	v.once.Do(func() {
		v.vertex.Done(err)
		if v.done != nil {
			v.done(err, v.cached)
		}
	})
}

// Cached marks the module as left untouched.
func (v *Vertex) Cached() {
	v.cached = true
	v.vertex.Cached()
}
