// Package telemetry provides the default telemetry adapter, which records nothing.
// The progrock subpackage records a live tape for the progress view.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/lockguard/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop is a ports.Telemetry that discards every vertex.
type Noop struct{}

// NewNoop creates a Noop.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns ctx carrying a vertex that does nothing.
func (*Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (*Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Log(string)        {}
func (noopVertex) Complete(error)    {}
func (noopVertex) Cached()           {}
