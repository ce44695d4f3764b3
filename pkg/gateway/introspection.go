package gateway

import (
	"fmt"

	"github.com/aretw0/introspection"
)

// State exposes the worker counters for observability.
type State struct {
	Backend  string `json:"backend"`
	Accepted uint64 `json:"accepted_operations"`
	Failed   uint64 `json:"failed_operations"`
	Waiting  int64  `json:"waiting_callers"`
	Closed   bool   `json:"closed"`
}

// State implements introspection.Introspectable.
func (g *Gateway) State() any {
	backend := fmt.Sprintf("%T", g.backend)
	if comp, ok := g.backend.(introspection.Component); ok {
		backend = comp.ComponentType()
	}

	closed := false
	select {
	case <-g.quit:
		closed = true
	default:
	}

	return State{
		Backend:  backend,
		Accepted: g.accepted.Load(),
		Failed:   g.failed.Load(),
		Waiting:  g.waiting.Load(),
		Closed:   closed,
	}
}

// ComponentType implements introspection.Component.
func (g *Gateway) ComponentType() string {
	return "gateway"
}

var _ introspection.Introspectable = (*Gateway)(nil)
var _ introspection.Component = (*Gateway)(nil)
