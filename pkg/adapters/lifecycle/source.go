// Package lifecycle exposes vault change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/dreamdiary/pkg/core"
)

type vaultSource struct {
	events <-chan core.Event
	kinds  []core.Kind
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the events of the given
// kinds, or of every kind when none is given. The source's channel closes
// when events closes or the context passed to Start is done.
func NewSource(events <-chan core.Event, kinds ...core.Kind) lifecycle.Source {
	return &vaultSource{
		events: events,
		kinds:  kinds,
		out:    make(chan lifecycle.Event),
	}
}

func (s *vaultSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *vaultSource) wants(k core.Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, k)
}

func (s *vaultSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.wants(e.Kind) {
					continue
				}
				// core.Event has String(), which is all lifecycle.Event asks for.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
