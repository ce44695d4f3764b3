// Package seed populates an empty store with bundled starter records.
//
// Each Provider produces the records for one entity kind. The Seeder runs the
// providers in registration order, inserting a provider's records only the
// first time it finds neither a completion flag nor any existing data.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// Provider produces the initial records of one entity type.
type Provider[T any] interface {
	// Key identifies the provider across releases. It must never change.
	Key() string
	// Load returns the records in insertion order.
	Load(ctx context.Context) ([]T, error)
}

// Source is a Provider bound to the codec of its entity kind.
type Source interface {
	Key() string
	Kind() core.Kind
	Load(ctx context.Context) ([]core.Document, error)
}

// Bind turns a typed provider into a Source.
func Bind[T any](p Provider[T], codec core.Codec[T]) Source {
	return &boundSource[T]{provider: p, codec: codec}
}

type boundSource[T any] struct {
	provider Provider[T]
	codec    core.Codec[T]
}

func (s *boundSource[T]) Key() string     { return s.provider.Key() }
func (s *boundSource[T]) Kind() core.Kind { return s.codec.Kind }

func (s *boundSource[T]) Load(ctx context.Context) ([]core.Document, error) {
	items, err := s.provider.Load(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]core.Document, 0, len(items))
	for _, it := range items {
		doc := s.codec.Encode(it)
		if doc.Kind != s.codec.Kind {
			return nil, fmt.Errorf("provider %s produced a %s record", s.Key(), doc.Kind)
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
