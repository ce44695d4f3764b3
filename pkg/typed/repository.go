// Package typed provides the per-entity repositories used by the rest of the
// application. A Repository converts between an entity type and core.Document
// and routes every call through the gateway; it holds no state of its own.
package typed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// Gateway is the subset of the storage gateway a Repository needs.
type Gateway interface {
	Fetch(ctx context.Context, kind core.Kind, q core.Query) ([]core.Document, error)
	Get(ctx context.Context, kind core.Kind, id string) (core.Document, error)
	Insert(ctx context.Context, doc core.Document) error
	Delete(ctx context.Context, kind core.Kind, id string) error
	Save(ctx context.Context, doc core.Document) error
	Modify(ctx context.Context, kind core.Kind, id string, fn func(*core.Document) error) (core.Document, error)
}

// Repository is a type-safe façade over the gateway for one entity kind.
type Repository[T any] struct {
	gw    Gateway
	codec core.Codec[T]
	now   func() time.Time
}

// NewRepository creates a repository for the kind described by codec.
func NewRepository[T any](gw Gateway, codec core.Codec[T]) *Repository[T] {
	return &Repository[T]{gw: gw, codec: codec, now: time.Now}
}

// NewDreams creates the dream repository.
func NewDreams(gw Gateway) *Repository[core.Dream] {
	return NewRepository(gw, core.DreamCodec)
}

// NewTechniques creates the technique repository.
func NewTechniques(gw Gateway) *Repository[core.Technique] {
	return NewRepository(gw, core.TechniqueCodec)
}

// Kind returns the kind this repository stores.
func (r *Repository[T]) Kind() core.Kind {
	return r.codec.Kind
}

// FetchAll returns every record, most recent first.
func (r *Repository[T]) FetchAll(ctx context.Context) ([]T, error) {
	return r.fetch(ctx, core.Query{Sort: core.DefaultSort})
}

// Fetch returns the records matching where (nil matches all) in the given
// order. With no sort criteria the backend's natural order is kept.
func (r *Repository[T]) Fetch(ctx context.Context, where func(T) bool, sort ...core.SortBy) ([]T, error) {
	q := core.Query{Sort: sort}
	if where != nil {
		// Undecodable records are kept so that fetch reports them.
		q.Where = func(doc core.Document) bool {
			v, err := r.codec.Decode(doc)
			return err != nil || where(v)
		}
	}
	return r.fetch(ctx, q)
}

func (r *Repository[T]) fetch(ctx context.Context, q core.Query) ([]T, error) {
	docs, err := r.gw.Fetch(ctx, r.codec.Kind, q)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.codec.Decode(d)
		if err != nil {
			return nil, &core.StorageError{Op: core.QueryFailed, Kind: d.Kind, ID: d.ID, Err: err}
		}
		result = append(result, v)
	}
	return result, nil
}

// Get retrieves a record by identity.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.gw.Get(ctx, r.codec.Kind, id)
	if err != nil {
		return zero, err
	}
	v, err := r.codec.Decode(doc)
	if err != nil {
		return zero, &core.StorageError{Op: core.QueryFailed, Kind: doc.Kind, ID: doc.ID, Err: err}
	}
	return v, nil
}

// Create inserts a new record. A missing identity is generated and a zero
// date becomes now; the stored value is returned.
func (r *Repository[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	doc := r.codec.Encode(item)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Date.IsZero() {
		doc.Date = r.now()
	}
	if err := r.gw.Insert(ctx, doc); err != nil {
		return zero, err
	}
	v, err := r.codec.Decode(doc)
	if err != nil {
		return zero, fmt.Errorf("decode created %s: %w", r.codec.Kind, err)
	}
	return v, nil
}

// Delete removes the record with item's identity.
func (r *Repository[T]) Delete(ctx context.Context, item T) error {
	return r.gw.Delete(ctx, r.codec.Kind, r.codec.Encode(item).ID)
}

// Update persists item's current field values under its identity.
// The record must already exist; Update never creates a second one.
func (r *Repository[T]) Update(ctx context.Context, item T) error {
	return r.gw.Save(ctx, r.codec.Encode(item))
}

// Modify applies fn to the stored record and persists the result atomically.
func (r *Repository[T]) Modify(ctx context.Context, id string, fn func(*T)) (T, error) {
	var zero T
	doc, err := r.gw.Modify(ctx, r.codec.Kind, id, func(d *core.Document) error {
		v, err := r.codec.Decode(*d)
		if err != nil {
			return err
		}
		fn(&v)
		*d = r.codec.Encode(v)
		return nil
	})
	if err != nil {
		return zero, err
	}
	return r.codec.Decode(doc)
}
