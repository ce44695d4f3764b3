// Package memory provides an in-process Backend. Nothing survives Close; it
// backs ephemeral diaries and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/dreamdiary/pkg/core"
)

type key struct {
	kind core.Kind
	id   string
}

// Backend keeps documents in insertion order.
type Backend struct {
	mu    sync.RWMutex
	docs  map[key]core.Document
	order []key
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{docs: make(map[key]core.Document)}
}

func (b *Backend) Initialize(ctx context.Context) error { return nil }

func (b *Backend) List(ctx context.Context, kind core.Kind) ([]core.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []core.Document
	for _, k := range b.order {
		if k.kind == kind {
			out = append(out, b.docs[k].Clone())
		}
	}
	return out, nil
}

func (b *Backend) Get(ctx context.Context, kind core.Kind, id string) (core.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	doc, ok := b.docs[key{kind, id}]
	if !ok {
		return core.Document{}, core.ErrNotFound
	}
	return doc.Clone(), nil
}

func (b *Backend) Put(ctx context.Context, doc core.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no ID", core.ErrInvalid)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{doc.Kind, doc.ID}
	if _, ok := b.docs[k]; !ok {
		b.order = append(b.order, k)
	}
	b.docs[k] = doc.Clone()
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind core.Kind, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{kind, id}
	if _, ok := b.docs[k]; !ok {
		return core.ErrNotFound
	}
	delete(b.docs, k)
	for i, o := range b.order {
		if o == k {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *Backend) Count(ctx context.Context, kind core.Kind) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for k := range b.docs {
		if k.kind == kind {
			n++
		}
	}
	return n, nil
}

func (b *Backend) Close() error { return nil }

var _ core.Backend = (*Backend)(nil)
