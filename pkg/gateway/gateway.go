// Package gateway serializes all access to the backing store.
//
// A Gateway owns a core.Backend exclusively and runs every operation on a
// single worker goroutine, so no two operations ever overlap and all writes
// are linearized in the order the worker accepts them. Callers block until
// their operation has run; a caller may stop waiting by cancelling its
// context, but an operation the worker has already accepted still runs to
// completion.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/dreamdiary/pkg/core"
)

type request struct {
	ctx    context.Context
	fn     func(ctx context.Context, b core.Backend) error
	result chan error
}

// Gateway is the single logical writer in front of a Backend.
type Gateway struct {
	backend core.Backend
	logger  *slog.Logger

	requests  chan *request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	accepted atomic.Uint64
	failed   atomic.Uint64
	waiting  atomic.Int64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for failed operations.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New starts a gateway over an initialized backend. The worker runs until Close.
func New(backend core.Backend, opts ...Option) *Gateway {
	g := &Gateway{
		backend:  backend,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		requests: make(chan *request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	lifecycle.Go(context.Background(), func(ctx context.Context) error {
		defer close(g.done)
		g.run()
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		g.logger.Error("storage worker stopped", "error", err)
	}))

	return g
}

func (g *Gateway) run() {
	for {
		select {
		case <-g.quit:
			return
		case req := <-g.requests:
			g.accepted.Add(1)
			req.result <- g.execute(req)
		}
	}
}

func (g *Gateway) execute(req *request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage operation panicked: %v", r)
		}
	}()
	return req.fn(req.ctx, g.backend)
}

// do hands fn to the worker and waits for its result.
func (g *Gateway) do(ctx context.Context, fn func(ctx context.Context, b core.Backend) error) error {
	req := &request{
		// Accepted operations must finish even if the caller goes away.
		ctx:    context.WithoutCancel(ctx),
		fn:     fn,
		result: make(chan error, 1),
	}

	g.waiting.Add(1)
	defer g.waiting.Add(-1)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.quit:
		return core.ErrClosed
	case g.requests <- req:
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) fail(op core.StorageOp, kind core.Kind, id string, err error) error {
	if err == nil {
		return nil
	}
	// Abandoned waits are the caller's doing, not a storage failure.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	g.failed.Add(1)
	g.logger.Debug("storage operation failed", "op", op.String(), "kind", kind, "id", id, "error", err)
	return &core.StorageError{Op: op, Kind: kind, ID: id, Err: err}
}

func checkKind(kind core.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", core.ErrInvalid, kind)
	}
	return nil
}

func checkDocument(doc core.Document) error {
	if err := checkKind(doc.Kind); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no ID", core.ErrInvalid)
	}
	return nil
}

// Fetch returns the documents of a kind matching q, ordered per q.Sort.
// The predicate runs on the worker and must not call back into the gateway.
func (g *Gateway) Fetch(ctx context.Context, kind core.Kind, q core.Query) ([]core.Document, error) {
	var out []core.Document
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkKind(kind); err != nil {
			return err
		}
		docs, err := b.List(ctx, kind)
		if err != nil {
			return err
		}
		out = q.Apply(docs)
		return nil
	})
	if err != nil {
		return nil, g.fail(core.QueryFailed, kind, "", err)
	}
	return out, nil
}

// Get returns a single document.
func (g *Gateway) Get(ctx context.Context, kind core.Kind, id string) (core.Document, error) {
	var out core.Document
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkKind(kind); err != nil {
			return err
		}
		doc, err := b.Get(ctx, kind, id)
		out = doc
		return err
	})
	if err != nil {
		return core.Document{}, g.fail(core.QueryFailed, kind, id, err)
	}
	return out, nil
}

// Insert adds a new document. An existing identity is rejected with ErrDuplicate.
func (g *Gateway) Insert(ctx context.Context, doc core.Document) error {
	doc = doc.Clone()
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkDocument(doc); err != nil {
			return err
		}
		if _, err := b.Get(ctx, doc.Kind, doc.ID); err == nil {
			return core.ErrDuplicate
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		return b.Put(ctx, doc)
	})
	return g.fail(core.WriteFailed, doc.Kind, doc.ID, err)
}

// Delete removes an existing document.
func (g *Gateway) Delete(ctx context.Context, kind core.Kind, id string) error {
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkKind(kind); err != nil {
			return err
		}
		return b.Delete(ctx, kind, id)
	})
	return g.fail(core.WriteFailed, kind, id, err)
}

// Save persists the current field values of an existing document.
// It never creates a second record: a missing identity fails with ErrNotFound.
func (g *Gateway) Save(ctx context.Context, doc core.Document) error {
	doc = doc.Clone()
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkDocument(doc); err != nil {
			return err
		}
		if _, err := b.Get(ctx, doc.Kind, doc.ID); err != nil {
			return err
		}
		return b.Put(ctx, doc)
	})
	return g.fail(core.WriteFailed, doc.Kind, doc.ID, err)
}

// Modify loads a document, applies fn and writes the result in one step.
// No other operation can run between the read and the write.
func (g *Gateway) Modify(ctx context.Context, kind core.Kind, id string, fn func(*core.Document) error) (core.Document, error) {
	var out core.Document
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkKind(kind); err != nil {
			return err
		}
		doc, err := b.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		if err := fn(&doc); err != nil {
			return err
		}
		if doc.ID != id || doc.Kind != kind {
			return fmt.Errorf("%w: identity cannot change", core.ErrInvalid)
		}
		if err := b.Put(ctx, doc); err != nil {
			return err
		}
		out = doc.Clone()
		return nil
	})
	if err != nil {
		return core.Document{}, g.fail(core.WriteFailed, kind, id, err)
	}
	return out, nil
}

// Count returns the number of persisted documents of a kind.
func (g *Gateway) Count(ctx context.Context, kind core.Kind) (int, error) {
	var n int
	err := g.do(ctx, func(ctx context.Context, b core.Backend) error {
		if err := checkKind(kind); err != nil {
			return err
		}
		c, err := b.Count(ctx, kind)
		n = c
		return err
	})
	if err != nil {
		return 0, g.fail(core.QueryFailed, kind, "", err)
	}
	return n, nil
}

// Backend exposes the owned backend for capability checks such as
// core.Watchable. Callers must not use it to read or write records.
func (g *Gateway) Backend() core.Backend {
	return g.backend
}

// Close stops the worker after the operation in flight and closes the backend.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		close(g.quit)
		<-g.done
		g.closeErr = g.backend.Close()
	})
	return g.closeErr
}
