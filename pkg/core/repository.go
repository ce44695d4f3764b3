package core

import "context"

// Backend defines the contract for the durable store holding documents.
// Implementations are not required to be safe for concurrent use: the
// gateway is their only caller and never overlaps two calls.
type Backend interface {
	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error

	// List returns every document of a kind in the backend's natural order.
	List(ctx context.Context, kind Kind) ([]Document, error)

	// Get retrieves a document, returning ErrNotFound if it does not exist.
	Get(ctx context.Context, kind Kind, id string) (Document, error)

	// Put durably writes a document, replacing any previous version with the same identity.
	Put(ctx context.Context, doc Document) error

	// Delete removes a document, returning ErrNotFound if it does not exist.
	Delete(ctx context.Context, kind Kind, id string) error

	// Count returns the number of documents of a kind.
	Count(ctx context.Context, kind Kind) (int, error)

	// Close releases resources.
	Close() error
}

// Watchable is implemented by backends that can report changes made to the
// store by other processes.
type Watchable interface {
	// Watch emits events until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan Event, error)
}
