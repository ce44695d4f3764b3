// Package core holds the domain of the diary: the entities, the storage-level
// Document they are persisted as, the Backend port and the error taxonomy.
package core

import (
	"maps"
	"time"
)

// Kind identifies an entity collection in the backing store.
type Kind string

const (
	KindDream     Kind = "dream"
	KindTechnique Kind = "technique"
)

// Kinds lists every kind the backing store knows about.
var Kinds = []Kind{KindDream, KindTechnique}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDream, KindTechnique:
		return true
	}
	return false
}

// Dir is the collection name used by file and table based backends.
func (k Kind) Dir() string {
	return string(k) + "s"
}

// Metadata represents the kind-specific fields of a document.
type Metadata map[string]string

// Document is the storage-level record.
// Every entity is encoded into a Document before it reaches a Backend.
type Document struct {
	ID       string
	Kind     Kind
	Title    string
	Date     time.Time
	Content  string
	Metadata Metadata
}

// Clone returns a copy that shares no mutable state with d.
func (d Document) Clone() Document {
	c := d
	if d.Metadata != nil {
		c.Metadata = maps.Clone(d.Metadata)
	}
	return c
}

// EventType represents the type of change observed in the backing store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the backing store made outside the gateway,
// e.g. by a sync client writing into the vault.
type Event struct {
	Type      EventType
	Kind      Kind
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + string(e.Kind) + "/" + e.ID
}
