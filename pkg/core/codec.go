package core

// Codec converts an entity type to the Document stored by backends.
// Encode must be total; Decode rejects documents that do not describe a valid T.
type Codec[T any] struct {
	Kind   Kind
	Encode func(T) Document
	Decode func(Document) (T, error)
}
