package core

import (
	"errors"
	"fmt"
)

// Causes carried inside StorageError.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrInvalid   = errors.New("invalid record")
	ErrClosed    = errors.New("storage is closed")
)

// StorageOp classifies a storage failure.
type StorageOp int

const (
	QueryFailed StorageOp = iota + 1
	WriteFailed
)

func (o StorageOp) String() string {
	switch o {
	case QueryFailed:
		return "query failed"
	case WriteFailed:
		return "write failed"
	}
	return "storage failed"
}

// Targets for errors.Is on a *StorageError.
var (
	ErrQueryFailed = &StorageError{Op: QueryFailed}
	ErrWriteFailed = &StorageError{Op: WriteFailed}
)

// StorageError is returned by every gateway operation that fails.
type StorageError struct {
	Op   StorageOp
	Kind Kind
	ID   string
	Err  error
}

func (e *StorageError) Error() string {
	msg := e.Op.String()
	if e.Kind != "" {
		msg += " (" + string(e.Kind)
		if e.ID != "" {
			msg += "/" + e.ID
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches another StorageError with the same Op, so callers can test
// errors.Is(err, core.ErrWriteFailed).
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	return ok && t.Err == nil && t.Kind == "" && t.Op == e.Op
}

// SeedReason classifies a seed resource failure.
type SeedReason int

const (
	FileNotFound SeedReason = iota + 1
	DecodingFailed
)

func (r SeedReason) String() string {
	switch r {
	case FileNotFound:
		return "seed file not found"
	case DecodingFailed:
		return "seed decoding failed"
	}
	return "seed failed"
}

// Targets for errors.Is on a *SeedError.
var (
	ErrFileNotFound   = &SeedError{Reason: FileNotFound}
	ErrDecodingFailed = &SeedError{Reason: DecodingFailed}
)

// SeedError is returned by seed providers that cannot produce their records.
type SeedError struct {
	Reason   SeedReason
	Resource string
	Err      error
}

func (e *SeedError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.Resource)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SeedError) Unwrap() error { return e.Err }

func (e *SeedError) Is(target error) bool {
	t, ok := target.(*SeedError)
	return ok && t.Err == nil && t.Resource == "" && t.Reason == e.Reason
}
