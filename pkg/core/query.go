package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Predicate selects documents.
type Predicate func(Document) bool

// SortKey names a document field that can be ordered on.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByTitle SortKey = "title"
	SortByID    SortKey = "id"
)

// SortBy is one ordering criterion.
type SortBy struct {
	Key        SortKey
	Descending bool
}

// DefaultSort is the fetch-all order: most recent first.
var DefaultSort = []SortBy{{Key: SortByDate, Descending: true}}

// ParseSort reads "date", "-date", "title" or "-title" style expressions.
func ParseSort(expr string) (SortBy, error) {
	desc := strings.HasPrefix(expr, "-")
	key := SortKey(strings.TrimPrefix(expr, "-"))
	switch key {
	case SortByDate, SortByTitle, SortByID:
		return SortBy{Key: key, Descending: desc}, nil
	}
	return SortBy{}, fmt.Errorf("%w: unknown sort key %q", ErrInvalid, key)
}

// Query filters and orders documents. The zero Query matches everything and
// keeps the backend's natural order.
type Query struct {
	Where Predicate
	Sort  []SortBy
}

// Apply filters docs in place and sorts them. Sorting is stable, so documents
// that compare equal keep their natural order.
func (q Query) Apply(docs []Document) []Document {
	if q.Where != nil {
		docs = slices.DeleteFunc(docs, func(d Document) bool { return !q.Where(d) })
	}
	if len(q.Sort) > 0 {
		slices.SortStableFunc(docs, q.compare)
	}
	return docs
}

func (q Query) compare(a, b Document) int {
	for _, s := range q.Sort {
		var c int
		switch s.Key {
		case SortByDate:
			c = a.Date.Compare(b.Date)
		case SortByTitle:
			c = cmp.Compare(a.Title, b.Title)
		case SortByID:
			c = cmp.Compare(a.ID, b.ID)
		}
		if s.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
