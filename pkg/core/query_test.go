package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/core"
)

func docAt(id, title string, day int) core.Document {
	return core.Document{
		ID:    id,
		Kind:  core.KindDream,
		Title: title,
		Date:  time.Date(2025, 6, day, 8, 0, 0, 0, time.UTC),
	}
}

func ids(docs []core.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestQuery_DefaultSortIsMostRecentFirst(t *testing.T) {
	docs := []core.Document{docAt("a", "A", 3), docAt("b", "B", 10), docAt("c", "C", 1), docAt("d", "D", 7)}

	got := core.Query{Sort: core.DefaultSort}.Apply(docs)

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))
}

func TestQuery_FilterAndAlternateOrder(t *testing.T) {
	docs := []core.Document{docAt("a", "Zeta", 3), docAt("b", "Alpha", 10), docAt("c", "Mu", 1)}
	cutoff := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	got := core.Query{
		Where: func(d core.Document) bool { return d.Date.After(cutoff) },
		Sort:  []core.SortBy{{Key: core.SortByTitle}},
	}.Apply(docs)

	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestQuery_ZeroValueKeepsNaturalOrder(t *testing.T) {
	docs := []core.Document{docAt("c", "", 1), docAt("a", "", 9), docAt("b", "", 5)}

	got := core.Query{}.Apply(docs)

	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestQuery_TiesAreStable(t *testing.T) {
	docs := []core.Document{docAt("x", "", 4), docAt("y", "", 4), docAt("z", "", 4)}

	got := core.Query{Sort: core.DefaultSort}.Apply(docs)

	assert.Equal(t, []string{"x", "y", "z"}, ids(got))
}

func TestParseSort(t *testing.T) {
	s, err := core.ParseSort("-title")
	require.NoError(t, err)
	assert.Equal(t, core.SortBy{Key: core.SortByTitle, Descending: true}, s)

	_, err = core.ParseSort("mood")
	assert.ErrorIs(t, err, core.ErrInvalid)
}
