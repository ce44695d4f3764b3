package typed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/adapters/memory"
	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/aretw0/dreamdiary/pkg/gateway"
	"github.com/aretw0/dreamdiary/pkg/typed"
)

func setup(t *testing.T) *gateway.Gateway {
	t.Helper()
	g := gateway.New(memory.New())
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func dreamOn(title string, day int, typ core.DreamType) core.Dream {
	d := core.NewDream(title, core.Night, "content of "+title, typ)
	d.Date = time.Date(2025, 3, day, 7, 30, 0, 0, time.UTC)
	return d
}

func titles[T any](items []T, title func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, title(it))
	}
	return out
}

func dreamTitle(d core.Dream) string { return d.Title }

func TestRepository_FetchAllIsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	dreams := typed.NewDreams(setup(t))

	for _, d := range []core.Dream{dreamOn("mid", 10, core.Normal), dreamOn("old", 2, core.Lucid), dreamOn("new", 20, core.Nightmare)} {
		_, err := dreams.Create(ctx, d)
		require.NoError(t, err)
	}

	all, err := dreams.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, titles(all, dreamTitle))
}

func TestRepository_FetchWithPredicateAndSort(t *testing.T) {
	ctx := context.Background()
	dreams := typed.NewDreams(setup(t))
	for _, d := range []core.Dream{dreamOn("b", 1, core.Lucid), dreamOn("c", 2, core.Normal), dreamOn("a", 3, core.Lucid)} {
		_, err := dreams.Create(ctx, d)
		require.NoError(t, err)
	}

	lucid, err := dreams.Fetch(ctx, func(d core.Dream) bool { return d.Type == core.Lucid },
		core.SortBy{Key: core.SortByTitle})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(lucid, dreamTitle))
}

func TestRepository_UpdateByReference(t *testing.T) {
	ctx := context.Background()
	dreams := typed.NewDreams(setup(t))
	_, err := dreams.Create(ctx, dreamOn("draft", 5, core.Normal))
	require.NoError(t, err)

	all, err := dreams.FetchAll(ctx)
	require.NoError(t, err)
	d := all[0]
	d.Title = "final"
	d.Type = core.Lucid
	d.TimeOfDay = core.Morning
	require.NoError(t, dreams.Update(ctx, d))

	again, err := dreams.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, d.ID, again[0].ID)
	assert.Equal(t, "final", again[0].Title)
	assert.Equal(t, core.Lucid, again[0].Type)
	assert.Equal(t, core.Morning, again[0].TimeOfDay)
}

func TestRepository_UpdateUnknownFails(t *testing.T) {
	dreams := typed.NewDreams(setup(t))
	err := dreams.Update(context.Background(), dreamOn("nowhere", 1, core.Normal))
	assert.ErrorIs(t, err, core.ErrWriteFailed)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_DeleteCompleteness(t *testing.T) {
	ctx := context.Background()
	techniques := typed.NewTechniques(setup(t))
	keep, err := techniques.Create(ctx, core.NewTechnique("keep", "", "star"))
	require.NoError(t, err)
	drop, err := techniques.Create(ctx, core.NewTechnique("drop", "", "moon"))
	require.NoError(t, err)

	require.NoError(t, techniques.Delete(ctx, drop))

	all, err := techniques.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	_, err = techniques.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_CreateFillsIdentityAndDate(t *testing.T) {
	ctx := context.Background()
	techniques := typed.NewTechniques(setup(t))

	created, err := techniques.Create(ctx, core.Technique{Title: "WBTB", Symbol: "alarm"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Date.IsZero())

	got, err := techniques.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alarm", got.Symbol)
}

func TestRepository_Modify(t *testing.T) {
	ctx := context.Background()
	dreams := typed.NewDreams(setup(t))
	d, err := dreams.Create(ctx, dreamOn("chase", 4, core.Normal))
	require.NoError(t, err)

	out, err := dreams.Modify(ctx, d.ID, func(d *core.Dream) { d.Type = core.Nightmare })
	require.NoError(t, err)
	assert.Equal(t, core.Nightmare, out.Type)

	got, err := dreams.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Nightmare, got.Type)
	assert.Equal(t, "chase", got.Title)
}

func TestRepository_FetchReportsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	gw := setup(t)
	dreams := typed.NewDreams(gw)

	_, err := dreams.Create(ctx, dreamOn("fine", 1, core.Lucid))
	require.NoError(t, err)
	require.NoError(t, gw.Insert(ctx, core.Document{
		ID:       "broken",
		Kind:     core.KindDream,
		Title:    "broken",
		Date:     time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Metadata: core.Metadata{"type": "daydream", "time_of_day": "night"},
	}))

	_, err = dreams.Fetch(ctx, func(d core.Dream) bool { return d.Type == core.Lucid })
	assert.ErrorIs(t, err, core.ErrQueryFailed)

	_, err = dreams.FetchAll(ctx)
	assert.ErrorIs(t, err, core.ErrQueryFailed)
}
