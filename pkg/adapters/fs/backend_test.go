package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/adapters/fs"
	"github.com/aretw0/dreamdiary/pkg/core"
)

func newBackend(t *testing.T, cfg fs.Config) *fs.Backend {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	b := fs.New(cfg)
	require.NoError(t, b.Initialize(context.Background()))
	return b
}

func doc(kind core.Kind, id, title string) core.Document {
	return core.Document{
		ID:       id,
		Kind:     kind,
		Title:    title,
		Date:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Content:  "content of " + title,
		Metadata: core.Metadata{"symbol": "moon"},
	}
}

func TestBackend_Layout(t *testing.T) {
	root := t.TempDir()
	b := newBackend(t, fs.Config{Path: root})

	for _, dir := range []string{"dreams", "techniques", ".dreamdiary"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	require.NoError(t, b.Put(context.Background(), doc(core.KindTechnique, "t1", "MILD")))
	_, err := os.Stat(filepath.Join(root, "techniques", "t1.md"))
	assert.NoError(t, err)
}

func TestBackend_CRUD(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, fs.Config{})

	require.NoError(t, b.Put(ctx, doc(core.KindDream, "b", "second")))
	require.NoError(t, b.Put(ctx, doc(core.KindDream, "a", "first")))
	require.NoError(t, b.Put(ctx, doc(core.KindTechnique, "c", "other kind")))

	n, err := b.Count(ctx, core.KindDream)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := b.List(ctx, core.KindDream)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, core.KindDream, list[0].Kind)

	got, err := b.Get(ctx, core.KindDream, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "moon", got.Metadata["symbol"])

	updated := doc(core.KindDream, "a", "renamed")
	require.NoError(t, b.Put(ctx, updated))
	got, err = b.Get(ctx, core.KindDream, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, b.Delete(ctx, core.KindDream, "a"))
	_, err = b.Get(ctx, core.KindDream, "a")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, b.Delete(ctx, core.KindDream, "a"), core.ErrNotFound)
}

func TestBackend_Formats(t *testing.T) {
	ctx := context.Background()
	for _, format := range []string{".md", ".json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			root := t.TempDir()
			b := newBackend(t, fs.Config{Path: root, Format: format})
			require.NoError(t, b.Put(ctx, doc(core.KindDream, "x", "formatted")))

			ext := format
			if ext[0] != '.' {
				ext = "." + ext
			}
			_, err := os.Stat(filepath.Join(root, "dreams", "x"+ext))
			require.NoError(t, err)

			got, err := b.Get(ctx, core.KindDream, "x")
			require.NoError(t, err)
			assert.Equal(t, "formatted", got.Title)
		})
	}
}

func TestBackend_UnsupportedFormat(t *testing.T) {
	b := fs.New(fs.Config{Path: t.TempDir(), Format: ".csv"})
	assert.Error(t, b.Initialize(context.Background()))
}

func TestBackend_ExistingFileKeepsFormat(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b := newBackend(t, fs.Config{Path: root})

	hand := `{"title": "From sync", "date": "2025-02-01T00:00:00Z", "content": "hi", "type": "normal", "time_of_day": "night"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "dreams", "synced.json"), []byte(hand), 0o644))

	got, err := b.Get(ctx, core.KindDream, "synced")
	require.NoError(t, err)
	assert.Equal(t, "synced", got.ID)
	assert.Equal(t, "From sync", got.Title)

	got.Title = "Edited"
	require.NoError(t, b.Put(ctx, got))

	_, err = os.Stat(filepath.Join(root, "dreams", "synced.md"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(root, "dreams", "synced.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Edited")
}

func TestBackend_IgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b := newBackend(t, fs.Config{Path: root})

	require.NoError(t, os.WriteFile(filepath.Join(root, "dreams", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dreams", ".dreamdiary-tmp-123"), []byte("x"), 0o644))

	n, err := b.Count(ctx, core.KindDream)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBackend_InvalidID(t *testing.T) {
	b := newBackend(t, fs.Config{})
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		err := b.Put(context.Background(), doc(core.KindDream, id, "bad"))
		assert.ErrorIs(t, err, core.ErrInvalid, "id %q", id)
	}
}

func TestBackend_MustExist(t *testing.T) {
	b := fs.New(fs.Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
	assert.Error(t, b.Initialize(context.Background()))
}

func TestBackend_CachePersistsAcrossClose(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b := newBackend(t, fs.Config{Path: root})
	require.NoError(t, b.Put(ctx, doc(core.KindDream, "a", "cached")))
	require.NoError(t, b.Close())

	_, err := os.Stat(filepath.Join(root, ".dreamdiary", "index.json"))
	require.NoError(t, err)

	reopened := newBackend(t, fs.Config{Path: root})
	got, err := reopened.Get(ctx, core.KindDream, "a")
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Title)

	st := reopened.State().(fs.BackendState)
	assert.Equal(t, 1, st.CacheSize)
	assert.Equal(t, ".md", st.Format)
}
