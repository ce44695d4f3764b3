package fs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/core"
)

func TestCache(t *testing.T) {
	mtime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := core.Document{ID: "a", Kind: core.KindDream, Title: "t", Metadata: core.Metadata{"type": "lucid"}}

	t.Run("fresh and stale", func(t *testing.T) {
		c := newCache(t.TempDir(), DefaultSystemDir)
		c.Set("dreams/a.md", doc, mtime)

		got, ok := c.Get("dreams/a.md", mtime)
		require.True(t, ok)
		assert.Equal(t, "t", got.Title)

		_, ok = c.Get("dreams/a.md", mtime.Add(time.Second))
		assert.False(t, ok)
	})

	t.Run("returns copies", func(t *testing.T) {
		c := newCache(t.TempDir(), DefaultSystemDir)
		c.Set("dreams/a.md", doc, mtime)

		got, _ := c.Get("dreams/a.md", mtime)
		got.Metadata["type"] = "nightmare"

		again, _ := c.Get("dreams/a.md", mtime)
		assert.Equal(t, "lucid", again.Metadata["type"])
	})

	t.Run("prune by directory", func(t *testing.T) {
		c := newCache(t.TempDir(), DefaultSystemDir)
		c.Set("dreams/a.md", doc, mtime)
		c.Set("dreams/b.md", doc, mtime)
		c.Set("techniques/c.md", doc, mtime)

		c.Prune("dreams", map[string]bool{"dreams/a.md": true})
		assert.Equal(t, 2, c.Len())
		_, ok := c.Get("dreams/b.md", mtime)
		assert.False(t, ok)
	})

	t.Run("save and load", func(t *testing.T) {
		root := t.TempDir()
		c := newCache(root, DefaultSystemDir)
		c.Set("dreams/a.md", doc, mtime)
		require.NoError(t, c.Save())
		assert.Equal(t, filepath.Join(root, DefaultSystemDir, "index.json"), c.Path)

		loaded := newCache(root, DefaultSystemDir)
		require.NoError(t, loaded.Load())
		got, ok := loaded.Get("dreams/a.md", mtime)
		require.True(t, ok)
		assert.Equal(t, doc, got)
	})
}
