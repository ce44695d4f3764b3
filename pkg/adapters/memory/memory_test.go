package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/adapters/memory"
	"github.com/aretw0/dreamdiary/pkg/core"
)

func TestBackend_KeepsInsertionOrderPerKind(t *testing.T) {
	ctx := context.Background()
	b := memory.New()

	require.NoError(t, b.Put(ctx, core.Document{ID: "2", Kind: core.KindTechnique}))
	require.NoError(t, b.Put(ctx, core.Document{ID: "1", Kind: core.KindTechnique}))
	require.NoError(t, b.Put(ctx, core.Document{ID: "1", Kind: core.KindDream}))

	docs, err := b.List(ctx, core.KindTechnique)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2", docs[0].ID)
	assert.Equal(t, "1", docs[1].ID)

	n, err := b.Count(ctx, core.KindDream)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBackend_DeleteMissing(t *testing.T) {
	b := memory.New()
	err := b.Delete(context.Background(), core.KindDream, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBackend_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := memory.New()
	require.NoError(t, b.Put(ctx, core.Document{ID: "a", Kind: core.KindDream, Metadata: core.Metadata{"type": "lucid"}}))

	doc, err := b.Get(ctx, core.KindDream, "a")
	require.NoError(t, err)
	doc.Metadata["type"] = "nightmare"

	again, err := b.Get(ctx, core.KindDream, "a")
	require.NoError(t, err)
	assert.Equal(t, "lucid", again.Metadata["type"])
}
