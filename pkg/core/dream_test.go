package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/core"
)

func TestDreamCodec_RoundTrip(t *testing.T) {
	d := core.NewDream("Flying", core.Night, "over the sea", core.Lucid)
	require.NotEmpty(t, d.ID)
	require.WithinDuration(t, time.Now(), d.Date, time.Minute)

	doc := core.DreamCodec.Encode(d)
	assert.Equal(t, core.KindDream, doc.Kind)
	assert.Equal(t, "lucid", doc.Metadata["type"])

	back, err := core.DreamCodec.Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestDreamCodec_RejectsUnknownEnum(t *testing.T) {
	doc := core.DreamCodec.Encode(core.NewDream("x", core.Morning, "", core.Normal))
	doc.Metadata["type"] = "prophetic"

	_, err := core.DreamCodec.Decode(doc)
	assert.ErrorIs(t, err, core.ErrInvalid)
}

func TestTechniqueCodec_KeepsSymbol(t *testing.T) {
	tq := core.NewTechnique("Reality checks", "Look at your hands.", "hand.raised")

	back, err := core.TechniqueCodec.Decode(core.TechniqueCodec.Encode(tq))
	require.NoError(t, err)
	assert.Equal(t, "hand.raised", back.Symbol)
	assert.Equal(t, tq.ID, back.ID)
}

func TestDocument_CloneDoesNotShareMetadata(t *testing.T) {
	doc := core.Document{ID: "a", Metadata: core.Metadata{"k": "v"}}
	c := doc.Clone()
	c.Metadata["k"] = "changed"
	assert.Equal(t, "v", doc.Metadata["k"])
}
