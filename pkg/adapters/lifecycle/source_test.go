package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/adapters/lifecycle"
	"github.com/aretw0/dreamdiary/pkg/core"
)

func TestSource_FiltersByKind(t *testing.T) {
	events := make(chan core.Event, 3)
	events <- core.Event{Type: core.EventCreate, Kind: core.KindTechnique, ID: "t1"}
	events <- core.Event{Type: core.EventModify, Kind: core.KindDream, ID: "d1"}
	events <- core.Event{Type: core.EventDelete, Kind: core.KindDream, ID: "d2"}
	close(events)

	src := lifecycle.NewSource(events, core.KindDream)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"MODIFY dream/d1", "DELETE dream/d2"}, got)
}

func TestSource_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := lifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))

	cancel()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
