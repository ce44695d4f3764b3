package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/internal/platform"
	"github.com/aretw0/dreamdiary/pkg/prefs"
	"github.com/aretw0/dreamdiary/pkg/seed"
)

func seededDiary(t *testing.T) *platform.Diary {
	t.Helper()
	d, err := platform.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.SeedIfNeeded(context.Background()))
	return d
}

func TestStoreSetting_CannotClearSeedFlag(t *testing.T) {
	d := seededDiary(t)
	key := seed.FlagKey(seed.TechniquesKey)
	require.True(t, d.Prefs.Bool(key))

	assert.ErrorIs(t, storeSetting(d.Prefs, key, "false"), prefs.ErrLatched)
	assert.ErrorIs(t, storeSetting(d.Prefs, key, "0"), prefs.ErrLatched)
	assert.ErrorIs(t, d.Prefs.Remove(key), prefs.ErrLatched)
	assert.True(t, d.Prefs.Bool(key))

	reopened, err := prefs.Open(d.Prefs.Path())
	require.NoError(t, err)
	assert.True(t, reopened.Bool(key))
}

func TestStoreSetting_KeepsStoredType(t *testing.T) {
	d := seededDiary(t)
	p := d.Prefs

	require.NoError(t, storeSetting(p, prefs.KeyOnboardingShown, "1"))
	assert.True(t, p.OnboardingShown())

	require.NoError(t, p.SetInt("reminderHour", 7))
	require.NoError(t, storeSetting(p, "reminderHour", "8"))
	assert.Equal(t, 8, p.Int("reminderHour"))
	assert.Error(t, storeSetting(p, "reminderHour", "late"))

	require.NoError(t, storeSetting(p, "snoozeMinutes", "1"))
	assert.Equal(t, 1, p.Int("snoozeMinutes"))

	require.NoError(t, storeSetting(p, "theme", "dark"))
	assert.Equal(t, "dark", p.String("theme"))

	require.NoError(t, storeSetting(p, "ratio", "0.5"))
	assert.InDelta(t, 0.5, p.Float("ratio"), 1e-9)
}
