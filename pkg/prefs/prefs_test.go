package prefs_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamdiary/pkg/prefs"
)

func TestStore_AbsentKeysReturnZero(t *testing.T) {
	s, err := prefs.Open(filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)

	assert.False(t, s.Bool("missing"))
	assert.Zero(t, s.Int("missing"))
	assert.Zero(t, s.Float("missing"))
	assert.Empty(t, s.String("missing"))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dreamdiary", "preferences.yaml")
	s, err := prefs.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetBool("seed_data_techniques_completed", true))
	require.NoError(t, s.SetInt("launches", 3))
	require.NoError(t, s.SetFloat("ratio", 0.5))
	require.NoError(t, s.SetString("theme", "dark"))
	require.NoError(t, s.SetOnboardingShown(true))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.True(t, reopened.Bool("seed_data_techniques_completed"))
	assert.Equal(t, 3, reopened.Int("launches"))
	assert.InDelta(t, 0.5, reopened.Float("ratio"), 1e-9)
	assert.Equal(t, "dark", reopened.String("theme"))
	assert.True(t, reopened.OnboardingShown())
	assert.False(t, reopened.SynchronizationEnabled())
}

func TestStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	s, err := prefs.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetString("a", "1"))
	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Remove("never-set"))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Keys())
}

func TestStore_WrongTypeReadsAsZero(t *testing.T) {
	s := prefs.NewMemory()
	require.NoError(t, s.SetString("flag", "yes"))
	assert.False(t, s.Bool("flag"))
}

func TestStore_LatchedKeysOnlyGoTrue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	s, err := prefs.Open(path)
	require.NoError(t, err)
	s.Latch(func(key string) bool { return strings.HasPrefix(key, "done_") })

	require.NoError(t, s.SetBool("done_a", true))
	require.NoError(t, s.SetBool("done_a", true))

	assert.ErrorIs(t, s.SetBool("done_a", false), prefs.ErrLatched)
	assert.ErrorIs(t, s.SetInt("done_a", 0), prefs.ErrLatched)
	assert.ErrorIs(t, s.SetString("done_a", "false"), prefs.ErrLatched)
	assert.ErrorIs(t, s.Remove("done_a"), prefs.ErrLatched)
	assert.True(t, s.Bool("done_a"))

	require.NoError(t, s.SetBool("other", false))
	require.NoError(t, s.Remove("other"))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.True(t, reopened.Bool("done_a"))
}

func TestStore_Value(t *testing.T) {
	s := prefs.NewMemory()
	require.NoError(t, s.SetInt("n", 3))

	v, ok := s.Value("n")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = s.Value("absent")
	assert.False(t, ok)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

	_, err := prefs.Open(path)
	assert.Error(t, err)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	s, err := prefs.Open(path)
	require.NoError(t, err)

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SetBool(k, true))
		}()
	}
	wg.Wait()

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Equal(t, keys, reopened.Keys())
}
