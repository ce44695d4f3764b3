package seed

import (
	"fmt"
	"strings"
	"sync"
)

// FlagStore is the durable boolean storage behind a Tracker.
// *prefs.Store satisfies it.
type FlagStore interface {
	Bool(key string) bool
	SetBool(key string, v bool) error
}

// Tracker records which providers have finished seeding. Flags only ever go
// from false to true.
type Tracker struct {
	mu    sync.Mutex
	flags FlagStore
}

// latcher is implemented by flag stores that can refuse to clear keys.
type latcher interface {
	Latch(match func(key string) bool)
}

// NewTracker takes ownership of the completion flags in flags. When the store
// supports latching, flag keys are latched so that no other writer can clear
// them.
func NewTracker(flags FlagStore) *Tracker {
	if l, ok := flags.(latcher); ok {
		l.Latch(IsFlagKey)
	}
	return &Tracker{flags: flags}
}

const (
	flagPrefix = "seed_data_"
	flagSuffix = "_completed"
)

// FlagKey is the preference key holding the completion flag of a provider.
func FlagKey(providerKey string) string {
	return flagPrefix + providerKey + flagSuffix
}

// IsFlagKey reports whether key is the completion flag of some provider.
func IsFlagKey(key string) bool {
	return len(key) > len(flagPrefix)+len(flagSuffix) &&
		strings.HasPrefix(key, flagPrefix) && strings.HasSuffix(key, flagSuffix)
}

// IsCompleted reports whether the provider has been marked complete.
// An absent flag reads as false.
func (t *Tracker) IsCompleted(providerKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags.Bool(FlagKey(providerKey))
}

// MarkCompleted durably sets the provider's flag.
func (t *Tracker) MarkCompleted(providerKey string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.flags.SetBool(FlagKey(providerKey), true); err != nil {
		return fmt.Errorf("mark seed %s completed: %w", providerKey, err)
	}
	return nil
}
