// Package prefs is the per-installation key/value preference store.
//
// Values are scalars (bool, int, float, string) kept in a YAML file. Every
// mutation rewrites the file atomically before returning, so a value that has
// been set survives a restart. Reads of absent keys return the zero value.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamdiary/internal/atomicfile"
)

// Keys owned by features outside this module. They are exposed so the CLI
// can show and toggle them.
const (
	KeyOnboardingShown        = "onboardingShown"
	KeySynchronizationEnabled = "isSynchronizationEnabled"
)

// ErrLatched is returned by writes that would clear a latched key.
var ErrLatched = errors.New("preference is latched")

// Store is safe for concurrent use.
type Store struct {
	path string

	mu      sync.Mutex
	values  map[string]any
	latched []func(key string) bool
}

// Open loads the store at path. A missing file is an empty store; the file is
// created on the first write.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]any)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("decode preferences %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s, nil
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	return &Store{values: make(map[string]any)}
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string { return s.path }

// Latch marks the keys matched by match as latched. A latched key accepts
// only the boolean true and cannot be removed, so once set it stays set.
func (s *Store) Latch(match func(key string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latched = append(s.latched, match)
}

// isLatched must be called with mu held.
func (s *Store) isLatched(key string) bool {
	for _, match := range s.latched {
		if match(key) {
			return true
		}
	}
	return false
}

// Value returns the raw value stored under key.
func (s *Store) Value(key string) (any, bool) {
	return s.get(key)
}

func (s *Store) get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := v.(bool); s.isLatched(key) && (!ok || !b) {
		return fmt.Errorf("set %s: %w", key, ErrLatched)
	}

	prev, had := s.values[key]
	s.values[key] = v
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// flush must be called with mu held.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Bool returns the boolean stored under key, or false.
func (s *Store) Bool(key string) bool {
	v, _ := s.get(key)
	b, _ := v.(bool)
	return b
}

// SetBool stores a boolean.
func (s *Store) SetBool(key string, v bool) error { return s.set(key, v) }

// Int returns the integer stored under key, or 0.
func (s *Store) Int(key string) int {
	v, _ := s.get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// SetInt stores an integer.
func (s *Store) SetInt(key string, v int) error { return s.set(key, v) }

// Float returns the number stored under key, or 0.
func (s *Store) Float(key string) float64 {
	v, _ := s.get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// SetFloat stores a floating point number.
func (s *Store) SetFloat(key string, v float64) error { return s.set(key, v) }

// String returns the string stored under key, or "".
func (s *Store) String(key string) string {
	v, _ := s.get(key)
	str, _ := v.(string)
	return str
}

// SetString stores a string.
func (s *Store) SetString(key, v string) error { return s.set(key, v) }

// Remove deletes key. Removing an absent key is not an error; removing a
// latched key is.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isLatched(key) {
		return fmt.Errorf("remove %s: %w", key, ErrLatched)
	}

	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

// All returns a snapshot of every stored value.
func (s *Store) All() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values))
}

func (s *Store) OnboardingShown() bool { return s.Bool(KeyOnboardingShown) }

func (s *Store) SetOnboardingShown(v bool) error { return s.SetBool(KeyOnboardingShown, v) }

func (s *Store) SynchronizationEnabled() bool { return s.Bool(KeySynchronizationEnabled) }

func (s *Store) SetSynchronizationEnabled(v bool) error {
	return s.SetBool(KeySynchronizationEnabled, v)
}
