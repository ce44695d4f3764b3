package dreamdiary

import (
	"log/slog"
	"time"

	"github.com/aretw0/dreamdiary/internal/platform"
	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/aretw0/dreamdiary/pkg/seed"
	"github.com/aretw0/dreamdiary/pkg/typed"
)

// --- Types ---

// Diary is an opened vault.
type Diary = platform.Diary

// Config is the per-vault configuration.
type Config = platform.Config

// Dream is a journal entry.
type Dream = core.Dream

// Technique is a reference article.
type Technique = core.Technique

// Repository is the typed façade over the storage gateway.
type Repository[T any] = typed.Repository[T]

// SeedReport describes one seeding run.
type SeedReport = seed.Report

// --- Configuration ---

// Option defines a functional option for configuring a Diary.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend selects the backing store: "fs", "sqlite" or "memory".
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithStore injects a custom backing store.
func WithStore(b core.Backend) Option {
	return platform.WithStore(b)
}

// WithFormat sets the file format of new records for the fs backend.
func WithFormat(ext string) Option {
	return platform.WithFormat(ext)
}

// WithSQLitePath sets the database file of the sqlite backend.
func WithSQLitePath(path string) Option {
	return platform.WithSQLitePath(path)
}

// WithConfigFile reads the configuration from path.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithFailureIsolation lets seeding continue after a source fails.
func WithFailureIsolation(enabled bool) Option {
	return platform.WithFailureIsolation(enabled)
}

// WithExampleDreams adds the bundled example dreams to the seed sources.
func WithExampleDreams(enabled bool) Option {
	return platform.WithExampleDreams(enabled)
}

// WithSources replaces the bundled seed sources.
func WithSources(sources ...seed.Source) Option {
	return platform.WithSources(sources...)
}

// WithClock sets the time source used to date seeded records.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithMustExist requires the vault directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// --- Factory ---

// Open opens the vault at path.
func Open(path string, opts ...Option) (*Diary, error) {
	return platform.Open(path, opts...)
}

// Init creates a vault at path with the default configuration.
func Init(path string) (string, error) {
	return platform.Init(path)
}

// FindRoot looks upwards from dir for a vault root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
