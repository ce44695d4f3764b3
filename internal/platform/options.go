package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/aretw0/dreamdiary/pkg/seed"
)

// options holds the explicit settings passed to Open. Unset fields fall back
// to the vault's Config.
type options struct {
	logger        *slog.Logger
	backend       string
	store         core.Backend
	format        string
	sqlitePath    string
	configPath    string
	isolate       *bool
	exampleDreams *bool
	sources       []seed.Source
	clock         func() time.Time
	mustExist     bool
}

// Option defines a functional option for configuring a Diary.
type Option func(*options)

func defaultOptions() *options {
	return &options{clock: time.Now}
}

// WithLogger sets the logger for every component of the diary.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend selects the backing store by name: "fs", "sqlite" or "memory".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithStore injects a backing store, e.g. a fake in tests. It takes
// precedence over WithBackend. The diary initializes and closes it.
func WithStore(b core.Backend) Option {
	return func(o *options) {
		o.store = b
	}
}

// WithFormat sets the file format of new records for the fs backend
// (".md", ".json" or ".yaml").
func WithFormat(ext string) Option {
	return func(o *options) {
		o.format = ext
	}
}

// WithSQLitePath sets the database file of the sqlite backend.
// Relative paths are resolved against the vault root.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.sqlitePath = path
	}
}

// WithConfigFile reads configuration from path instead of
// {root}/.dreamdiary/config.yaml.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithFailureIsolation lets seeding continue with the remaining sources
// after one fails.
func WithFailureIsolation(enabled bool) Option {
	return func(o *options) {
		o.isolate = &enabled
	}
}

// WithExampleDreams adds the bundled example dreams to the seed sources.
func WithExampleDreams(enabled bool) Option {
	return func(o *options) {
		o.exampleDreams = &enabled
	}
}

// WithSources replaces the bundled seed sources.
func WithSources(sources ...seed.Source) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithClock sets the time source used to date seeded records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithMustExist requires the vault directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}
