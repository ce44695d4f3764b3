package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/dreamdiary/pkg/adapters/fs"
	"github.com/aretw0/dreamdiary/pkg/adapters/memory"
	"github.com/aretw0/dreamdiary/pkg/adapters/sqlite"
	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/aretw0/dreamdiary/pkg/gateway"
	"github.com/aretw0/dreamdiary/pkg/prefs"
	"github.com/aretw0/dreamdiary/pkg/seed"
	"github.com/aretw0/dreamdiary/pkg/typed"
)

// ErrWatchUnsupported is returned by Watch when the backing store cannot
// report external changes.
var ErrWatchUnsupported = errors.New("backend does not support watching")

// Diary is an opened vault: the storage gateway, the typed repositories, the
// preference store and the seeder, wired together.
type Diary struct {
	Root       string
	Dreams     *typed.Repository[core.Dream]
	Techniques *typed.Repository[core.Technique]
	Prefs      *prefs.Store

	config  Config
	logger  *slog.Logger
	gateway *gateway.Gateway
	seeder  *seed.Seeder
}

// Init creates the vault layout at path and writes a default configuration
// unless one exists. It returns the absolute vault root.
func Init(path string) (string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(root, SystemDir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create vault directory: %w", err)
	}
	cfgPath := filepath.Join(root, SystemDir, ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return root, nil
	}
	if err := WriteConfig(cfgPath, DefaultConfig()); err != nil {
		return "", err
	}
	return root, nil
}

// Open opens the vault at path. Options override the vault configuration,
// which overrides the defaults.
//
// Open does not seed; call SeedIfNeeded once per launch.
func Open(path string, opts ...Option) (*Diary, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if o.mustExist && !isDir(root) {
		return nil, fmt.Errorf("vault path does not exist: %s", root)
	}

	cfgPath := o.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, SystemDir, ConfigFile)
	}
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	applyOptions(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, flags, err := openStore(root, cfg, o, logger)
	if err != nil {
		return nil, err
	}
	if err := backend.Initialize(context.Background()); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("initialize %s backend: %w", cfg.Backend, err)
	}

	gw := gateway.New(backend, gateway.WithLogger(logger.With("component", "gateway")))

	sources := o.sources
	if sources == nil {
		sources = seed.DefaultSources(o.clock, cfg.Seed.ExampleDreams)
	}
	seeder := seed.New(gw, seed.NewTracker(flags),
		seed.WithSources(sources...),
		seed.WithFailureIsolation(cfg.Seed.IsolateFailures),
		seed.WithLogger(logger.With("component", "seeder")),
		seed.WithClock(o.clock),
	)

	logger.Debug("diary opened", "root", root, "backend", cfg.Backend)
	return &Diary{
		Root:       root,
		Dreams:     typed.NewDreams(gw),
		Techniques: typed.NewTechniques(gw),
		Prefs:      flags,
		config:     cfg,
		logger:     logger,
		gateway:    gw,
		seeder:     seeder,
	}, nil
}

func applyOptions(cfg *Config, o *options) {
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.format != "" {
		cfg.Format = o.format
	}
	if o.sqlitePath != "" {
		cfg.SQLitePath = o.sqlitePath
	}
	if o.isolate != nil {
		cfg.Seed.IsolateFailures = *o.isolate
	}
	if o.exampleDreams != nil {
		cfg.Seed.ExampleDreams = *o.exampleDreams
	}
	cfg.Format = normalizeFormat(cfg.Format)
}

// openStore builds the backing store and the preference store that goes
// with it. An ephemeral store gets ephemeral preferences, so completion flags
// never outlive the data they describe.
func openStore(root string, cfg Config, o *options, logger *slog.Logger) (core.Backend, *prefs.Store, error) {
	filePrefs := func() (*prefs.Store, error) {
		return prefs.Open(filepath.Join(root, SystemDir, PreferencesFile))
	}

	if o.store != nil {
		p, err := filePrefs()
		return o.store, p, err
	}

	switch cfg.Backend {
	case BackendMemory:
		return memory.New(), prefs.NewMemory(), nil
	case BackendSQLite:
		dbPath := cfg.SQLitePath
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(root, SystemDir, dbPath)
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		p, err := filePrefs()
		return sqlite.New(dbPath), p, err
	default:
		p, err := filePrefs()
		return fs.New(fs.Config{
			Path:      root,
			Format:    cfg.Format,
			MustExist: o.mustExist,
			SystemDir: SystemDir,
			Logger:    logger.With("component", "fs"),
		}), p, err
	}
}

// Config returns the effective configuration.
func (d *Diary) Config() Config { return d.config }

// Gateway returns the storage gateway.
func (d *Diary) Gateway() *gateway.Gateway { return d.gateway }

// Seeder returns the seeder.
func (d *Diary) Seeder() *seed.Seeder { return d.seeder }

// SeedIfNeeded runs the seeding protocol. Call it once per launch before
// treating the stored data as complete.
func (d *Diary) SeedIfNeeded(ctx context.Context) error {
	return d.seeder.SeedIfNeeded(ctx)
}

// Seed runs the seeding protocol and returns its report.
func (d *Diary) Seed(ctx context.Context) (seed.Report, error) {
	return d.seeder.Run(ctx)
}

// Watch reports changes made to the vault by other processes.
func (d *Diary) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := d.gateway.Backend().(core.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// Close stops the gateway and closes the backing store.
func (d *Diary) Close() error {
	return d.gateway.Close()
}
