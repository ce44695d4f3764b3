// Package fs stores records as one file per record inside a vault directory.
//
// Layout:
//
//	{root}/dreams/{id}.md
//	{root}/techniques/{id}.md
//	{root}/.dreamdiary/index.json   parse cache
//
// Records may be written in Markdown with YAML frontmatter, JSON or YAML.
// New records use the configured format; existing records keep theirs.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/dreamdiary/internal/atomicfile"
	"github.com/aretw0/dreamdiary/pkg/core"
)

// DefaultSystemDir holds the cache and other non-record files.
const DefaultSystemDir = ".dreamdiary"

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	Format    string // extension for new records, default ".md"
	MustExist bool
	SystemDir string
	Logger    *slog.Logger
}

// Backend implements core.Backend on a directory tree.
type Backend struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	cache       *cache

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

var (
	_ core.Backend   = (*Backend)(nil)
	_ core.Watchable = (*Backend)(nil)
)

// New creates a filesystem backend. Call Initialize before use.
func New(config Config) *Backend {
	if config.Format == "" {
		config.Format = ".md"
	}
	if !strings.HasPrefix(config.Format, ".") {
		config.Format = "." + config.Format
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(),
		cache:       newCache(config.Path, config.SystemDir),
	}
}

// Initialize creates the vault layout and loads the parse cache.
func (b *Backend) Initialize(ctx context.Context) error {
	if _, ok := b.serializers[b.config.Format]; !ok {
		return fmt.Errorf("unsupported record format %q", b.config.Format)
	}

	if b.config.MustExist {
		info, err := os.Stat(b.Path)
		if errors.Is(err, iofs.ErrNotExist) {
			return fmt.Errorf("vault path does not exist: %s", b.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", b.Path)
		}
	}

	dirs := []string{b.config.SystemDir}
	for _, k := range core.Kinds {
		dirs = append(dirs, k.Dir())
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(b.Path, d), 0o755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	return b.cache.Load()
}

// extensions returns the supported extensions in sorted order.
func (b *Backend) extensions() []string {
	exts := make([]string, 0, len(b.serializers))
	for ext := range b.serializers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// pattern matches every record file of a kind, relative to the root.
func (b *Backend) pattern(kind core.Kind) string {
	exts := b.extensions()
	for i, ext := range exts {
		exts[i] = strings.TrimPrefix(ext, ".")
	}
	return kind.Dir() + "/*.{" + strings.Join(exts, ",") + "}"
}

func validID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: unusable ID %q", core.ErrInvalid, id)
	}
	return nil
}

// files returns the record files of a kind in path order.
func (b *Backend) files(kind core.Kind) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(b.Path), b.pattern(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Dir(), err)
	}
	matches = slices.DeleteFunc(matches, atomicfile.IsTemp)
	slices.Sort(matches)
	return matches, nil
}

// locate finds the file holding a record, whatever its format.
func (b *Backend) locate(kind core.Kind, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	preferred := path.Join(kind.Dir(), id+b.config.Format)
	if _, err := os.Stat(filepath.Join(b.Path, filepath.FromSlash(preferred))); err == nil {
		return preferred, nil
	}

	for _, ext := range b.extensions() {
		rel := path.Join(kind.Dir(), id+ext)
		if _, err := os.Stat(filepath.Join(b.Path, filepath.FromSlash(rel))); err == nil {
			return rel, nil
		}
	}
	return "", core.ErrNotFound
}

// read parses one record file, using the cache when the file is unchanged.
func (b *Backend) read(kind core.Kind, rel string) (core.Document, error) {
	full := filepath.Join(b.Path, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return core.Document{}, core.ErrNotFound
		}
		return core.Document{}, err
	}

	if doc, ok := b.cache.Get(rel, info.ModTime()); ok {
		return doc, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return core.Document{}, err
	}
	ext := path.Ext(rel)
	s, ok := b.serializers[ext]
	if !ok {
		return core.Document{}, fmt.Errorf("unsupported record format %q", ext)
	}
	doc, err := s.Parse(data)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse %s: %w", rel, err)
	}
	// Location is authoritative.
	doc.Kind = kind
	doc.ID = strings.TrimSuffix(path.Base(rel), ext)

	b.cache.Set(rel, doc, info.ModTime())
	return doc, nil
}

// List returns every record of a kind ordered by file path.
func (b *Backend) List(ctx context.Context, kind core.Kind) ([]core.Document, error) {
	files, err := b.files(kind)
	if err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(files))
	keep := make(map[string]bool, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := b.read(kind, rel)
		if errors.Is(err, core.ErrNotFound) {
			continue // removed while listing
		}
		if err != nil {
			return nil, err
		}
		keep[rel] = true
		docs = append(docs, doc)
	}
	b.cache.Prune(kind.Dir(), keep)
	return docs, nil
}

// Get retrieves a single record.
func (b *Backend) Get(ctx context.Context, kind core.Kind, id string) (core.Document, error) {
	rel, err := b.locate(kind, id)
	if err != nil {
		return core.Document{}, err
	}
	return b.read(kind, rel)
}

// Put writes a record atomically, keeping the format of an existing file.
func (b *Backend) Put(ctx context.Context, doc core.Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	rel, err := b.locate(doc.Kind, doc.ID)
	if errors.Is(err, core.ErrNotFound) {
		rel = path.Join(doc.Kind.Dir(), doc.ID+b.config.Format)
	} else if err != nil {
		return err
	}

	data, err := b.serializers[path.Ext(rel)].Serialize(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", rel, err)
	}
	full := filepath.Join(b.Path, filepath.FromSlash(rel))
	if err := atomicfile.WriteFile(full, data, 0o644); err != nil {
		return err
	}

	// Cache what was written so the next read skips parsing.
	if info, err := os.Stat(full); err == nil {
		b.cache.Set(rel, doc, info.ModTime())
	} else {
		b.cache.Delete(rel)
	}
	b.config.Logger.Debug("record written", "path", rel)
	return nil
}

// Delete removes a record's file.
func (b *Backend) Delete(ctx context.Context, kind core.Kind, id string) error {
	rel, err := b.locate(kind, id)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(b.Path, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	b.cache.Delete(rel)
	b.config.Logger.Debug("record deleted", "path", rel)
	return nil
}

// Count returns the number of record files of a kind.
func (b *Backend) Count(ctx context.Context, kind core.Kind) (int, error) {
	files, err := b.files(kind)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Close persists the parse cache.
func (b *Backend) Close() error {
	if err := b.cache.Save(); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	return nil
}
