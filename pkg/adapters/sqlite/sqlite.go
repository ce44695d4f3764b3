// Package sqlite stores records in a single SQLite database file.
//
// All kinds share one documents table. Natural order is insertion order:
// replacing a record keeps its original position.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/aretw0/dreamdiary/pkg/adapters/sqlite/migrations"
	"github.com/aretw0/dreamdiary/pkg/core"
)

// Backend implements core.Backend on SQLite.
type Backend struct {
	path  string
	sqlDB *sql.DB
}

var _ core.Backend = (*Backend)(nil)

// New returns a backend for the database at path. The file is created by
// Initialize.
func New(path string) *Backend {
	return &Backend{path: path}
}

// Path returns the database file.
func (b *Backend) Path() string { return b.path }

// Initialize opens the database and applies the embedded migrations.
func (b *Backend) Initialize(ctx context.Context) error {
	if strings.TrimSpace(b.path) == "" {
		return fmt.Errorf("storage path is required")
	}
	if b.sqlDB != nil {
		return nil
	}

	dsn := filepath.Clean(b.path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("run migrations: %w", err)
	}
	b.sqlDB = sqlDB
	return nil
}

func (b *Backend) db() (*sql.DB, error) {
	if b.sqlDB == nil {
		return nil, fmt.Errorf("storage is not initialized")
	}
	return b.sqlDB, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (core.Document, error) {
	var (
		doc      core.Document
		kind     string
		secs     int64
		nanos    int64
		metadata string
	)
	if err := row.Scan(&kind, &doc.ID, &doc.Title, &secs, &nanos, &doc.Content, &metadata); err != nil {
		return core.Document{}, err
	}
	doc.Kind = core.Kind(kind)
	doc.Date = time.Unix(secs, nanos).UTC()
	doc.Metadata = make(core.Metadata)
	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return core.Document{}, fmt.Errorf("decode metadata of %s/%s: %w", kind, doc.ID, err)
	}
	return doc, nil
}

const selectColumns = `SELECT kind, id, title, date_unix, date_nanos, content, metadata FROM documents`

// List returns every record of a kind in insertion order.
func (b *Backend) List(ctx context.Context, kind core.Kind) ([]core.Document, error) {
	db, err := b.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectColumns+` WHERE kind = ? ORDER BY seq`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return docs, nil
}

// Get retrieves a single record.
func (b *Backend) Get(ctx context.Context, kind core.Kind, id string) (core.Document, error) {
	db, err := b.db()
	if err != nil {
		return core.Document{}, err
	}
	doc, err := scanDocument(db.QueryRowContext(ctx, selectColumns+` WHERE kind = ? AND id = ?`, string(kind), id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, core.ErrNotFound
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("get %s/%s: %w", kind, id, err)
	}
	return doc, nil
}

// Put inserts or replaces a record.
func (b *Backend) Put(ctx context.Context, doc core.Document) error {
	db, err := b.db()
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no ID", core.ErrInvalid)
	}
	metadata := doc.Metadata
	if metadata == nil {
		metadata = core.Metadata{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (kind, id, title, date_unix, date_nanos, content, metadata, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET
		   title = excluded.title,
		   date_unix = excluded.date_unix,
		   date_nanos = excluded.date_nanos,
		   content = excluded.content,
		   metadata = excluded.metadata,
		   updated_at = excluded.updated_at`,
		string(doc.Kind), doc.ID, doc.Title, doc.Date.Unix(), int64(doc.Date.Nanosecond()), doc.Content, string(encoded),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isBusy(err) {
			return fmt.Errorf("put %s/%s: database is locked: %w", doc.Kind, doc.ID, err)
		}
		return fmt.Errorf("put %s/%s: %w", doc.Kind, doc.ID, err)
	}
	return nil
}

// Delete removes a record.
func (b *Backend) Delete(ctx context.Context, kind core.Kind, id string) error {
	db, err := b.db()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Count returns the number of records of a kind.
func (b *Backend) Count(ctx context.Context, kind core.Kind) (int, error) {
	db, err := b.db()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE kind = ?`, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// Close closes the database handle.
func (b *Backend) Close() error {
	if b.sqlDB == nil {
		return nil
	}
	err := b.sqlDB.Close()
	b.sqlDB = nil
	return err
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}
