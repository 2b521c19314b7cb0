// Package catalog keeps the history of applied schema snapshots in a SQLite
// database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/CaliLuke/go-graphschema/schemadoc"
)

// ErrEmpty is returned by Latest when nothing has been recorded.
var ErrEmpty = errors.New("catalog: no snapshots recorded")

// catalogSchemaSQL creates the table used for tracking applied snapshots.
const catalogSchemaSQL = `CREATE TABLE IF NOT EXISTS schema_snapshots (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    hash       TEXT NOT NULL UNIQUE,
    summary    TEXT NOT NULL,
    applied_at TEXT NOT NULL,
    body       BLOB NOT NULL
)`

// Snapshot is a schema document that has been recorded in the catalog.
type Snapshot struct {
	// ID identifies the record.
	ID uuid.UUID
	// Hash is the document hash, unique within a catalog.
	Hash string
	// Summary is a human-readable description of the change it introduced.
	Summary string
	// AppliedAt is when the snapshot was recorded.
	AppliedAt time.Time
	// Document is the decoded snapshot body.
	Document *schemadoc.Document
}

// Catalog provides methods for tracking the history of applied schema
// snapshots.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used to report recorded snapshots.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithClock replaces time.Now as the source of AppliedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// Open opens or creates the catalog database at path and ensures its table
// exists.
func Open(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, catalogSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ensure schema: %w", err)
	}

	c := &Catalog{db: db, logger: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// dsn appends the busy timeout pragma, keeping any query the path carries.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores doc unless a snapshot with the same hash already exists. It
// returns the stored snapshot and whether it was newly recorded.
func (c *Catalog) Record(ctx context.Context, doc *schemadoc.Document, summary string) (Snapshot, bool, error) {
	hash, err := doc.Hash()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("catalog: record: %w", err)
	}
	body, err := schemadoc.MarshalMsgpack(doc)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("catalog: record: %w", err)
	}

	snap := Snapshot{
		ID:        uuid.New(),
		Hash:      hash,
		Summary:   summary,
		AppliedAt: c.now().UTC(),
		Document:  doc,
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO schema_snapshots (id, hash, summary, applied_at, body)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(hash) DO NOTHING`,
		snap.ID.String(), snap.Hash, snap.Summary, snap.AppliedAt.Format(time.RFC3339Nano), body)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("catalog: record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("catalog: record: %w", err)
	}
	if n == 0 {
		existing, err := c.Get(ctx, hash)
		if err != nil {
			return Snapshot{}, false, err
		}
		c.logger.DebugContext(ctx, "snapshot already recorded", "hash", hash, "id", existing.ID)
		return existing, false, nil
	}

	c.logger.InfoContext(ctx, "recorded snapshot", "hash", hash, "id", snap.ID, "summary", summary)
	return snap, true, nil
}

// Applied returns every recorded snapshot in the order they were recorded.
func (c *Catalog) Applied(ctx context.Context) ([]Snapshot, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, hash, summary, applied_at, body FROM schema_snapshots ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query applied: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: query applied: %w", err)
	}
	return snaps, nil
}

// Latest returns the most recently recorded snapshot, or ErrEmpty.
func (c *Catalog) Latest(ctx context.Context) (Snapshot, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, hash, summary, applied_at, body FROM schema_snapshots ORDER BY seq DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrEmpty
	}
	return snap, err
}

// Get returns the snapshot with the given hash.
func (c *Catalog) Get(ctx context.Context, hash string) (Snapshot, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, hash, summary, applied_at, body FROM schema_snapshots WHERE hash = ?`, hash)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, &NotFoundError{Hash: hash}
	}
	return snap, err
}

// IsApplied reports whether a snapshot with the given hash has been recorded.
func (c *Catalog) IsApplied(ctx context.Context, hash string) (bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_snapshots WHERE hash = ?`, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("catalog: check applied: %w", err)
	}
	return count > 0, nil
}

// NotFoundError is returned by Get for an unknown hash.
type NotFoundError struct {
	Hash string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: no snapshot with hash %s", e.Hash)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (Snapshot, error) {
	var (
		id, appliedAt string
		body          []byte
		snap          Snapshot
	)
	if err := s.Scan(&id, &snap.Hash, &snap.Summary, &appliedAt, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("catalog: scan snapshot: %w", err)
	}

	var err error
	if snap.ID, err = uuid.Parse(id); err != nil {
		return Snapshot{}, fmt.Errorf("catalog: snapshot id %q: %w", id, err)
	}
	if snap.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt); err != nil {
		return Snapshot{}, fmt.Errorf("catalog: snapshot %s applied_at: %w", id, err)
	}
	if snap.Document, err = schemadoc.UnmarshalMsgpack(body); err != nil {
		return Snapshot{}, fmt.Errorf("catalog: snapshot %s body: %w", id, err)
	}
	return snap, nil
}
