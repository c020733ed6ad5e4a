// Package snapshot keeps a history of outline documents in a SQLite database.
//
// Each snapshot belongs to a name (usually the outline file path). Saving an
// outline whose content equals the latest snapshot of the same name is a no-op,
// so callers can save on every change without growing the history.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	hash       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	items      INTEGER NOT NULL,
	content    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name, created_at);
`

// Snapshot is one saved version of an outline. Outline is only populated by
// Latest and Get.
type Snapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Hash      string         `json:"hash"`
	CreatedAt time.Time      `json:"created_at"`
	Items     int            `json:"items"`
	Outline   *model.Outline `json:"outline,omitempty"`
}

// Age renders how long before now the snapshot was taken, e.g. "3 minutes ago".
func (s Snapshot) Age(now time.Time) string {
	return humanize.RelTime(s.CreatedAt, now, "ago", "from now")
}

// Store is a snapshot database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens or creates the database at path and makes sure the schema
// exists. The parent directory is created when missing.
func Open(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure snapshot db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the content hash used to detect unchanged outlines.
func Hash(o *model.Outline) (string, error) {
	h, err := hashstructure.Hash(o, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hash outline: %w", err)
	}
	return strconv.FormatUint(h, 16), nil
}

// Save records o under name. When the latest snapshot of name has the same
// content, nothing is written and that snapshot is returned with saved false.
func (s *Store) Save(ctx context.Context, name string, o *model.Outline) (Snapshot, bool, error) {
	if o == nil {
		return Snapshot{}, false, fmt.Errorf("save %s: nil outline", name)
	}
	hash, err := Hash(o)
	if err != nil {
		return Snapshot{}, false, err
	}

	latest, err := s.latest(ctx, name, false)
	switch {
	case err == nil && latest.Hash == hash:
		return latest, false, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Snapshot{}, false, err
	}

	content, err := json.Marshal(o)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("encode outline: %w", err)
	}
	snap := Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Hash:      hash,
		CreatedAt: s.now().UTC(),
		Items:     o.Count(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, hash, created_at, items, content) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.Hash, snap.CreatedAt.UnixNano(), snap.Items, content)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, true, nil
}

// Latest returns the newest snapshot of name with its outline decoded.
func (s *Store) Latest(ctx context.Context, name string) (Snapshot, error) {
	return s.latest(ctx, name, true)
}

func (s *Store) latest(ctx context.Context, name string, decode bool) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, hash, created_at, items, content FROM snapshots
		 WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, name)
	return scanFull(row, decode)
}

// Get returns the snapshot with the given id.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, hash, created_at, items, content FROM snapshots WHERE id = ?`, id)
	return scanFull(row, true)
}

func scanFull(row *sql.Row, decode bool) (Snapshot, error) {
	var (
		snap    Snapshot
		created int64
		content []byte
	)
	err := row.Scan(&snap.ID, &snap.Name, &snap.Hash, &created, &snap.Items, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap.CreatedAt = time.Unix(0, created).UTC()
	if decode {
		var o model.Outline
		if err := json.Unmarshal(content, &o); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		snap.Outline = &o
	}
	return snap, nil
}

// List returns every snapshot without content, grouped by name and newest
// first within a name.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, hash, created_at, items FROM snapshots
		 ORDER BY name, created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			created int64
		)
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Hash, &created, &snap.Items); err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		snap.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots of name and reports how
// many were removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE name = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, name, name, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
