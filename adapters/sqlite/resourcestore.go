package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artpar/attrkit/ports"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a name.
var ErrSnapshotNotFound = errors.New("resource snapshot not found")

// ResourceStore implements ports.ResourceStore using SQLite.
type ResourceStore struct {
	db *DB
}

// NewResourceStore creates a new resource snapshot store.
func NewResourceStore(db *DB) *ResourceStore {
	return &ResourceStore{db: db}
}

// Save stores or replaces a snapshot by resource name. CreatedAt is
// preserved on replace.
func (s *ResourceStore) Save(ctx context.Context, snap ports.ResourceSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resource_snapshots (name, source, compiled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			compiled = excluded.compiled,
			updated_at = excluded.updated_at`,
		snap.Name,
		snap.Source,
		snap.Compiled,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
		snap.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Get retrieves a snapshot by resource name.
func (s *ResourceStore) Get(ctx context.Context, name string) (ports.ResourceSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, source, compiled, created_at, updated_at
		 FROM resource_snapshots WHERE name = ?`,
		name,
	)
	return scanSnapshot(row)
}

// List returns all snapshots ordered by name.
func (s *ResourceStore) List(ctx context.Context) ([]ports.ResourceSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source, compiled, created_at, updated_at
		 FROM resource_snapshots ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []ports.ResourceSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Delete removes a snapshot.
func (s *ResourceStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM resource_snapshots WHERE name = ?`, name)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (ports.ResourceSnapshot, error) {
	var snap ports.ResourceSnapshot
	var createdAt, updatedAt string

	err := row.Scan(&snap.Name, &snap.Source, &snap.Compiled, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.ResourceSnapshot{}, ErrSnapshotNotFound
		}
		return ports.ResourceSnapshot{}, err
	}

	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	snap.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return snap, nil
}

var _ ports.ResourceStore = (*ResourceStore)(nil)
