package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/attach"
)

// Record summarizes a stored instance without decoding its attachment.
type Record struct {
	ID       uuid.UUID
	Hash     string
	Revision int64
	Size     int // bytes of the stored binary form
}

// Load returns the instance with the given ID.
// Returns ErrNotFound if no such instance exists and ErrCorrupt if its
// attachment cannot be decoded. The returned instance is the caller's own
// copy.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*attach.Instance, error) {
	if entry, ok := s.cache.get(id); ok {
		return attach.RestoreInstance(id, entry.attachment), nil
	}

	var (
		data     []byte
		hash     string
		revision int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT attachment, hash, revision
		FROM instances
		WHERE id = ?
	`, id.String()).Scan(&data, &hash, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load instance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load instance %s: %w", id, err)
	}

	attachment, err := unmarshalAttachment(data)
	if err != nil {
		return nil, fmt.Errorf("load instance %s: %w", id, err)
	}
	s.cache.set(id, cachedAttachment{attachment: attachment, hash: hash, revision: revision})
	return attach.RestoreInstance(id, attachment), nil
}

// Stat returns the record for id without decoding the attachment.
func (s *Store) Stat(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, revision, length(attachment)
		FROM instances
		WHERE id = ?
	`, id.String())
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("stat instance %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("stat instance %s: %w", id, err)
	}
	return rec, nil
}

// List returns every stored instance ordered by ID.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.queryRecords(ctx, `
		SELECT id, hash, revision, length(attachment)
		FROM instances
		ORDER BY id COLLATE BINARY ASC
	`)
}

// FindByHash returns the instances whose attachment has the given content
// hash, ordered by ID.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]Record, error) {
	return s.queryRecords(ctx, `
		SELECT id, hash, revision, length(attachment)
		FROM instances
		WHERE hash = ?
		ORDER BY id COLLATE BINARY ASC
	`, hash)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instances: %w", err)
	}
	return records, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec Record
		id  string
	)
	if err := row.Scan(&id, &rec.Hash, &rec.Revision, &rec.Size); err != nil {
		return Record{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("%w: invalid id %q: %w", ErrCorrupt, id, err)
	}
	rec.ID = parsed
	return rec, nil
}
