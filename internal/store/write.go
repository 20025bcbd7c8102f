package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/attach"
)

// Save persists inst's attachment. It reports false without touching the
// row when the stored content hash already matches; otherwise the row is
// inserted with revision 1 or updated with its revision incremented.
func (s *Store) Save(ctx context.Context, inst *attach.Instance) (bool, error) {
	if inst == nil || inst.ID == uuid.Nil {
		return false, fmt.Errorf("save instance: missing id")
	}
	attachment := inst.Attachment()
	data, hash, err := marshalAttachment(attachment)
	if err != nil {
		return false, fmt.Errorf("save instance %s: %w", inst.ID, err)
	}

	// The conflict branch only fires when the content changed, so an
	// unchanged save affects zero rows.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO instances (id, attachment, hash, revision)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			attachment = excluded.attachment,
			hash = excluded.hash,
			revision = instances.revision + 1
		WHERE instances.hash != excluded.hash
	`, inst.ID.String(), data, hash)
	if err != nil {
		return false, fmt.Errorf("save instance %s: %w", inst.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save instance %s: %w", inst.ID, err)
	}
	if n == 0 {
		s.logger.Debug("instance unchanged, skipping write", "id", inst.ID, "hash", hash)
		return false, nil
	}

	var revision int64
	if err := s.db.QueryRowContext(ctx, `SELECT revision FROM instances WHERE id = ?`, inst.ID.String()).Scan(&revision); err != nil {
		s.cache.invalidate(inst.ID)
		return true, fmt.Errorf("save instance %s: read revision: %w", inst.ID, err)
	}
	s.cache.set(inst.ID, cachedAttachment{attachment: attachment, hash: hash, revision: revision})
	s.logger.Debug("instance saved", "id", inst.ID, "revision", revision)
	return true, nil
}

// Delete removes the instance with the given ID.
// Returns ErrNotFound if no such instance exists.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.cache.invalidate(id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM instances WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete instance %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete instance %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete instance %s: %w", id, ErrNotFound)
	}
	return nil
}
