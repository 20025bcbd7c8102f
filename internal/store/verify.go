package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/tag"
)

// Finding describes one stored instance that failed verification.
// RowID is the id column as stored; ID is zero when it does not parse.
type Finding struct {
	ID      uuid.UUID
	RowID   string
	Problem string
}

// Report is the outcome of Verify.
type Report struct {
	Checked  int
	Findings []Finding
}

// OK reports whether every checked instance passed.
func (r Report) OK() bool { return len(r.Findings) == 0 }

// Verify decodes every stored attachment and recomputes its content hash.
// It reports one finding per row that has an unparseable id, cannot be
// decoded, or whose stored hash is stale.
func (s *Store) Verify(ctx context.Context) (Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attachment, hash
		FROM instances
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return Report{}, fmt.Errorf("verify: %w", err)
	}
	defer rows.Close()

	report := Report{Findings: []Finding{}}
	for rows.Next() {
		var (
			rawID string
			data  []byte
			hash  string
		)
		if err := rows.Scan(&rawID, &data, &hash); err != nil {
			return Report{}, fmt.Errorf("verify: %w", err)
		}
		report.Checked++
		if problem, id := verifyRow(rawID, data, hash); problem != "" {
			report.Findings = append(report.Findings, Finding{ID: id, RowID: rawID, Problem: problem})
		}
	}
	if err := rows.Err(); err != nil {
		return Report{}, fmt.Errorf("verify: %w", err)
	}

	for _, f := range report.Findings {
		s.logger.Warn("instance failed verification", "id", f.RowID, "problem", f.Problem)
	}
	return report, nil
}

// verifyRow returns the problem with one row, or "" when it is sound.
func verifyRow(rawID string, data []byte, hash string) (string, uuid.UUID) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Sprintf("invalid id %q", rawID), uuid.Nil
	}
	attachment, err := unmarshalAttachment(data)
	if err != nil {
		return err.Error(), id
	}
	actual, err := tag.Hash(attachment)
	if err != nil {
		return err.Error(), id
	}
	if actual != hash {
		return fmt.Sprintf("hash mismatch: stored %s, computed %s", hash, actual), id
	}
	return "", id
}
