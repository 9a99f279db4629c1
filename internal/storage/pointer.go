package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// EpochRow is one entry in the durable epoch index.
type EpochRow struct {
	Epoch    int64  `json:"epoch"`
	CID      string `json:"cid"`
	Updated  string `json:"updated"`
	Checksum string `json:"checksum"`
}

// Pointer returns the content id behind a pointer key, or "" when the key
// has never been initialized.
func (s *SQLite) Pointer(ctx context.Context, key string) (string, error) {
	var cid string
	err := s.db.QueryRowContext(ctx,
		`SELECT cid FROM pointers WHERE key = ?`, key).Scan(&cid)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read pointer: %w", err)
	}
	return cid, nil
}

// InitPointer creates a pointer key. Returns false when the key already
// exists, leaving the existing pointer untouched.
func (s *SQLite) InitPointer(ctx context.Context, key, cid string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pointers (key, cid) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, cid)
	if err != nil {
		return false, fmt.Errorf("init pointer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("init pointer: %w", err)
	}
	return n > 0, nil
}

// AdvancePointer moves a pointer from one content id to another. The swap
// only happens when the stored cid still equals from; a false return means
// a concurrent writer advanced the pointer first.
func (s *SQLite) AdvancePointer(ctx context.Context, key, from, to string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pointers SET cid = ? WHERE key = ? AND cid = ?`, to, key, from)
	if err != nil {
		return false, fmt.Errorf("advance pointer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance pointer: %w", err)
	}
	return n > 0, nil
}

// AppendEpoch records one epoch in the durable index. Re-appending the
// same (key, epoch) is a no-op, so a retried write never duplicates rows.
func (s *SQLite) AppendEpoch(ctx context.Context, key string, row EpochRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO epochs (key, epoch, cid, updated, checksum)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key, epoch) DO NOTHING
	`, key, row.Epoch, row.CID, row.Updated, row.Checksum)
	if err != nil {
		return fmt.Errorf("append epoch: %w", err)
	}
	return nil
}

// Epochs returns the epoch index for a key, oldest first.
func (s *SQLite) Epochs(ctx context.Context, key string) ([]EpochRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT epoch, cid, updated, checksum FROM epochs
		WHERE key = ? ORDER BY epoch ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("read epochs: %w", err)
	}
	defer rows.Close()

	var out []EpochRow
	for rows.Next() {
		var r EpochRow
		if err := rows.Scan(&r.Epoch, &r.CID, &r.Updated, &r.Checksum); err != nil {
			return nil, fmt.Errorf("read epochs: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read epochs: %w", err)
	}
	return out, nil
}
