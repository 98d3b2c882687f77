package ledgers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/reveriehq/reverie/internal/dbx"
)

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) PendingEdits(ctx context.Context, ownerKey string) (map[string]models.Dream, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dream_id, snapshot FROM pending_edits WHERE owner_key = ?`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending edits: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.Dream)
	for rows.Next() {
		var id string
		var snapshot []byte
		if err := rows.Scan(&id, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan pending edit: %w", err)
		}
		var d models.Dream
		if err := json.Unmarshal(snapshot, &d); err != nil {
			// a corrupt snapshot is dropped rather than wedging every sync
			continue
		}
		result[id] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending edits: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) SetPendingEdit(ctx context.Context, ownerKey string, dream models.Dream) error {
	snapshot, err := json.Marshal(dream)
	if err != nil {
		return fmt.Errorf("failed to encode pending edit: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pending_edits (owner_key, dream_id, snapshot) VALUES (?, ?, ?)
		ON CONFLICT(owner_key, dream_id) DO UPDATE SET snapshot = excluded.snapshot
	`, ownerKey, dream.ID, snapshot)
	if err != nil {
		return fmt.Errorf("failed to upsert pending edit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearPendingEdit(ctx context.Context, ownerKey, dreamID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_edits WHERE owner_key = ? AND dream_id = ?`, ownerKey, dreamID)
	if err != nil {
		return fmt.Errorf("failed to clear pending edit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RenamePendingEdit(ctx context.Context, ownerKey, oldID, newID string) error {
	edits, err := r.PendingEdits(ctx, ownerKey)
	if err != nil {
		return err
	}
	d, ok := edits[oldID]
	if !ok {
		return nil
	}
	d.ID = newID
	if err := r.SetPendingEdit(ctx, ownerKey, d); err != nil {
		return err
	}
	return r.ClearPendingEdit(ctx, ownerKey, oldID)
}

func (r *SQLiteRepository) PendingDeletes(ctx context.Context, ownerKey string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dream_id FROM pending_deletes WHERE owner_key = ?`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending deletes: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending delete: %w", err)
		}
		result[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending deletes: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) AddPendingDelete(ctx context.Context, ownerKey, dreamID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_deletes (owner_key, dream_id) VALUES (?, ?)
		ON CONFLICT(owner_key, dream_id) DO NOTHING
	`, ownerKey, dreamID)
	if err != nil {
		return fmt.Errorf("failed to add pending delete: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearPendingDelete(ctx context.Context, ownerKey, dreamID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_deletes WHERE owner_key = ? AND dream_id = ?`, ownerKey, dreamID)
	if err != nil {
		return fmt.Errorf("failed to clear pending delete: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context, ownerKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_edits WHERE owner_key = ?`, ownerKey); err != nil {
		return fmt.Errorf("failed to clear pending edits: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_deletes WHERE owner_key = ?`, ownerKey); err != nil {
		return fmt.Errorf("failed to clear pending deletes: %w", err)
	}
	return nil
}
