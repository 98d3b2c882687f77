package dreams

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/reveriehq/reverie/internal/dbx"
)

// SQLiteRepository implements Repository over the local cache database.
// It takes a *sql.DB rather than a dbx.DBTX because Replace manages its own
// transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context, ownerKey string) ([]models.Dream, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, dreamed_at, mood, tags, lucidity, analysis
		FROM dreams WHERE owner_key = ? ORDER BY position
	`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to select dreams: %w", err)
	}
	defer rows.Close()

	var result []models.Dream
	for rows.Next() {
		var d models.Dream
		var tags string
		var lucidity int
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.Date, &d.Mood, &tags, &lucidity, &d.Analysis); err != nil {
			return nil, fmt.Errorf("failed to scan dream row: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
			// a corrupt tag blob loses the tags, not the record
			d.Tags = nil
		}
		d.Lucidity = lucidity != 0
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dream rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Replace(ctx context.Context, ownerKey string, collection []models.Dream) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM dreams WHERE owner_key = ?`, ownerKey); err != nil {
			return fmt.Errorf("failed to clear dreams: %w", err)
		}

		for position, d := range collection {
			tags, err := json.Marshal(d.Tags)
			if err != nil {
				return fmt.Errorf("failed to encode tags: %w", err)
			}
			lucidity := 0
			if d.Lucidity {
				lucidity = 1
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO dreams (owner_key, id, title, description, dreamed_at, mood, tags, lucidity, analysis, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, ownerKey, d.ID, d.Title, d.Description, d.Date, d.Mood, string(tags), lucidity, d.Analysis, position)
			if err != nil {
				return fmt.Errorf("failed to insert dream %s: %w", d.ID, err)
			}
		}
		return nil
	})
}
