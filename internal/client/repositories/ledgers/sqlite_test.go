package ledgers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:ledgersrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS pending_edits (
  owner_key TEXT NOT NULL,
  dream_id  TEXT NOT NULL,
  snapshot  BLOB NOT NULL,
  PRIMARY KEY (owner_key, dream_id)
);
CREATE TABLE IF NOT EXISTS pending_deletes (
  owner_key TEXT NOT NULL,
  dream_id  TEXT NOT NULL,
  PRIMARY KEY (owner_key, dream_id)
);
DELETE FROM pending_edits;
DELETE FROM pending_deletes;`)
	require.NoError(t, err)
	return db
}

func TestPendingEdits_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	d := models.Dream{ID: "a", Title: "new", Mood: "neutral", Tags: []string{"x"}}
	require.NoError(t, repo.SetPendingEdit(ctx, "a@x.com", d))

	edits, err := repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	require.Equal(t, d, edits["a"])

	// snapshot overwritten on a second edit
	d.Title = "newer"
	require.NoError(t, repo.SetPendingEdit(ctx, "a@x.com", d))
	edits, err = repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "newer", edits["a"].Title)

	require.NoError(t, repo.ClearPendingEdit(ctx, "a@x.com", "a"))
	edits, err = repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Empty(t, edits)
}

func TestRenamePendingEdit(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	local := models.Dream{ID: "local-1", Title: "Flying"}
	require.NoError(t, repo.SetPendingEdit(ctx, "a@x.com", local))
	require.NoError(t, repo.RenamePendingEdit(ctx, "a@x.com", "local-1", "srv-9"))

	edits, err := repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	require.Equal(t, "srv-9", edits["srv-9"].ID)
	require.Equal(t, "Flying", edits["srv-9"].Title)

	// renaming an absent id is a no-op
	require.NoError(t, repo.RenamePendingEdit(ctx, "a@x.com", "missing", "whatever"))
}

func TestPendingDeletes(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddPendingDelete(ctx, "a@x.com", "a"))
	// adding twice is idempotent
	require.NoError(t, repo.AddPendingDelete(ctx, "a@x.com", "a"))

	deletes, err := repo.PendingDeletes(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	require.Contains(t, deletes, "a")

	require.NoError(t, repo.ClearPendingDelete(ctx, "a@x.com", "a"))
	deletes, err = repo.PendingDeletes(ctx, "a@x.com")
	require.NoError(t, err)
	require.Empty(t, deletes)
}

func TestClearAll(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetPendingEdit(ctx, "a@x.com", models.Dream{ID: "a"}))
	require.NoError(t, repo.AddPendingDelete(ctx, "a@x.com", "b"))
	require.NoError(t, repo.SetPendingEdit(ctx, "other@x.com", models.Dream{ID: "c"}))

	require.NoError(t, repo.ClearAll(ctx, "a@x.com"))

	edits, err := repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Empty(t, edits)
	deletes, err := repo.PendingDeletes(ctx, "a@x.com")
	require.NoError(t, err)
	require.Empty(t, deletes)

	// other owners untouched
	edits, err = repo.PendingEdits(ctx, "other@x.com")
	require.NoError(t, err)
	require.Len(t, edits, 1)
}

func TestCorruptSnapshotIsSkipped(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO pending_edits (owner_key, dream_id, snapshot) VALUES ('a@x.com', 'bad', 'not-json')`)
	require.NoError(t, err)
	require.NoError(t, repo.SetPendingEdit(ctx, "a@x.com", models.Dream{ID: "good"}))

	edits, err := repo.PendingEdits(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	require.Contains(t, edits, "good")
}
