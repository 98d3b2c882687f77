// Package ledgers persists the pending-mutation state: per-owner maps of
// unconfirmed local edits and unconfirmed deletes. Entries survive restarts
// and are cleared only when the backend confirms the mutation.
package ledgers

import (
	"context"

	"github.com/reveriehq/reverie/internal/client/models"
)

type Repository interface {
	// PendingEdits returns dream-id -> last unconfirmed local snapshot.
	PendingEdits(ctx context.Context, ownerKey string) (map[string]models.Dream, error)

	// SetPendingEdit records (or overwrites) the snapshot for a dream id.
	SetPendingEdit(ctx context.Context, ownerKey string, dream models.Dream) error

	// ClearPendingEdit removes the snapshot for a dream id, if present.
	ClearPendingEdit(ctx context.Context, ownerKey, dreamID string) error

	// RenamePendingEdit moves a snapshot from a client-generated id to the
	// server-assigned one, updating the embedded record's id as well.
	RenamePendingEdit(ctx context.Context, ownerKey, oldID, newID string) error

	// PendingDeletes returns the set of unconfirmed-deleted dream ids.
	PendingDeletes(ctx context.Context, ownerKey string) (map[string]struct{}, error)

	AddPendingDelete(ctx context.Context, ownerKey, dreamID string) error
	ClearPendingDelete(ctx context.Context, ownerKey, dreamID string) error

	// ClearAll drops both ledgers for the owner.
	ClearAll(ctx context.Context, ownerKey string) error
}
