// Package dreams persists the per-owner working copy of the dream collection.
package dreams

import (
	"context"

	"github.com/reveriehq/reverie/internal/client/models"
)

type Repository interface {
	// List returns the owner's collection in stored order (newest first by
	// caller convention).
	List(ctx context.Context, ownerKey string) ([]models.Dream, error)

	// Replace swaps the owner's whole collection for the given one atomically.
	Replace(ctx context.Context, ownerKey string, collection []models.Dream) error
}
