// Package sessions persists saved chat sessions in the local database.
package sessions

import (
	"context"

	"github.com/tiadocs/tia/internal/models"
)

type Repository interface {
	// Save stores or replaces a snapshot by id.
	Save(ctx context.Context, s models.SavedSession) error

	// Get returns a snapshot with its full message log.
	Get(ctx context.Context, id string) (*models.SavedSession, error)

	// List returns all snapshots, newest first, without message logs.
	List(ctx context.Context) ([]models.SavedSession, error)

	// Delete removes a snapshot. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
