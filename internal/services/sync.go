package services

import (
	"context"
	"time"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/filetype"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/store"
)

// SyncService rebuilds local collection state from the backend's listing of
// processed documents. Used once at session start; the backend listing is
// authoritative, so the collection is replaced wholesale.
type SyncService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

func NewSyncService(client api.Client, st *store.Store, log logging.Logger) *SyncService {
	return &SyncService{client: client, store: st, log: log}
}

// Rehydrate fetches the user's processed documents and replaces the target
// collection's document list with them. Returns the number of documents.
func (s *SyncService) Rehydrate(ctx context.Context, userID, collectionID string) (int, error) {
	if userID == "" {
		return 0, ErrNotAuthenticated
	}

	remote, err := s.client.ListDocuments(ctx, userID)
	if err != nil {
		return 0, err
	}

	docs := make([]models.Document, 0, len(remote))
	for _, r := range remote {
		docs = append(docs, models.Document{
			ID:        r.Filename,
			Name:      r.Filename,
			Type:      filetype.Detect(r.Filename),
			SizeBytes: r.Size,
			SizeLabel: models.FormatSize(r.Size),
			AddedAt:   parseModified(r.ModifiedDate),
			Status:    models.StatusCompleted,
		})
	}

	if err := s.store.Rehydrate(collectionID, docs); err != nil {
		return 0, err
	}
	s.log.Info(ctx, "collection rehydrated", "collection", collectionID, "documents", len(docs))
	return len(docs), nil
}

// parseModified is best-effort: the backend emits RFC 3339, but an
// unparseable date only costs the display timestamp.
func parseModified(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
