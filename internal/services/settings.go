package services

import (
	"context"
	"encoding/json"

	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/repositories/metadata"
)

// SettingsService persists user-facing settings in the local metadata store
// and degrades to defaults whenever the stored record is absent or garbled.
type SettingsService struct {
	meta metadata.Repository
	log  logging.Logger
}

func NewSettingsService(meta metadata.Repository, log logging.Logger) *SettingsService {
	return &SettingsService{meta: meta, log: log}
}

// Load returns the persisted settings, or defaults when nothing usable is
// stored. Corrupt records are discarded, never propagated.
func (s *SettingsService) Load(ctx context.Context) models.Settings {
	raw, err := s.meta.Get(ctx, metadata.KeySettings)
	if err != nil || raw == nil {
		return models.DefaultSettings()
	}

	settings := models.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn(ctx, "discarding corrupted persisted settings")
		_ = s.meta.Delete(ctx, metadata.KeySettings)
		return models.DefaultSettings()
	}
	return settings
}

// Save flushes the settings to storage.
func (s *SettingsService) Save(ctx context.Context, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.meta.Set(ctx, metadata.KeySettings, raw)
}
