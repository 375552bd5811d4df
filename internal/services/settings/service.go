// Package settings manages per-player app settings with default seeding
// on first access.
package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Service loads and persists per-player settings
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new settings service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the player's settings, seeding and persisting defaults the
// first time a player is seen. Stored values are normalized on the way out
// so older records stay within bounds.
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.AppSettings, error) {
	settings, err := s.storage.GetSettings(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrSettingsNotFound) {
			return nil, err
		}

		defaults := model.DefaultAppSettings()
		if err := s.storage.SaveSettings(ctx, id, &defaults); err != nil {
			return nil, err
		}
		s.logger.Info("settings seeded",
			slog.String("player_id", string(id)),
		)
		return &defaults, nil
	}

	settings.Normalize()
	return settings, nil
}

// Update normalizes and persists new settings, returning the stored form
func (s *Service) Update(ctx context.Context, id model.PlayerID, settings *model.AppSettings) (*model.AppSettings, error) {
	settings.Normalize()

	if err := s.storage.SaveSettings(ctx, id, settings); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated",
		slog.String("player_id", string(id)),
		slog.String("selected_track", settings.SelectedTrack),
		slog.Float64("volume", settings.Volume),
	)
	return settings, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Get(ctx context.Context, id model.PlayerID) (*model.AppSettings, error)
	Update(ctx context.Context, id model.PlayerID, settings *model.AppSettings) (*model.AppSettings, error)
}

var _ ServiceInterface = (*Service)(nil)
