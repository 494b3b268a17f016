package service

import (
	"context"
	"fmt"

	"homewatt/internal/domain"
	"homewatt/internal/repository"
)

type SettingsService struct {
	repos *repository.Repos
}

func (s *SettingsService) Get(ctx context.Context, userID int64) (domain.UserSettings, error) {
	settings, err := s.repos.Settings(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) Save(ctx context.Context, settings domain.UserSettings) error {
	if err := s.repos.UpsertSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
