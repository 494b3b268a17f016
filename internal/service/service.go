package service

import (
	"github.com/jmoiron/sqlx"

	"homewatt/internal/cache"
	"homewatt/internal/config"
	"homewatt/internal/repository"
)

type Services struct {
	Repos    *repository.Repos
	Auth     *AuthService
	Breakers *BreakerService
	Power    *PowerService
	Alerts   *AlertService
	Settings *SettingsService
	Backup   *BackupService
}

func New(db *sqlx.DB) *Services {
	repos := repository.New(db)
	respCache := cache.New(repos, config.CacheEnabled(), config.CacheTTL())

	return &Services{
		Repos:    repos,
		Auth:     &AuthService{repos: repos, secret: config.JWTSecret()},
		Breakers: &BreakerService{repos: repos, cache: respCache},
		Power:    &PowerService{repos: repos},
		Alerts:   &AlertService{},
		Settings: &SettingsService{repos: repos},
		Backup:   &BackupService{dsn: config.DBDSN(), dir: config.BackupDir()},
	}
}
