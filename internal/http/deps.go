package http

import (
	"context"

	"homewatt/internal/domain"
	"homewatt/internal/service"
)

// The handler layer depends on narrow interfaces so endpoints can be
// exercised without a database.

type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	ResetPassword(ctx context.Context, email, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, email, password string) error
	ParseToken(token string) (int64, error)
}

type BreakerService interface {
	List(ctx context.Context, userID int64) ([]domain.BreakerWithLimit, error)
	Create(ctx context.Context, userID int64, name, location string, powerLimit float64) (int64, error)
	Update(ctx context.Context, userID, breakerID int64, upd service.BreakerUpdate) error
	Delete(ctx context.Context, userID, breakerID int64) error
}

type PowerService interface {
	StoreSample(ctx context.Context, sample domain.PowerSample) error
	GetPowerData(ctx context.Context, userID int64, breakerID *int64, startDate, endDate string) (domain.PowerDataResponse, error)
	GetProjections(ctx context.Context, userID int64) (domain.Projections, error)
}

type AlertService interface {
	List(userID int64) []domain.Alert
	Create(ctx context.Context, userID int64, in service.AlertInput) domain.Alert
}

type SettingsService interface {
	Get(ctx context.Context, userID int64) (domain.UserSettings, error)
	Save(ctx context.Context, settings domain.UserSettings) error
}

type BackupRunner interface {
	Run(ctx context.Context) (service.BackupResult, error)
}

type RateLimiter interface {
	Check(ctx context.Context, identifier string) error
}

type Deps struct {
	Auth     AuthService
	Breakers BreakerService
	Power    PowerService
	Alerts   AlertService
	Settings SettingsService
	Backup   BackupRunner
	Limiter  RateLimiter
}
