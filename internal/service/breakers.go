package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"homewatt/internal/cache"
	"homewatt/internal/domain"
	"homewatt/internal/repository"
)

// warningRatio fixes the warning threshold at 90% of a breaker's maximum
// power on every write path.
const warningRatio = 0.9

func WarningThreshold(maxPower float64) float64 { return maxPower * warningRatio }

type BreakerService struct {
	repos *repository.Repos
	cache *cache.Cache
}

func listCacheKey(userID int64) string {
	return fmt.Sprintf("circuit_breakers_user_%d", userID)
}

// List returns the user's breakers joined with their power limits, served
// from the response cache when fresh.
func (s *BreakerService) List(ctx context.Context, userID int64) ([]domain.BreakerWithLimit, error) {
	key := listCacheKey(userID)

	var cached []domain.BreakerWithLimit
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	breakers, err := s.repos.ListBreakersWithLimits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list breakers: %w", err)
	}

	s.cache.Set(ctx, key, breakers, 0)
	return breakers, nil
}

// Create inserts the breaker and its derived power-limit row in one
// transaction; if either insert fails, neither persists.
func (s *BreakerService) Create(ctx context.Context, userID int64, name, location string, powerLimit float64) (int64, error) {
	var breakerID int64
	err := s.repos.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.repos.InsertBreakerTx(tx, userID, name, location, powerLimit)
		if err != nil {
			return err
		}
		breakerID = id
		return s.repos.InsertPowerLimitTx(tx, id, powerLimit, WarningThreshold(powerLimit))
	})
	if err != nil {
		return 0, fmt.Errorf("create breaker: %w", err)
	}

	s.cache.Invalidate(ctx, listCacheKey(userID))
	return breakerID, nil
}

// BreakerUpdate carries the optional fields of a partial update; nil means
// "leave unchanged".
type BreakerUpdate struct {
	Name       *string
	Location   *string
	PowerLimit *float64
	Status     *string
}

// Update applies only the supplied fields. A power-limit change recomputes
// the dependent power-limit row inside the same transaction.
func (s *BreakerService) Update(ctx context.Context, userID, breakerID int64, upd BreakerUpdate) error {
	fields := []repository.Field{}
	if upd.Name != nil {
		fields = append(fields, repository.Field{Column: "name", Value: *upd.Name})
	}
	if upd.Location != nil {
		fields = append(fields, repository.Field{Column: "location", Value: *upd.Location})
	}
	if upd.PowerLimit != nil {
		fields = append(fields, repository.Field{Column: "power_limit", Value: *upd.PowerLimit})
	}
	if upd.Status != nil {
		fields = append(fields, repository.Field{Column: "status", Value: *upd.Status})
	}

	err := s.repos.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repos.UpdateBreakerTx(tx, breakerID, userID, fields); err != nil {
			return err
		}
		if upd.PowerLimit != nil {
			return s.repos.UpdatePowerLimitTx(tx, breakerID, *upd.PowerLimit, WarningThreshold(*upd.PowerLimit))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update breaker: %w", err)
	}

	s.cache.Invalidate(ctx, listCacheKey(userID))
	return nil
}

func (s *BreakerService) Delete(ctx context.Context, userID, breakerID int64) error {
	if err := s.repos.DeleteBreaker(ctx, breakerID, userID); err != nil {
		return fmt.Errorf("delete breaker: %w", err)
	}
	s.cache.Invalidate(ctx, listCacheKey(userID))
	return nil
}
