package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"homewatt/internal/domain"
)

// AlertPublisher pushes an alert to an external notification channel.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert domain.Alert) error
}

// AlertService serves a simulated alert feed. Alerts are synthesized at read
// time and never persisted; the alerts table exists in the schema but no
// handler writes it. Kept fully simulated rather than half-persisted.
type AlertService struct {
	publisher AlertPublisher
	nextID    int64
	now       func() time.Time
}

// SetPublisher attaches an optional notification channel (SNS when cloud
// services are enabled).
func (s *AlertService) SetPublisher(p AlertPublisher) { s.publisher = p }

func (s *AlertService) List(userID int64) []domain.Alert {
	now := s.clock()
	return []domain.Alert{
		{
			ID:        1,
			UserID:    userID,
			BreakerID: 1,
			Type:      "overload",
			Message:   "High current detected in Kitchen",
			Severity:  "high",
			Status:    "active",
			CreatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID:        2,
			UserID:    userID,
			BreakerID: 2,
			Type:      "voltage",
			Message:   "Voltage fluctuation in Living Room",
			Severity:  "medium",
			Status:    "active",
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}
}

// AlertInput carries the optional fields of a posted alert; absent fields
// fall back to the simulated defaults.
type AlertInput struct {
	BreakerID *int64
	Type      *string
	Message   *string
	Severity  *string
}

// Create synthesizes an alert from the payload. The id counter is atomic;
// one service instance is shared by every request handler.
func (s *AlertService) Create(ctx context.Context, userID int64, in AlertInput) domain.Alert {
	alert := domain.Alert{
		ID:        2 + atomic.AddInt64(&s.nextID, 1),
		UserID:    userID,
		BreakerID: 1,
		Type:      "overload",
		Message:   "New alert",
		Severity:  "medium",
		Status:    "active",
		CreatedAt: s.clock(),
	}
	if in.BreakerID != nil {
		alert.BreakerID = *in.BreakerID
	}
	if in.Type != nil {
		alert.Type = *in.Type
	}
	if in.Message != nil {
		alert.Message = *in.Message
	}
	if in.Severity != nil {
		alert.Severity = *in.Severity
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			log.Error().Err(err).Int64("breaker_id", alert.BreakerID).Msg("alert publish failed")
		}
	}
	return alert
}

func (s *AlertService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
