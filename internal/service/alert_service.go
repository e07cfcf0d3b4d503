package service

import (
	"context"
	"fmt"
	"log/slog"

	"mindpulse/internal/cache"
	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

// AlertListLimit caps how many alerts a listing returns
const AlertListLimit = 50

type AlertService struct {
	alerts     repository.AlertRepo
	dashboards cache.DashboardCache
	log        *slog.Logger
}

func NewAlertService(store *repository.Store, dashboards cache.DashboardCache, log *slog.Logger) *AlertService {
	return &AlertService{
		alerts:     store.Alerts,
		dashboards: dashboards,
		log:        log.With(slog.String("component", "alerts")),
	}
}

// List returns the user's newest alerts
func (s *AlertService) List(ctx context.Context, userID string) ([]*model.Alert, error) {
	alerts, err := s.alerts.ListByUser(ctx, userID, AlertListLimit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// UpdateStatus moves one of the user's alerts to status. Setting the
// current status again changes nothing; leaving closed is a conflict.
func (s *AlertService) UpdateStatus(ctx context.Context, userID, id string, status model.AlertStatus) (*model.Alert, error) {
	if status != model.AlertAcknowledged && status != model.AlertClosed {
		return nil, ValidationError("status must be acknowledged or closed")
	}

	alert, err := s.alerts.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, NotFoundError("alert not found")
	}
	if alert.Status == status {
		return alert, nil
	}
	if !alert.Status.CanTransition(status) {
		return nil, ConflictError("alert is %s and cannot become %s", alert.Status, status)
	}

	if err := s.alerts.UpdateStatus(ctx, alert.ID, status); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}
	alert.Status = status

	if err := s.dashboards.Invalidate(ctx, userID); err != nil {
		s.log.Warn("dashboard_invalidate_failed", slog.String("user_id", userID), slog.Any("err", err))
	}
	return alert, nil
}
