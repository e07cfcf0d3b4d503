package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mindpulse/internal/cache"
	"mindpulse/internal/dashboard"
	"mindpulse/internal/model"
	"mindpulse/internal/observability"
	"mindpulse/internal/repository"
)

// RecentInsightLimit caps the recent insights listing
const RecentInsightLimit = 10

// InsightService serves read models built from stored analyses
type InsightService struct {
	checkins   repository.CheckinRepo
	analyses   repository.AnalysisRepo
	alerts     repository.AlertRepo
	dashboards cache.DashboardCache
	metrics    *observability.Metrics
	log        *slog.Logger
	now        func() time.Time
}

func NewInsightService(store *repository.Store, dashboards cache.DashboardCache, metrics *observability.Metrics, log *slog.Logger) *InsightService {
	return &InsightService{
		checkins:   store.Checkins,
		analyses:   store.Analyses,
		alerts:     store.Alerts,
		dashboards: dashboards,
		metrics:    metrics,
		log:        log.With(slog.String("component", "insights")),
		now:        time.Now,
	}
}

// Recent pairs the user's newest analyses with their check-ins
func (s *InsightService) Recent(ctx context.Context, userID string) ([]*model.Insight, error) {
	analyses, err := s.analyses.ListRecentByUser(ctx, userID, RecentInsightLimit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	insights := make([]*model.Insight, 0, len(analyses))
	for _, a := range analyses {
		checkin, err := s.checkins.GetByID(ctx, a.CheckinID)
		if err != nil {
			return nil, err
		}
		if checkin == nil {
			continue
		}
		insights = append(insights, &model.Insight{ID: a.ID, Checkin: checkin, Analysis: a})
	}
	return insights, nil
}

// Get returns one of the user's insights by analysis ID
func (s *InsightService) Get(ctx context.Context, userID, id string) (*model.Insight, error) {
	analysis, err := s.analyses.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, NotFoundError("insight not found")
	}
	checkin, err := s.checkins.GetByID(ctx, analysis.CheckinID)
	if err != nil {
		return nil, err
	}
	return &model.Insight{ID: analysis.ID, Checkin: checkin, Analysis: analysis}, nil
}

// Dashboard aggregates the user's last days, served from cache when fresh
func (s *InsightService) Dashboard(ctx context.Context, userID string, days int) (*model.Dashboard, error) {
	cached, err := s.dashboards.Get(ctx, userID, days)
	if err != nil {
		s.log.Warn("dashboard_cache_read_failed", slog.String("user_id", userID), slog.Any("err", err))
	}
	if cached != nil {
		s.metrics.CacheHit()
		return cached, nil
	}
	s.metrics.CacheMiss()

	now := s.now()
	checkins, err := s.checkins.ListByUserSince(ctx, userID, dashboard.Since(now, days))
	if err != nil {
		return nil, fmt.Errorf("load checkins: %w", err)
	}
	analyses, err := s.analyses.ListRecentByUser(ctx, userID, dashboard.StressWindow)
	if err != nil {
		return nil, fmt.Errorf("load analyses: %w", err)
	}
	open, err := s.alerts.CountOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}

	d := dashboard.Build(now, checkins, analyses, open)
	if err := s.dashboards.Set(ctx, userID, days, d); err != nil {
		s.log.Warn("dashboard_cache_write_failed", slog.String("user_id", userID), slog.Any("err", err))
	}
	return d, nil
}
