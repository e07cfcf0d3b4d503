package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mindpulse/internal/cache"
	"mindpulse/internal/dashboard"
	"mindpulse/internal/model"
	"mindpulse/internal/repository"
	"mindpulse/internal/scoring"
)

// Enqueuer schedules the analysis of a stored check-in
type Enqueuer interface {
	Enqueue(checkinID string)
}

// CheckinService stores check-ins and hands them to the analysis pool
type CheckinService struct {
	checkins   repository.CheckinRepo
	analyses   repository.AnalysisRepo
	alerts     repository.AlertRepo
	dashboards cache.DashboardCache
	queue      Enqueuer
	log        *slog.Logger
	now        func() time.Time
}

func NewCheckinService(store *repository.Store, dashboards cache.DashboardCache, queue Enqueuer, log *slog.Logger) *CheckinService {
	return &CheckinService{
		checkins:   store.Checkins,
		analyses:   store.Analyses,
		alerts:     store.Alerts,
		dashboards: dashboards,
		queue:      queue,
		log:        log.With(slog.String("component", "checkins")),
		now:        time.Now,
	}
}

// Create persists a check-in and schedules its analysis. The analysis
// ID is not known yet, so the submission reports it as pending.
func (s *CheckinService) Create(ctx context.Context, userID string, req model.CheckinRequest) (*model.CheckinSubmission, error) {
	if req.Mood == nil || req.SleepHours == nil {
		return nil, ValidationError("mood and sleep_hours are required")
	}
	if err := (scoring.Input{Mood: *req.Mood, SleepHours: *req.SleepHours}).Validate(); err != nil {
		var de *scoring.DomainError
		if errors.As(err, &de) {
			return nil, ValidationError("%s is out of range", de.Field)
		}
		return nil, ValidationError("%v", err)
	}
	if len([]rune(req.Notes)) > 1000 {
		return nil, ValidationError("notes must be at most 1000 characters")
	}

	checkin := &model.Checkin{
		ID:         uuid.NewString(),
		UserID:     userID,
		Mood:       *req.Mood,
		SleepHours: *req.SleepHours,
		Notes:      req.Notes,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.checkins.Create(ctx, checkin); err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}

	if err := s.dashboards.Invalidate(ctx, userID); err != nil {
		s.log.Warn("dashboard_invalidate_failed", slog.String("user_id", userID), slog.Any("err", err))
	}
	s.queue.Enqueue(checkin.ID)
	return &model.CheckinSubmission{Checkin: checkin, AnalysisID: model.AnalysisPending}, nil
}

// List returns the user's check-ins of the last days, newest first
func (s *CheckinService) List(ctx context.Context, userID string, days int) ([]*model.Checkin, error) {
	checkins, err := s.checkins.ListByUserSince(ctx, userID, dashboard.Since(s.now(), days))
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	for i, j := 0, len(checkins)-1; i < j; i, j = i+1, j-1 {
		checkins[i], checkins[j] = checkins[j], checkins[i]
	}
	return checkins, nil
}

// Get returns one of the user's check-ins
func (s *CheckinService) Get(ctx context.Context, userID, id string) (*model.Checkin, error) {
	checkin, err := s.checkins.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if checkin == nil {
		return nil, NotFoundError("check-in not found")
	}
	return checkin, nil
}

// Analysis reports the analysis state of one of the user's check-ins
func (s *CheckinService) Analysis(ctx context.Context, userID, id string) (*model.AnalysisStatus, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	analysis, err := s.analyses.GetByCheckinID(ctx, id)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return &model.AnalysisStatus{Status: model.AnalysisStatusPending}, nil
	}

	alerts, err := s.alerts.ListByAnalysis(ctx, analysis.ID)
	if err != nil {
		return nil, err
	}
	return &model.AnalysisStatus{Status: model.AnalysisStatusComplete, Analysis: analysis, Alerts: alerts}, nil
}
