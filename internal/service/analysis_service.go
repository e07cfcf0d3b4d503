package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindpulse/internal/cache"
	"mindpulse/internal/config"
	"mindpulse/internal/events"
	"mindpulse/internal/model"
	"mindpulse/internal/observability"
	"mindpulse/internal/repository"
	"mindpulse/internal/scoring"
)

const (
	analysisTimeout = 30 * time.Second
	publishTimeout  = 5 * time.Second
)

// AnalysisService runs the scoring engine on submitted check-ins using a
// bounded worker pool. A check-in is analyzed at most once.
type AnalysisService struct {
	checkins   repository.CheckinRepo
	analyses   repository.AnalysisRepo
	dashboards cache.DashboardCache
	publisher  events.Publisher
	notifier   Notifier
	metrics    *observability.Metrics
	log        *slog.Logger
	workers    int

	jobs     chan string
	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	overflow sync.WaitGroup

	publishTimeout time.Duration

	newID func() (string, error)
	now   func() time.Time
}

func NewAnalysisService(store *repository.Store, dashboards cache.DashboardCache, publisher events.Publisher,
	metrics *observability.Metrics, cfg config.AnalysisConfig, log *slog.Logger) *AnalysisService {
	return &AnalysisService{
		checkins:   store.Checkins,
		analyses:   store.Analyses,
		dashboards: dashboards,
		publisher:  publisher,
		notifier:   noopNotifier{},
		metrics:    metrics,
		log:        log.With(slog.String("component", "analysis")),
		workers:    cfg.Workers,
		jobs:       make(chan string, cfg.QueueSize),

		publishTimeout: publishTimeout,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			return id.String(), err
		},
		now: time.Now,
	}
}

// SetNotifier sets the push channel (wsHub implements Notifier)
func (s *AnalysisService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start launches the workers
func (s *AnalysisService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.log.Info("analysis_workers_started", slog.Int("workers", s.workers), slog.Int("queue", cap(s.jobs)))
}

func (s *AnalysisService) worker() {
	defer s.wg.Done()
	for id := range s.jobs {
		s.run(id)
	}
}

func (s *AnalysisService) run(checkinID string) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()
	if _, _, err := s.Process(ctx, checkinID); err != nil && !errors.Is(err, scoring.ErrOutOfRange) {
		s.log.Error("analysis_failed", slog.String("checkin_id", checkinID), slog.Any("err", err))
	}
}

// Enqueue schedules checkinID without blocking on the queue. Jobs are
// never dropped: when the queue is full the job runs on its own
// goroutine, and after Stop it runs inline.
func (s *AnalysisService) Enqueue(checkinID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		s.run(checkinID)
		return
	}
	select {
	case s.jobs <- checkinID:
		return
	default:
	}

	s.metrics.QueueOverflow()
	s.log.Warn("analysis_queue_full", slog.String("checkin_id", checkinID))
	s.overflow.Add(1)
	go func() {
		defer s.overflow.Done()
		s.run(checkinID)
	}()
}

// Stop closes the queue and waits for queued and in-flight jobs to finish
func (s *AnalysisService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.jobs)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.overflow.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("analysis_workers_stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain analysis queue: %w", ctx.Err())
	}
}

// Process analyzes one check-in and stores the result with its alerts.
// If the check-in was already analyzed the stored analysis is returned
// unchanged. Out of range check-ins return scoring.ErrOutOfRange.
func (s *AnalysisService) Process(ctx context.Context, checkinID string) (*model.Analysis, []*model.Alert, error) {
	start := time.Now()

	existing, err := s.analyses.GetByCheckinID(ctx, checkinID)
	if err != nil {
		s.metrics.AnalysisOutcome(observability.OutcomeFailed, 0)
		return nil, nil, fmt.Errorf("lookup analysis: %w", err)
	}
	if existing != nil {
		s.metrics.AnalysisOutcome(observability.OutcomeDuplicate, 0)
		return existing, nil, nil
	}

	checkin, err := s.checkins.GetByID(ctx, checkinID)
	if err != nil {
		s.metrics.AnalysisOutcome(observability.OutcomeFailed, 0)
		return nil, nil, fmt.Errorf("load checkin: %w", err)
	}
	if checkin == nil {
		s.metrics.AnalysisOutcome(observability.OutcomeSkipped, 0)
		s.log.Warn("analysis_checkin_missing", slog.String("checkin_id", checkinID))
		return nil, nil, nil
	}

	result, drafts, err := scoring.Analyze(scoring.Input{Mood: checkin.Mood, SleepHours: checkin.SleepHours})
	if err != nil {
		s.metrics.AnalysisOutcome(observability.OutcomeSkipped, 0)
		s.log.Warn("analysis_input_rejected", slog.String("checkin_id", checkinID), slog.Any("err", err))
		return nil, nil, err
	}

	analysis, alerts, err := s.build(checkin, result, drafts)
	if err != nil {
		s.metrics.AnalysisOutcome(observability.OutcomeFailed, 0)
		return nil, nil, err
	}

	if err := s.analyses.SaveWithAlerts(ctx, analysis, alerts); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.AnalysisOutcome(observability.OutcomeDuplicate, 0)
			stored, lookupErr := s.analyses.GetByCheckinID(ctx, checkinID)
			return stored, nil, lookupErr
		}
		s.metrics.AnalysisOutcome(observability.OutcomeFailed, 0)
		return nil, nil, fmt.Errorf("save analysis: %w", err)
	}

	s.metrics.AnalysisOutcome(observability.OutcomeStored, time.Since(start))
	s.log.Info("analysis_stored",
		slog.String("checkin_id", checkinID),
		slog.String("analysis_id", analysis.ID),
		slog.Int("alerts", len(alerts)))

	s.afterStore(ctx, analysis, alerts)
	return analysis, alerts, nil
}

func (s *AnalysisService) build(checkin *model.Checkin, result scoring.Result, drafts []model.Alert) (*model.Analysis, []*model.Alert, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	id, err := s.newID()
	if err != nil {
		return nil, nil, fmt.Errorf("analysis id: %w", err)
	}

	analysis := &model.Analysis{
		ID:           id,
		CheckinID:    checkin.ID,
		UserID:       checkin.UserID,
		ModelVersion: model.ModelVersion,
		Summary:      result.Summary,
		Labels:       result.Labels,
		Confidence:   result.Confidence,
		CreatedAt:    now,
	}

	alerts := make([]*model.Alert, 0, len(drafts))
	for i := range drafts {
		alert := drafts[i]
		if alert.ID, err = s.newID(); err != nil {
			return nil, nil, fmt.Errorf("alert id: %w", err)
		}
		alert.UserID = checkin.UserID
		alert.AnalysisID = analysis.ID
		alert.CreatedAt = now
		alerts = append(alerts, &alert)
	}
	return analysis, alerts, nil
}

// afterStore runs the side effects of a stored analysis. Failures are
// logged; the analysis itself is already durable.
func (s *AnalysisService) afterStore(ctx context.Context, analysis *model.Analysis, alerts []*model.Alert) {
	if err := s.dashboards.Invalidate(ctx, analysis.UserID); err != nil {
		s.log.Warn("dashboard_invalidate_failed", slog.String("user_id", analysis.UserID), slog.Any("err", err))
	}
	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	err := s.publisher.PublishAnalysisCompleted(pubCtx, events.NewAnalysisCompleted(analysis, alerts))
	cancel()
	if err != nil {
		s.log.Warn("event_publish_failed", slog.String("analysis_id", analysis.ID), slog.Any("err", err))
	}

	s.notifier.NotifyUser(analysis.UserID, MsgAnalysisReady, map[string]interface{}{
		"checkin_id": analysis.CheckinID,
		"analysis":   analysis,
	})
	for _, alert := range alerts {
		s.metrics.AlertRaised(alert.Kind)
		s.notifier.NotifyUser(alert.UserID, MsgAlertCreated, alert)
	}
}
