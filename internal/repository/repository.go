package repository

import (
	"context"
	"errors"
	"time"

	"mindpulse/internal/model"
)

// ErrDuplicate is returned when a write violates a unique key
// (user email, one analysis per check-in).
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when the record does not exist.

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// List returns active users matching search (email or name, case
	// insensitive) ordered by creation time, plus the total match count.
	List(ctx context.Context, search string, offset, limit int) ([]*model.User, int64, error)
}

type SettingsRepo interface {
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	Upsert(ctx context.Context, settings *model.UserSettings) error
}

type CheckinRepo interface {
	Create(ctx context.Context, checkin *model.Checkin) error
	GetByID(ctx context.Context, id string) (*model.Checkin, error)
	GetForUser(ctx context.Context, id, userID string) (*model.Checkin, error)
	// ListByUserSince returns the user's check-ins created at or after
	// since, oldest first.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*model.Checkin, error)
}

type AnalysisRepo interface {
	// SaveWithAlerts stores an analysis and its alerts as one unit. It
	// returns ErrDuplicate when the check-in already has an analysis.
	SaveWithAlerts(ctx context.Context, analysis *model.Analysis, alerts []*model.Alert) error
	GetByCheckinID(ctx context.Context, checkinID string) (*model.Analysis, error)
	GetForUser(ctx context.Context, id, userID string) (*model.Analysis, error)
	// ListRecentByUser returns the user's newest analyses first
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Analysis, error)
}

type AlertRepo interface {
	// ListByUser returns the user's newest alerts first
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Alert, error)
	GetForUser(ctx context.Context, id, userID string) (*model.Alert, error)
	UpdateStatus(ctx context.Context, id string, status model.AlertStatus) error
	CountOpen(ctx context.Context, userID string) (int64, error)
	ListByAnalysis(ctx context.Context, analysisID string) ([]*model.Alert, error)
}

// Store groups the repositories behind one persistence handle
type Store struct {
	Users    UserRepo
	Settings SettingsRepo
	Checkins CheckinRepo
	Analyses AnalysisRepo
	Alerts   AlertRepo
}
