package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/config"
	"mindpulse/internal/logging"
	"mindpulse/internal/model"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("MINDPULSE_STORE_DRIVER", config.DriverSQLite)
	t.Setenv("MINDPULSE_STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("MINDPULSE_REDIS_ADDR", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNewWithSQLite(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, sqliteConfig(t), logging.Discard())
	require.NoError(t, err)
	a.Start()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	user, _, err := a.AuthService.Signup(ctx, model.SignupRequest{Email: "app@example.com", Password: "password123", FullName: "App User"})
	require.NoError(t, err)
	mood, sleep := 9, 8.0
	submission, err := a.CheckinService.Create(ctx, user.ID, model.CheckinRequest{Mood: &mood, SleepHours: &sleep})
	require.NoError(t, err)

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(closeCtx))
	require.NoError(t, a.Close(closeCtx))

	// the queued analysis was drained before the store closed
	reopened, err := New(ctx, a.Config, logging.Discard())
	require.NoError(t, err)
	defer reopened.Close(ctx)
	analysis, err := reopened.Store.Analyses.GetByCheckinID(ctx, submission.Checkin.ID)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 9.4, analysis.Labels.OverallWellness)
}

func TestNewRejectsUnreachableRedis(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
