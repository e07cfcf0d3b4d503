package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func newUser(t *testing.T, store *repository.Store, email, name string) *model.User {
	t.Helper()
	u := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: "hash",
		FullName:       name,
		Role:           model.RoleUser,
		IsActive:       true,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func TestMigrateIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	u := newUser(t, store, "ana@example.com", "Ana Lima")

	dup := *u
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, store.Users.Create(ctx, &dup), repository.ErrDuplicate)

	got, err := store.Users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastLogin)

	missing, err := store.Users.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	login := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	got.LastLogin = &login
	got.Role = model.RoleCoach
	require.NoError(t, store.Users.Update(ctx, got))

	again, err := store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoach, again.Role)
	require.NotNil(t, again.LastLogin)
	assert.True(t, login.Equal(*again.LastLogin))
}

func TestUserUpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	newUser(t, store, "a@example.com", "Aa")
	b := newUser(t, store, "b@example.com", "Bb")

	b.Email = "a@example.com"
	assert.ErrorIs(t, store.Users.Update(ctx, b), repository.ErrDuplicate)
}

func TestUserListSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	newUser(t, store, "ana@example.com", "Ana Lima")
	newUser(t, store, "bruno@example.com", "Bruno Costa")
	carla := newUser(t, store, "carla@test.org", "Carla 100%")

	users, total, err := store.Users.List(ctx, "", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	users, total, err = store.Users.List(ctx, "EXAMPLE", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, _, err = store.Users.List(ctx, "100%", 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, carla.ID, users[0].ID)

	carla.IsActive = false
	require.NoError(t, store.Users.Update(ctx, carla))
	_, total, err = store.Users.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	u := newUser(t, store, "s@example.com", "Sam")

	none, err := store.Settings.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &model.UserSettings{ID: uuid.NewString(), UserID: u.ID, Preferences: model.DefaultPreferences()}
	require.NoError(t, store.Settings.Upsert(ctx, first))

	prefs := model.DefaultPreferences()
	prefs.Theme = "dark"
	second := &model.UserSettings{ID: uuid.NewString(), UserID: u.ID, Preferences: prefs}
	require.NoError(t, store.Settings.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID, "upsert keeps the original row")

	got, err := store.Settings.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Preferences.Theme)
	assert.Equal(t, "Asia/Kolkata", got.Preferences.Timezone)
}

func TestCheckinsSinceAscending(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	u := newUser(t, store, "c@example.com", "Cy")
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		c := &model.Checkin{ID: uuid.NewString(), UserID: u.ID, Mood: i + 3, SleepHours: 7, CreatedAt: base.AddDate(0, 0, i)}
		require.NoError(t, store.Checkins.Create(ctx, c))
	}

	list, err := store.Checkins.ListByUserSince(ctx, u.ID, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 4, list[0].Mood)
	assert.Equal(t, 6, list[2].Mood)

	owned, err := store.Checkins.GetForUser(ctx, list[0].ID, u.ID)
	require.NoError(t, err)
	require.NotNil(t, owned)

	other, err := store.Checkins.GetForUser(ctx, list[0].ID, "someone-else")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func seedAnalysis(t *testing.T, store *repository.Store, u *model.User, stress int, at time.Time) (*model.Analysis, []*model.Alert) {
	t.Helper()
	ctx := context.Background()
	c := &model.Checkin{ID: uuid.NewString(), UserID: u.ID, Mood: 2, SleepHours: 4, CreatedAt: at}
	require.NoError(t, store.Checkins.Create(ctx, c))

	a := &model.Analysis{
		ID:           uuid.Must(uuid.NewV7()).String(),
		CheckinID:    c.ID,
		UserID:       u.ID,
		ModelVersion: model.ModelVersion,
		Summary:      "summary",
		Labels:       model.Labels{StressLevel: stress, RiskScore: 9, OverallWellness: 3.2},
		Confidence:   0.85,
		CreatedAt:    at,
	}
	alerts := []*model.Alert{
		{ID: uuid.Must(uuid.NewV7()).String(), UserID: u.ID, AnalysisID: a.ID, Kind: model.AlertLowSleep,
			Status: model.AlertOpen, Payload: model.LowSleepPayload(4, "Sleep was only 4.0h"), CreatedAt: at},
		{ID: uuid.Must(uuid.NewV7()).String(), UserID: u.ID, AnalysisID: a.ID, Kind: model.AlertRiskDetected,
			Status: model.AlertOpen, Payload: model.RiskDetectedPayload(9, "Elevated risk indicators detected"), CreatedAt: at},
	}
	require.NoError(t, store.Analyses.SaveWithAlerts(ctx, a, alerts))
	return a, alerts
}

func TestSaveWithAlertsOncePerCheckin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	u := newUser(t, store, "d@example.com", "Di")
	at := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	a, _ := seedAnalysis(t, store, u, 9, at)

	dup := *a
	dup.ID = uuid.Must(uuid.NewV7()).String()
	err := store.Analyses.SaveWithAlerts(ctx, &dup, []*model.Alert{{
		ID: uuid.NewString(), UserID: u.ID, AnalysisID: dup.ID, Kind: model.AlertPositiveTrend,
		Status: model.AlertOpen, Payload: model.PositiveTrendPayload("x"), CreatedAt: at,
	}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	alerts, err := store.Alerts.ListByAnalysis(ctx, dup.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts, "rolled back with the analysis")

	got, err := store.Analyses.GetByCheckinID(ctx, a.CheckinID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, 3.2, got.Labels.OverallWellness)
}

func TestSaveWithAlertsRollsBackOnAlertFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	u := newUser(t, store, "e@example.com", "Ed")
	at := time.Now().UTC()

	c := &model.Checkin{ID: uuid.NewString(), UserID: u.ID, Mood: 5, SleepHours: 7, CreatedAt: at}
	require.NoError(t, store.Checkins.Create(ctx, c))

	a := &model.Analysis{ID: uuid.NewString(), CheckinID: c.ID, UserID: u.ID, ModelVersion: model.ModelVersion, CreatedAt: at}
	sameID := uuid.NewString()
	alerts := []*model.Alert{
		{ID: sameID, UserID: u.ID, AnalysisID: a.ID, Kind: model.AlertLowSleep, Status: model.AlertOpen, CreatedAt: at},
		{ID: sameID, UserID: u.ID, AnalysisID: a.ID, Kind: model.AlertHighStress, Status: model.AlertOpen, CreatedAt: at},
	}
	require.Error(t, store.Analyses.SaveWithAlerts(ctx, a, alerts))

	got, err := store.Analyses.GetByCheckinID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAlertsLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	u := newUser(t, store, "f@example.com", "Fi")

	older, _ := seedAnalysis(t, store, u, 9, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	newer, newerAlerts := seedAnalysis(t, store, u, 4, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	recent, err := store.Analyses.ListRecentByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, newer.ID, recent[0].ID)
	assert.Equal(t, older.ID, recent[1].ID)

	byAnalysis, err := store.Alerts.ListByAnalysis(ctx, newer.ID)
	require.NoError(t, err)
	require.Len(t, byAnalysis, 2)
	assert.Equal(t, model.AlertLowSleep, byAnalysis[0].Kind)
	require.NotNil(t, byAnalysis[0].Payload.SleepHours)
	assert.Equal(t, 4.0, *byAnalysis[0].Payload.SleepHours)

	all, err := store.Alerts.ListByUser(ctx, u.ID, 3)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer.ID, all[0].AnalysisID)

	open, err := store.Alerts.CountOpen(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, open)

	require.NoError(t, store.Alerts.UpdateStatus(ctx, newerAlerts[0].ID, model.AlertAcknowledged))
	got, err := store.Alerts.GetForUser(ctx, newerAlerts[0].ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AlertAcknowledged, got.Status)

	open, err = store.Alerts.CountOpen(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, open)

	foreign, err := store.Alerts.GetForUser(ctx, newerAlerts[0].ID, "other")
	require.NoError(t, err)
	assert.Nil(t, foreign)
}
