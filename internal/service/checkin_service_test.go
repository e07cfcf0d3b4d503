package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/config"
	"mindpulse/internal/model"
)

type queueRecorder struct{ ids []string }

func (q *queueRecorder) Enqueue(id string) { q.ids = append(q.ids, id) }

func TestCheckinCreateEnqueuesAnalysis(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	cache := newCountingCache()
	queue := &queueRecorder{}
	svc := NewCheckinService(store, cache, queue, discardLogger())

	user := &model.User{ID: uuid.NewString(), Email: "q@example.com", FullName: "Q", Role: model.RoleUser, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, user))

	sub, err := svc.Create(ctx, user.ID, model.CheckinRequest{Mood: intPtr(6), SleepHours: floatPtr(7.5), Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, model.AnalysisPending, sub.AnalysisID)
	assert.Equal(t, []string{sub.Checkin.ID}, queue.ids)
	assert.Equal(t, 1, cache.invalidations(user.ID))

	got, err := svc.Get(ctx, user.ID, sub.Checkin.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.SleepHours)

	_, err = svc.Get(ctx, "intruder", sub.Checkin.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCheckinCreateValidates(t *testing.T) {
	svc := NewCheckinService(newStore(t), newCountingCache(), &queueRecorder{}, discardLogger())
	ctx := context.Background()

	tests := []model.CheckinRequest{
		{Mood: intPtr(0), SleepHours: floatPtr(7)},
		{Mood: intPtr(11), SleepHours: floatPtr(7)},
		{Mood: intPtr(5), SleepHours: floatPtr(24.5)},
		{Mood: intPtr(5)},
		{Mood: intPtr(5), SleepHours: floatPtr(7), Notes: strings.Repeat("x", 1001)},
	}
	for _, req := range tests {
		_, err := svc.Create(ctx, "u", req)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestCheckinListIsNewestFirstWithinRange(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewCheckinService(store, newCountingCache(), &queueRecorder{}, discardLogger())
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := &model.User{ID: uuid.NewString(), Email: "l@example.com", FullName: "L", Role: model.RoleUser, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, user))
	for _, daysAgo := range []int{40, 6, 2, 0} {
		c := &model.Checkin{ID: uuid.NewString(), UserID: user.ID, Mood: 5, SleepHours: 7, Notes: fmt.Sprintf("%dd", daysAgo), CreatedAt: now.AddDate(0, 0, -daysAgo)}
		require.NoError(t, store.Checkins.Create(ctx, c))
	}

	list, err := svc.List(ctx, user.ID, 7)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "0d", list[0].Notes)
	assert.Equal(t, "2d", list[1].Notes)
	assert.Equal(t, "6d", list[2].Notes)
}

func TestCheckinAnalysisPendingThenComplete(t *testing.T) {
	ctx := context.Background()
	f := newAnalysisFixture(t, config.AnalysisConfig{Workers: 1, QueueSize: 4})
	queue := &queueRecorder{}
	svc := NewCheckinService(f.store, f.cache, queue, discardLogger())

	sub, err := svc.Create(ctx, f.user.ID, model.CheckinRequest{Mood: intPtr(9), SleepHours: floatPtr(8)})
	require.NoError(t, err)

	status, err := svc.Analysis(ctx, f.user.ID, sub.Checkin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AnalysisStatusPending, status.Status)
	assert.Nil(t, status.Analysis)

	_, _, err = f.svc.Process(ctx, queue.ids[0])
	require.NoError(t, err)

	status, err = svc.Analysis(ctx, f.user.ID, sub.Checkin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AnalysisStatusComplete, status.Status)
	require.NotNil(t, status.Analysis)
	assert.Equal(t, 9.4, status.Analysis.Labels.OverallWellness)
	require.Len(t, status.Alerts, 1)
	assert.Equal(t, model.AlertPositiveTrend, status.Alerts[0].Kind)

	_, err = svc.Analysis(ctx, "someone-else", sub.Checkin.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
