package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/model"
)

var now = time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC) // a Wednesday

func checkinAt(daysAgo int, mood int, sleep float64) *model.Checkin {
	return &model.Checkin{
		Mood:       mood,
		SleepHours: sleep,
		CreatedAt:  now.AddDate(0, 0, -daysAgo),
	}
}

func analysisWithStress(stress int) *model.Analysis {
	return &model.Analysis{Labels: model.Labels{StressLevel: stress}}
}

func TestStreakStopsAtFirstGap(t *testing.T) {
	checkins := []*model.Checkin{
		checkinAt(3, 5, 7),
		checkinAt(1, 5, 7),
		checkinAt(0, 5, 7),
	}
	assert.Equal(t, 2, Streak(now, checkins))
}

func TestStreakNeedsToday(t *testing.T) {
	checkins := []*model.Checkin{checkinAt(2, 5, 7), checkinAt(1, 5, 7)}
	assert.Equal(t, 0, Streak(now, checkins))
	assert.Equal(t, 0, Streak(now, nil))
}

func TestStreakCountsDaysNotCheckins(t *testing.T) {
	checkins := []*model.Checkin{checkinAt(1, 5, 7), checkinAt(0, 4, 6), checkinAt(0, 6, 8)}
	assert.Equal(t, 2, Streak(now, checkins))
}

func TestStreakIsCapped(t *testing.T) {
	var checkins []*model.Checkin
	for i := 40; i >= 0; i-- {
		checkins = append(checkins, checkinAt(i, 5, 7))
	}
	assert.Equal(t, MaxStreakDays, Streak(now, checkins))
}

func TestAverages(t *testing.T) {
	mood, sleep := Averages([]*model.Checkin{checkinAt(2, 4, 6), checkinAt(1, 5, 7.5), checkinAt(0, 8, 8)})
	assert.Equal(t, 5.7, mood)
	assert.Equal(t, 7.2, sleep)

	mood, sleep = Averages(nil)
	assert.Zero(t, mood)
	assert.Zero(t, sleep)
}

func TestStressBucketBoundaries(t *testing.T) {
	assert.Equal(t, "Low", Bucket(1))
	assert.Equal(t, "Low", Bucket(3))
	assert.Equal(t, "Medium", Bucket(4))
	assert.Equal(t, "Medium", Bucket(5))
	assert.Equal(t, "High", Bucket(6))
	assert.Equal(t, "High", Bucket(7))
	assert.Equal(t, "Critical", Bucket(8))
	assert.Equal(t, "Critical", Bucket(10))
}

func TestStressDistributionUsesLatestThirty(t *testing.T) {
	var analyses []*model.Analysis
	for i := 0; i < 30; i++ {
		analyses = append(analyses, analysisWithStress(2))
	}
	// older than the window
	analyses = append(analyses, analysisWithStress(9), analysisWithStress(9))

	dist := StressDistribution(analyses)
	require.Len(t, dist, 4)
	assert.Equal(t, []model.StressBucket{
		{Name: "Low", Value: 30},
		{Name: "Medium", Value: 0},
		{Name: "High", Value: 0},
		{Name: "Critical", Value: 0},
	}, dist)
}

func TestTrendsTakeLastSeven(t *testing.T) {
	var checkins []*model.Checkin
	for i := 9; i >= 0; i-- {
		checkins = append(checkins, checkinAt(i, 10-i, float64(i)))
	}

	moods := MoodTrend(checkins)
	require.Len(t, moods, 7)
	assert.Equal(t, 4, *moods[0].Mood)
	assert.Equal(t, 10, *moods[6].Mood)
	assert.Equal(t, "Wed", moods[6].Date)
	assert.Nil(t, moods[6].Hours)

	sleeps := SleepTrend(checkins)
	require.Len(t, sleeps, 7)
	assert.Equal(t, 6.0, *sleeps[0].Hours)
	assert.Equal(t, 0.0, *sleeps[6].Hours)
	assert.Nil(t, sleeps[0].Mood)
}

func TestRecentIsNewestFirst(t *testing.T) {
	var checkins []*model.Checkin
	for i := 6; i >= 0; i-- {
		checkins = append(checkins, checkinAt(i, i+1, 7))
	}
	recent := Recent(checkins)
	require.Len(t, recent, 5)
	assert.Equal(t, 1, recent[0].Mood)
	assert.Equal(t, 5, recent[4].Mood)
}

func TestBuild(t *testing.T) {
	checkins := []*model.Checkin{checkinAt(1, 3, 4), checkinAt(0, 7, 8)}
	analyses := []*model.Analysis{analysisWithStress(4), analysisWithStress(8)}

	d := Build(now, checkins, analyses, 3)
	assert.Equal(t, 5.0, d.AvgMood)
	assert.Equal(t, 6.0, d.AvgSleep)
	assert.Equal(t, 2, d.CheckinStreak)
	assert.Equal(t, int64(3), d.OpenAlerts)
	assert.Len(t, d.MoodTrend, 2)
	assert.Len(t, d.RecentCheckins, 2)
	assert.Equal(t, 1, d.StressDistribution[1].Value)
	assert.Equal(t, 1, d.StressDistribution[3].Value)
}

func TestParseRange(t *testing.T) {
	assert.Equal(t, 7, ParseRange("7d"))
	assert.Equal(t, 90, ParseRange("90d"))
	assert.Equal(t, DefaultRangeDays, ParseRange(""))
	assert.Equal(t, DefaultRangeDays, ParseRange("7w"))
	assert.Equal(t, DefaultRangeDays, ParseRange("xd"))
	assert.Equal(t, DefaultRangeDays, ParseRange("0d"))
}
