// Package dashboard aggregates a user's check-ins and analyses into the
// dashboard view. It only reads what it is given.
package dashboard

import (
	"strconv"
	"strings"
	"time"

	"mindpulse/internal/model"
)

const (
	DefaultRangeDays = 30
	MaxStreakDays    = 30
	TrendLength      = 7
	RecentLength     = 5
	StressWindow     = 30 // analyses feeding the stress histogram
)

// ParseRange reads a "30d" style range. Anything else yields the default.
func ParseRange(raw string) int {
	if !strings.HasSuffix(raw, "d") {
		return DefaultRangeDays
	}
	days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
	if err != nil || days <= 0 {
		return DefaultRangeDays
	}
	return days
}

// Since returns the start of a window of days ending at now
func Since(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// Build assembles the dashboard. checkins must be in ascending creation
// order; analyses must be newest first.
func Build(now time.Time, checkins []*model.Checkin, analyses []*model.Analysis, openAlerts int64) *model.Dashboard {
	avgMood, avgSleep := Averages(checkins)
	return &model.Dashboard{
		AvgMood:            avgMood,
		AvgSleep:           avgSleep,
		CheckinStreak:      Streak(now, checkins),
		OpenAlerts:         openAlerts,
		MoodTrend:          MoodTrend(checkins),
		SleepTrend:         SleepTrend(checkins),
		StressDistribution: StressDistribution(analyses),
		RecentCheckins:     Recent(checkins),
	}
}

// Averages returns mean mood and sleep rounded to one decimal, or zeros
func Averages(checkins []*model.Checkin) (float64, float64) {
	if len(checkins) == 0 {
		return 0, 0
	}
	var mood, sleep float64
	for _, c := range checkins {
		mood += float64(c.Mood)
		sleep += c.SleepHours
	}
	n := float64(len(checkins))
	return round1(mood / n), round1(sleep / n)
}

// Streak counts consecutive UTC days with a check-in, starting today and
// stopping at the first day without one.
func Streak(now time.Time, checkins []*model.Checkin) int {
	days := make(map[string]struct{}, len(checkins))
	for _, c := range checkins {
		days[dayKey(c.CreatedAt)] = struct{}{}
	}

	today := now.UTC()
	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		if _, ok := days[dayKey(today.AddDate(0, 0, -i))]; !ok {
			break
		}
		streak++
	}
	return streak
}

// MoodTrend is the mood of the last seven check-ins, oldest first
func MoodTrend(checkins []*model.Checkin) []model.TrendPoint {
	tail := lastN(checkins, TrendLength)
	points := make([]model.TrendPoint, 0, len(tail))
	for _, c := range tail {
		mood := c.Mood
		points = append(points, model.TrendPoint{Date: weekday(c.CreatedAt), Mood: &mood})
	}
	return points
}

// SleepTrend is the sleep of the last seven check-ins, oldest first
func SleepTrend(checkins []*model.Checkin) []model.TrendPoint {
	tail := lastN(checkins, TrendLength)
	points := make([]model.TrendPoint, 0, len(tail))
	for _, c := range tail {
		hours := c.SleepHours
		points = append(points, model.TrendPoint{Date: weekday(c.CreatedAt), Hours: &hours})
	}
	return points
}

// Bucket names a stress level: Low (<=3), Medium (<=5), High (<=7), Critical
func Bucket(stress int) string {
	switch {
	case stress <= 3:
		return "Low"
	case stress <= 5:
		return "Medium"
	case stress <= 7:
		return "High"
	default:
		return "Critical"
	}
}

// StressDistribution buckets the stress level of at most the first 30
// analyses. Buckets are always returned, in order, even when empty.
func StressDistribution(analyses []*model.Analysis) []model.StressBucket {
	buckets := []model.StressBucket{
		{Name: "Low"}, {Name: "Medium"}, {Name: "High"}, {Name: "Critical"},
	}
	index := map[string]int{"Low": 0, "Medium": 1, "High": 2, "Critical": 3}

	if len(analyses) > StressWindow {
		analyses = analyses[:StressWindow]
	}
	for _, a := range analyses {
		buckets[index[Bucket(a.Labels.StressLevel)]].Value++
	}
	return buckets
}

// Recent is the newest five check-ins, newest first
func Recent(checkins []*model.Checkin) []*model.Checkin {
	out := make([]*model.Checkin, 0, RecentLength)
	for i := len(checkins) - 1; i >= 0 && len(out) < RecentLength; i-- {
		out = append(out, checkins[i])
	}
	return out
}

func lastN(checkins []*model.Checkin, n int) []*model.Checkin {
	if len(checkins) <= n {
		return checkins
	}
	return checkins[len(checkins)-n:]
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func weekday(t time.Time) string {
	return t.UTC().Format("Mon")
}

func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
