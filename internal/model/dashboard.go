package model

// TrendPoint is one entry of the mood or sleep trend series. Exactly one
// of Mood and Hours is set.
type TrendPoint struct {
	Date  string   `json:"date"`
	Mood  *int     `json:"mood,omitempty"`
	Hours *float64 `json:"hours,omitempty"`
}

// StressBucket is one bar of the stress histogram
type StressBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Dashboard is the aggregated view of a user's recent check-ins
type Dashboard struct {
	AvgMood            float64        `json:"avg_mood"`
	AvgSleep           float64        `json:"avg_sleep"`
	CheckinStreak      int            `json:"checkin_streak"`
	OpenAlerts         int64          `json:"open_alerts"`
	MoodTrend          []TrendPoint   `json:"mood_trend"`
	SleepTrend         []TrendPoint   `json:"sleep_trend"`
	StressDistribution []StressBucket `json:"stress_distribution"`
	RecentCheckins     []*Checkin     `json:"recent_checkins"`
}
