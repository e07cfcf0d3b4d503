package model

import "time"

// Checkin is a user's daily mood and sleep record
type Checkin struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"userId"`
	Mood       int       `json:"mood" bson:"mood"`
	SleepHours float64   `json:"sleep_hours" bson:"sleepHours"`
	Notes      string    `json:"notes" bson:"notes"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}

// CheckinSubmission is returned right after a check-in is stored. The
// analysis runs in the background, so AnalysisID is "pending".
type CheckinSubmission struct {
	Checkin    *Checkin `json:"checkin"`
	AnalysisID string   `json:"analysis_id"`
}

// AnalysisPending is the AnalysisID placeholder used before the analysis exists
const AnalysisPending = "pending"
