package model

import "time"

// ModelVersion identifies the rule table that produced an analysis
const ModelVersion = "rule-v1"

// Labels are the numeric scores derived from a check-in
type Labels struct {
	StressLevel     int     `json:"stress_level" bson:"stressLevel"`
	RiskScore       int     `json:"risk_score" bson:"riskScore"`
	OverallWellness float64 `json:"overall_wellness" bson:"overallWellness"`
}

// Analysis is the persisted result of scoring one check-in
type Analysis struct {
	ID           string    `json:"id" bson:"_id"`
	CheckinID    string    `json:"checkin_id" bson:"checkinId"`
	UserID       string    `json:"user_id" bson:"userId"`
	ModelVersion string    `json:"model_version" bson:"modelVersion"`
	Summary      string    `json:"summary" bson:"summary"`
	Labels       Labels    `json:"labels" bson:"labels"`
	Confidence   float64   `json:"confidence" bson:"confidence"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}

// Insight pairs an analysis with the check-in it scored
type Insight struct {
	ID       string    `json:"id"`
	Checkin  *Checkin  `json:"checkin"`
	Analysis *Analysis `json:"analysis"`
}

// AnalysisStatus is returned while polling for a check-in's analysis
type AnalysisStatus struct {
	Status   string    `json:"status"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Alerts   []*Alert  `json:"alerts,omitempty"`
}

const (
	AnalysisStatusPending  = "pending"
	AnalysisStatusComplete = "complete"
)
