package model

import "time"

// AlertKind identifies which rule raised an alert
type AlertKind string

const (
	AlertLowSleep      AlertKind = "low_sleep"
	AlertHighStress    AlertKind = "high_stress"
	AlertRiskDetected  AlertKind = "risk_detected"
	AlertPositiveTrend AlertKind = "positive_trend"
)

// AlertStatus is the lifecycle state of an alert
type AlertStatus string

const (
	AlertOpen         AlertStatus = "open"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertClosed       AlertStatus = "closed"
)

// CanTransition reports whether an alert in status s may move to next.
// Moving to the current status is allowed and changes nothing.
func (s AlertStatus) CanTransition(next AlertStatus) bool {
	if next != AlertAcknowledged && next != AlertClosed {
		return false
	}
	switch s {
	case AlertOpen:
		return true
	case AlertAcknowledged:
		return true
	case AlertClosed:
		return next == AlertClosed
	}
	return false
}

// AlertPayload carries the kind-specific details of an alert. Only the
// fields belonging to the alert's kind are set; build payloads with the
// constructors below rather than by hand.
type AlertPayload struct {
	Message     string   `json:"message" bson:"message"`
	SleepHours  *float64 `json:"sleep_hours,omitempty" bson:"sleepHours,omitempty"`
	StressLevel *int     `json:"stress_level,omitempty" bson:"stressLevel,omitempty"`
	Mood        *int     `json:"mood,omitempty" bson:"mood,omitempty"`
	RiskScore   *int     `json:"risk_score,omitempty" bson:"riskScore,omitempty"`
}

// LowSleepPayload builds the payload of a low_sleep alert
func LowSleepPayload(sleepHours float64, message string) AlertPayload {
	return AlertPayload{Message: message, SleepHours: &sleepHours}
}

// HighStressPayload builds the payload of a high_stress alert
func HighStressPayload(stressLevel, mood int, message string) AlertPayload {
	return AlertPayload{Message: message, StressLevel: &stressLevel, Mood: &mood}
}

// RiskDetectedPayload builds the payload of a risk_detected alert
func RiskDetectedPayload(riskScore int, message string) AlertPayload {
	return AlertPayload{Message: message, RiskScore: &riskScore}
}

// PositiveTrendPayload builds the payload of a positive_trend alert
func PositiveTrendPayload(message string) AlertPayload {
	return AlertPayload{Message: message}
}

// Matches reports whether the payload has exactly the fields of kind
func (p AlertPayload) Matches(kind AlertKind) bool {
	sleep, stress, mood, risk := p.SleepHours != nil, p.StressLevel != nil, p.Mood != nil, p.RiskScore != nil
	switch kind {
	case AlertLowSleep:
		return sleep && !stress && !mood && !risk
	case AlertHighStress:
		return !sleep && stress && mood && !risk
	case AlertRiskDetected:
		return !sleep && !stress && !mood && risk
	case AlertPositiveTrend:
		return !sleep && !stress && !mood && !risk
	}
	return false
}

// Alert is a notification raised by an analysis
type Alert struct {
	ID         string       `json:"id" bson:"_id"`
	UserID     string       `json:"user_id" bson:"userId"`
	AnalysisID string       `json:"ai_result_id" bson:"analysisId"`
	Kind       AlertKind    `json:"type" bson:"kind"`
	Status     AlertStatus  `json:"status" bson:"status"`
	Payload    AlertPayload `json:"payload" bson:"payload"`
	CreatedAt  time.Time    `json:"created_at" bson:"createdAt"`
}
