package scoring

import "mindpulse/internal/model"

const (
	lowSleepBelow     = 5.0
	highStressFrom    = 7
	riskFrom          = 6
	positiveMoodFrom  = 8
	positiveSleepFrom = 7.0
	highStressMessage = "High stress detected"
	riskMessage       = "Elevated risk indicators detected"
	positiveMessage   = "Excellent mood and sleep!"
)

// Alerts evaluates the alert rules in fixed order: low_sleep,
// high_stress, risk_detected, positive_trend. Rules are independent and
// any subset may fire.
func Alerts(in Input, labels model.Labels) []model.Alert {
	alerts := make([]model.Alert, 0, 4)

	if in.SleepHours < lowSleepBelow {
		alerts = append(alerts, newAlert(model.AlertLowSleep,
			model.LowSleepPayload(in.SleepHours, "Sleep was only "+FormatHours(in.SleepHours)+"h")))
	}
	if labels.StressLevel >= highStressFrom {
		alerts = append(alerts, newAlert(model.AlertHighStress,
			model.HighStressPayload(labels.StressLevel, in.Mood, highStressMessage)))
	}
	if labels.RiskScore >= riskFrom {
		alerts = append(alerts, newAlert(model.AlertRiskDetected,
			model.RiskDetectedPayload(labels.RiskScore, riskMessage)))
	}
	if in.Mood >= positiveMoodFrom && in.SleepHours >= positiveSleepFrom {
		alerts = append(alerts, newAlert(model.AlertPositiveTrend,
			model.PositiveTrendPayload(positiveMessage)))
	}
	return alerts
}

func newAlert(kind model.AlertKind, payload model.AlertPayload) model.Alert {
	return model.Alert{Kind: kind, Status: model.AlertOpen, Payload: payload}
}
