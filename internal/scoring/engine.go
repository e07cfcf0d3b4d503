// Package scoring turns a check-in into wellness scores, a summary and a
// set of alerts using a fixed rule table. Everything here is pure: no I/O,
// no clock, no randomness.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mindpulse/internal/model"
)

const (
	MinMood  = 1
	MaxMood  = 10
	MinSleep = 0.0
	MaxSleep = 24.0

	maxRisk     = 10
	moodWeight  = 0.6
	sleepWeight = 0.4
	fullSleep   = 8.0 // hours of sleep scoring a full 10

	confidenceHigh = 0.85
	confidenceBase = 0.75
)

// ErrOutOfRange is returned for input outside the engine's domain
var ErrOutOfRange = errors.New("input out of range")

// DomainError names the field that failed validation
type DomainError struct {
	Field string
	Value string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s=%s: %s", e.Field, e.Value, ErrOutOfRange)
}

func (e *DomainError) Unwrap() error { return ErrOutOfRange }

// Input is the part of a check-in the engine scores
type Input struct {
	Mood       int
	SleepHours float64
}

// Validate checks the input against the engine's domain
func (in Input) Validate() error {
	if in.Mood < MinMood || in.Mood > MaxMood {
		return &DomainError{Field: "mood", Value: strconv.Itoa(in.Mood)}
	}
	if math.IsNaN(in.SleepHours) || in.SleepHours < MinSleep || in.SleepHours > MaxSleep {
		return &DomainError{Field: "sleep_hours", Value: strconv.FormatFloat(in.SleepHours, 'g', -1, 64)}
	}
	return nil
}

// Result is the analysis of one check-in
type Result struct {
	Labels     model.Labels
	Confidence float64
	Summary    string
}

// Analyze scores a check-in and returns the triggered alerts in rule
// order. Alerts carry kind, payload and open status; identifiers and
// timestamps are left for the caller to assign.
func Analyze(in Input) (Result, []model.Alert, error) {
	if err := in.Validate(); err != nil {
		return Result{}, nil, err
	}

	labels := model.Labels{
		StressLevel:     StressLevel(in.Mood),
		RiskScore:       RiskScore(in.Mood, in.SleepHours),
		OverallWellness: OverallWellness(in.Mood, in.SleepHours),
	}
	res := Result{
		Labels:     labels,
		Confidence: Confidence(in.Mood, in.SleepHours),
		Summary:    Summary(in.Mood, in.SleepHours),
	}
	return res, Alerts(in, labels), nil
}

// StressLevel maps mood inversely onto 1..10
func StressLevel(mood int) int {
	return max(1, 11-mood)
}

// RiskScore adds up mood and sleep penalties, capped at 10
func RiskScore(mood int, sleep float64) int {
	risk := 0
	switch {
	case mood <= 3:
		risk += 4
	case mood <= 5:
		risk += 2
	}

	switch {
	case sleep < 5:
		risk += 3
	case sleep < 6:
		risk += 1
	}

	// low mood and short sleep compound
	if mood <= 3 && sleep < 5 {
		risk += 2
	}
	return min(maxRisk, risk)
}

// OverallWellness blends mood with sleep normalised to 8 hours = 10
func OverallWellness(mood int, sleep float64) float64 {
	sleepScore := math.Min(10, sleep/fullSleep*10)
	return round1(float64(mood)*moodWeight + sleepScore*sleepWeight)
}

// Confidence is higher when an input sits at an extreme
func Confidence(mood int, sleep float64) float64 {
	if mood <= 3 || mood >= 8 || sleep < 5 || sleep > 9 {
		return confidenceHigh
	}
	return confidenceBase
}

// Summary is the mood clause followed by the sleep clause
func Summary(mood int, sleep float64) string {
	return strings.Join([]string{moodClause(mood), sleepClause(sleep)}, " ")
}

func moodClause(mood int) string {
	switch {
	case mood >= 8:
		return "Your mood is excellent today!"
	case mood >= 6:
		return "Your mood is fairly good."
	case mood >= 4:
		return "Your mood is moderate today. Consider activities that uplift you."
	default:
		return "Your mood is quite low. Please take care and consider reaching out to someone."
	}
}

func sleepClause(sleep float64) string {
	h := FormatHours(sleep)
	switch {
	case sleep >= 7:
		return "Great sleep at " + h + "h."
	case sleep >= 5:
		return "Sleep at " + h + "h is below recommended. Try to improve your sleep routine."
	default:
		return "Only " + h + "h of sleep is concerning. Prioritize rest tonight."
	}
}

// FormatHours renders hours in shortest form, always with a decimal
// point: 4 -> "4.0", 7.5 -> "7.5", 6.25 -> "6.25". Values below 1e-4
// switch to exponent form: 0.00001 -> "1e-05".
func FormatHours(h float64) string {
	if h != 0 && math.Abs(h) < 1e-4 {
		return strconv.FormatFloat(h, 'e', -1, 64)
	}
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// round1 rounds to one decimal, half to even on the exact binary value.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
