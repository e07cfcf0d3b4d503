// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"mindpulse/internal/config"
	"mindpulse/internal/model"
)

// TypeAnalysisCompleted is the event type written once an analysis is stored
const TypeAnalysisCompleted = "analysis.completed"

// AnalysisCompleted is the payload of an analysis.completed event
type AnalysisCompleted struct {
	Type         string       `json:"type"`
	AnalysisID   string       `json:"analysis_id"`
	CheckinID    string       `json:"checkin_id"`
	UserID       string       `json:"user_id"`
	ModelVersion string       `json:"model_version"`
	Labels       model.Labels `json:"labels"`
	Confidence   float64      `json:"confidence"`
	Alerts       []string     `json:"alerts"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// NewAnalysisCompleted builds the event for a stored analysis
func NewAnalysisCompleted(a *model.Analysis, alerts []*model.Alert) AnalysisCompleted {
	kinds := make([]string, 0, len(alerts))
	for _, al := range alerts {
		kinds = append(kinds, string(al.Kind))
	}
	return AnalysisCompleted{
		Type:         TypeAnalysisCompleted,
		AnalysisID:   a.ID,
		CheckinID:    a.CheckinID,
		UserID:       a.UserID,
		ModelVersion: a.ModelVersion,
		Labels:       a.Labels,
		Confidence:   a.Confidence,
		Alerts:       kinds,
		OccurredAt:   a.CreatedAt,
	}
}

// Message encodes the event keyed by user so one user's events stay ordered
func (e AnalysisCompleted) Message() (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(e.UserID),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

// Publisher writes domain events
type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, evt AnalysisCompleted) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	log    *slog.Logger
}

// WriteTimeout bounds a single broker write
const WriteTimeout = 5 * time.Second

// NewKafkaPublisher creates a publisher writing to cfg.Topic
func NewKafkaPublisher(cfg config.KafkaConfig, log *slog.Logger) Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  false,
		WriteTimeout:           WriteTimeout,
	}
	return newKafkaPublisher(w, log)
}

func newKafkaPublisher(w messageWriter, log *slog.Logger) *kafkaPublisher {
	return &kafkaPublisher{writer: w, log: log.With(slog.String("component", "events"))}
}

func (p *kafkaPublisher) PublishAnalysisCompleted(ctx context.Context, evt AnalysisCompleted) error {
	msg, err := evt.Message()
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	p.log.Debug("event_published", slog.String("type", evt.Type), slog.String("analysis_id", evt.AnalysisID))
	return nil
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops events, used without brokers
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishAnalysisCompleted(context.Context, AnalysisCompleted) error { return nil }

func (noopPublisher) Close() error { return nil }
