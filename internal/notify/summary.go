// Package notify stages attendance-summary events for the downstream
// coordinator-notification functions. Only the raw numbers leave this
// service; message composition and delivery live elsewhere.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iworck/class-chronicle-sub001/internal/messaging/kafka"
	"github.com/iworck/class-chronicle-sub001/internal/shared/contextutil"
)

const (
	TopicAttendanceSummary = "attendance.session.summary"
	EventSessionSummary    = "attendance_session_summarized"
)

// SessionSummary carries the percentages the notification functions need.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	ClassID      string    `json:"class_id"`
	SubjectID    string    `json:"subject_id"`
	PresentCount int64     `json:"present_count"`
	AbsentCount  int64     `json:"absent_count"`
	TotalCount   int64     `json:"total_count"`
	PresentRate  float64   `json:"present_rate"`
	GeneratedAt  time.Time `json:"generated_at"`
}

//go:generate mockgen -source=summary.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	PublishSessionSummary(ctx context.Context, summary SessionSummary) error
}

type outboxPublisher struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxPublisher(outbox kafka.OutboxRepository) Publisher {
	return &outboxPublisher{
		outbox: outbox,
		logger: zap.L().Named("notify.publisher"),
	}
}

func (p *outboxPublisher) PublishSessionSummary(ctx context.Context, summary SessionSummary) error {
	if summary.TotalCount > 0 {
		summary.PresentRate = float64(summary.PresentCount) / float64(summary.TotalCount)
	}
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance_session",
		AggregateID:   summary.SessionID,
		EventType:     EventSessionSummary,
		Topic:         TopicAttendanceSummary,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}

	if err := p.outbox.Create(ctx, event); err != nil {
		return err
	}

	p.logger.Debug("session summary staged",
		zap.String("session_id", summary.SessionID),
		zap.Int64("present", summary.PresentCount),
		zap.Int64("total", summary.TotalCount),
	)
	return nil
}
