// Package events publishes domain events to the message broker.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "edusync-service"
	EventVersion = "1.0"

	ResultSubmitted = "result.submitted"
)

// Event is the envelope written to every topic
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ResultSubmittedEvent is published after a student's result is committed
type ResultSubmittedEvent struct {
	ResultID     string    `json:"resultId"`
	AssessmentID string    `json:"assessmentId"`
	UserID       string    `json:"userId"`
	Score        int       `json:"score"`
	MaxScore     int       `json:"maxScore"`
	AttemptDate  time.Time `json:"attemptDate"`
}

// EventPublisher delivers events to a topic. Publish is a single best-effort attempt.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}
