package events

import (
	"context"
	"log/slog"
)

// LogEventPublisher only logs events. It is used when no broker is configured.
type LogEventPublisher struct {
	logger *slog.Logger
}

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

func (p *LogEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	p.logger.InfoContext(ctx, "Event not sent, no broker configured",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", topic)
	return nil
}

func (p *LogEventPublisher) Close() error {
	return nil
}
