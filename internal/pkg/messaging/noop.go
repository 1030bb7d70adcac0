package messaging

import (
	"context"
	"log/slog"
	"time"
)

// Noop is a Publisher that drops messages after logging them at debug level.
type Noop struct{}

// NewNoop returns a logging-only Publisher.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish logs the destination and payload size.
func (*Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}

	slog.DebugContext(ctx, "message dropped, no broker configured", "destination", destination, "bytes", len(msg.Body))

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Close is a no-op.
func (*Noop) Close() error {
	return nil
}
