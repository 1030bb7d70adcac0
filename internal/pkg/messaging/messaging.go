package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrDestinationRequired is returned when Publish gets an empty topic or subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("messaging: publisher is closed")
)

// Publisher publishes messages to a destination (topic or subject).
//
// Implementations wrap NATS, NSQ, Kafka and Google Pub/Sub.
type Publisher interface {
	io.Closer

	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning and by Pub/Sub as ordering key.
	Key []byte

	// Headers are sent as broker headers, or as attributes on Pub/Sub.
	Headers []Header

	// Delay is used for deferred delivery (NSQ only).
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	// Key is the header name.
	Key string
	// Value is the header value.
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID, when the broker assigns one.
	MessageID string
	// Topic is the destination used for publishing.
	Topic string
	// Timestamp is when the message was handed to the broker.
	Timestamp time.Time
}

func headerAttributes(headers []Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	attrs := make(map[string]string, len(headers))
	for _, h := range headers {
		if h.Key == "" {
			continue
		}
		attrs[h.Key] = string(h.Value)
	}
	return attrs
}

// precheck holds the validation every backend runs before talking to its broker.
func precheck(ctx context.Context, destination string, msg OutgoingMessage, delays bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	if msg.Delay > 0 && !delays {
		return ErrUnsupported
	}
	return nil
}
