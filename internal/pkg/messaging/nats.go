package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS publishes on core NATS subjects. Delivery is at-most-once.
type NATS struct {
	conn *nats.Conn
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains pending messages before closing the connection.
func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}
	defer n.conn.Close()
	return n.conn.Drain()
}

// Publish sends msg on the destination subject and waits for the server to
// acknowledge the flush. Subjects have no partitions, so the key is unused.
func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := precheck(ctx, destination, msg, false); err != nil {
		return PublishResult{}, err
	}

	hdr := nats.Header{}
	for k, v := range headerAttributes(msg.Headers) {
		hdr.Set(k, v)
	}

	if err := n.conn.PublishMsg(&nats.Msg{Subject: destination, Data: msg.Body, Header: hdr}); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish: %w", err)
	}

	flush := n.conn.Flush
	if _, ok := ctx.Deadline(); ok {
		flush = func() error { return n.conn.FlushWithContext(ctx) }
	}
	if err := flush(); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}
