package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when a ProjectID is required but missing.
var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	// ProjectID is the Google Cloud project ID.
	ProjectID string

	// ClientOptions are used when creating the client.
	ClientOptions []option.ClientOption
}

// PubSub is a Publisher backed by Google Pub/Sub.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

// NewPubSub constructs a Pub/Sub publisher. PUBSUB_EMULATOR_HOST is honoured
// by the client library.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close stops publishers and closes the Pub/Sub client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := make([]*pubsub.Publisher, 0, len(p.publishers))
	for _, pub := range p.publishers {
		pubs = append(pubs, pub)
	}
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}

	return p.client.Close()
}

// Publish sends a message to a Pub/Sub topic and waits for the server id.
// Messages sharing a key are delivered in order.
func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := precheck(ctx, destination, msg, false); err != nil {
		return PublishResult{}, err
	}

	pub, err := p.getPublisher(destination)
	if err != nil {
		return PublishResult{}, err
	}

	orderingKey := string(msg.Key)
	id, err := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  headerAttributes(msg.Headers),
		OrderingKey: orderingKey,
	}).Get(ctx)
	if err != nil {
		if orderingKey != "" {
			// a failed ordered publish pauses the key until resumed
			pub.ResumePublish(orderingKey)
		}
		return PublishResult{}, fmt.Errorf("messaging: pubsub publish: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: time.Now()}, nil
}

func (p *PubSub) getPublisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}

	pub := p.client.Publisher(topic)
	pub.EnableMessageOrdering = true
	p.publishers[topic] = pub
	return pub, nil
}
