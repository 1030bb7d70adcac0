package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQProducerAddrRequired is returned when the producer address is missing.
var ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	// ProducerAddr is the NSQD address for publishing.
	ProducerAddr string

	// ProducerConfig overrides the default producer config.
	ProducerConfig *nsq.Config
}

// NSQ is a Publisher backed by an NSQD producer.
type NSQ struct {
	producer *nsq.Producer
}

// NewNSQ constructs an NSQ producer.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	pcfg := cfg.ProducerConfig
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

// Close stops the producer.
func (n *NSQ) Close() error {
	n.producer.Stop()
	return nil
}

// Publish sends a message to an NSQ topic. NSQ has no headers, so only the
// body is sent.
func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := precheck(ctx, destination, msg, true); err != nil {
		return PublishResult{}, err
	}

	if msg.Delay > 0 {
		if err := n.producer.DeferredPublish(destination, msg.Delay, msg.Body); err != nil {
			return PublishResult{}, fmt.Errorf("messaging: nsq deferred publish: %w", err)
		}
		return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
	}

	if err := n.producer.Publish(destination, msg.Body); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}
