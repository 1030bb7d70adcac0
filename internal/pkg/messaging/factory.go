package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Driver names accepted by NewFromDriver.
const (
	DriverNone         = "none"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups the per-backend settings; only the selected driver's
// section is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type constructor func(ctx context.Context, opts FactoryOptions) (Publisher, error)

var constructors = map[string]constructor{
	DriverNone: func(context.Context, FactoryOptions) (Publisher, error) {
		return NewNoop(), nil
	},
	DriverNSQ: func(_ context.Context, o FactoryOptions) (Publisher, error) {
		return NewNSQ(o.NSQ)
	},
	DriverNATS: func(_ context.Context, o FactoryOptions) (Publisher, error) {
		return NewNATS(o.NATS)
	},
	DriverKafka: func(_ context.Context, o FactoryOptions) (Publisher, error) {
		return NewKafka(o.Kafka)
	},
	DriverGooglePubSub: func(ctx context.Context, o FactoryOptions) (Publisher, error) {
		return NewPubSub(ctx, o.PubSub)
	},
}

// Drivers lists the accepted driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}

// NewFromDriver constructs a Publisher by driver name. An empty name selects
// DriverNone.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Publisher, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverNone
	}

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}
	return build(ctx, opts)
}
