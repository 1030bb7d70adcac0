// Package mq publishes otpbot audit events.
package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/otpbot/internal/otpbot/usecase"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/messaging"
	"github.com/shandysiswandi/otpbot/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Messaging publishes events through a broker publisher.
type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

// NewMessaging wraps a publisher.
func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishOTPRequested publishes an email submission audit record keyed by
// user id.
func (m *Messaging) PublishOTPRequested(ctx context.Context, msg usecase.OTPRequestedEvent) error {
	ctx, span := m.ins.Tracer("otpbot.outbound.mq").Start(ctx, "PublishOTPRequested")
	defer span.End()

	body, err := json.Marshal(event.OTPRequestedMessage{
		EventID:          msg.EventID,
		UserID:           msg.UserID,
		Email:            msg.Email,
		Outcome:          msg.Outcome.String(),
		SecondsRemaining: msg.SecondsRemaining,
		OccurredAt:       msg.OccurredAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.OTPRequestedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(msg.UserID, 10)),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
