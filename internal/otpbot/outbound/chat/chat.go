// Package chat delivers replies to users through the Telegram Bot API.
package chat

import (
	"context"

	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/telegram"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type botAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) (*telegram.Message, error)
}

// Chat sends text replies.
type Chat struct {
	api botAPI
	ins instrument.Instrumentation
}

// NewChat wraps a Telegram client.
func NewChat(api botAPI, ins instrument.Instrumentation) *Chat {
	return &Chat{api: api, ins: ins}
}

// SendText sends text to chatID.
func (c *Chat) SendText(ctx context.Context, chatID int64, text string) error {
	ctx, span := c.ins.Tracer("otpbot.outbound.chat").Start(ctx, "SendText")
	defer span.End()

	span.SetAttributes(attribute.Int64("chat.id", chatID))

	msg, err := c.api.SendMessage(ctx, chatID, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int64("message.id", msg.MessageID))

	return nil
}
