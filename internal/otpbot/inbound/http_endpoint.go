package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/usecase"
	"github.com/shandysiswandi/otpbot/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbot/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpbot/internal/pkg/router"
	"github.com/shandysiswandi/otpbot/internal/pkg/telegram"
)

// HTTPEndpoint exposes the Telegram webhook and a liveness probe.
type HTTPEndpoint struct {
	uc        uc
	idemp     idempotency.Idempotency
	dedupeTTL time.Duration
	lockTTL   time.Duration
}

// Health answers the liveness probe.
func (h *HTTPEndpoint) Health(*router.Request) (any, error) {
	return healthText, nil
}

// Webhook receives one Telegram update. Anything that cannot be processed is
// still acknowledged so Telegram stops redelivering it; only a failing
// de-duplication store answers with an error.
func (h *HTTPEndpoint) Webhook(r *router.Request) (any, error) {
	ctx := r.Context()

	var upd telegram.Update
	if err := r.DecodeBody(&upd); err != nil {
		slog.WarnContext(ctx, "webhook payload is not a telegram update", "error", err)
		return ackText, nil
	}

	msg := upd.TextMessage()
	if msg == nil {
		slog.DebugContext(ctx, "webhook update without text ignored", "update_id", upd.UpdateID)
		return ackText, nil
	}

	var ucErr error
	err := h.idemp.Exec(ctx, updateKey(upd.UpdateID), func(ctx context.Context) error {
		_, ucErr = h.uc.HandleMessage(ctx, usecase.HandleMessageInput{
			UserID: msg.From.ID,
			ChatID: msg.Chat.ID,
			Text:   msg.Text,
		})
		return ucErr
	}, idempotency.WithStateTTL(h.dedupeTTL), idempotency.WithLockDuration(h.lockTTL))

	switch {
	case err == nil:
	case idempotency.IsDuplicate(err):
		slog.InfoContext(ctx, "duplicate update ignored", "update_id", upd.UpdateID, "error", err)
	case ucErr != nil:
		slog.ErrorContext(ctx, "failed to handle update", "update_id", upd.UpdateID, "error", err)
	default:
		slog.ErrorContext(ctx, "update de-duplication unavailable", "update_id", upd.UpdateID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return ackText, nil
}
