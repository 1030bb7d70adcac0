package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/usecase"
	"github.com/shandysiswandi/otpbot/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpbot/internal/pkg/router"
)

type uc interface {
	HandleMessage(ctx context.Context, in usecase.HandleMessageInput) (*usecase.HandleMessageOutput, error)
}

// WebhookConfig configures the Telegram webhook endpoint.
type WebhookConfig struct {
	// Token is the bot token; it doubles as the secret webhook path.
	Token string
	// DedupeTTL is how long a processed update id is remembered.
	DedupeTTL time.Duration
	// LockTTL is how long an update being handled blocks its redeliveries.
	// It should cover the slowest reply, retries included.
	LockTTL time.Duration
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, idemp idempotency.Idempotency, cfg WebhookConfig) {
	end := &HTTPEndpoint{uc: uc, idemp: idemp, dedupeTTL: cfg.DedupeTTL, lockTTL: cfg.LockTTL}

	r.GET("/", end.Health)
	r.POST("/:token", end.Webhook, router.RequirePathToken("token", cfg.Token))
}
