package otpbot

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/inbound"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/chat"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/mq"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/registry"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/session"
	"github.com/shandysiswandi/otpbot/internal/otpbot/usecase"
	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
	"github.com/shandysiswandi/otpbot/internal/pkg/config"
	"github.com/shandysiswandi/otpbot/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpbot/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/messaging"
	"github.com/shandysiswandi/otpbot/internal/pkg/otp"
	"github.com/shandysiswandi/otpbot/internal/pkg/router"
	"github.com/shandysiswandi/otpbot/internal/pkg/telegram"
	"github.com/shandysiswandi/otpbot/internal/pkg/uid"
	"github.com/shandysiswandi/otpbot/internal/pkg/validator"
)

var (
	// ErrEmptyRegistry is returned when no usable email:secret pair is configured.
	ErrEmptyRegistry = errors.New("otpbot: registry.secret_key_pairs has no valid entry")
	// ErrMissingToken is returned when bot.token is empty.
	ErrMissingToken = errors.New("otpbot: bot.token is required")
)

type Dependency struct {
	Router      *router.Router             `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Telegram    *telegram.Client           `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Totp        otp.OTP                    `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	token := dep.Config.GetString("bot.token")
	if token == "" {
		return ErrMissingToken
	}

	reg := registry.New(dep.Config.GetString("registry.secret_key_pairs"))
	if reg.Len() == 0 {
		return ErrEmptyRegistry
	}

	sessions := session.New(dep.Config.GetInt("session.shards"))
	if err := sessions.RegisterMetrics(dep.Instrument.Meter("otpbot.session")); err != nil {
		slog.Error("failed to register session gauge", "error", err)
	}

	uc := usecase.New(usecase.Dependency{
		RepoMessaging:  mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoChat:       chat.NewChat(dep.Telegram, dep.Instrument),
		RepoSession:    sessions,
		RepoRegistry:   reg,
		Issuer:         usecase.NewIssuer(dep.Totp, dep.Clock),
		EmailValidator: usecase.NewEmailValidator(dep.Config.GetArray("registry.allowed_domains")),
		Validator:      dep.Validator,
		Config:         dep.Config,
		UUID:           dep.UUID,
		Clock:          dep.Clock,
		Instrument:     dep.Instrument,
		Goroutine:      dep.Goroutine,
	})

	// every sendMessage attempt may take the full request timeout
	attempts := time.Duration(dep.Config.GetUint64("bot.max_retries") + 1)
	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Idempotency, inbound.WebhookConfig{
		Token:     token,
		DedupeTTL: dep.Config.GetSecond("idempotency.ttl_seconds"),
		LockTTL:   dep.Config.GetSecond("bot.request_timeout_seconds") * attempts,
	})

	return nil
}
