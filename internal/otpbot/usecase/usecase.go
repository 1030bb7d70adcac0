package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
	"github.com/shandysiswandi/otpbot/internal/pkg/config"
	"github.com/shandysiswandi/otpbot/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/uid"
	"github.com/shandysiswandi/otpbot/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMinRemainingSeconds is used when otp.min_remaining_seconds is unset.
const DefaultMinRemainingSeconds uint = 5

type OTPRequestedEvent struct {
	EventID          string
	UserID           int64
	Email            string
	Outcome          entity.Outcome
	SecondsRemaining uint
	OccurredAt       time.Time
}

type repoMessaging interface {
	PublishOTPRequested(ctx context.Context, msg OTPRequestedEvent) error
}

type repoChat interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

type repoSession interface {
	Update(ctx context.Context, userID int64, fn func(entity.SessionState) entity.SessionState) error
}

type repoRegistry interface {
	Lookup(email string) (secret string, ok bool)
}

type otpIssuer interface {
	Issue(secret string) (entity.OTPResult, bool)
}

type emailValidator interface {
	Valid(text string) bool
	Domains() []string
}

type Usecase struct {
	repoMessaging repoMessaging
	repoChat      repoChat
	repoSession   repoSession
	repoRegistry  repoRegistry
	issuer        otpIssuer
	email         emailValidator
	validator     validator.Validator
	cfg           config.Config
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	outcomes metric.Int64Counter
}

type Dependency struct {
	RepoMessaging  repoMessaging
	RepoChat       repoChat
	RepoSession    repoSession
	RepoRegistry   repoRegistry
	Issuer         otpIssuer
	EmailValidator emailValidator
	Validator      validator.Validator
	Config         config.Config
	UUID           uid.StringID
	Clock          clock.Clocker
	Instrument     instrument.Instrumentation
	Goroutine      *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	outcomes, err := dep.Instrument.Meter("otpbot.usecase").Int64Counter(
		"otpbot.messages",
		metric.WithDescription("Number of chat messages handled, by outcome"),
	)
	if err != nil {
		slog.Error("failed to create otpbot message counter", "error", err)
	}

	return &Usecase{
		repoMessaging: dep.RepoMessaging,
		repoChat:      dep.RepoChat,
		repoSession:   dep.RepoSession,
		repoRegistry:  dep.RepoRegistry,
		issuer:        dep.Issuer,
		email:         dep.EmailValidator,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		outcomes:      outcomes,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otpbot.usecase").Start(ctx, name)
}

func (s *Usecase) recordOutcome(ctx context.Context, o entity.Outcome) {
	if s.outcomes == nil {
		return
	}
	s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.String())))
}

func (s *Usecase) minRemainingSeconds() uint {
	if s.cfg == nil || !s.cfg.IsSet("otp.min_remaining_seconds") {
		return DefaultMinRemainingSeconds
	}
	// 0 disables the expiring-window warning
	return s.cfg.GetUint("otp.min_remaining_seconds")
}
