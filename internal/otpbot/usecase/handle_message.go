package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"github.com/shandysiswandi/otpbot/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbot/internal/pkg/telegram"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cmdStart  = "start"
	cmdGetOTP = "getotp"
	cmdCancel = "cancel"

	publishTimeout = 10 * time.Second
)

type HandleMessageInput struct {
	UserID int64  `validate:"required"`
	ChatID int64  `validate:"required"`
	Text   string `validate:"required,max=4096"`
}

type HandleMessageOutput struct {
	// Reply is empty when the message gets no answer.
	Reply   string
	Outcome entity.Outcome
	State   entity.SessionState
	// SecondsRemaining is set for issued and expiring outcomes.
	SecondsRemaining uint
}

// HandleMessage runs one conversation step for a user and sends the reply.
// A failed delivery is logged and does not change the result.
func (s *Usecase) HandleMessage(ctx context.Context, in HandleMessageInput) (*HandleMessageOutput, error) {
	ctx, span := s.startSpan(ctx, "HandleMessage")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var (
		out   HandleMessageOutput
		email string
	)
	if err := s.repoSession.Update(ctx, in.UserID, func(state entity.SessionState) entity.SessionState {
		out, email = s.step(ctx, in, state)
		return out.State
	}); err != nil {
		slog.ErrorContext(ctx, "failed to update session", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	span.SetAttributes(
		attribute.String("otpbot.outcome", out.Outcome.String()),
		attribute.String("otpbot.state", out.State.String()),
	)
	s.recordOutcome(ctx, out.Outcome)

	if out.Outcome.IsEmailSubmission() {
		s.publishOTPRequested(ctx, in.UserID, email, out)
	}

	if out.Reply != "" {
		if err := s.repoChat.SendText(ctx, in.ChatID, out.Reply); err != nil {
			slog.ErrorContext(ctx, "failed to send reply", "user_id", in.UserID, "outcome", out.Outcome.String(), "error", err)
		}
	}

	return &out, nil
}

// step computes the reply and next state. It runs under the session lock and
// must not block on I/O.
func (s *Usecase) step(ctx context.Context, in HandleMessageInput, state entity.SessionState) (HandleMessageOutput, string) {
	if cmd, ok := telegram.Command(in.Text); ok {
		switch cmd {
		case cmdStart:
			return HandleMessageOutput{Reply: msgGreeting, Outcome: entity.OutcomeGreeted, State: state}, ""
		case cmdGetOTP:
			slog.InfoContext(ctx, "user started the otp request", "user_id", in.UserID)
			return HandleMessageOutput{
				Reply:   msgPrompt(s.email.Domains()),
				Outcome: entity.OutcomePrompted,
				State:   entity.StateAwaitingEmail,
			}, ""
		case cmdCancel:
			slog.InfoContext(ctx, "user cancelled the otp request", "user_id", in.UserID)
			return HandleMessageOutput{Reply: msgFarewell, Outcome: entity.OutcomeCancelled, State: entity.StateIdle}, ""
		default:
			return HandleMessageOutput{Outcome: entity.OutcomeIgnored, State: state}, ""
		}
	}

	if state != entity.StateAwaitingEmail {
		return HandleMessageOutput{Outcome: entity.OutcomeIgnored, State: state}, ""
	}

	email := strings.ToLower(strings.TrimSpace(in.Text))
	slog.InfoContext(ctx, "received email", "user_id", in.UserID, "email", email, "received_at", s.clock.Now().Format(time.DateTime))

	return s.issueFor(ctx, email), email
}

func (s *Usecase) issueFor(ctx context.Context, email string) HandleMessageOutput {
	out := HandleMessageOutput{State: entity.StateAwaitingEmail}

	if !s.email.Valid(email) {
		out.Reply, out.Outcome = msgInvalidEmail, entity.OutcomeInvalidEmail
		return out
	}

	secret, ok := s.repoRegistry.Lookup(email)
	if !ok {
		out.Reply, out.Outcome = msgNotRegistered, entity.OutcomeNotRegistered
		return out
	}

	res, ok := s.issuer.Issue(secret)
	if !ok {
		slog.ErrorContext(ctx, "registered secret cannot be decoded", "email", email)
		out.Reply, out.Outcome = msgIssueFailed, entity.OutcomeIssueFailed
		return out
	}

	out.SecondsRemaining = res.SecondsRemaining
	if res.SecondsRemaining < s.minRemainingSeconds() {
		out.Reply, out.Outcome = msgExpiring(res.SecondsRemaining), entity.OutcomeExpiring
		return out
	}

	out.Reply, out.Outcome = msgIssued(res.Code, res.SecondsRemaining), entity.OutcomeIssued
	return out
}

// publishOTPRequested hands the audit event to the goroutine pool. The event
// outlives the webhook request, so it gets its own deadline.
func (s *Usecase) publishOTPRequested(ctx context.Context, userID int64, email string, out HandleMessageOutput) {
	if s.repoMessaging == nil || s.goroutine == nil {
		return
	}

	ev := OTPRequestedEvent{
		EventID:          s.uuid.Generate(),
		UserID:           userID,
		Email:            email,
		Outcome:          out.Outcome,
		SecondsRemaining: out.SecondsRemaining,
		OccurredAt:       s.clock.Now(),
	}

	if err := s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := s.repoMessaging.PublishOTPRequested(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp requested event", "user_id", userID, "error", err)
		}
		return nil
	}); err != nil {
		slog.WarnContext(ctx, "otp requested event not scheduled", "user_id", userID, "error", err)
	}
}
