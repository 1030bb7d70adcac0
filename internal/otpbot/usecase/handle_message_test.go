package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/registry"
	"github.com/shandysiswandi/otpbot/internal/otpbot/outbound/session"
	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
	"github.com/shandysiswandi/otpbot/internal/pkg/config"
	"github.com/shandysiswandi/otpbot/internal/pkg/goerror"
	"github.com/shandysiswandi/otpbot/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/otp"
	"github.com/shandysiswandi/otpbot/internal/pkg/uid"
	"github.com/shandysiswandi/otpbot/internal/pkg/validator"
)

// 1700000010 is aligned to a 30 second step.
const baseUnix int64 = 1700000010

type sentMessage struct {
	chatID int64
	text   string
}

type fakeChat struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeChat) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeChat) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeMessaging struct {
	events chan OTPRequestedEvent
}

func (f *fakeMessaging) PublishOTPRequested(_ context.Context, msg OTPRequestedEvent) error {
	f.events <- msg
	return nil
}

type harness struct {
	uc    *Usecase
	chat  *fakeChat
	mq    *fakeMessaging
	clock *clock.FrozenClocker
	pool  *goroutine.Manager
	totp  *otp.TOTP
}

func newHarness(t *testing.T, pairs string) *harness {
	t.Helper()
	return newHarnessWithConfig(t, pairs, "otp:\n  min_remaining_seconds: 5\n")
}

func newHarnessWithConfig(t *testing.T, pairs, yaml string) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{
		chat:  &fakeChat{},
		mq:    &fakeMessaging{events: make(chan OTPRequestedEvent, 16)},
		clock: clock.NewFrozenUnix(baseUnix),
		pool:  goroutine.NewManager(4),
		totp:  otp.NewTOTP(30, pqotp.DigitsSix),
	}
	t.Cleanup(func() { _ = h.pool.Wait() })

	h.uc = New(Dependency{
		RepoMessaging:  h.mq,
		RepoChat:       h.chat,
		RepoSession:    session.New(4),
		RepoRegistry:   registry.New(pairs),
		Issuer:         NewIssuer(h.totp, h.clock),
		EmailValidator: NewEmailValidator([]string{"gmail.com", "outlook.com"}),
		Validator:      v,
		Config:         cfg,
		UUID:           uid.NewSequence("evt"),
		Clock:          h.clock,
		Instrument:     instrument.NewNoop(),
		Goroutine:      h.pool,
	})

	return h
}

func (h *harness) send(t *testing.T, userID int64, text string) *HandleMessageOutput {
	t.Helper()

	out, err := h.uc.HandleMessage(context.Background(), HandleMessageInput{UserID: userID, ChatID: userID, Text: text})
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return out
}

func (h *harness) waitEvent(t *testing.T) OTPRequestedEvent {
	t.Helper()

	select {
	case ev := <-h.mq.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for otp requested event")
		return OTPRequestedEvent{}
	}
}

func TestHandleMessageConversation(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)
	const user int64 = 1001

	steps := []struct {
		name        string
		text        string
		at          int64
		wantOutcome entity.Outcome
		wantState   entity.SessionState
		wantReply   string
	}{
		{"greeting keeps idle", "/start", baseUnix, entity.OutcomeGreeted, entity.StateIdle, "/getotp"},
		{"text while idle", "alice@gmail.com", baseUnix, entity.OutcomeIgnored, entity.StateIdle, ""},
		{"getotp prompts", "/getotp", baseUnix, entity.OutcomePrompted, entity.StateAwaitingEmail, "gmail.com, outlook.com"},
		{"invalid email", "not-an-email", baseUnix, entity.OutcomeInvalidEmail, entity.StateAwaitingEmail, "Invalid email"},
		{"unregistered", "nobody@gmail.com", baseUnix, entity.OutcomeNotRegistered, entity.StateAwaitingEmail, "not registered"},
		{"issued", "  Alice@Gmail.com ", baseUnix + 10, entity.OutcomeIssued, entity.StateAwaitingEmail, "20 seconds"},
		{"expiring", "alice@gmail.com", baseUnix + 27, entity.OutcomeExpiring, entity.StateAwaitingEmail, "expires in 3 seconds"},
		{"start keeps awaiting", "/start", baseUnix, entity.OutcomeGreeted, entity.StateAwaitingEmail, "Welcome"},
		{"cancel", "/cancel", baseUnix, entity.OutcomeCancelled, entity.StateIdle, "cancelled"},
		{"text after cancel", "alice@gmail.com", baseUnix, entity.OutcomeIgnored, entity.StateIdle, ""},
	}

	for _, st := range steps {
		h.clock.Set(clock.NewFrozenUnix(st.at).Now())
		before := h.chat.count()

		out := h.send(t, user, st.text)

		if out.Outcome != st.wantOutcome || out.State != st.wantState {
			t.Fatalf("%s: outcome/state = %s/%s, want %s/%s", st.name, out.Outcome, out.State, st.wantOutcome, st.wantState)
		}
		if st.wantReply == "" {
			if out.Reply != "" || h.chat.count() != before {
				t.Fatalf("%s: expected no reply, got %q", st.name, out.Reply)
			}
			continue
		}
		if !strings.Contains(out.Reply, st.wantReply) {
			t.Fatalf("%s: reply %q does not contain %q", st.name, out.Reply, st.wantReply)
		}
		if h.chat.count() != before+1 {
			t.Fatalf("%s: reply not delivered", st.name)
		}
	}
}

func TestHandleMessageIssuedCode(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)
	h.clock.Set(clock.NewFrozenUnix(baseUnix + 10).Now())

	want, err := h.totp.GenerateCode(rfcSecret, h.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}

	h.send(t, 1, "/getotp")
	out := h.send(t, 1, "alice@gmail.com")

	if out.Outcome != entity.OutcomeIssued || out.SecondsRemaining != 20 {
		t.Fatalf("out = %+v", out)
	}
	if !strings.Contains(out.Reply, want) {
		t.Fatalf("reply %q does not contain code %q", out.Reply, want)
	}

	h.clock.Set(clock.NewFrozenUnix(baseUnix + 27).Now())
	expiring := h.send(t, 1, "alice@gmail.com")
	code, _ := h.totp.GenerateCode(rfcSecret, h.clock.Now())
	if strings.Contains(expiring.Reply, code) {
		t.Fatalf("expiring reply leaks the code: %q", expiring.Reply)
	}
}

func TestHandleMessageThresholdBoundary(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)
	h.send(t, 1, "/getotp")

	h.clock.Set(clock.NewFrozenUnix(baseUnix + 25).Now())
	if out := h.send(t, 1, "alice@gmail.com"); out.Outcome != entity.OutcomeIssued || out.SecondsRemaining != 5 {
		t.Fatalf("at 5s remaining: %+v", out)
	}

	h.clock.Set(clock.NewFrozenUnix(baseUnix + 26).Now())
	if out := h.send(t, 1, "alice@gmail.com"); out.Outcome != entity.OutcomeExpiring || out.SecondsRemaining != 4 {
		t.Fatalf("at 4s remaining: %+v", out)
	}
}

func TestHandleMessageThreshold(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantOutcome entity.Outcome
	}{
		{"zero disables the warning", "otp:\n  min_remaining_seconds: 0\n", entity.OutcomeIssued},
		{"unset uses the default", "otp:\n  period: 30\n", entity.OutcomeExpiring},
		{"larger window", "otp:\n  min_remaining_seconds: 10\n", entity.OutcomeExpiring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarnessWithConfig(t, "alice@gmail.com:"+rfcSecret, tt.yaml)
			h.send(t, 1, "/getotp")

			h.clock.Set(clock.NewFrozenUnix(baseUnix + 27).Now())
			out := h.send(t, 1, "alice@gmail.com")
			if out.Outcome != tt.wantOutcome || out.SecondsRemaining != 3 {
				t.Fatalf("out = %+v, want %s", out, tt.wantOutcome)
			}
		})
	}
}

func TestHandleMessageCommandVariants(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)

	if out := h.send(t, 5, "/getotp@OtpBot"); out.State != entity.StateAwaitingEmail {
		t.Fatalf("/getotp@OtpBot state = %s", out.State)
	}

	out := h.send(t, 5, "/help")
	if out.Outcome != entity.OutcomeIgnored || out.Reply != "" || out.State != entity.StateAwaitingEmail {
		t.Fatalf("/help = %+v", out)
	}

	if out := h.send(t, 5, "/GetOTP"); out.Outcome != entity.OutcomePrompted {
		t.Fatalf("re-entry outcome = %s", out.Outcome)
	}

	if out := h.send(t, 6, "/cancel"); out.Outcome != entity.OutcomeCancelled || out.State != entity.StateIdle {
		t.Fatalf("cancel without session = %+v", out)
	}
}

func TestHandleMessageUsersAreIndependent(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)

	h.send(t, 1, "/getotp")
	if out := h.send(t, 2, "alice@gmail.com"); out.Outcome != entity.OutcomeIgnored {
		t.Fatalf("user 2 outcome = %s, want ignored", out.Outcome)
	}
	if out := h.send(t, 1, "alice@gmail.com"); !out.Outcome.IsEmailSubmission() {
		t.Fatalf("user 1 outcome = %s", out.Outcome)
	}
}

func TestHandleMessageIssueFailed(t *testing.T) {
	h := newHarness(t, "broken@gmail.com:!!notbase32!!")

	h.send(t, 1, "/getotp")
	out := h.send(t, 1, "broken@gmail.com")

	if out.Outcome != entity.OutcomeIssueFailed || out.State != entity.StateAwaitingEmail {
		t.Fatalf("out = %+v", out)
	}
}

func TestHandleMessageDeliveryFailureIsNotAnError(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)
	h.chat.err = errors.New("bot was blocked by the user")

	out := h.send(t, 1, "/getotp")
	if out.State != entity.StateAwaitingEmail {
		t.Fatalf("state = %s", out.State)
	}
}

func TestHandleMessageInvalidInput(t *testing.T) {
	h := newHarness(t, "")

	_, err := h.uc.HandleMessage(context.Background(), HandleMessageInput{ChatID: 1, Text: "/start"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestHandleMessagePublishesAudit(t *testing.T) {
	h := newHarness(t, "alice@gmail.com:"+rfcSecret)
	h.clock.Set(clock.NewFrozenUnix(baseUnix + 10).Now())

	h.send(t, 77, "/getotp")
	h.send(t, 77, "Alice@Gmail.com")

	ev := h.waitEvent(t)
	if ev.UserID != 77 || ev.Email != "alice@gmail.com" || ev.Outcome != entity.OutcomeIssued || ev.SecondsRemaining != 20 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.EventID != "evt-1" || !ev.OccurredAt.Equal(h.clock.Now()) {
		t.Fatalf("event id/time = %q / %v", ev.EventID, ev.OccurredAt)
	}

	h.send(t, 77, "bad")
	if ev := h.waitEvent(t); ev.Outcome != entity.OutcomeInvalidEmail || ev.EventID != "evt-2" {
		t.Fatalf("event = %+v", ev)
	}

	select {
	case ev := <-h.mq.events:
		t.Fatalf("unexpected extra event %+v", ev)
	default:
	}
}
