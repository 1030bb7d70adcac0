package inbound

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"github.com/shandysiswandi/otpbot/internal/otpbot/usecase"
	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
	"github.com/shandysiswandi/otpbot/internal/pkg/config"
	"github.com/shandysiswandi/otpbot/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpbot/internal/pkg/router"
	"github.com/shandysiswandi/otpbot/internal/pkg/uid"
)

const testToken = "123456:ABC-def"

type fakeUsecase struct {
	mu    sync.Mutex
	calls []usecase.HandleMessageInput
	err   error
}

func (f *fakeUsecase) HandleMessage(_ context.Context, in usecase.HandleMessageInput) (*usecase.HandleMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.HandleMessageOutput{Outcome: entity.OutcomeGreeted}, nil
}

type brokenTracker struct{}

func (brokenTracker) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateError, errors.New("redis: connection refused")
}

func (brokenTracker) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (brokenTracker) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (b brokenTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error {
	if _, err := b.Acquire(ctx, key, time.Minute); err != nil {
		return err
	}
	return fn(ctx)
}

func newTestServer(t *testing.T, u uc, idemp idempotency.Idempotency) *router.Router {
	t.Helper()
	return newTestServerWithConfig(t, u, idemp, WebhookConfig{Token: testToken, DedupeTTL: time.Hour})
}

func newTestServerWithConfig(t *testing.T, u uc, idemp idempotency.Idempotency, wc WebhookConfig) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID()})
	RegisterHTTPEndpoint(r, u, idemp, wc)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const startUpdate = `{"update_id":42,"message":{"message_id":7,"from":{"id":1001,"is_bot":false,"first_name":"A"},"chat":{"id":2002,"type":"private"},"date":1700000000,"text":"/start"}}`

func TestWebhook(t *testing.T) {
	fu := &fakeUsecase{}
	srv := newTestServer(t, fu, idempotency.NewMemory(clock.NewFrozenUnix(1700000000)))

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantCode  int
		wantBody  string
		wantCalls int
	}{
		{"health", http.MethodGet, "/", "", http.StatusOK, "Bot is running!", 0},
		{"wrong token", http.MethodPost, "/wrong", startUpdate, http.StatusNotFound, "endpoint not found", 0},
		{"text message", http.MethodPost, "/" + testToken, startUpdate, http.StatusOK, "OK", 1},
		{"redelivered update", http.MethodPost, "/" + testToken, startUpdate, http.StatusOK, "OK", 1},
		{"bad json", http.MethodPost, "/" + testToken, `{"update_id":`, http.StatusOK, "OK", 1},
		{"no message", http.MethodPost, "/" + testToken, `{"update_id":43}`, http.StatusOK, "OK", 1},
		{"sticker", http.MethodPost, "/" + testToken, `{"update_id":44,"message":{"message_id":8,"from":{"id":1},"chat":{"id":1},"date":1}}`, http.StatusOK, "OK", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, tt.method, tt.path, tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if got := len(fu.calls); got != tt.wantCalls {
				t.Errorf("usecase calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}

	if in := fu.calls[0]; in.UserID != 1001 || in.ChatID != 2002 || in.Text != "/start" {
		t.Fatalf("input = %+v", in)
	}
}

func TestWebhookUsecaseErrorIsAcknowledged(t *testing.T) {
	fu := &fakeUsecase{err: errors.New("session store unavailable")}
	srv := newTestServer(t, fu, idempotency.NewMemory(clock.NewFrozenUnix(1700000000)))

	rec := do(srv, http.MethodPost, "/"+testToken, startUpdate)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestWebhookDedupeStoreDown(t *testing.T) {
	fu := &fakeUsecase{}
	srv := newTestServer(t, fu, brokenTracker{})

	rec := do(srv, http.MethodPost, "/"+testToken, startUpdate)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(fu.calls) != 0 {
		t.Fatalf("usecase called %d times", len(fu.calls))
	}
}

type blockingUsecase struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (b *blockingUsecase) HandleMessage(context.Context, usecase.HandleMessageInput) (*usecase.HandleMessageOutput, error) {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()

	if first {
		close(b.entered)
		<-b.release
	}
	return &usecase.HandleMessageOutput{Outcome: entity.OutcomeGreeted}, nil
}

func (b *blockingUsecase) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestWebhookLockExpiresForStuckUpdate(t *testing.T) {
	clk := clock.NewFrozenUnix(1700000000)
	bu := &blockingUsecase{entered: make(chan struct{}), release: make(chan struct{})}
	srv := newTestServerWithConfig(t, bu, idempotency.NewMemory(clk), WebhookConfig{
		Token:     testToken,
		DedupeTTL: time.Hour,
		LockTTL:   5 * time.Second,
	})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- do(srv, http.MethodPost, "/"+testToken, startUpdate) }()
	<-bu.entered

	if rec := do(srv, http.MethodPost, "/"+testToken, startUpdate); rec.Code != http.StatusOK {
		t.Fatalf("redelivery while in progress: status = %d", rec.Code)
	}
	if got := bu.count(); got != 1 {
		t.Fatalf("calls while locked = %d, want 1", got)
	}

	clk.Set(clk.Now().Add(5 * time.Second))
	if rec := do(srv, http.MethodPost, "/"+testToken, startUpdate); rec.Code != http.StatusOK {
		t.Fatalf("redelivery after lock: status = %d", rec.Code)
	}
	if got := bu.count(); got != 2 {
		t.Fatalf("calls after lock expiry = %d, want 2", got)
	}

	close(bu.release)
	if rec := <-done; rec.Code != http.StatusOK {
		t.Fatalf("first delivery: status = %d", rec.Code)
	}
}
