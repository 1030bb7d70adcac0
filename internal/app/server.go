package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
)

// Start launches the HTTP server and returns a channel closed on shutdown.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	a.registerWebhook()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// registerWebhook points Telegram at this server when bot.webhook_url is
// set. It runs in the background so a slow Bot API does not delay serving.
func (a *App) registerWebhook() {
	base := strings.TrimRight(strings.TrimSpace(a.config.GetString("bot.webhook_url")), "/")
	if base == "" {
		slog.Info("bot.webhook_url is empty, webhook registration skipped")
		return
	}
	hook := base + "/" + a.config.GetString("bot.token")

	if err := a.goroutine.Go(a.ctx, func(ctx context.Context) error {
		b := retry.NewExponential(time.Second)
		b = retry.WithCappedDuration(30*time.Second, b)
		b = retry.WithMaxRetries(a.config.GetUint64("bot.webhook_max_retries"), b)

		err := retry.Do(ctx, b, func(ctx context.Context) error {
			if err := a.telegram.SetWebhook(ctx, hook); err != nil {
				slog.WarnContext(ctx, "webhook registration attempt failed", "error", err)
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to register webhook", "webhook_url", base, "error", err)
			return nil
		}

		slog.InfoContext(ctx, "webhook registered", "webhook_url", base)
		return nil
	}); err != nil {
		slog.Error("failed to schedule webhook registration", "error", err)
	}
}

// Stop gracefully shuts down the server and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
