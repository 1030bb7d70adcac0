package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpbot/internal/otpbot"
)

func (a *App) initModules() {
	if err := otpbot.New(otpbot.Dependency{
		Router:      a.router,
		Goroutine:   a.goroutine,
		Idempotency: a.idemp,
		Messaging:   a.messaging,
		Telegram:    a.telegram,
		Config:      a.config,
		Instrument:  a.ins,
		UUID:        a.uuid,
		Clock:       a.clock,
		Totp:        a.totp,
		Validator:   a.validator,
	}); err != nil {
		slog.Error("failed to init module otpbot", "error", err)
		os.Exit(1)
	}
}
