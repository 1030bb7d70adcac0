package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	totp      otp.OTP

	// resources
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Publisher
	telegram  *telegram.Client

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initIdempotency()
	app.initMessaging()
	app.initTelegram()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
