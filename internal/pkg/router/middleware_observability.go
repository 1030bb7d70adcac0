package router

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var errHijackUnsupported = errors.New("router: response writer cannot be hijacked")

// responseObserver remembers what a handler wrote so it can be logged.
type responseObserver struct {
	http.ResponseWriter
	status  int
	written int
	err     error
}

func (o *responseObserver) WriteHeader(code int) {
	if o.status == 0 {
		o.status = code
	}
	o.ResponseWriter.WriteHeader(code)
}

func (o *responseObserver) Write(p []byte) (int, error) {
	if o.status == 0 {
		o.status = http.StatusOK
	}
	n, err := o.ResponseWriter.Write(p)
	o.written += n
	return n, err
}

// SetError lets the endpoint adapter hand the handler error to the span.
func (o *responseObserver) SetError(err error) { o.err = err }

func (o *responseObserver) Flush() {
	if f, ok := o.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (o *responseObserver) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := o.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errHijackUnsupported
}

func (o *responseObserver) code() int {
	return max(o.status, http.StatusOK)
}

// matchedRoutePath returns the route pattern ("/:token") rather than the raw
// path, so secrets carried in path parameters never reach logs or spans.
func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) httpMetrics {
	var m httpMetrics
	var err error

	if m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests received")); err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}
	if m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms")); err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return m
}

func middlewareObservability(ins instrument.Instrumentation) Middleware {
	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					attribute.String("http.user_agent", r.UserAgent()),
				),
			)
			defer span.End()

			obs := &responseObserver{ResponseWriter: w}
			next.ServeHTTP(obs, r.WithContext(ctx))

			status := obs.code()
			elapsed := time.Since(start)
			attrs := metric.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			)

			span.SetAttributes(
				semconv.HTTPResponseStatusCodeKey.Int(status),
				attribute.Int("http.response_content_length", obs.written),
			)
			if obs.err != nil {
				span.RecordError(obs.err)
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if metrics.requests != nil {
				metrics.requests.Add(ctx, 1, attrs)
			}
			if metrics.duration != nil {
				metrics.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
			}

			slog.InfoContext(ctx, "http request",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", obs.written,
				"ip", r.RemoteAddr,
				"latency_ms", elapsed.Milliseconds(),
			)
		})
	}
}
