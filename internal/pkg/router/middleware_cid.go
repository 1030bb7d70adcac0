package router

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpbot/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbot/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the id that ties log lines of one request together.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted from proxies that set it instead.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// sanitizeCID drops header values that could forge log lines and caps the length.
func sanitizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		return v[:maxCorrelationIDLen]
	}
	return v
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := lo.CoalesceOrEmpty(
				sanitizeCID(r.Header.Get(HeaderCorrelationID)),
				sanitizeCID(r.Header.Get(HeaderRequestID)),
			)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
