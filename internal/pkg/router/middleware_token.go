package router

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RequirePathToken rejects requests whose path parameter param does not equal
// token. Mismatches answer 404 so the endpoint is indistinguishable from an
// unknown route.
func RequirePathToken(param, token string) Middleware {
	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(httprouter.ParamsFromContext(r.Context()).ByName(param))

			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				slog.WarnContext(r.Context(), "request rejected, path token mismatch", "ip", r.RemoteAddr)
				writeError(r.Context(), w, errEndpointNotFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
