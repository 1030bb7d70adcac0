package router

import (
	"net/http"

	"github.com/shandysiswandi/otpbot/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in
// app.maintenance.endpoints. The list is read per request so a config file
// change takes effect without a restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
				if endpoint == route {
					writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
