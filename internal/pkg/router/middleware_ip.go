package router

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/shandysiswandi/otpbot/internal/pkg/config"
)

// middlewareClientIP rewrites RemoteAddr to the client address. Forwarding
// headers are honoured only when app.server.trust_proxy is set, since Telegram
// usually reaches the bot without a proxy in between.
func middlewareClientIP(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trustProxy := cfg != nil && cfg.GetBool("app.server.trust_proxy")
			if ip := clientIP(r, trustProxy); ip.IsValid() {
				r.RemoteAddr = ip.String()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) netip.Addr {
	if trustProxy {
		for _, h := range []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"} {
			first, _, _ := strings.Cut(r.Header.Get(h), ",")
			if ip, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
				return ip
			}
		}
	}

	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr()
	}
	ip, _ := netip.ParseAddr(r.RemoteAddr)
	return ip
}
