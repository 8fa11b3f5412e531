package middleware

import (
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/logging"
)

// CrossOriginProtection rejects non-safe cross-origin browser requests, like
// a login form posted from another site.
func CrossOriginProtection(trustedOrigins ...string) MiddlewareFunc {
	p := http.NewCrossOriginProtection()
	for _, origin := range trustedOrigins {
		if err := p.AddTrustedOrigin(origin); err != nil {
			panic(err)
		}
	}

	p.SetDenyHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Warn("cross-origin request denied",
				slog.String("origin", r.Header.Get("Origin")),
				slog.String("sec_fetch_site", r.Header.Get("Sec-Fetch-Site")))
			html.Forbidden(w, r)
		}))
	return p.Handler
}
