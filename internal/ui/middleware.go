package ui

import (
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/logging"
)

// requireSession lets through visitors having an authenticated app session
// and redirects everybody else to the login page.
func (h *handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		if !request.IsAuthenticated(r) {
			log.Debug(
				"Redirecting to login page because no app session has been found",
				slog.String("url", r.URL.String()))
			h.redirect(w, r, "login")
			return
		}

		log.Debug("App session found",
			slog.GroupAttrs("user",
				slog.String("id", request.User(r).ID)),
			slog.GroupAttrs("session",
				slog.String("id", request.SessionID(r))))
		next.ServeHTTP(w, r)
	})
}
