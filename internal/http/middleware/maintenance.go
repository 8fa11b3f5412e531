package middleware

import (
	"net/http"

	"website.app/v2/internal/http/response/html"
)

// Maintenance answers every request with 503 and msg.
func Maintenance(msg string) MiddlewareFunc {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			html.ServiceUnavailable(w, r, msg)
		})
	}
}
