package middleware

import (
	"net/http"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/locale"
)

// Language negotiates the page language from Accept-Language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := locale.Negotiate(r.Header.Get("Accept-Language"))
		ctx := request.WithLanguage(r.Context(), lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
