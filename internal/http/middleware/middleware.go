// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package middleware // import "website.app/v2/internal/http/middleware"

import (
	"net/http"

	"website.app/v2/internal/config"
	"website.app/v2/internal/http/mux"
	"website.app/v2/internal/http/request"
)

type MiddlewareFunc = mux.MiddlewareFunc

// ClientIP stores the real client IP in the request context and adds the
// HSTS header for HTTPS requests.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			config.Opts.EnableHTTPS()
		}

		if config.Opts.HTTPS() && config.Opts.HasHSTS() {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000")
		}

		clientIP := request.FindClientIP(r, config.Opts.TrustedProxy)
		ctx := request.WithClientIP(r.Context(), clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
