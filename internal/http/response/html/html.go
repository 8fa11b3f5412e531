// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package html // import "website.app/v2/internal/http/response/html"

import (
	"html"
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/response"
)

const (
	cacheControl = "Cache-Control"
	cacheNoCache = "no-cache, max-age=0, must-revalidate, no-store"

	contentType = "Content-Type"
	textHTML    = "text/html; charset=utf-8"
	textPlain   = "text/plain; charset=utf-8"

	contentSecPol = "Content-Security-Policy"
)

// page starts a response, which browsers must never cache. Login and account
// pages carry the visitor's data.
func page(w http.ResponseWriter, r *http.Request, status int,
) *response.Builder {
	return response.New(w, r).
		WithStatus(status).
		WithHeader(contentType, textHTML).
		WithHeader(cacheControl, cacheNoCache)
}

// OK writes a rendered page and sets cookies.
func OK(w http.ResponseWriter, r *http.Request, body any,
	cookies ...*http.Cookie,
) {
	b := page(w, r, http.StatusOK).
		WithHeader(contentSecPol, response.ContentSecurityPolicy).
		WithBody(body)
	for _, c := range cookies {
		b.WithCookie(c)
	}
	b.Write()
}

// ServerError writes err as escaped plain text. A request canceled by the
// visitor gets 499 and is logged at debug level.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	status, level := http.StatusInternalServerError, slog.LevelError
	if response.ClientClosed(r, err) {
		status, level = response.StatusClientClosedRequest, slog.LevelDebug
	}

	response.RequestLogger(r, err).Log(r.Context(), level,
		http.StatusText(status),
		slog.GroupAttrs("response", slog.Int("status_code", status)))

	page(w, r, status).
		WithHeader(contentType, textPlain).
		WithHeader(contentSecPol,
			response.ContentSecurityPolicyForUntrustedContent).
		WithBody(html.EscapeString(err.Error())).
		Write()
}

func statusPage(w http.ResponseWriter, r *http.Request, status int,
	msg string,
) {
	response.LogStatus(r, status, nil)
	page(w, r, status).WithBody(html.EscapeString(msg)).Write()
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	statusPage(w, r, http.StatusForbidden, "Access Forbidden")
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	statusPage(w, r, http.StatusNotFound, "Page Not Found")
}

// ServiceUnavailable writes the maintenance message.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, msg string) {
	page(w, r, http.StatusServiceUnavailable).
		WithBody(html.EscapeString(msg)).
		Write()
}

// Redirect sets cookies and redirects with 302 Found.
func Redirect(w http.ResponseWriter, r *http.Request, uri string,
	cookies ...*http.Cookie,
) {
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
	http.Redirect(w, r, uri, http.StatusFound)
}
