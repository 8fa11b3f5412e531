// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package request // import "website.app/v2/internal/http/request"

import (
	"context"
	"net/http"

	"website.app/v2/internal/model"
)

type (
	ctxClientIP struct{}
	ctxSession  struct{}
	ctxLanguage struct{}
)

var (
	clientIPKey ctxClientIP = struct{}{}
	sessionKey  ctxSession  = struct{}{}
	languageKey ctxLanguage = struct{}{}
)

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP address stored in the request context.
func ClientIP(r *http.Request) string {
	ip, _ := r.Context().Value(clientIPKey).(string)
	return ip
}

func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// Session returns the app session of the request, or nil for anonymous
// visitors.
func Session(r *http.Request) *model.Session {
	s, _ := r.Context().Value(sessionKey).(*model.Session)
	return s
}

// SessionID returns the current app session ID, or "".
func SessionID(r *http.Request) string {
	if s := Session(r); s != nil {
		return s.ID
	}
	return ""
}

// IsAuthenticated reports whether the request carries a session with a token
// and a user profile.
func IsAuthenticated(r *http.Request) bool { return Session(r).Authenticated() }

// User returns the user profile of the app session, or nil.
func User(r *http.Request) *model.User {
	if s := Session(r); s != nil {
		return s.User()
	}
	return nil
}

func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// UserLanguage returns the language negotiated for the request, defaulting
// to "en_US".
func UserLanguage(r *http.Request) string {
	if s := Session(r); s != nil && s.Language() != "" {
		return s.Language()
	}
	if lang, _ := r.Context().Value(languageKey).(string); lang != "" {
		return lang
	}
	return "en_US"
}
