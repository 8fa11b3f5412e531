// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cookie // import "website.app/v2/internal/http/cookie"

import (
	"net/http"
	"time"

	"website.app/v2/internal/config"
)

// CookieAppSessionID holds the ID of the app session.
const CookieAppSessionID = "WebsiteAppSessionID"

// NewSession returns the app session cookie. It expires together with the
// session row.
func NewSession(id string) *http.Cookie {
	c := makeCookie(CookieAppSessionID, id)
	c.Expires = time.Now().Add(config.Opts.SessionLifetime())
	return c
}

// ExpiredSession returns a cookie removing the app session cookie.
func ExpiredSession() *http.Cookie { return Expired(CookieAppSessionID) }

// Expired returns an expired cookie.
func Expired(name string) *http.Cookie {
	c := makeCookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	return c
}

func makeCookie(name, value string) *http.Cookie {
	path := config.Opts.BasePath()
	if path == "" {
		path = "/"
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Secure:   config.Opts.HTTPS(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
