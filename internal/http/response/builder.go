// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package response // import "website.app/v2/internal/http/response"

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

const (
	// ContentSecurityPolicy is sent with rendered pages. They have no
	// scripts and load styles and images from the same origin only.
	ContentSecurityPolicy = "default-src 'none'; img-src 'self' https:; style-src 'self'; form-action 'self'; frame-ancestors 'none'; base-uri 'self'"

	// ContentSecurityPolicyForUntrustedContent is sent with error messages,
	// which may echo text coming from the auth API.
	ContentSecurityPolicyForUntrustedContent = "default-src 'none'; sandbox"

	longCacheControl = "public, max-age=31536000, immutable"
)

// Builder collects status, headers, cookies and body of a response and
// writes them at once. Every response is sent with nosniff, DENY framing and
// no referrer.
type Builder struct {
	w       http.ResponseWriter
	r       *http.Request
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    io.Reader
}

func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{
		w:      w,
		r:      r,
		status: http.StatusOK,
		header: http.Header{
			"X-Content-Type-Options": {"nosniff"},
			"X-Frame-Options":        {"DENY"},
			"Referrer-Policy":        {"no-referrer"},
		},
	}
}

func (self *Builder) WithStatus(status int) *Builder {
	self.status = status
	return self
}

func (self *Builder) WithHeader(key, value string) *Builder {
	self.header.Set(key, value)
	return self
}

func (self *Builder) WithCookie(c *http.Cookie) *Builder {
	self.cookies = append(self.cookies, c)
	return self
}

// WithBody accepts a string, []byte, error or io.Reader. Anything else writes
// no body.
func (self *Builder) WithBody(body any) *Builder {
	switch v := body.(type) {
	case string:
		self.body = strings.NewReader(v)
	case []byte:
		self.body = bytes.NewReader(v)
	case error:
		self.body = strings.NewReader(v.Error())
	case io.Reader:
		self.body = v
	default:
		self.body = nil
	}
	return self
}

// WithoutCompression keeps gzhttp away from an already compressed body.
func (self *Builder) WithoutCompression() *Builder {
	return self.WithHeader(gzhttp.HeaderNoCompression, "yes")
}

// WithCaching makes the response cacheable for d. A client that already has
// etag gets 304 Not Modified and fn isn't called.
func (self *Builder) WithCaching(etag string, d time.Duration,
	fn func(*Builder),
) {
	self.WithHeader("ETag", etag).
		WithHeader("Cache-Control", "public").
		WithHeader("Expires", time.Now().Add(d).UTC().Format(http.TimeFormat))

	if etag != self.r.Header.Get("If-None-Match") {
		fn(self)
		return
	}
	self.WithStatus(http.StatusNotModified).WithBody(nil).Write()
}

func (self *Builder) WithLongCaching() *Builder {
	return self.WithHeader("Cache-Control", longCacheControl)
}

func (self *Builder) Write() {
	h := self.w.Header()
	for key, values := range self.header {
		h[key] = values
	}
	for _, c := range self.cookies {
		http.SetCookie(self.w, c)
	}
	self.w.WriteHeader(self.status)

	if self.body == nil {
		return
	}
	if _, err := io.Copy(self.w, self.body); err != nil {
		slog.Error("http/response: unable to write response body",
			slog.Any("error", err))
	}
}
