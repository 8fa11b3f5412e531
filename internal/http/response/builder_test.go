package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, r *http.Request, fn func(b *Builder),
) *http.Response {
	t.Helper()
	if r == nil {
		r = httptest.NewRequest(http.MethodGet, "/", nil)
	}
	w := httptest.NewRecorder()
	fn(New(w, r))
	return w.Result()
}

func TestBuilder_commonHeaders(t *testing.T) {
	resp := serve(t, nil, func(b *Builder) { b.Write() })
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
}

func TestBuilder_body(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{name: "bytes", body: []byte("bytes"), want: "bytes"},
		{name: "string", body: "string", want: "string"},
		{name: "error", body: errors.New("some error"), want: "some error"},
		{name: "reader", body: strings.NewReader("reader"), want: "reader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			New(w, r).WithStatus(http.StatusNotAcceptable).WithBody(tt.body).
				Write()
			assert.Equal(t, http.StatusNotAcceptable, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestBuilder_WithHeaderAndCookie(t *testing.T) {
	resp := serve(t, nil, func(b *Builder) {
		b.WithHeader("X-My-Header", "Value").
			WithCookie(&http.Cookie{Name: "sid", Value: "abc"}).
			WithoutCompression().
			Write()
	})
	assert.Equal(t, "Value", resp.Header.Get("X-My-Header"))
	assert.Equal(t, "yes", resp.Header.Get(gzhttp.HeaderNoCompression))
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, "abc", resp.Cookies()[0].Value)
}

func TestBuilder_WithCaching(t *testing.T) {
	const etag = "etag"
	var called bool
	resp := serve(t, nil, func(b *Builder) {
		b.WithCaching(etag, time.Minute, func(b *Builder) {
			called = true
			b.WithBody("body").Write()
		})
	})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, etag, resp.Header.Get("ETag"))
	assert.Equal(t, "public", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("Expires"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("If-None-Match", etag)
	called = false
	resp = serve(t, r, func(b *Builder) {
		b.WithCaching(etag, time.Minute, func(b *Builder) { called = true })
	})
	assert.False(t, called)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestBuilder_WithLongCaching(t *testing.T) {
	resp := serve(t, nil, func(b *Builder) { b.WithLongCaching().Write() })
	assert.Equal(t, longCacheControl, resp.Header.Get("Cache-Control"))
}
