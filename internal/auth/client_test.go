package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website.app/v2/internal/model"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithTimeout(5*time.Second),
		WithUserAgent("website-test"))
}

func TestClient_SetAuthToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "website-test", r.UserAgent())

		var req tokenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.org", req.Credential)
		_, _ = w.Write([]byte(`{"authentication":"token-1"}`))
	})

	auth, err := c.SetAuthToken(context.Background(), "user@example.org")
	require.NoError(t, err)
	assert.Equal(t, &model.Authentication{Token: "token-1"}, auth)
}

func TestClient_SetAuthToken_emptyToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authentication":""}`))
	})

	auth, err := c.SetAuthToken(context.Background(), "test:email")
	require.ErrorIs(t, err, ErrEmptyToken)
	assert.Nil(t, auth)
}

func TestClient_SetAuthToken_statusError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credential", http.StatusUnauthorized)
	})

	_, err := c.SetAuthToken(context.Background(), "user@example.org")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, ActionSetAuthToken, statusErr.Op)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "invalid credential", statusErr.Body)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestClient_SetAuthToken_invalidJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.SetAuthToken(context.Background(), "user@example.org")
	require.ErrorContains(t, err, "decode response")
}

func TestClient_UserData(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
  "id": "42",
  "email": "user@example.org",
  "name": "User",
  "avatar_url": "https://example.org/avatar.png"
}`))
	})

	user, err := c.UserData(context.Background(),
		&model.Authentication{Token: "token-1"})
	require.NoError(t, err)
	assert.Equal(t, &model.User{
		ID:        "42",
		Email:     "user@example.org",
		Name:      "User",
		AvatarURL: "https://example.org/avatar.png",
	}, user)
}

func TestClient_UserData_withoutToken(t *testing.T) {
	var called bool
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.UserData(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyToken)
	_, err = c.UserData(context.Background(), &model.Authentication{})
	require.ErrorIs(t, err, ErrEmptyToken)
	assert.False(t, called)
}

func TestClient_gzipResponse(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		_, _ = w.Write([]byte(`{"authentication":"token-1"}`))
	})

	auth, err := c.SetAuthToken(context.Background(), "user@example.org")
	require.NoError(t, err)
	assert.Equal(t, "token-1", auth.Token)
}

func TestClient_canceledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authentication":"token-1"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SetAuthToken(ctx, "user@example.org")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_maxConns(t *testing.T) {
	var running, maxRunning atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			_, _ = w.Write([]byte(`{"authentication":"token"}`))
		}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithMaxConns(2))
	var wg sync.WaitGroup
	for range 6 {
		wg.Go(func() {
			_, err := c.SetAuthToken(context.Background(), "user@example.org")
			assert.NoError(t, err)
		})
	}
	wg.Wait()
	assert.LessOrEqual(t, maxRunning.Load(), int32(2))
}

func TestClient_rate(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authentication":"token"}`))
	})
	WithRate(10)(c)

	startTime := time.Now()
	for range 3 {
		_, err := c.SetAuthToken(context.Background(), "user@example.org")
		require.NoError(t, err)
	}
	// burst of 10 covers all three calls
	assert.Less(t, time.Since(startTime), time.Second)
}
