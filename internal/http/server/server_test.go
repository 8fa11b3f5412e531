package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website.app/v2/internal/config"
	"website.app/v2/internal/model"
	"website.app/v2/internal/ui/static"
	"website.app/v2/internal/version"
)

type fakeStore struct {
	healthErr error
}

func (self *fakeStore) AppSession(ctx context.Context, id string,
) (*model.Session, error) {
	return nil, nil
}

func (self *fakeStore) CreateAppSession(ctx context.Context,
	data *model.SessionData,
) (*model.Session, error) {
	return &model.Session{ID: "sid", Data: data}, nil
}

func (self *fakeStore) RemoveAppSession(ctx context.Context, id string) error {
	return nil
}

func (self *fakeStore) RegisterMetrics(r prometheus.Registerer) {}

func (self *fakeStore) Metrics(ctx context.Context, fromDB bool) error {
	return nil
}

func (self *fakeStore) Healthcheck(ctx context.Context) error {
	return self.healthErr
}

type fakeActions struct{}

func (fakeActions) SetAuthToken(ctx context.Context, credential string,
) (*model.Authentication, error) {
	return &model.Authentication{Token: "token"}, nil
}

func (fakeActions) UserData(ctx context.Context, auth *model.Authentication,
) (*model.User, error) {
	return &model.User{ID: "42", Email: "john@example.org"}, nil
}

func newHandler(t *testing.T, env map[string]string, store *fakeStore,
) http.Handler {
	t.Helper()
	os.Clearenv()
	for k, v := range env {
		t.Setenv(k, v)
	}
	opts, err := config.NewParser().ParseEnvironmentVariables()
	require.NoError(t, err)
	config.Opts = opts
	require.NoError(t, static.Init(t.Context()))
	return setupHandler(store, fakeActions{})
}

func get(h http.Handler, target, remoteAddr string) (int, string) {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if remoteAddr != "" {
		r.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	b, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(b)
}

func TestSetupHandler(t *testing.T) {
	h := newHandler(t, nil, &fakeStore{})

	tests := []struct {
		target string
		status int
		body   string
	}{
		{target: "/healthz", status: http.StatusOK, body: "OK"},
		{target: "/liveness", status: http.StatusOK, body: "OK"},
		{target: "/readyz", status: http.StatusOK, body: "OK"},
		{target: "/readiness", status: http.StatusOK, body: "OK"},
		{target: "/healthcheck", status: http.StatusOK, body: "OK"},
		{target: "/version", status: http.StatusOK, body: version.Version},
		{target: "/login", status: http.StatusOK},
		{target: "/", status: http.StatusFound},
		{target: "/account", status: http.StatusFound},
		{target: "/metrics", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			status, body := get(h, tt.target, "")
			assert.Equal(t, tt.status, status)
			if tt.body != "" {
				assert.Equal(t, tt.body, body)
			}
		})
	}
}

func TestSetupHandler_info(t *testing.T) {
	h := newHandler(t, nil, &fakeStore{})
	status, body := get(h, "/info", "")
	require.Equal(t, http.StatusOK, status)

	var got buildInfo
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, version.Version, got.Version)
	assert.Equal(t, runtime.Version(), got.GoVersion)
	assert.Equal(t, runtime.GOOS, got.OS)
}

func TestSetupHandler_basePath(t *testing.T) {
	h := newHandler(t, map[string]string{
		"BASE_URL": "http://example.org/site",
	}, &fakeStore{})

	status, _ := get(h, "/site/login", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(h, "/site/healthcheck", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(h, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(h, "/login", "")
	assert.Equal(t, http.StatusNotFound, status)

	r := httptest.NewRequest(http.MethodGet, "/site/account", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/site/login", rec.Header().Get("Location"))
}

func TestSetupHandler_notReady(t *testing.T) {
	h := newHandler(t, nil, &fakeStore{healthErr: errors.New("connection refused")})

	status, body := get(h, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, "connection refused")

	status, _ = get(h, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestSetupHandler_metrics(t *testing.T) {
	h := newHandler(t, map[string]string{
		"METRICS_COLLECTOR":        "1",
		"METRICS_ALLOWED_NETWORKS": "10.0.0.0/8",
	}, &fakeStore{})

	status, _ := get(h, "/metrics", "10.1.2.3:1234")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(h, "/metrics", "192.0.2.1:1234")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSetupHandler_maintenance(t *testing.T) {
	h := newHandler(t, map[string]string{
		"MAINTENANCE_MODE":    "1",
		"MAINTENANCE_MESSAGE": "Back soon",
	}, &fakeStore{})

	status, body := get(h, "/login", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Back soon", body)

	status, _ = get(h, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestUnixListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sock", "website.sock")
	l, err := unixListener(path, 0o600)
	require.NoError(t, err)

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	require.NoError(t, l.Close())

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	l, err = unixListener(path, 0)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestConfiguredMode(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		want  mode
		https bool
	}{
		{name: "http", want: modeHTTP},
		{
			name: "unix",
			env:  map[string]string{"LISTEN_ADDR": "/run/website/website.sock"},
			want: modeUnix,
		},
		{
			name:  "autocert",
			env:   map[string]string{"CERT_DOMAIN": "example.org"},
			want:  modeAutoCert,
			https: true,
		},
		{
			name: "tls",
			env: map[string]string{
				"CERT_FILE": "/etc/website/cert.pem",
				"KEY_FILE":  "/etc/website/key.pem",
			},
			want:  modeTLS,
			https: true,
		},
		{
			name: "cert without key",
			env:  map[string]string{"CERT_FILE": "/etc/website/cert.pem"},
			want: modeHTTP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newHandler(t, tt.env, &fakeStore{})
			got := configuredMode()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.https, got.https())
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "http", modeHTTP.String())
	assert.Equal(t, "tls", modeTLS.String())
	assert.Equal(t, "autocert", modeAutoCert.String())
	assert.Equal(t, "unix", modeUnix.String())
	assert.Equal(t, "systemd", modeSystemd.String())
}
