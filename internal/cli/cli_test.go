package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website.app/v2/internal/config"
	"website.app/v2/internal/version"
)

func setupConfig(t *testing.T, env map[string]string) {
	t.Helper()
	os.Clearenv()
	for k, v := range env {
		t.Setenv(k, v)
	}
	opts, err := config.NewParser().ParseEnvironmentVariables()
	require.NoError(t, err)
	config.Opts = opts
}

type fakeCleaner struct {
	lifetimes []time.Duration
	flush     error
}

func (self *fakeCleaner) CleanOldSessions(ctx context.Context,
	lifetime time.Duration,
) int64 {
	self.lifetimes = append(self.lifetimes, lifetime)
	return 3
}

func (self *fakeCleaner) FlushAllSessions(ctx context.Context) error {
	return self.flush
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{answer: "y\n", want: true},
		{answer: "YES\n", want: true},
		{answer: " yes ", want: true},
		{answer: "n\n"},
		{answer: "\n"},
		{answer: ""},
		{answer: "yep\n"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.answer), &out, "Flush?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Flush? [y/N] ", out.String())
		})
	}
}

func TestFlushSessions(t *testing.T) {
	var out bytes.Buffer
	store := &fakeCleaner{}
	require.NoError(t, flushSessions(t.Context(), &out, store))
	assert.Contains(t, out.String(), "Flushing all sessions")

	store.flush = errors.New("test error")
	require.ErrorIs(t, flushSessions(t.Context(), &out, store), store.flush)
}

func TestRunCleanupTasks(t *testing.T) {
	setupConfig(t, map[string]string{"SESSION_LIFETIME_DAYS": "7"})
	store := &fakeCleaner{}
	runCleanupTasks(t.Context(), store)
	assert.Equal(t, []time.Duration{7 * 24 * time.Hour}, store.lifetimes)
}

func TestCleanupScheduler(t *testing.T) {
	setupConfig(t, nil)
	store := &fakeCleaner{}
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	cleanupScheduler(ctx, store, 10*time.Millisecond)
	assert.NotEmpty(t, store.lifetimes)
	for _, d := range store.lifetimes {
		assert.Equal(t, config.Opts.SessionLifetime(), d)
	}
}

func TestDoHealthCheck(t *testing.T) {
	setupConfig(t, nil)
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/healthcheck", r.URL.Path)
			w.WriteHeader(status)
		}))
	defer srv.Close()
	endpoint := srv.URL + "/healthcheck"

	require.NoError(t, doHealthCheck(t.Context(), endpoint, time.Second))

	status = http.StatusServiceUnavailable
	require.ErrorContains(t, doHealthCheck(t.Context(), endpoint, time.Second),
		"503")

	srv.Close()
	require.ErrorContains(t, doHealthCheck(t.Context(), endpoint, time.Second),
		"health check failure")
}

func TestDoHealthCheck_auto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/site/healthcheck", r.URL.Path)
		}))
	defer srv.Close()

	setupConfig(t, map[string]string{
		"LISTEN_ADDR": strings.TrimPrefix(srv.URL, "http://"),
		"BASE_URL":    "http://example.org/site",
	})
	require.NoError(t, doHealthCheck(t.Context(), "auto", time.Second))
}

func TestDoHealthCheck_timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-done:
			}
		}))
	defer srv.Close()
	defer close(done)

	err := doHealthCheck(t.Context(), srv.URL, 10*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInfo(t *testing.T) {
	var out bytes.Buffer
	info(&out)
	assert.Contains(t, out.String(), "Version: "+version.Version+"\n")
	assert.Contains(t, out.String(), "Go Version: ")
}

func TestConfigDumpCmd(t *testing.T) {
	os.Clearenv()
	t.Setenv("LOG_FILE", "stdout")
	t.Setenv("SESSION_LIFETIME_DAYS", "14")

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"config-dump"})
	t.Cleanup(func() {
		Cmd.SetOut(nil)
		Cmd.SetArgs(nil)
	})

	require.NoError(t, Cmd.Execute())
	assert.Contains(t, out.String(), "SESSION_LIFETIME_DAYS=14\n")
	assert.Contains(t, out.String(), "# session lifetime: 336h0m0s\n")
	assert.Contains(t, out.String(),
		"# allowed origins: http://localhost\n")
}
