// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "website.app/v2/internal/config"

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEnvironmentVariables(t *testing.T) *Options {
	t.Helper()
	opts, err := NewParser().ParseEnvironmentVariables()
	require.NoError(t, err)
	require.NotNil(t, opts)
	return opts
}

func TestDefaultValues(t *testing.T) {
	os.Clearenv()
	opts := parseEnvironmentVariables(t)
	want := NewOptions()

	assert.Equal(t, want.env.LogFile, opts.LogFile())
	assert.Equal(t, want.env.LogLevel, opts.LogLevel())
	assert.Equal(t, want.env.LogFormat, opts.LogFormat())
	assert.Equal(t, "127.0.0.1:8080", opts.ListenAddr())
	assert.Equal(t, defaultBaseURL, opts.BaseURL())
	assert.Equal(t, defaultBaseURL, opts.RootURL())
	assert.Empty(t, opts.BasePath())
	assert.True(t, opts.IsDefaultDatabaseURL())
	assert.Equal(t, "http://127.0.0.1:8081", opts.AuthAPIURL())
	assert.Equal(t, 20*time.Second, opts.AuthAPITimeout())
	assert.Equal(t, 30*24*time.Hour, opts.SessionLifetime())
	assert.True(t, opts.HasHSTS())
	assert.False(t, opts.HTTPS())
	assert.True(t, opts.TrustedProxy("127.0.0.1"))
}

func TestLogLevelWithCustomValue(t *testing.T) {
	os.Clearenv()
	t.Setenv("LOG_LEVEL", "warning")
	opts := parseEnvironmentVariables(t)
	assert.Equal(t, "warning", opts.LogLevel())
}

func TestLogLevelWithInvalidValue(t *testing.T) {
	os.Clearenv()
	t.Setenv("LOG_LEVEL", "invalid")
	_, err := NewParser().ParseEnvironmentVariables()
	require.ErrorContains(t, err, "oneof")
}

func TestLogFormatWithInvalidValue(t *testing.T) {
	os.Clearenv()
	t.Setenv("LOG_FORMAT", "xml")
	_, err := NewParser().ParseEnvironmentVariables()
	require.ErrorContains(t, err, "LOG_FORMAT")
}

func TestPortOverridesListenAddr(t *testing.T) {
	os.Clearenv()
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("PORT", "3000")
	opts := parseEnvironmentVariables(t)
	assert.Equal(t, ":3000", opts.ListenAddr())
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		baseURL  string
		rootURL  string
		basePath string
	}{
		{
			name:    "without path",
			value:   "https://example.org",
			baseURL: "https://example.org",
			rootURL: "https://example.org",
		},
		{
			name:     "with path and trailing slash",
			value:    "https://example.org/site/",
			baseURL:  "https://example.org/site",
			rootURL:  "https://example.org",
			basePath: "/site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			t.Setenv("BASE_URL", tt.value)
			opts := parseEnvironmentVariables(t)
			assert.Equal(t, tt.baseURL, opts.BaseURL())
			assert.Equal(t, tt.rootURL, opts.RootURL())
			assert.Equal(t, tt.basePath, opts.BasePath())
		})
	}
}

func TestBaseURLWithInvalidScheme(t *testing.T) {
	os.Clearenv()
	t.Setenv("BASE_URL", "ftp://example.org")
	_, err := NewParser().ParseEnvironmentVariables()
	require.ErrorContains(t, err, "scheme must be http or https")
}

func TestAuthAPIURL(t *testing.T) {
	os.Clearenv()
	t.Setenv("AUTH_API_URL", "https://auth.example.org/api/")
	t.Setenv("AUTH_API_MAX_CONNS", "2")
	t.Setenv("AUTH_API_RATE", "5.5")
	opts := parseEnvironmentVariables(t)
	assert.Equal(t, "https://auth.example.org/api", opts.AuthAPIURL())
	assert.Equal(t, int64(2), opts.AuthAPIMaxConns())
	assert.InDelta(t, 5.5, opts.AuthAPIRate(), 0.001)
}

func TestAuthAPIURLInvalid(t *testing.T) {
	os.Clearenv()
	t.Setenv("AUTH_API_URL", "not a url")
	_, err := NewParser().ParseEnvironmentVariables()
	require.ErrorContains(t, err, "AUTH_API_URL")
}

func TestDatabaseURLFile(t *testing.T) {
	os.Clearenv()
	fname := filepath.Join(t.TempDir(), "database_url")
	const want = "postgres://user:pass@db/website"
	require.NoError(t, os.WriteFile(fname, []byte(want+"\n"), 0o600))
	t.Setenv("DATABASE_URL_FILE", fname)

	opts := parseEnvironmentVariables(t)
	assert.Equal(t, want, opts.DatabaseURL())
	assert.False(t, opts.IsDefaultDatabaseURL())
}

func TestParseEnvFile(t *testing.T) {
	os.Clearenv()
	fname := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(fname, []byte(`
LOG_LEVEL=debug
SESSION_LIFETIME_DAYS=7
METRICS_COLLECTOR=true
`), 0o600))

	opts, err := NewParser().ParseEnvFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.LogLevel())
	assert.Equal(t, 7, opts.SessionLifetimeDays())
	assert.True(t, opts.HasMetricsCollector())
}

func TestParseEnvFileNotFound(t *testing.T) {
	os.Clearenv()
	_, err := NewParser().ParseEnvFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestOptionsString(t *testing.T) {
	os.Clearenv()
	t.Setenv("DATABASE_URL", "postgres://secret@db/website")
	opts := parseEnvironmentVariables(t)

	s := opts.String()
	assert.Contains(t, s, "DATABASE_URL=<secret>\n")
	assert.Contains(t, s, "LISTEN_ADDR=127.0.0.1:8080\n")
	assert.NotContains(t, s, "postgres://secret")
}

func TestLoadYAML(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()
	require.Error(t, LoadYAML(filepath.Join(dir, "notfound.yaml"), ""))
	require.Error(t, LoadYAML("", filepath.Join(dir, "notfound.env")))
	require.NoError(t, LoadYAML("", ""))
	assert.Empty(t, Opts.TrustedOrigins)
	assert.Equal(t, []string{defaultBaseURL}, Opts.AllowedOrigins())

	yamlFile := filepath.Join(dir, "website.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(`
trusted_origins:
  - https://auth.example.org
  - http://localhost:3000
`), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("BASE_URL=https://example.org/site\n"), 0o600))

	require.NoError(t, LoadYAML(yamlFile, envFile))
	assert.Equal(t, []string{
		"https://example.org",
		"https://auth.example.org",
		"http://localhost:3000",
	}, Opts.AllowedOrigins())
	assert.Contains(t, Opts.String(),
		"TRUSTED_ORIGINS=https://auth.example.org,http://localhost:3000\n")
}

func TestLoadYAML_invalidOrigin(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		err     string
	}{
		{
			name:    "with path",
			content: "trusted_origins: [https://example.org/login]",
			err:     "scheme://host",
		},
		{
			name:    "not url",
			content: "trusted_origins: [example]",
			err:     "trusted_origins",
		},
		{
			name:    "not yaml",
			content: "trusted_origins: [",
			err:     "failed parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yamlFile := filepath.Join(dir, "website.yaml")
			require.NoError(t, os.WriteFile(yamlFile, []byte(tt.content), 0o600))
			require.ErrorContains(t, LoadYAML(yamlFile, ""), tt.err)
		})
	}
}

func TestBaseURLWithPortAndQuery(t *testing.T) {
	os.Clearenv()
	t.Setenv("BASE_URL", "https://example.org:8443/site?a=b")
	opts := parseEnvironmentVariables(t)
	assert.Equal(t, "https://example.org:8443", opts.RootURL())
	assert.Equal(t, "/site", opts.BasePath())
}
