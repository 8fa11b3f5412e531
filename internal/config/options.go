// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "website.app/v2/internal/config"

import (
	"fmt"
	"net/url"
	"runtime"
	"slices"
	"strings"
	"time"

	"website.app/v2/internal/version"
)

const (
	defaultBaseURL     = "http://localhost"
	defaultDatabaseURL = "user=postgres password=postgres dbname=website sslmode=disable"
)

var defaultUA = "Website/" + version.Version

// Options contains configuration options.
type Options struct {
	// TrustedOrigins may post the login forms cross-origin, like
	// "https://example.org".
	TrustedOrigins []string `yaml:"trusted_origins" validate:"dive,required,http_url"`

	env EnvOptions

	rootURL        string
	basePath       string
	trustedProxies map[string]struct{}
}

type EnvOptions struct {
	HTTPS                      bool     `env:"HTTPS"`
	DisableHSTS                bool     `env:"DISABLE_HSTS"`
	LogFile                    string   `env:"LOG_FILE" validate:"required"`
	LogDateTime                bool     `env:"LOG_DATE_TIME"`
	LogFormat                  string   `env:"LOG_FORMAT" validate:"required,oneof=human json text"`
	LogLevel                   string   `env:"LOG_LEVEL" validate:"required,oneof=debug info warning error"`
	BaseURL                    string   `env:"BASE_URL" validate:"required"`
	DatabaseURL                string   `env:"DATABASE_URL" validate:"required"`
	DatabaseURLFile            *string  `env:"DATABASE_URL_FILE,file"`
	DatabaseMaxConns           int      `env:"DATABASE_MAX_CONNS" validate:"min=1"`
	DatabaseMinConns           int      `env:"DATABASE_MIN_CONNS" validate:"min=0"`
	DatabaseConnectionLifetime int      `env:"DATABASE_CONNECTION_LIFETIME" validate:"gt=0"`
	RunMigrations              bool     `env:"RUN_MIGRATIONS"`
	ListenAddr                 string   `env:"LISTEN_ADDR" validate:"required"`
	Port                       string   `env:"PORT"`
	CertFile                   string   `env:"CERT_FILE" validate:"omitempty,filepath"`
	CertDomain                 string   `env:"CERT_DOMAIN"`
	CertKeyFile                string   `env:"KEY_FILE" validate:"omitempty,filepath"`
	HttpServerTimeout          int      `env:"HTTP_SERVER_TIMEOUT" validate:"min=1"`
	AuthAPIURL                 string   `env:"AUTH_API_URL" validate:"required,url"`
	AuthAPITimeout             int      `env:"AUTH_API_TIMEOUT" validate:"min=1"`
	AuthAPIMaxConns            int64    `env:"AUTH_API_MAX_CONNS" validate:"min=1"`
	AuthAPIRate                float64  `env:"AUTH_API_RATE" validate:"min=0"`
	AuthAPIUserAgent           string   `env:"AUTH_API_USER_AGENT"`
	SessionLifetimeDays        int      `env:"SESSION_LIFETIME_DAYS" validate:"min=1"`
	CleanupFrequencyHours      int      `env:"CLEANUP_FREQUENCY_HOURS" validate:"min=1"`
	MaintenanceMode            bool     `env:"MAINTENANCE_MODE"`
	MaintenanceMessage         string   `env:"MAINTENANCE_MESSAGE" validate:"required_with=MaintenanceMode"`
	MetricsCollector           bool     `env:"METRICS_COLLECTOR"`
	MetricsAllowedNetworks     []string `env:"METRICS_ALLOWED_NETWORKS" validate:"dive,required,cidr"`
	TrustedProxies             []string `env:"TRUSTED_PROXIES" validate:"dive,required,ip"`
}

// NewOptions returns Options with default values.
func NewOptions() *Options {
	return &Options{
		env: EnvOptions{
			LogFile:                    "stderr",
			LogFormat:                  "text",
			LogLevel:                   "info",
			BaseURL:                    defaultBaseURL,
			DatabaseURL:                defaultDatabaseURL,
			DatabaseMaxConns:           max(4, runtime.GOMAXPROCS(0)),
			DatabaseConnectionLifetime: 60,
			ListenAddr:                 "127.0.0.1:8080",
			HttpServerTimeout:          300,
			AuthAPIURL:                 "http://127.0.0.1:8081",
			AuthAPITimeout:             20,
			AuthAPIMaxConns:            16,
			AuthAPIRate:                0,
			AuthAPIUserAgent:           defaultUA,
			SessionLifetimeDays:        30,
			CleanupFrequencyHours:      24,
			MaintenanceMessage:         "The website is currently under maintenance",
			MetricsAllowedNetworks:     []string{"127.0.0.1/8"},
			TrustedProxies:             []string{"127.0.0.1"},
		},
		rootURL: defaultBaseURL,
	}
}

func (o *Options) init() error {
	if o.env.Port != "" {
		o.env.ListenAddr = ":" + o.env.Port
	}

	if o.env.DatabaseURLFile != nil {
		o.env.DatabaseURL = strings.TrimSpace(*o.env.DatabaseURLFile)
	}

	for _, v := range [...]any{&o.env, o} {
		if err := Validator().Struct(v); err != nil {
			return fmt.Errorf("config: invalid options: %w", err)
		}
	}
	if err := validOrigins(o.TrustedOrigins); err != nil {
		return err
	}
	o.env.AuthAPIURL = strings.TrimSuffix(o.env.AuthAPIURL, "/")

	o.trustedProxies = make(map[string]struct{}, len(o.env.TrustedProxies))
	for _, ip := range o.env.TrustedProxies {
		o.trustedProxies[ip] = struct{}{}
	}

	return o.setBaseURL(o.env.BaseURL)
}

func (o *Options) HTTPS() bool  { return o.env.HTTPS }
func (o *Options) EnableHTTPS() { o.env.HTTPS = true }

// HasHSTS returns true if HTTP Strict Transport Security is enabled.
func (o *Options) HasHSTS() bool { return !o.env.DisableHSTS }

func (o *Options) LogFile() string { return o.env.LogFile }

// LogDateTime returns true if the date/time should be displayed in log
// messages.
func (o *Options) LogDateTime() bool { return o.env.LogDateTime }

// LogFormat returns the log format.
func (o *Options) LogFormat() string { return o.env.LogFormat }

// LogLevel returns the log level.
func (o *Options) LogLevel() string { return o.env.LogLevel }

// SetLogLevel sets the log level.
func (o *Options) SetLogLevel(level string) { o.env.LogLevel = level }

// BaseURL returns the application base URL with path.
func (o *Options) BaseURL() string { return o.env.BaseURL }

// RootURL returns the base URL without path.
func (o *Options) RootURL() string { return o.rootURL }

// BasePath returns the application base path according to the base URL.
func (o *Options) BasePath() string { return o.basePath }

// IsDefaultDatabaseURL returns true if the default database URL is used.
func (o *Options) IsDefaultDatabaseURL() bool {
	return o.env.DatabaseURL == defaultDatabaseURL
}

func (o *Options) DatabaseURL() string   { return o.env.DatabaseURL }
func (o *Options) DatabaseMaxConns() int { return o.env.DatabaseMaxConns }
func (o *Options) DatabaseMinConns() int { return o.env.DatabaseMinConns }

// DatabaseConnectionLifetime returns the maximum amount of time a connection
// may be reused.
func (o *Options) DatabaseConnectionLifetime() time.Duration {
	return time.Duration(o.env.DatabaseConnectionLifetime) * time.Minute
}

func (o *Options) RunMigrations() bool { return o.env.RunMigrations }

// ListenAddr returns the listen address for the HTTP server.
func (o *Options) ListenAddr() string { return o.env.ListenAddr }

func (o *Options) CertFile() string    { return o.env.CertFile }
func (o *Options) CertKeyFile() string { return o.env.CertKeyFile }

// CertDomain returns the domain to use for Let's Encrypt certificate.
func (o *Options) CertDomain() string { return o.env.CertDomain }

func (o *Options) HTTPServerTimeout() time.Duration {
	return time.Duration(o.env.HttpServerTimeout) * time.Second
}

// AuthAPIURL returns the base URL of the authentication API, without
// trailing slash.
func (o *Options) AuthAPIURL() string { return o.env.AuthAPIURL }

func (o *Options) AuthAPITimeout() time.Duration {
	return time.Duration(o.env.AuthAPITimeout) * time.Second
}

// AuthAPIMaxConns returns how many requests to the authentication API may be
// in flight at once.
func (o *Options) AuthAPIMaxConns() int64 { return o.env.AuthAPIMaxConns }

// AuthAPIRate returns requests per second allowed to the authentication API.
// Zero means unlimited.
func (o *Options) AuthAPIRate() float64 { return o.env.AuthAPIRate }

func (o *Options) AuthAPIUserAgent() string { return o.env.AuthAPIUserAgent }

func (o *Options) SessionLifetimeDays() int { return o.env.SessionLifetimeDays }

func (o *Options) SessionLifetime() time.Duration {
	return time.Duration(o.env.SessionLifetimeDays) * 24 * time.Hour
}

// CleanupFrequency returns the interval for the session cleanup job.
func (o *Options) CleanupFrequency() time.Duration {
	return time.Duration(o.env.CleanupFrequencyHours) * time.Hour
}

// HasMaintenanceMode returns true if maintenance mode is enabled.
func (o *Options) HasMaintenanceMode() bool { return o.env.MaintenanceMode }

func (o *Options) MaintenanceMessage() string {
	return o.env.MaintenanceMessage
}

// HasMetricsCollector returns true if metrics collection is enabled.
func (o *Options) HasMetricsCollector() bool { return o.env.MetricsCollector }

func (o *Options) MetricsAllowedNetworks() []string {
	return o.env.MetricsAllowedNetworks
}

// TrustedProxy reports whether ip belongs to a trusted reverse proxy.
func (o *Options) TrustedProxy(ip string) bool {
	_, ok := o.trustedProxies[ip]
	return ok
}

// AllowedOrigins returns the root URL and TrustedOrigins.
func (o *Options) AllowedOrigins() []string {
	return append([]string{o.RootURL()}, o.TrustedOrigins...)
}

func validOrigins(origins []string) error {
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("config: invalid trusted origin %q: %w", origin, err)
		} else if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf(
				"config: invalid trusted origin %q: must be scheme://host[:port]",
				origin)
		}
	}
	return nil
}

// String returns the parsed options sorted by name, one per line, with
// secrets masked.
func (o *Options) String() string {
	opts := map[string]any{
		"AUTH_API_MAX_CONNS":           o.AuthAPIMaxConns(),
		"AUTH_API_RATE":                o.AuthAPIRate(),
		"AUTH_API_TIMEOUT":             o.AuthAPITimeout(),
		"AUTH_API_URL":                 o.AuthAPIURL(),
		"AUTH_API_USER_AGENT":          o.AuthAPIUserAgent(),
		"BASE_PATH":                    o.BasePath(),
		"BASE_URL":                     o.BaseURL(),
		"CERT_DOMAIN":                  o.CertDomain(),
		"CERT_FILE":                    o.CertFile(),
		"CLEANUP_FREQUENCY_HOURS":      o.env.CleanupFrequencyHours,
		"DATABASE_CONNECTION_LIFETIME": o.env.DatabaseConnectionLifetime,
		"DATABASE_MAX_CONNS":           o.DatabaseMaxConns(),
		"DATABASE_MIN_CONNS":           o.DatabaseMinConns(),
		"DATABASE_URL":                 "<secret>",
		"DISABLE_HSTS":                 !o.HasHSTS(),
		"HTTPS":                        o.HTTPS(),
		"HTTP_SERVER_TIMEOUT":          o.env.HttpServerTimeout,
		"KEY_FILE":                     o.CertKeyFile(),
		"LISTEN_ADDR":                  o.ListenAddr(),
		"LOG_DATE_TIME":                o.LogDateTime(),
		"LOG_FILE":                     o.LogFile(),
		"LOG_FORMAT":                   o.LogFormat(),
		"LOG_LEVEL":                    o.LogLevel(),
		"MAINTENANCE_MESSAGE":          o.MaintenanceMessage(),
		"MAINTENANCE_MODE":             o.HasMaintenanceMode(),
		"METRICS_ALLOWED_NETWORKS":     strings.Join(o.MetricsAllowedNetworks(), ","),
		"METRICS_COLLECTOR":            o.HasMetricsCollector(),
		"ROOT_URL":                     o.RootURL(),
		"RUN_MIGRATIONS":               o.RunMigrations(),
		"SESSION_LIFETIME_DAYS":        o.SessionLifetimeDays(),
		"TRUSTED_ORIGINS":              strings.Join(o.TrustedOrigins, ","),
		"TRUSTED_PROXIES":              strings.Join(o.env.TrustedProxies, ","),
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v\n", k, opts[k])
	}
	return b.String()
}
