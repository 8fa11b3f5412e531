// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package metric // import "website.app/v2/internal/metric"

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"website.app/v2/internal/config"
	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/logging"
)

const storageRefreshInterval = time.Minute

// Prometheus Metrics.
var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "website",
			Name:      "login_attempts_total",
			Help:      "Login form submissions by login method and result",
		},
		[]string{"method", "status"},
	)

	AuthActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "website",
			Name:      "auth_action_duration_seconds",
			Help:      "Duration of calls to the auth API",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action", "status"},
	)
)

// Login methods and statuses of LoginAttempts.
const (
	MethodEmail  = "email"
	MethodGithub = "github"

	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

type Storage interface {
	RegisterMetrics(r prometheus.Registerer)
	Metrics(ctx context.Context, fromDB bool) error
}

func RegisterMetrics(store Storage) {
	prometheus.MustRegister(LoginAttempts, AuthActionDuration)
	store.RegisterMetrics(prometheus.DefaultRegisterer)
}

// ObserveAuthAction records the duration of an auth API call started at
// startTime.
func ObserveAuthAction(action string, startTime time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	AuthActionDuration.WithLabelValues(action, status).
		Observe(time.Since(startTime).Seconds())
}

// Handler serves prometheus metrics to clients from METRICS_ALLOWED_NETWORKS.
func Handler(store Storage) http.Handler {
	promHandler := promhttp.Handler()
	var mu sync.Mutex
	var lastStorageMetricsAt time.Time

	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)
		if !allowedToAccessMetrics(r) {
			log.Warn("Metrics endpoint accessed from not allowed network",
				slog.String("client_ip", request.ClientIP(r)),
				slog.String("client_user_agent", r.UserAgent()),
				slog.String("client_remote_addr", r.RemoteAddr))
			html.NotFound(w, r)
			return
		}

		mu.Lock()
		fromDB := time.Since(lastStorageMetricsAt) >= storageRefreshInterval
		if fromDB {
			lastStorageMetricsAt = time.Now()
		}
		mu.Unlock()

		if err := store.Metrics(ctx, fromDB); err != nil {
			html.ServerError(w, r, err)
			return
		}
		promHandler.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// allowedToAccessMetrics checks the TCP peer address, because headers like
// X-Forwarded-For can be spoofed.
func allowedToAccessMetrics(r *http.Request) bool {
	remoteIP := request.FindRemoteIP(r)
	if remoteIP == "@" {
		// unix socket
		return true
	}

	addr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return false
	}

	for _, cidr := range config.Opts.MetricsAllowedNetworks() {
		if prefix, err := netip.ParsePrefix(cidr); err == nil &&
			prefix.Contains(addr) {
			return true
		}
	}
	return false
}
