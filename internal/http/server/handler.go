package server

import (
	"context"
	"net/http"
	"runtime"

	"website.app/v2/internal/config"
	"website.app/v2/internal/http/middleware"
	"website.app/v2/internal/http/mux"
	"website.app/v2/internal/http/response/json"
	"website.app/v2/internal/metric"
	"website.app/v2/internal/ui"
	"website.app/v2/internal/version"
)

// Store is everything the web server needs from the storage.
type Store interface {
	ui.SessionStore
	metric.Storage
	Healthcheck(ctx context.Context) error
}

func setupHandler(store Store, actions ui.Actions) http.Handler {
	root := mux.New()
	live := http.HandlerFunc(writeOK)
	ready := readiness(store)

	// Orchestrator health checks ignore BASE_URL.
	root.Handle("/liveness", live).Handle("/healthz", live).
		Handle("/readiness", ready).Handle("/readyz", ready)

	site := root.PrefixGroup(config.Opts.BasePath())
	site.Handle("/healthcheck", ready)
	site.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(version.Version))
	})

	site.Use(middleware.Gzip, middleware.RequestId, middleware.ClientIP,
		middleware.Language)
	if config.Opts.HasMetricsCollector() {
		site.Handle("/metrics", metric.Handler(store))
	}

	// Static files are too noisy for the access log.
	site.Use(middleware.WithAccessLog("/bin/", "/css/", "/favicon.ico"),
		middleware.WithPanic)
	site.HandleFunc("GET /info", showBuildInfo)

	if config.Opts.HasMaintenanceMode() {
		site.Use(middleware.Maintenance(config.Opts.MaintenanceMessage()))
	}
	ui.Serve(site, store, actions)
	return root
}

func readiness(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Healthcheck(r.Context()); err != nil {
			http.Error(w, "Database Connection Error: "+err.Error(),
				http.StatusServiceUnavailable)
			return
		}
		writeOK(w, r)
	}
}

func writeOK(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK"))
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Arch      string `json:"arch"`
	OS        string `json:"os"`
}

func showBuildInfo(w http.ResponseWriter, r *http.Request) {
	json.OK(w, r, &buildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Arch:      runtime.GOARCH,
		OS:        runtime.GOOS,
	})
}
