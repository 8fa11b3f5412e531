// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package server // import "website.app/v2/internal/http/server"

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"

	"website.app/v2/internal/config"
	"website.app/v2/internal/storage"
	"website.app/v2/internal/ui"
)

// mode is the way the server accepts connections.
type mode int

const (
	modeHTTP mode = iota
	modeTLS
	modeAutoCert
	modeUnix
	modeSystemd
)

func (m mode) String() string {
	switch m {
	case modeTLS:
		return "tls"
	case modeAutoCert:
		return "autocert"
	case modeUnix:
		return "unix"
	case modeSystemd:
		return "systemd"
	}
	return "http"
}

func (m mode) https() bool { return m == modeTLS || m == modeAutoCert }

func configuredMode() mode {
	switch {
	case systemdActivated():
		return modeSystemd
	case strings.HasPrefix(config.Opts.ListenAddr(), "/"):
		return modeUnix
	case config.Opts.CertDomain() != "":
		return modeAutoCert
	case config.Opts.CertFile() != "" && config.Opts.CertKeyFile() != "":
		return modeTLS
	}
	return modeHTTP
}

// Server serves the login and account pages.
type Server struct {
	mode     mode
	http     *http.Server
	listener net.Listener

	// answers http-01 challenges in autocert mode
	challenge *http.Server
}

// New returns a Server configured by config.Opts. It opens the unix or
// systemd listener, if configured, but doesn't serve yet.
func New(store *storage.Storage, actions ui.Actions) (*Server, error) {
	m := configuredMode()
	if m.https() {
		config.Opts.EnableHTTPS()
	}

	timeout := config.Opts.HTTPServerTimeout()
	self := &Server{
		mode: m,
		http: &http.Server{
			Addr:         config.Opts.ListenAddr(),
			Handler:      setupHandler(store, actions),
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			IdleTimeout:  timeout,
		},
	}

	var err error
	switch m {
	case modeSystemd:
		self.listener, err = systemdListener()
	case modeUnix:
		self.listener, err = unixListener(self.http.Addr, 0o666)
	case modeAutoCert:
		self.withAutoCert(store.NewCertificateCache(), config.Opts.CertDomain())
	}
	if err != nil {
		return nil, err
	}
	return self, nil
}

func (self *Server) withAutoCert(cache autocert.Cache, domain string) {
	certManager := &autocert.Manager{
		Cache:      cache,
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domain),
	}

	self.http.Addr = ":https"
	self.http.TLSConfig = &tls.Config{
		GetCertificate: certManager.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1", acme.ALPNProto},
	}
	self.challenge = &http.Server{
		Addr:        ":http",
		Handler:     certManager.HTTPHandler(nil),
		ReadTimeout: self.http.ReadTimeout,
	}
}

// Start serves in g until Shutdown.
func (self *Server) Start(g *errgroup.Group) {
	log := slog.With(slog.String("mode", self.mode.String()))
	switch self.mode {
	case modeSystemd, modeUnix:
		self.serve(g, log.With(
			slog.String("listen_address", self.listener.Addr().String())),
			func() error { return self.http.Serve(self.listener) })
	case modeAutoCert:
		self.serve(g, log.With(
			slog.String("listen_address", self.challenge.Addr),
			slog.String("purpose", "http-01 challenge")),
			self.challenge.ListenAndServe)
		self.serve(g, log.With(
			slog.String("listen_address", self.http.Addr),
			slog.String("domain", config.Opts.CertDomain())),
			func() error { return self.http.ListenAndServeTLS("", "") })
	case modeTLS:
		certFile, keyFile := config.Opts.CertFile(), config.Opts.CertKeyFile()
		self.serve(g, log.With(
			slog.String("listen_address", self.http.Addr),
			slog.String("cert_file", certFile)),
			func() error { return self.http.ListenAndServeTLS(certFile, keyFile) })
	default:
		self.serve(g, log.With(slog.String("listen_address", self.http.Addr)),
			self.http.ListenAndServe)
	}
}

func (self *Server) serve(g *errgroup.Group, log *slog.Logger,
	fn func() error,
) {
	g.Go(func() error {
		log.Info("Web server started")
		err := fn()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			log.Info("Web server stopped")
			return nil
		}
		log.Error("Web server failed", slog.Any("error", err))
		return fmt.Errorf("http/server: serve %s: %w", self.mode, err)
	})
}

// Shutdown stops accepting new logins and waits for running requests.
func (self *Server) Shutdown(ctx context.Context) error {
	if self.challenge != nil {
		_ = self.challenge.Close()
	}
	if err := self.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http/server: shutdown: %w", err)
	}
	return nil
}
