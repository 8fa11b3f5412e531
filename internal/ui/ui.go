// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ui // import "website.app/v2/internal/ui"

import (
	"context"
	"log/slog"
	"net/http"

	"website.app/v2/internal/config"
	hmw "website.app/v2/internal/http/middleware"
	"website.app/v2/internal/http/mux"
	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/model"
	"website.app/v2/internal/template"
)

// Actions obtain the authentication token and the user profile from the auth
// API. [auth.Client] implements it.
type Actions interface {
	SetAuthToken(ctx context.Context, credential string,
	) (*model.Authentication, error)
	UserData(ctx context.Context, auth *model.Authentication,
	) (*model.User, error)
}

// SessionStore keeps app sessions. [storage.Storage] implements it.
type SessionStore interface {
	hmw.SessionReader
	CreateAppSession(ctx context.Context, data *model.SessionData,
	) (*model.Session, error)
	RemoveAppSession(ctx context.Context, id string) error
}

type handler struct {
	router  *mux.ServeMux
	store   SessionStore
	actions Actions
	tpl     *template.Engine
}

// Serve declares all routes for the user interface.
func Serve(m *mux.ServeMux, store SessionStore, actions Actions) {
	templateEngine := template.NewEngine(m)
	if err := templateEngine.ParseTemplates(); err != nil {
		panic(err)
	}

	h := &handler{
		router:  m,
		store:   store,
		actions: actions,
		tpl:     templateEngine,
	}

	// public endpoints
	m.Group(func(m *mux.ServeMux) {
		m.NameHandleFunc("GET /bin/{filename}", h.showBinaryFile, "binaryFile")
		m.NameHandleFunc("GET /css/{name}", h.showStylesheet, "stylesheet")
		m.HandleFunc("GET /favicon.ico", h.showFavicon)
		m.HandleFunc("GET /robots.txt", robotsTxt)
	})

	m = m.Group().Use(hmw.CrossOriginProtection(config.Opts.AllowedOrigins()...),
		hmw.WithAppSession(store))

	// Authentication pages.
	m.Group(func(m *mux.ServeMux) {
		m.HandleFunc("GET /{$}", h.redirectToLogin)
		m.NameHandleFunc("GET /login", h.showLoginPage, "login")
		m.NameHandleFunc("POST /login", h.checkLogin, "checkLogin")
		m.NameHandleFunc("POST /login/github", h.githubLogin, "githubLogin")
	})

	m = m.Group().Use(h.requireSession)
	m.NameHandleFunc("GET /account", h.showAccountPage, "account")
	m.NameHandleFunc("POST /logout", h.logout, "logout")
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request,
	name string, cookies ...*http.Cookie,
) {
	html.Redirect(w, r, h.router.Path(name), cookies...)
}

func (h *handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, "login")
}

func robotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte("User-agent: *\nDisallow: /"))
	if err != nil {
		logging.FromContext(r.Context()).
			Error(http.StatusText(http.StatusInternalServerError),
				slog.Any("error", err),
				slog.String("client_ip", request.ClientIP(r)),
				slog.GroupAttrs("request",
					slog.String("method", r.Method),
					slog.String("uri", r.RequestURI),
					slog.String("user_agent", r.UserAgent())),
				slog.GroupAttrs("response",
					slog.Int("status_code", http.StatusInternalServerError)))
	}
}
