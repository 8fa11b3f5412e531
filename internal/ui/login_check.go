// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ui // import "website.app/v2/internal/ui"

import (
	"fmt"
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/cookie"
	hmw "website.app/v2/internal/http/middleware"
	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/metric"
	"website.app/v2/internal/model"
	"website.app/v2/internal/ui/form"
	"website.app/v2/internal/ui/view"
)

func (h *handler) checkLogin(w http.ResponseWriter, r *http.Request) {
	f := form.NewAuthForm(r)
	if errs := f.Validate(); errs != nil {
		logging.FromContext(r.Context()).Warn(
			"Validation error during login check",
			slog.String("client_ip", request.ClientIP(r)),
			slog.String("user_agent", r.UserAgent()),
			slog.Bool("email_missing", errs.Email))
		metric.LoginAttempts.WithLabelValues(metric.MethodEmail,
			metric.StatusInvalid).Inc()

		v := view.New(h.tpl, r).Set("form", f).Set("errors", errs)
		html.OK(w, r, v.Render("login"))
		return
	}
	h.authorizeAndNavigate(w, r, metric.MethodEmail, f.Credential())
}

// githubLogin ignores the form and always logs in with the placeholder
// credential.
func (h *handler) githubLogin(w http.ResponseWriter, r *http.Request) {
	h.authorizeAndNavigate(w, r, metric.MethodGithub, form.GithubCredential)
}

// authorizeAndNavigate obtains the token, then the user profile with it,
// stores both in a new app session and sends the visitor to the account page.
// Any failure stops the chain.
func (h *handler) authorizeAndNavigate(w http.ResponseWriter,
	r *http.Request, method, credential string,
) {
	ctx := r.Context()
	log := logging.FromContext(ctx).With(
		slog.String("client_ip", request.ClientIP(r)),
		slog.String("user_agent", r.UserAgent()),
		slog.String("login_method", method))

	failed := func(err error) {
		metric.LoginAttempts.WithLabelValues(method, metric.StatusError).Inc()
		html.ServerError(w, r, err)
	}

	auth, err := h.actions.SetAuthToken(ctx, credential)
	if err != nil {
		failed(fmt.Errorf("ui: set auth token: %w", err))
		return
	}

	user, err := h.actions.UserData(ctx, auth)
	if err != nil {
		failed(fmt.Errorf("ui: get user data: %w", err))
		return
	}

	sess, err := h.store.CreateAppSession(ctx, &model.SessionData{
		Authentication: auth,
		User:           user,
		Language:       request.UserLanguage(r),
		UserAgent:      r.UserAgent(),
		IP:             request.ClientIP(r),
	})
	if err != nil {
		failed(err)
		return
	}

	if prevID := request.SessionID(r); prevID != "" {
		if err := h.store.RemoveAppSession(ctx, prevID); err != nil {
			log.Warn("Unable to remove previous app session",
				slog.String("session_id", prevID),
				slog.Any("error", err))
		}
	}

	hmw.AccessLogUser(ctx, user)
	metric.LoginAttempts.WithLabelValues(method, metric.StatusSuccess).Inc()
	log.Info("User authenticated successfully",
		slog.String("user_id", user.ID),
		slog.String("session_id", sess.ID))
	h.redirect(w, r, "account", cookie.NewSession(sess.ID))
}
