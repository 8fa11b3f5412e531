package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"website.app/v2/internal/config"
	"website.app/v2/internal/http/cookie"
	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/model"
)

type SessionReader interface {
	AppSession(ctx context.Context, id string) (*model.Session, error)
}

// WithAppSession loads the app session referenced by the session cookie into
// the request context. A cookie of a removed or expired session is dropped.
func WithAppSession(store SessionReader) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return &AppSession{store: store, next: next}
	}
}

type AppSession struct {
	store SessionReader
	next  http.Handler
}

func (self *AppSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := request.CookieValue(r, cookie.CookieAppSessionID)
	if id == "" {
		self.next.ServeHTTP(w, r)
		return
	}

	ctx := r.Context()
	sess, err := self.store.AppSession(ctx, id)
	if err != nil {
		html.ServerError(w, r, err)
		return
	} else if sess == nil {
		logging.FromContext(ctx).Debug("lost session detected",
			slog.String("id", id))
		http.SetCookie(w, cookie.ExpiredSession())
		self.next.ServeHTTP(w, r)
		return
	} else if sess.Expired(config.Opts.SessionLifetime(), time.Now()) {
		logging.FromContext(ctx).Debug("expired session detected",
			slog.String("id", id), slog.Time("created_at", sess.CreatedAt))
		http.SetCookie(w, cookie.ExpiredSession())
		self.next.ServeHTTP(w, r)
		return
	}

	AccessLogUser(ctx, sess.User())
	ctx = request.WithSession(ctx, sess)
	self.next.ServeHTTP(w, r.WithContext(ctx))
}
