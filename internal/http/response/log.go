package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/logging"
)

// StatusClientClosedRequest is the nginx status of a request canceled by the
// client before the response was written.
const StatusClientClosedRequest = 499

// RequestLogger returns a logger with request attributes and err, if not nil.
func RequestLogger(r *http.Request, err error) *slog.Logger {
	log := logging.FromContext(r.Context())
	if err != nil {
		log = log.With(slog.Any("error", err))
	}
	return log.With(
		slog.String("client_ip", request.ClientIP(r)),
		slog.GroupAttrs("request",
			slog.String("method", r.Method),
			slog.String("uri", r.RequestURI),
			slog.String("user_agent", r.UserAgent())))
}

// ClientClosed reports whether err was caused by the client going away.
func ClientClosed(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) &&
		errors.Is(r.Context().Err(), context.Canceled)
}

// LogStatus logs a client error status at warning level.
func LogStatus(r *http.Request, statusCode int, err error) {
	RequestLogger(r, err).Warn(http.StatusText(statusCode),
		slog.GroupAttrs("response", slog.Int("status_code", statusCode)))
}
