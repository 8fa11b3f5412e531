package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"runtime/debug"

	"website.app/v2/internal/logging"
)

// WithPanic recovers panics of next, logs them with the stack trace and
// answers 500. [http.ErrAbortHandler] is re-panicked.
func WithPanic(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			} else if err == http.ErrAbortHandler { //nolint:errorlint // exactly
				panic(err)
			}
			logPanic(r, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func logPanic(r *http.Request, err any) {
	log := logging.FromContext(r.Context())
	log.Error("request aborted with panic", slog.Any("reason", err),
		slog.String("uri", r.RequestURI))

	for line := range bytes.Lines(debug.Stack()) {
		line = bytes.Replace(line, []byte("\t"), []byte("  "), 1)
		log.Error("panic: " + string(bytes.TrimRight(line, "\n")))
	}
}
