package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/model"
	"website.app/v2/internal/storage"
)

type accessEntryKey struct{}

// accessEntry collects what handlers learn about the visitor while serving a
// request.
type accessEntry struct {
	user *model.User
}

// AccessLogUser attaches u to the access log entry of the current request.
// Login handlers call it once both actions succeeded.
func AccessLogUser(ctx context.Context, u *model.User) {
	if e, ok := ctx.Value(accessEntryKey{}).(*accessEntry); ok {
		e.user = u
	}
}

// WithAccessLog logs a line per request. Paths starting with one of
// quietPrefixes are logged at debug level.
func WithAccessLog(quietPrefixes ...string) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := &accessEntry{user: request.User(r)}
			ctx := context.WithValue(r.Context(), accessEntryKey{}, entry)
			ctx, queries := storage.WithTraceStat(ctx)

			rw := &recordingWriter{ResponseWriter: w}
			started := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))

			level := slog.LevelInfo
			if hasAnyPrefix(r.URL.Path, quietPrefixes) {
				level = slog.LevelDebug
			}
			logging.FromContext(ctx).LogAttrs(ctx, level,
				r.Method+" "+r.URL.RequestURI(),
				entry.attrs(r, rw, queries, time.Since(started))...)
		})
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func (self *accessEntry) attrs(r *http.Request, rw *recordingWriter,
	queries *storage.TraceStat, elapsed time.Duration,
) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("client_ip", request.ClientIP(r)),
		slog.String("proto", r.Proto),
		slog.Int("status_code", rw.status()),
		slog.Int("size", rw.size),
		slog.Duration("request_time", elapsed),
	}

	if u := self.user; u != nil {
		attrs = append(attrs, slog.GroupAttrs("user",
			slog.String("id", u.ID), slog.String("email", u.Email)))
	}

	if queries.Queries > 0 {
		attrs = append(attrs, slog.GroupAttrs("storage",
			slog.Int64("queries", queries.Queries),
			slog.Duration("elapsed", queries.Elapsed)))
	}
	return attrs
}

// recordingWriter remembers the status code and counts the body size.
type recordingWriter struct {
	http.ResponseWriter

	code int
	size int
}

var _ io.ReaderFrom = (*recordingWriter)(nil)

func (self *recordingWriter) status() int {
	if self.code == 0 {
		return http.StatusOK
	}
	return self.code
}

func (self *recordingWriter) WriteHeader(code int) {
	if self.code == 0 {
		self.code = code
	}
	self.ResponseWriter.WriteHeader(code)
}

func (self *recordingWriter) wroteBody() {
	if self.code == 0 {
		self.code = http.StatusOK
	}
}

func (self *recordingWriter) Write(b []byte) (int, error) {
	self.wroteBody()
	n, err := self.ResponseWriter.Write(b)
	self.size += n
	return n, err //nolint:wrapcheck // a writer error as is
}

func (self *recordingWriter) ReadFrom(src io.Reader) (int64, error) {
	self.wroteBody()
	n, err := io.Copy(self.ResponseWriter, src)
	self.size += int(n)
	return n, err //nolint:wrapcheck // a writer error as is
}

func (self *recordingWriter) Unwrap() http.ResponseWriter {
	return self.ResponseWriter
}
