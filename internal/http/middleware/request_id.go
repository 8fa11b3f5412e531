package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"website.app/v2/internal/logging"
)

type ctxRequestId struct{}

var (
	requestIdKey  ctxRequestId = struct{}{}
	nextRequestId atomic.Uint64
)

// RequestId numbers every request and adds the number to the context logger
// as "rid".
func RequestId(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := nextRequestId.Add(1)
		ctx := context.WithValue(r.Context(), requestIdKey,
			strconv.FormatUint(id, 10))
		ctx = logging.With(ctx, slog.Uint64("rid", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

func RequestIdFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}
