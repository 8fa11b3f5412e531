package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

var gzipWrapper = mustGzipWrapper()

func mustGzipWrapper() func(http.Handler) http.HandlerFunc {
	w, err := gzhttp.NewWrapper(gzhttp.MinSize(1024))
	if err != nil {
		panic(err)
	}
	return w
}

// Gzip compresses responses the client accepts compressed, unless the
// handler set [gzhttp.HeaderNoCompression].
func Gzip(next http.Handler) http.Handler { return gzipWrapper(next) }
