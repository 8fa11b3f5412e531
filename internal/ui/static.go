// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ui // import "website.app/v2/internal/ui"

import (
	"net/http"
	"path/filepath"
	"time"

	"website.app/v2/internal/http/response"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/ui/static"
)

const binaryFileCaching = 72 * time.Hour

func (h *handler) showStylesheet(w http.ResponseWriter, r *http.Request) {
	compressed := static.StylesheetBundle(r.PathValue("name"))
	if compressed == nil {
		html.NotFound(w, r)
		return
	}

	response.New(w, r).WithoutCompression().
		WithHeader("Content-Encoding", "gzip").
		WithLongCaching().
		WithHeader("Content-Type", "text/css; charset=utf-8").
		WithBody(compressed).
		Write()
}

func (h *handler) showBinaryFile(w http.ResponseWriter, r *http.Request) {
	serveBinaryFile(w, r, r.PathValue("filename"))
}

func (h *handler) showFavicon(w http.ResponseWriter, r *http.Request) {
	serveBinaryFile(w, r, "favicon.svg")
}

func serveBinaryFile(w http.ResponseWriter, r *http.Request, filename string) {
	etag, err := static.BinaryFileChecksum(filename)
	if err != nil {
		html.NotFound(w, r)
		return
	}

	response.New(w, r).WithCaching(etag, binaryFileCaching,
		func(b *response.Builder) {
			blob, err := static.LoadBinaryFile(filename)
			if err != nil {
				html.ServerError(w, r, err)
				return
			}

			b.WithBody(blob)
			switch filepath.Ext(filename) {
			case ".png":
				b.WithoutCompression().WithHeader("Content-Type", "image/png")
			case ".svg":
				b.WithHeader("Content-Type", "image/svg+xml")
			}
			b.Write()
		})
}
