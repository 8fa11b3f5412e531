// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package json // import "website.app/v2/internal/http/response/json"

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"website.app/v2/internal/http/response"
	"website.app/v2/internal/logging"
)

const contentTypeHeader = "application/json"

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body any) {
	write(w, r, http.StatusOK, body)
}

func write(w http.ResponseWriter, r *http.Request, statusCode int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		logging.FromContext(r.Context()).Error("Unable to generate JSON",
			slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	response.New(w, r).
		WithStatus(statusCode).
		WithHeader("Content-Type", contentTypeHeader).
		WithBody(b).
		Write()
}
