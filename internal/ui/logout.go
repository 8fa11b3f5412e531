// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ui // import "website.app/v2/internal/ui"

import (
	"net/http"

	"website.app/v2/internal/http/cookie"
	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
)

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveAppSession(r.Context(),
		request.SessionID(r)); err != nil {
		html.ServerError(w, r, err)
		return
	}
	h.redirect(w, r, "login", cookie.ExpiredSession())
}
