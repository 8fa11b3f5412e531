// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ui // import "website.app/v2/internal/ui"

import (
	"net/http"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/ui/form"
	"website.app/v2/internal/ui/view"
)

func (h *handler) showLoginPage(w http.ResponseWriter, r *http.Request) {
	if request.IsAuthenticated(r) {
		h.redirect(w, r, "account")
		return
	}

	v := view.New(h.tpl, r).Set("form", &form.AuthForm{})
	html.OK(w, r, v.Render("login"))
}
