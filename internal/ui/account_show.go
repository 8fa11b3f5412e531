package ui

import (
	"net/http"

	"website.app/v2/internal/http/response/html"
	"website.app/v2/internal/ui/view"
)

func (h *handler) showAccountPage(w http.ResponseWriter, r *http.Request) {
	html.OK(w, r, view.New(h.tpl, r).Render("account"))
}
