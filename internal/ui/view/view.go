// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package view // import "website.app/v2/internal/ui/view"

import (
	"net/http"

	"website.app/v2/internal/http/request"
	"website.app/v2/internal/template"
)

// View wraps template argument building.
type View struct {
	tpl    *template.Engine
	params map[string]any
}

// New returns a new view with default parameters.
func New(tpl *template.Engine, r *http.Request) *View {
	v := &View{
		tpl: tpl,
		params: map[string]any{
			"language": request.UserLanguage(r),
		},
	}

	if user := request.User(r); user != nil {
		v.Set("user", user)
	}
	return v
}

// Set adds a new template argument.
func (v *View) Set(param string, value any) *View {
	v.params[param] = value
	return v
}

// Render executes the template with arguments.
func (v *View) Render(template string) []byte {
	return v.tpl.Render(template+".html", v.params)
}
