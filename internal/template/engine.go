// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package template // import "website.app/v2/internal/template"

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"

	"website.app/v2/internal/http/mux"
	"website.app/v2/internal/locale"
)

//go:embed templates/common/*.html templates/views/*.html
var templateFiles embed.FS

// Engine renders the embedded pages. Every view is parsed together with the
// common layout, which defines "base".
type Engine struct {
	templates map[string]*template.Template
	funcMap   *funcMap
}

func NewEngine(router *mux.ServeMux) *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
		funcMap:   &funcMap{router},
	}
}

func (self *Engine) ParseTemplates() error {
	common, err := template.New("layout").Funcs(self.funcMap.Map()).
		ParseFS(templateFiles, "templates/common/*.html")
	if err != nil {
		return fmt.Errorf("template: parse layout: %w", err)
	}

	views, err := fs.Glob(templateFiles, "templates/views/*.html")
	if err != nil {
		return fmt.Errorf("template: list views: %w", err)
	}

	for _, view := range views {
		name := path.Base(view)
		slog.Debug("Parsing template", slog.String("template_name", name))
		tpl, err := common.Clone()
		if err != nil {
			return fmt.Errorf("template: clone layout for %q: %w", name, err)
		}
		if tpl, err = tpl.ParseFS(templateFiles, view); err != nil {
			return fmt.Errorf("template: parse %q: %w", name, err)
		}
		self.templates[name] = tpl
	}
	return nil
}

// Render executes the named view in the language of data["language"]. An
// unknown name or a failed execution is a programming error and panics.
func (self *Engine) Render(name string, data map[string]any) []byte {
	tpl, ok := self.templates[name]
	if !ok {
		panic("template: unknown view " + name)
	}

	lang, _ := data["language"].(string)
	printer := locale.NewPrinter(lang)
	tpl = template.Must(tpl.Clone()).Funcs(template.FuncMap{
		"t":    printer.Printf,
		"lang": printer.Language,
	})

	var b bytes.Buffer
	if err := tpl.ExecuteTemplate(&b, "base", data); err != nil {
		panic(err)
	}
	return b.Bytes()
}
