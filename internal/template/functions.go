package template

import (
	"html/template"
	"strings"

	"website.app/v2/internal/http/mux"
	"website.app/v2/internal/ui/static"
)

type funcMap struct {
	router *mux.ServeMux
}

// Map returns a map of template functions that are compiled during template
// parsing.
func (f *funcMap) Map() template.FuncMap {
	return template.FuncMap{
		"route": f.router.Path,
		"stylesheet": func(name string) string {
			return f.router.Path("stylesheet", "name",
				static.StylesheetNameExt(name))
		},
		"binaryFile": func(filename string) string {
			return f.router.Path("binaryFile", "filename", filename)
		},
		"htmlLang": func(lang string) string {
			return strings.ReplaceAll(lang, "_", "-")
		},

		// These functions are overridden at runtime after parsing.
		"t":    func(key string, args ...any) string { return key },
		"lang": func() string { return "" },
	}
}
