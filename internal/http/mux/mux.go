// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package mux // import "website.app/v2/internal/http/mux"

import (
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
)

// New returns a ServeMux on top of [http.ServeMux] with middleware chains,
// path prefixes and named routes.
func New() *ServeMux {
	return &ServeMux{
		ServeMux: http.NewServeMux(),
		names:    make(map[string]string),
	}
}

type ServeMux struct {
	*http.ServeMux

	middlewares []MiddlewareFunc
	prefix      string

	// shared by every group derived from the same root
	names map[string]string
}

type MiddlewareFunc func(next http.Handler) http.Handler

var _ http.Handler = (*ServeMux)(nil)

// Group returns a copy of the mux, so middlewares added to the group don't
// leak into the parent.
func (self *ServeMux) Group(funcs ...func(m *ServeMux)) *ServeMux {
	g := self.clone()
	for _, fn := range funcs {
		fn(g)
	}
	return g
}

func (self *ServeMux) clone() *ServeMux {
	g := *self
	g.middlewares = slices.Clone(self.middlewares)
	return &g
}

// PrefixGroup mounts a new mux under prefix. Middlewares of self apply to
// every route of the group.
func (self *ServeMux) PrefixGroup(prefix string, funcs ...func(m *ServeMux),
) *ServeMux {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return self.Group(funcs...)
	}

	sub := http.NewServeMux()
	self.Handle(prefix+"/", http.StripPrefix(prefix, sub))

	g := &ServeMux{
		ServeMux: sub,
		prefix:   path.Join(self.prefix, prefix),
		names:    self.names,
	}
	for _, fn := range funcs {
		fn(g)
	}
	return g
}

func (self *ServeMux) Use(m ...MiddlewareFunc) *ServeMux {
	self.middlewares = append(self.middlewares, m...)
	return self
}

func (self *ServeMux) Handle(pattern string, h http.Handler) *ServeMux {
	for _, m := range slices.Backward(self.middlewares) {
		h = m(h)
	}
	self.ServeMux.Handle(pattern, h)
	return self
}

func (self *ServeMux) HandleFunc(pattern string,
	h func(http.ResponseWriter, *http.Request),
) *ServeMux {
	return self.Handle(pattern, http.HandlerFunc(h))
}

// NameHandle registers h and remembers the full path of pattern under name.
// The same name can be used for several methods of one path.
func (self *ServeMux) NameHandle(pattern string, h http.Handler, name string,
) *ServeMux {
	self.names[name] = self.fullPath(pattern)
	return self.Handle(pattern, h)
}

func (self *ServeMux) NameHandleFunc(pattern string,
	h func(http.ResponseWriter, *http.Request), name string,
) *ServeMux {
	return self.NameHandle(pattern, http.HandlerFunc(h), name)
}

func (self *ServeMux) fullPath(pattern string) string {
	if _, p, ok := strings.Cut(pattern, " "); ok {
		pattern = strings.TrimLeft(p, " ")
	}
	pattern = strings.TrimSuffix(pattern, "{$}")
	if self.prefix == "" {
		return pattern
	}

	full := path.Join(self.prefix, pattern)
	if strings.HasSuffix(pattern, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}
	return full
}

// NamedPath returns the path registered under name with {key} wildcards
// replaced by values from key, value pairs. It returns "" for unknown names.
func (self *ServeMux) NamedPath(name string, pairs ...string) string {
	p, ok := self.names[name]
	if !ok {
		return ""
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		p = strings.Replace(p, "{"+pairs[i]+"}", pairs[i+1], 1)
	}
	return p
}

// Path is like NamedPath, but panics for unknown names. Args are formatted
// with fmt.Sprint.
func (self *ServeMux) Path(name string, args ...any) string {
	pairs := make([]string, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			pairs[i] = s
		} else {
			pairs[i] = fmt.Sprint(arg)
		}
	}

	p := self.NamedPath(name, pairs...)
	if p == "" {
		panic("mux: route not found: " + name)
	}
	return p
}
