// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package locale // import "website.app/v2/internal/locale"

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when nothing in Accept-Language matches.
const DefaultLanguage = "en_US"

var available = []struct {
	name     string
	tag      language.Tag
	messages map[string]string
}{
	// The first entry is the fallback of the matcher.
	{name: "en_US", tag: language.AmericanEnglish, messages: enUS},
	{name: "fr_FR", tag: language.MustParse("fr-FR"), messages: frFR},
	{name: "de_DE", tag: language.MustParse("de-DE"), messages: deDE},
}

var (
	matcher language.Matcher
	cat     *catalog.Builder
	tags    = make(map[string]language.Tag, len(available))
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	supported := make([]language.Tag, len(available))
	for i, l := range available {
		supported[i] = l.tag
		tags[l.name] = l.tag
		for key, msg := range l.messages {
			if err := cat.SetString(l.tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	matcher = language.NewMatcher(supported)
}

// AvailableLanguages returns the names of supported languages, like "en_US".
func AvailableLanguages() []string {
	names := make([]string, len(available))
	for i, l := range available {
		names[i] = l.name
	}
	return names
}

// Negotiate returns the supported language best matching the value of an
// Accept-Language header.
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return DefaultLanguage
	}

	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return available[index].name
}

// Printer translates messages into one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// NewPrinter returns a Printer for lang. Unknown languages fall back to
// DefaultLanguage.
func NewPrinter(lang string) *Printer {
	tag, ok := tags[lang]
	if !ok {
		lang, tag = DefaultLanguage, tags[DefaultLanguage]
	}
	return &Printer{lang: lang, p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (self *Printer) Language() string { return self.lang }

// Printf formats the message of key with args. A key without translation is
// formatted as is.
func (self *Printer) Printf(key string, args ...any) string {
	return self.p.Sprintf(key, args...)
}
