// Package i18n holds the two storefront languages and bilingual text pairs.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is the storefront display language.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

// Parse accepts a language code or an Accept-Language style list and returns
// the closest supported language. Unknown input falls back to English.
func Parse(s string) Language {
	s = strings.TrimSpace(s)
	if s == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return Spanish
	}
	return English
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == English || l == Spanish
}

// Text is a bilingual string pair.
type Text struct {
	En string `json:"en" yaml:"en"`
	Es string `json:"es" yaml:"es"`
}

// In returns the text for lang, falling back to English when the Spanish
// variant is missing.
func (t Text) In(lang Language) string {
	if lang == Spanish && t.Es != "" {
		return t.Es
	}
	return t.En
}

// Contains reports whether either variant contains term, case-insensitively.
func (t Text) Contains(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.En), term) || strings.Contains(strings.ToLower(t.Es), term)
}
