// Package types provides the data model for bilingual, section-oriented CV documents.
package types

import (
	"fmt"
	"strings"
)

// Locale identifies one of the two supported content languages.
type Locale string

const (
	// LocaleES is the primary locale.
	LocaleES Locale = "es"
	// LocaleEN is the secondary locale.
	LocaleEN Locale = "en"
)

// PrimaryLocale is the locale a fresh editing session starts in.
const PrimaryLocale = LocaleES

// SupportedLocales lists both locales, primary first.
var SupportedLocales = []Locale{LocaleES, LocaleEN}

// ParseLocale parses a locale code. Empty input yields the primary locale.
func ParseLocale(s string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PrimaryLocale, nil
	case LocaleES:
		return LocaleES, nil
	case LocaleEN:
		return LocaleEN, nil
	default:
		return "", fmt.Errorf("unsupported locale %q (supported: es, en)", s)
	}
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	return l == LocaleES || l == LocaleEN
}

// Other returns the opposite locale.
func (l Locale) Other() Locale {
	if l == LocaleEN {
		return LocaleES
	}
	return LocaleEN
}

// PresentMarker is the open-ended period end written by native edits in each locale.
func (l Locale) PresentMarker() string {
	if l == LocaleES {
		return "Actualidad"
	}
	return "Present"
}

// IsPresentMarker reports whether s is an open-ended period end in any locale.
func IsPresentMarker(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "actualidad", "presente":
		return true
	}
	return false
}

var labels = map[Locale]map[string]string{
	LocaleES: {
		"profile":        "Perfil",
		"experience":     "Experiencia",
		"education":      "Educación",
		"skills":         "Habilidades Técnicas",
		"certifications": "Certificaciones",
		"languagesList":  "Español, Inglés, Portugués",
		"footerText":     "Curriculum Vitae — Actualizado 2025",
	},
	LocaleEN: {
		"profile":        "Profile",
		"experience":     "Experience",
		"education":      "Education",
		"skills":         "Technical Skills",
		"certifications": "Certifications",
		"languagesList":  "Spanish, English, Portuguese",
		"footerText":     "Curriculum Vitae — Updated 2025",
	},
}

// Label returns the display label for key in locale l, or key itself when unknown.
func Label(l Locale, key string) string {
	if m, ok := labels[l]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Localized maps each supported locale to its content.
// A populated Localized value must carry both locales.
type Localized[T any] map[Locale]T

// NewLocalized builds a complete value from the two slices.
func NewLocalized[T any](es, en T) Localized[T] {
	return Localized[T]{LocaleES: es, LocaleEN: en}
}

// Same builds a complete value holding v in both locales.
func Same[T any](v T, clone func(T) T) Localized[T] {
	return Localized[T]{LocaleES: clone(v), LocaleEN: clone(v)}
}

// Get returns the slice for l (zero value when absent).
func (m Localized[T]) Get(l Locale) T {
	return m[l]
}

// Has reports whether l is present.
func (m Localized[T]) Has(l Locale) bool {
	_, ok := m[l]
	return ok
}

// Complete reports whether both locales are present.
func (m Localized[T]) Complete() bool {
	return m.Has(LocaleES) && m.Has(LocaleEN)
}

// Missing returns the locales absent from m.
func (m Localized[T]) Missing() []Locale {
	var out []Locale
	for _, l := range SupportedLocales {
		if !m.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy using clone for each slice.
func (m Localized[T]) Clone(clone func(T) T) Localized[T] {
	if m == nil {
		return nil
	}
	out := make(Localized[T], len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}
