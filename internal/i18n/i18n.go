// Package i18n resolves request locales and renders catalog messages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.English,
	language.MustParse("pt-BR"),
}

var matcher = language.NewMatcher(supported)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// Translator renders catalog messages for a single locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for tag, falling back to the closest supported language.
func New(tag language.Tag) *Translator {
	_, idx, _ := matcher.Match(tag)
	resolved := supported[idx]
	return &Translator{tag: resolved, printer: message.NewPrinter(resolved)}
}

// FromAcceptLanguage builds a Translator from an Accept-Language header value.
func FromAcceptLanguage(header string) *Translator {
	header = strings.TrimSpace(header)
	if header == "" {
		return New(Default())
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return New(Default())
	}
	_, idx, _ := matcher.Match(tags...)
	return New(supported[idx])
}

// Translate renders key with positional arguments.
func (t *Translator) Translate(key string, args ...interface{}) string {
	return t.printer.Sprintf(key, args...)
}

// Tag returns the resolved language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}
