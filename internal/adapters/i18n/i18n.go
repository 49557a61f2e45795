// Package i18n provides the bilingual (Chinese/English) label tables used by
// every presentation adapter.
package i18n

import (
	"golang.org/x/text/language"
)

// Supported language codes. The first one is the default.
const (
	LangZH = "zh"
	LangEN = "en"
)

var supportedTags = []language.Tag{language.Chinese, language.English}

// Catalog holds the label tables and negotiates a language per request.
type Catalog struct {
	tables   map[string]map[string]string
	matcher  language.Matcher
	fallback string
}

// NewCatalog creates a catalog whose default language is fallback.
// Unknown fallbacks resolve to Chinese.
func NewCatalog(fallback string) *Catalog {
	c := &Catalog{
		tables: map[string]map[string]string{
			LangZH: zhLabels,
			LangEN: enLabels,
		},
		fallback: LangZH,
	}
	if c.Supported(fallback) {
		c.fallback = fallback
	}

	tags := make([]language.Tag, 0, len(supportedTags))
	tags = append(tags, language.Make(c.fallback))
	for _, t := range supportedTags {
		if base, _ := t.Base(); base.String() != c.fallback {
			tags = append(tags, t)
		}
	}
	c.matcher = language.NewMatcher(tags)
	return c
}

// Supported reports whether lang has a label table.
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// For returns the translator for lang, or the default one.
func (c *Catalog) For(lang string) *Translator {
	if !c.Supported(lang) {
		lang = c.fallback
	}
	return &Translator{lang: lang, table: c.tables[lang], fallback: c.tables[LangEN]}
}

// Negotiate picks a language from an explicit choice (e.g. a ?lang= query
// value) and then from an Accept-Language header.
func (c *Catalog) Negotiate(explicit, acceptLanguage string) *Translator {
	if c.Supported(explicit) {
		return c.For(explicit)
	}
	tag, _ := language.MatchStrings(c.matcher, explicit, acceptLanguage)
	base, _ := tag.Base()
	return c.For(base.String())
}

// Translator resolves labels for one language. It implements ports.Translator.
type Translator struct {
	lang     string
	table    map[string]string
	fallback map[string]string
}

// T returns the label for key. Missing keys fall back to English, then to
// the key itself.
func (t *Translator) T(key string) string {
	if v, ok := t.table[key]; ok {
		return v
	}
	if v, ok := t.fallback[key]; ok {
		return v
	}
	return key
}

// Lang returns the language code.
func (t *Translator) Lang() string {
	return t.lang
}
