// Package i18n serves the message catalogs used when rendering reports for
// end users. Catalogs are compiled into the binary; a missing key falls back
// to the key itself so a stale catalog degrades instead of failing.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used when the caller does not name one.
const DefaultLanguage = "ru"

type catalog struct {
	Version      string            `yaml:"version"`
	LastUpdated  string            `yaml:"last_updated"`
	Translations map[string]string `yaml:"translations"`
}

// Translator resolves message keys against the embedded catalogs.
type Translator struct {
	mu       sync.RWMutex
	catalogs map[string]*catalog
}

// NewTranslator loads every embedded catalog eagerly so a malformed file
// fails at startup rather than mid-report.
func NewTranslator() (*Translator, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	catalogs := make(map[string]*catalog, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		lang := name[:len(name)-len(".yaml")]

		raw, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		var c catalog
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		if len(c.Translations) == 0 {
			return nil, fmt.Errorf("locale %s has no translations", lang)
		}
		catalogs[lang] = &c
	}

	if _, ok := catalogs[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %s missing", DefaultLanguage)
	}
	return &Translator{catalogs: catalogs}, nil
}

// Languages lists the available catalog codes, sorted.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.catalogs))
	for lang := range t.catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Has reports whether a catalog exists for the language code.
func (t *Translator) Has(lang string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.catalogs[lang]
	return ok
}

// Get resolves key in the requested language. Unknown languages fall back to
// the default catalog; unknown keys fall back to the key itself.
func (t *Translator) Get(key, lang string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.catalogs[lang]
	if !ok {
		c = t.catalogs[DefaultLanguage]
	}
	if v, ok := c.Translations[key]; ok {
		return v
	}
	if c != t.catalogs[DefaultLanguage] {
		if v, ok := t.catalogs[DefaultLanguage].Translations[key]; ok {
			return v
		}
	}
	return key
}

// Getf resolves a key built from a printf-style pattern, e.g. document type
// names keyed by numeric id.
func (t *Translator) Getf(lang, pattern string, args ...any) string {
	return t.Get(fmt.Sprintf(pattern, args...), lang)
}

// Version reports a catalog's version metadata.
func (t *Translator) Version(lang string) (version, lastUpdated string, err error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.catalogs[lang]
	if !ok {
		return "", "", fmt.Errorf("unknown locale %s", lang)
	}
	return c.Version, c.LastUpdated, nil
}
