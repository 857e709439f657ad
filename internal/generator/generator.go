package generator

import (
	"i18n-templates/internal/locale"
	"i18n-templates/internal/marker"

	"github.com/rs/zerolog"
)

// Missing identifies a key a language had no translation for.
type Missing struct {
	Lang string
	Key  string
}

// Generator rewrites the template working copies of a store.
type Generator struct {
	log zerolog.Logger
}

// New creates a generator that reports fallbacks through logger.
func New(logger zerolog.Logger) *Generator {
	return &Generator{log: logger}
}

// Generate replaces every marker of every catalog's templates with the text
// resolved from that catalog's dictionary. A key missing from a language (or
// mapped to an empty string) falls back to the baseline text; the fallback is
// written back to the language dictionary and reported in the returned slice.
// Every working copy is rebuilt from the raw sources kept by the store,
// which are not modified.
func (g *Generator) Generate(store *locale.Store) []Missing {
	var missing []Missing

	sources := store.Sources()
	scopes := sources.Scopes()
	for _, c := range store.Catalogs() {
		for _, scope := range scopes {
			raw := sources[scope]
			if !marker.Contains(raw) {
				c.Templates[scope] = raw
				continue
			}
			c.Templates[scope] = marker.Replace(raw, func(m marker.Marker) string {
				key := marker.CompositeKey(scope, m.Key)
				text, ok := g.resolve(store, c, key, m)
				if !ok {
					missing = append(missing, Missing{Lang: c.Lang, Key: key})
				}
				return text
			})
		}
	}

	return missing
}

func (g *Generator) resolve(store *locale.Store, c *locale.Catalog, key string, m marker.Marker) (string, bool) {
	if text, ok := c.Dictionary[key]; ok && (text != "" || c.IsBaseline()) {
		return text, true
	}

	fallback, ok := store.Baseline.Dictionary[key]
	if !ok {
		fallback = m.Text
	}
	if c.IsBaseline() {
		return fallback, true
	}

	c.Dictionary[key] = fallback
	g.log.Warn().
		Str("lang", c.Lang).
		Str("key", key).
		Msg("Translation not found, using the text from the original template")
	return fallback, false
}
