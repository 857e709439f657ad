package locale

import (
	"fmt"
	"maps"
	"slices"
)

// Dictionary maps a composite key (scope:key) to its text.
type Dictionary map[string]string

// TemplateSet maps a scope name to template content.
type TemplateSet map[string]string

// Scopes returns the scope names in sorted order.
func (t TemplateSet) Scopes() []string {
	return slices.Sorted(maps.Keys(t))
}

// Catalog is the dictionary and template set of one language.
type Catalog struct {
	// Lang is the language tag, empty for the baseline.
	Lang       string
	Dictionary Dictionary
	Templates  TemplateSet
}

func newCatalog(lang string) *Catalog {
	return &Catalog{
		Lang:       lang,
		Dictionary: make(Dictionary),
		Templates:  make(TemplateSet),
	}
}

// IsBaseline reports whether the catalog holds untranslated source text.
func (c *Catalog) IsBaseline() bool { return c.Lang == "" }

// Store holds the baseline catalog plus one catalog per declared language.
// The baseline lives outside the language map, so iterating languages never
// visits it.
type Store struct {
	Baseline *Catalog

	languages map[string]*Catalog
	order     []string
	sources   TemplateSet
}

// NewStore creates the baseline and one empty catalog per language tag.
// Repeated tags are collapsed, keeping the first position.
func NewStore(langs []string) *Store {
	s := &Store{
		Baseline:  newCatalog(""),
		languages: make(map[string]*Catalog, len(langs)),
		sources:   make(TemplateSet),
	}
	for _, lang := range langs {
		if lang == "" {
			continue
		}
		if _, ok := s.languages[lang]; ok {
			continue
		}
		s.languages[lang] = newCatalog(lang)
		s.order = append(s.order, lang)
	}
	return s
}

// Languages returns the declared language tags in configuration order.
func (s *Store) Languages() []string {
	return slices.Clone(s.order)
}

// Language returns the catalog of a declared language.
func (s *Store) Language(lang string) (*Catalog, bool) {
	c, ok := s.languages[lang]
	return c, ok
}

// Catalogs returns the baseline followed by every language catalog.
func (s *Store) Catalogs() []*Catalog {
	out := make([]*Catalog, 0, len(s.order)+1)
	out = append(out, s.Baseline)
	for _, lang := range s.order {
		out = append(out, s.languages[lang])
	}
	return out
}

// AddTemplate records the raw content of a scope and seeds every catalog's
// working copy with it.
func (s *Store) AddTemplate(scope, content string) {
	s.sources[scope] = content
	for _, c := range s.Catalogs() {
		c.Templates[scope] = content
	}
}

// Define sets the baseline text of a composite key.
func (s *Store) Define(key, text string) {
	s.Baseline.Dictionary[key] = text
}

// Sources returns a copy of every raw template. Generation always starts
// from these, never from a catalog's working copy.
func (s *Store) Sources() TemplateSet {
	return maps.Clone(s.sources)
}

// Merge overwrites the in-memory values of lang with every key of persisted.
// Keys absent from persisted keep their current value. It returns the number
// of keys applied.
func (s *Store) Merge(lang string, persisted Dictionary) (int, error) {
	c, ok := s.languages[lang]
	if !ok {
		return 0, fmt.Errorf("merge overrides: language %q is not declared", lang)
	}
	for key, text := range persisted {
		c.Dictionary[key] = text
	}
	return len(persisted), nil
}
