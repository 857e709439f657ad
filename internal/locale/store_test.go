package locale

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewStore(t *testing.T) {
	s := NewStore([]string{"es", "en", "es", ""})

	if diff := cmp.Diff([]string{"es", "en"}, s.Languages()); diff != "" {
		t.Errorf("Languages() mismatch (-want +got):\n%s", diff)
	}
	for _, lang := range []string{"es", "en"} {
		c, ok := s.Language(lang)
		if !ok {
			t.Fatalf("Language(%q) missing", lang)
		}
		if c.Dictionary == nil || c.Templates == nil {
			t.Errorf("catalog %q not initialised", lang)
		}
		if c.IsBaseline() {
			t.Errorf("catalog %q reported as baseline", lang)
		}
	}
	if !s.Baseline.IsBaseline() {
		t.Error("Baseline.IsBaseline() = false")
	}
	if _, ok := s.Language(""); ok {
		t.Error("baseline must not be reachable as a language")
	}

	catalogs := s.Catalogs()
	if len(catalogs) != 3 || catalogs[0] != s.Baseline {
		t.Errorf("Catalogs() should start with the baseline, got %d catalogs", len(catalogs))
	}
}

func TestAddTemplateSeedsEveryCatalog(t *testing.T) {
	s := NewStore([]string{"es", "de"})
	s.AddTemplate("greet", "Hello [[name:World]]")

	for _, c := range s.Catalogs() {
		if got := c.Templates["greet"]; got != "Hello [[name:World]]" {
			t.Errorf("catalog %q template = %q", c.Lang, got)
		}
	}

	s.Baseline.Templates["greet"] = "rewritten"
	if src := s.Sources()["greet"]; src != "Hello [[name:World]]" {
		t.Errorf("Sources()[greet] = %q, raw copy must stay unmodified", src)
	}
}

func TestDefineOnlyTouchesBaseline(t *testing.T) {
	s := NewStore([]string{"es"})
	s.Define("greet:name", "World")

	if got := s.Baseline.Dictionary["greet:name"]; got != "World" {
		t.Errorf("baseline value = %q, want World", got)
	}
	es, _ := s.Language("es")
	if _, ok := es.Dictionary["greet:name"]; ok {
		t.Error("Define must not write language dictionaries")
	}
}

func TestMerge(t *testing.T) {
	s := NewStore([]string{"es"})
	es, _ := s.Language("es")
	es.Dictionary["greet:name"] = "World"
	es.Dictionary["greet:new"] = "Fresh"

	persisted := Dictionary{"greet:name": "Mundo", "old:gone": "Viejo"}

	n, err := s.Merge("es", persisted)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Merge() applied %d keys, want 2", n)
	}

	want := Dictionary{"greet:name": "Mundo", "greet:new": "Fresh", "old:gone": "Viejo"}
	if diff := cmp.Diff(want, es.Dictionary); diff != "" {
		t.Errorf("dictionary mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Merge("es", persisted); err != nil {
		t.Fatalf("second Merge() error = %v", err)
	}
	if diff := cmp.Diff(want, es.Dictionary); diff != "" {
		t.Errorf("merge is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestMergeUndeclaredLanguage(t *testing.T) {
	s := NewStore([]string{"es"})
	if _, err := s.Merge("fr", Dictionary{"a:b": "c"}); err == nil {
		t.Error("Merge() into an undeclared language should fail")
	}
	if _, err := s.Merge("", Dictionary{"a:b": "c"}); err == nil {
		t.Error("Merge() into the baseline should fail")
	}
}

func TestSortedScopes(t *testing.T) {
	ts := TemplateSet{"z": "", "m": ""}
	if diff := cmp.Diff([]string{"m", "z"}, ts.Scopes()); diff != "" {
		t.Errorf("Scopes() mismatch (-want +got):\n%s", diff)
	}
}
