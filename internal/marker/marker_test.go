package marker

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Marker
	}{
		{"key and text", "name:World", Marker{Key: "name", Text: "World"}},
		{"self key", "Hello", Marker{Key: "Hello", Text: "Hello"}},
		{"split at first colon", "time:at 10:30", Marker{Key: "time", Text: "at 10:30"}},
		{"empty text", "title:", Marker{Key: "title", Text: ""}},
		{"leading colon is self key", ":odd", Marker{Key: ":odd", Text: ":odd"}},
		{"spaces kept", "hi: Hello there", Marker{Key: "hi", Text: " Hello there"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.content)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.content, diff)
			}
		})
	}
}

func TestFindLine(t *testing.T) {
	line := `<h1>[[title:Welcome]]</h1> <p>[[Hello]], [[who:friend]]</p>`

	got := FindLine(line)
	want := []Marker{
		{Key: "title", Text: "Welcome"},
		{Key: "Hello", Text: "Hello"},
		{Key: "who", Text: "friend"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindLine mismatch (-want +got):\n%s", diff)
	}
}

func TestFindLineNoMarkers(t *testing.T) {
	for _, line := range []string{"", "plain text", "[[unterminated", "[[]]", "[ [a] ]"} {
		if got := FindLine(line); got != nil {
			t.Errorf("FindLine(%q) = %v, want nil", line, got)
		}
	}
}

func TestReplace(t *testing.T) {
	content := "Hello [[name:World]]\n[[bye:Goodbye]] and [[Thanks]]"
	dict := map[string]string{"name": "Mundo", "bye": "Adiós", "Thanks": "Gracias"}

	got := Replace(content, func(m Marker) string { return dict[m.Key] })
	want := "Hello Mundo\nAdiós and Gracias"
	if got != want {
		t.Errorf("Replace() = %q, want %q", got, want)
	}
	if Contains(got) {
		t.Errorf("Replace() left marker syntax in %q", got)
	}
}

func TestReplaceUsesSameSplitAsFindLine(t *testing.T) {
	line := "[[a:x:y]] [[b]] [[:c]]"

	harvested := FindLine(line)

	var substituted []Marker
	Replace(line, func(m Marker) string {
		substituted = append(substituted, m)
		return ""
	})

	if diff := cmp.Diff(harvested, substituted); diff != "" {
		t.Errorf("harvest and substitution disagree (-harvest +substitute):\n%s", diff)
	}
}

func TestMarkersDoNotSpanLines(t *testing.T) {
	content := "[[key:first\nline]]"
	if Contains(content) {
		t.Errorf("Contains(%q) = true, want false", content)
	}
	if got := Replace(content, func(Marker) string { return "X" }); got != content {
		t.Errorf("Replace() = %q, want unchanged", got)
	}
	if strings.Contains(Replace("[[a]]\n[[b]]", func(m Marker) string { return m.Key }), "[[") {
		t.Error("Replace() left markers on separate lines")
	}
}

func TestCompositeKey(t *testing.T) {
	if got := CompositeKey("greet", "name"); got != "greet:name" {
		t.Errorf("CompositeKey() = %q, want %q", got, "greet:name")
	}
}
