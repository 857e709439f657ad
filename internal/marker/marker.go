package marker

import (
	"regexp"
	"strings"
)

const (
	openDelim  = "[["
	closeDelim = "]]"
	separator  = ":"
)

// pattern matches one marker. The match is non-greedy so several markers on
// the same line are found separately, and '.' never crosses a line break.
var pattern = regexp.MustCompile(`\[\[(.+?)\]\]`)

// Marker is the decoded content of a [[key:text]] or [[text]] annotation.
type Marker struct {
	// Key is the local key inside its scope.
	Key string
	// Text is the default text as authored.
	Text string
}

// Parse splits marker content at the first colon. A marker without a colon,
// or whose colon is the first character, is self-referential: the whole
// content is both key and text.
func Parse(content string) Marker {
	if idx := strings.Index(content, separator); idx > 0 {
		return Marker{Key: content[:idx], Text: content[idx+1:]}
	}
	return Marker{Key: content, Text: content}
}

// FindLine returns every marker in line, in order of appearance.
func FindLine(line string) []Marker {
	found := pattern.FindAllStringSubmatch(line, -1)
	if len(found) == 0 {
		return nil
	}

	markers := make([]Marker, 0, len(found))
	for _, sub := range found {
		markers = append(markers, Parse(sub[1]))
	}
	return markers
}

// Replace substitutes every marker in content with the string returned by
// resolve for it.
func Replace(content string, resolve func(Marker) string) string {
	return pattern.ReplaceAllStringFunc(content, func(raw string) string {
		inner := raw[len(openDelim) : len(raw)-len(closeDelim)]
		return resolve(Parse(inner))
	})
}

// Contains reports whether content still holds marker syntax.
func Contains(content string) bool {
	return pattern.MatchString(content)
}

// CompositeKey namespaces a local key with its scope.
func CompositeKey(scope, key string) string {
	return scope + separator + key
}
