package parser

import (
	"path/filepath"
	"strings"

	"i18n-templates/internal/marker"
)

// DefaultExtensions lists the template extensions scanned when none are configured.
var DefaultExtensions = []string{".html", ".htm", ".tpl", ".tmpl", ".mustache", ".hbs"}

// TemplateParser extracts [[key:text]] markers from front-end template files.
type TemplateParser struct {
	exts map[string]bool
}

// NewTemplateParser creates a parser for the given extensions, or for
// DefaultExtensions when exts is empty.
func NewTemplateParser(exts ...string) *TemplateParser {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	p := &TemplateParser{exts: make(map[string]bool, len(exts))}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.exts[ext] = true
	}
	return p
}

func (p *TemplateParser) CanParse(ext string) bool {
	return p.exts[strings.ToLower(ext)]
}

// Parse scans content line by line. A marker never spans a line break.
// Duplicate keys are not rejected here; that is the registry's job.
func (p *TemplateParser) Parse(filePath string, content []byte) (*ParseResult, error) {
	result := &ParseResult{
		FilePath: filePath,
		Scope:    ScopeName(filePath),
		Content:  string(content),
	}

	// Lines have no length limit: minified templates often fit on one.
	for i, line := range strings.Split(result.Content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		for _, m := range marker.FindLine(line) {
			result.Definitions = append(result.Definitions, Definition{
				Scope: result.Scope,
				Key:   m.Key,
				Text:  m.Text,
				Line:  i + 1,
			})
		}
	}

	return result, nil
}

// ScopeName derives the scope of a file: its base name without the last
// extension. Names like ".hidden" or "README" are kept whole.
func ScopeName(filePath string) string {
	name := filepath.Base(filepath.Clean(filePath))
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name
	}
	return name[:dot]
}
