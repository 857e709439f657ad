package parser

import "i18n-templates/internal/marker"

// Definition represents a localizable marker extracted from a template file.
type Definition struct {
	// Scope is the scope name derived from the file name.
	Scope string
	// Key is the local key of the marker.
	Key string
	// Text is the default text as authored.
	Text string
	// Line is the 1-based line number in the source file.
	Line int
}

// CompositeKey returns the scope-qualified key of the definition.
func (d Definition) CompositeKey() string {
	return marker.CompositeKey(d.Scope, d.Key)
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path of the parsed file as given.
	FilePath string
	// Scope is the scope name shared by every definition of the file.
	Scope string
	// Content is the raw file content, kept for template generation.
	Content string
	// Definitions are the markers in order of appearance.
	Definitions []Definition
}

// Parser is the interface for template parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts marker definitions from raw file content.
	Parse(filePath string, content []byte) (*ParseResult, error)
}
