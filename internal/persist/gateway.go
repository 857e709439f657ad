package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"i18n-templates/internal/locale"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a persisted document does not exist.
var ErrNotFound = errors.New("document not found")

// Gateway is the persistence boundary of a run. The core never touches the
// file system or a database directly.
type Gateway interface {
	// ReadDictionary loads a persisted locale dictionary. It returns
	// ErrNotFound when nothing is stored at path.
	ReadDictionary(ctx context.Context, path string) (locale.Dictionary, error)
	// WriteJSON stores value as a JSON document at path.
	WriteJSON(ctx context.Context, path string, value any) error
}

// SourceReader provides raw template content.
type SourceReader interface {
	// Exists reports whether a source file is present.
	Exists(path string) bool
	// ReadSource returns the raw content of a source file.
	ReadSource(path string) ([]byte, error)
}

// Marshal encodes value the way every gateway stores it: tab indented,
// map keys sorted, HTML left unescaped.
func Marshal(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDictionary decodes a JSON object of string values.
func UnmarshalDictionary(data []byte) (locale.Dictionary, error) {
	dict := make(locale.Dictionary)
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	return dict, nil
}
