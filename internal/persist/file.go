package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"i18n-templates/internal/locale"

	"github.com/rs/zerolog/log"
)

// FileGateway reads and writes JSON documents on the local file system.
// It also serves as the SourceReader for template files.
type FileGateway struct{}

// NewFileGateway creates a file system gateway.
func NewFileGateway() *FileGateway { return &FileGateway{} }

func (g *FileGateway) ReadDictionary(_ context.Context, path string) (locale.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}

	dict, err := UnmarshalDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

func (g *FileGateway) WriteJSON(_ context.Context, path string, value any) error {
	data, err := Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Wrote JSON document")
	return nil
}

func (g *FileGateway) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (g *FileGateway) ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}
