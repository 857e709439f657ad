package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"i18n-templates/internal/parser"

	"github.com/rs/zerolog/log"
)

// Walker expands command line arguments into the list of template files to parse.
type Walker struct {
	parser parser.Parser
}

// NewWalker creates a Walker that keeps files accepted by p.
func NewWalker(p parser.Parser) *Walker {
	return &Walker{parser: p}
}

// Walk expands every argument. Directories are walked in lexical order and
// filtered by extension; files named explicitly are kept whatever their
// extension. Arguments that do not exist are passed through so that the
// session can report them. The result has no duplicates and keeps the order
// of the arguments.
func (w *Walker) Walk(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				add(arg)
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Error walking path")
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if w.parser.CanParse(strings.ToLower(filepath.Ext(path))) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}
	}

	log.Debug().Int("count", len(files)).Msg("Discovered template files")
	return files, nil
}
