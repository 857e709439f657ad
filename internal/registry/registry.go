package registry

import "fmt"

// DuplicateScopeError reports two distinct files resolving to the same scope.
type DuplicateScopeError struct {
	Scope     string
	Path      string
	FirstPath string
}

func (e *DuplicateScopeError) Error() string {
	return fmt.Sprintf("two files found with the same scope name %q:\n%s\n%s", e.Scope, e.Path, e.FirstPath)
}

// DuplicateDefinitionError reports a composite key defined twice in one scope.
type DuplicateDefinitionError struct {
	Key       string
	Path      string
	Line      int
	FirstLine int
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("two i18n definitions found with the same name %q in %s: line %d and line %d",
		e.Key, e.Path, e.Line, e.FirstLine)
}

// Registry tracks scope ownership and definition lines for one run.
// It never touches dictionary or template data.
type Registry struct {
	scopes map[string]string // scope → source path
	lines  map[string]int    // composite key → 1-based line
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		scopes: make(map[string]string),
		lines:  make(map[string]int),
	}
}

// RegisterScope records that scope is derived from path. It fails with a
// *DuplicateScopeError when the scope already belongs to another path.
// already is true when the same path was registered before.
func (r *Registry) RegisterScope(scope, path string) (already bool, err error) {
	if prev, ok := r.scopes[scope]; ok {
		if prev != path {
			return false, &DuplicateScopeError{Scope: scope, Path: path, FirstPath: prev}
		}
		return true, nil
	}
	r.scopes[scope] = path
	return false, nil
}

// RegisterDefinition records the line of a composite key. It fails with a
// *DuplicateDefinitionError when the key has been seen before.
func (r *Registry) RegisterDefinition(key, path string, line int) error {
	if first, ok := r.lines[key]; ok {
		return &DuplicateDefinitionError{Key: key, Path: path, Line: line, FirstLine: first}
	}
	r.lines[key] = line
	return nil
}

// Len returns the number of registered scopes.
func (r *Registry) Len() int { return len(r.scopes) }
