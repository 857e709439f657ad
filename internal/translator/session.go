package translator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"i18n-templates/internal/config"
	"i18n-templates/internal/generator"
	"i18n-templates/internal/locale"
	"i18n-templates/internal/parser"
	"i18n-templates/internal/persist"
	"i18n-templates/internal/registry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrPhase is returned when an operation is called out of order.
var ErrPhase = errors.New("operation not allowed in the current phase")

// Phase is the stage a session has reached. Phases only move forward.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseMerged
	PhaseGenerated
	PhasePersisted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseMerged:
		return "merged"
	case PhaseGenerated:
		return "generated"
	case PhasePersisted:
		return "persisted"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Output describes the documents written for one catalog.
type Output struct {
	// Lang is empty for the baseline.
	Lang string
	// Keys is the number of dictionary entries.
	Keys int
	// Fallbacks is the number of keys resolved from the baseline.
	Fallbacks int
	// TemplatePath is where the compiled template bundle was written.
	TemplatePath string
	// LocalePath is where the locale dictionary was written; empty for the baseline.
	LocalePath string
}

// Result summarises a completed run.
type Result struct {
	Files       int
	Definitions int
	Outputs     []Output
	Missing     []generator.Missing
}

// Session holds every registry, dictionary and template set of one run.
// It is not safe for concurrent use and must not be reused across runs.
type Session struct {
	opts     config.Options
	gateway  persist.Gateway
	sources  persist.SourceReader
	parser   parser.Parser
	registry *registry.Registry
	store    *locale.Store
	log      zerolog.Logger

	phase       Phase
	parsed      []*parser.ParseResult
	definitions int
	missing     []generator.Missing
}

// Option customises a Session.
type Option func(*Session)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithSources sets where template files are read from.
func WithSources(r persist.SourceReader) Option {
	return func(s *Session) { s.sources = r }
}

// WithParser replaces the default template parser.
func WithParser(p parser.Parser) Option {
	return func(s *Session) { s.parser = p }
}

// New validates opts and creates a session with one empty catalog per
// declared language. Invalid options are fatal.
func New(opts *config.Options, gw persist.Gateway, options ...Option) (*Session, error) {
	if opts == nil {
		return nil, errors.New("translator: options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, errors.New("translator: gateway is required")
	}

	s := &Session{
		opts:     *opts,
		gateway:  gw,
		sources:  persist.NewFileGateway(),
		parser:   parser.NewTemplateParser(opts.Extensions...),
		registry: registry.New(),
		store:    locale.NewStore(opts.Locales),
		log:      log.Logger,
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Parsed returns the templates registered so far, in parse order. Skipped
// and repeated files are not included.
func (s *Session) Parsed() []*parser.ParseResult {
	return slices.Clone(s.parsed)
}

// Store exposes the dictionaries and template sets of the run.
func (s *Session) Store() *locale.Store { return s.store }

// LocalePath returns where the dictionary of lang is persisted.
func (s *Session) LocalePath(lang string) string {
	return filepath.Join(s.opts.LocalesFolder, lang+s.opts.LocalesSuffix)
}

// TemplatePath returns where the template bundle of lang is written. The
// baseline, with an empty lang, has no prefix.
func (s *Session) TemplatePath(lang string) string {
	name := s.opts.TemplatesSuffix
	if lang != "" {
		name = lang + "_" + name
	}
	return filepath.Join(s.opts.TemplatesFolder, name)
}

func (s *Session) expect(p Phase, op string) error {
	if s.phase != p {
		return fmt.Errorf("%s in %s phase: %w", op, s.phase, ErrPhase)
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.phase = PhaseFailed
	return err
}

// ParseFile registers the scope and definitions of one template file. A
// missing file is skipped; a file already parsed from the same path is
// skipped too. Duplicate scopes and duplicate definitions are fatal and leave
// the session unusable.
func (s *Session) ParseFile(path string) error {
	if err := s.expect(PhaseParse, "parse file"); err != nil {
		return err
	}

	if !s.sources.Exists(path) {
		s.log.Warn().Str("file", path).Msg("Template file not found, skipping")
		return nil
	}

	content, err := s.sources.ReadSource(path)
	if err != nil {
		return s.fail(fmt.Errorf("parse %s: %w", path, err))
	}

	result, err := s.parser.Parse(path, content)
	if err != nil {
		return s.fail(fmt.Errorf("parse %s: %w", path, err))
	}

	clean := filepath.Clean(path)
	already, err := s.registry.RegisterScope(result.Scope, clean)
	if err != nil {
		return s.fail(err)
	}
	if already {
		s.log.Debug().Str("file", path).Msg("File already parsed, skipping")
		return nil
	}

	for _, def := range result.Definitions {
		if err := s.registry.RegisterDefinition(def.CompositeKey(), clean, def.Line); err != nil {
			return s.fail(err)
		}
	}

	s.store.AddTemplate(result.Scope, result.Content)
	for _, def := range result.Definitions {
		s.store.Define(def.CompositeKey(), def.Text)
	}

	s.parsed = append(s.parsed, result)
	s.definitions += len(result.Definitions)
	s.log.Debug().
		Str("file", path).
		Str("scope", result.Scope).
		Int("definitions", len(result.Definitions)).
		Msg("Parsed template")
	return nil
}

// MergeOverrides applies the persisted dictionary of every declared language
// over the parsed values. A missing or unreadable file leaves the language
// untouched.
func (s *Session) MergeOverrides(ctx context.Context) error {
	if err := s.expect(PhaseParse, "merge overrides"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return s.fail(err)
	}

	for _, lang := range s.store.Languages() {
		path := s.LocalePath(lang)
		persisted, err := s.gateway.ReadDictionary(ctx, path)
		if err != nil {
			if errors.Is(err, persist.ErrNotFound) {
				s.log.Debug().Str("lang", lang).Str("path", path).Msg("No locale file to override from")
			} else {
				s.log.Warn().Err(err).Str("lang", lang).Msg("Locale file unreadable, not overriding")
			}
			continue
		}

		n, err := s.store.Merge(lang, persisted)
		if err != nil {
			return s.fail(err)
		}
		s.log.Debug().Str("lang", lang).Int("keys", n).Msg("Merged locale overrides")
	}

	s.phase = PhaseMerged
	return nil
}

// Generate rewrites the template working copies of every catalog and
// returns the keys that fell back to the baseline text.
func (s *Session) Generate() ([]generator.Missing, error) {
	if err := s.expect(PhaseMerged, "generate"); err != nil {
		return nil, err
	}

	s.missing = generator.New(s.log).Generate(s.store)
	s.phase = PhaseGenerated
	return s.missing, nil
}

// Persist writes every locale dictionary and template bundle.
func (s *Session) Persist(ctx context.Context) (*Result, error) {
	if err := s.expect(PhaseGenerated, "persist"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(err)
	}

	fallbacks := make(map[string]int)
	for _, m := range s.missing {
		fallbacks[m.Lang]++
	}

	result := &Result{
		Files:       s.registry.Len(),
		Definitions: s.definitions,
		Missing:     s.missing,
	}
	for _, c := range s.store.Catalogs() {
		out := Output{
			Lang:         c.Lang,
			Keys:         len(c.Dictionary),
			Fallbacks:    fallbacks[c.Lang],
			TemplatePath: s.TemplatePath(c.Lang),
		}
		if !c.IsBaseline() {
			out.LocalePath = s.LocalePath(c.Lang)
		}
		result.Outputs = append(result.Outputs, out)
	}

	for i, c := range s.store.Catalogs() {
		if c.IsBaseline() {
			continue
		}
		path := result.Outputs[i].LocalePath
		if err := s.gateway.WriteJSON(ctx, path, c.Dictionary); err != nil {
			return nil, s.fail(fmt.Errorf("save locale %s: %w", c.Lang, err))
		}
		s.log.Info().Str("path", path).Msg("Locale file")
	}

	for i, c := range s.store.Catalogs() {
		path := result.Outputs[i].TemplatePath
		if err := s.gateway.WriteJSON(ctx, path, c.Templates); err != nil {
			return nil, s.fail(fmt.Errorf("save templates %s: %w", templateLabel(c), err))
		}
		s.log.Info().Str("path", path).Msg("Template file")
	}

	s.phase = PhasePersisted
	return result, nil
}

func templateLabel(c *locale.Catalog) string {
	if c.IsBaseline() {
		return "baseline"
	}
	return c.Lang
}

// Save runs the phases that follow parsing: merge, generate and persist.
func (s *Session) Save(ctx context.Context) (*Result, error) {
	if err := s.MergeOverrides(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Generate(); err != nil {
		return nil, err
	}
	return s.Persist(ctx)
}

// Run performs a complete run over paths with a fresh session.
func Run(ctx context.Context, opts *config.Options, gw persist.Gateway, paths []string, options ...Option) (*Result, error) {
	s, err := New(opts, gw, options...)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := s.ParseFile(path); err != nil {
			return nil, err
		}
	}
	return s.Save(ctx)
}
