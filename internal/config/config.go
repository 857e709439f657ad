package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Configuration keys, shared by the config file, flags and environment.
const (
	KeyTemplatesFolder = "templatesFolder"
	KeyLocalesFolder   = "localesFolder"
	KeyLocales         = "locales"
	KeyTemplatesSuffix = "templatesSuffix"
	KeyLocalesSuffix   = "localesSuffix"
	KeyExtensions      = "extensions"
	KeySources         = "src"
	KeyStore           = "store"
	KeyDatabaseURL     = "databaseURL"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

const (
	DefaultTemplatesSuffix = "html.json"
	DefaultLocalesSuffix   = ".json"
)

// Options configures one run.
type Options struct {
	TemplatesFolder string
	LocalesFolder   string
	// Locales are the declared language tags in configuration order. The
	// baseline is never listed here.
	Locales         []string
	TemplatesSuffix string
	LocalesSuffix   string
	Extensions      []string
	// Sources are the template files or directories to scan when none are
	// given on the command line.
	Sources     []string
	Store       string
	DatabaseURL string
}

// Error is a fatal configuration problem.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

// New prepares a viper instance: defaults, an optional .env file, environment
// variables and, when present, a config file. cfgFile may be empty, in which
// case .i18n-templates.{yaml,toml,json} is looked up in the working directory.
func New(cfgFile string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetDefault(KeyTemplatesSuffix, DefaultTemplatesSuffix)
	v.SetDefault(KeyLocalesSuffix, DefaultLocalesSuffix)
	v.SetDefault(KeyStore, StoreFile)

	envs := map[string]string{
		KeyTemplatesFolder: "I18N_TEMPLATES_FOLDER",
		KeyLocalesFolder:   "I18N_LOCALES_FOLDER",
		KeyStore:           "I18N_TEMPLATES_STORE",
		KeyDatabaseURL:     "DATABASE_URL",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".i18n-templates")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Debug().Msg("No config file found, using flags and environment")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	return v, nil
}

// Load decodes and validates the options held by v.
func Load(v *viper.Viper) (*Options, error) {
	opts := &Options{
		TemplatesFolder: strings.TrimSpace(v.GetString(KeyTemplatesFolder)),
		LocalesFolder:   strings.TrimSpace(v.GetString(KeyLocalesFolder)),
		TemplatesSuffix: v.GetString(KeyTemplatesSuffix),
		LocalesSuffix:   v.GetString(KeyLocalesSuffix),
		Extensions:      v.GetStringSlice(KeyExtensions),
		Sources:         v.GetStringSlice(KeySources),
		Store:           strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		DatabaseURL:     strings.TrimSpace(v.GetString(KeyDatabaseURL)),
	}

	locales, err := decodeLocales(v.Get(KeyLocales))
	if err != nil {
		return nil, err
	}
	opts.Locales = locales

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks the options. Every failure is fatal for the run.
func (o *Options) Validate() error {
	if o.TemplatesFolder == "" {
		return &Error{Key: KeyTemplatesFolder, Reason: "is required, i.e. templatesFolder: ./public/html"}
	}
	if o.LocalesFolder == "" {
		return &Error{Key: KeyLocalesFolder, Reason: "is required, i.e. localesFolder: ./locales"}
	}
	if o.TemplatesSuffix == "" {
		return &Error{Key: KeyTemplatesSuffix, Reason: "must not be empty"}
	}
	if o.LocalesSuffix == "" {
		return &Error{Key: KeyLocalesSuffix, Reason: "must not be empty"}
	}

	for _, tag := range o.Locales {
		if _, err := language.Parse(tag); err != nil {
			return &Error{Key: KeyLocales, Reason: fmt.Sprintf("contains an invalid language tag %q: %v", tag, err)}
		}
	}

	switch o.Store {
	case StoreFile:
	case StorePostgres:
		if o.DatabaseURL == "" {
			return &Error{Key: KeyDatabaseURL, Reason: "is required when store is postgres"}
		}
	default:
		return &Error{Key: KeyStore, Reason: fmt.Sprintf("must be %q or %q, got %q", StoreFile, StorePostgres, o.Store)}
	}

	return nil
}

// decodeLocales accepts a list of strings from flags or a config file array.
// Anything else, including a plain string, is rejected. Tags keep the
// spelling they were given since it names the locale file on disk.
func decodeLocales(raw any) ([]string, error) {
	var items []string

	switch val := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		items = val
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &Error{Key: KeyLocales, Reason: fmt.Sprintf("must only contain language tags, got %v", item)}
			}
			items = append(items, s)
		}
	default:
		return nil, &Error{Key: KeyLocales, Reason: "must be a list, i.e. locales: [en, de, es]"}
	}

	seen := make(map[string]bool, len(items))
	var out []string
	for _, tag := range items {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out, nil
}
