package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"i18n-templates/internal/config"
	"i18n-templates/internal/filewalker"
	"i18n-templates/internal/parser"
	"i18n-templates/internal/persist"
	"i18n-templates/internal/report"
	"i18n-templates/internal/translator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags holds the command line flag values shared by the commands.
type Flags struct {
	CfgFile string
	Verbose bool
	DryRun  bool
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &Flags{}

	rootCmd := &cobra.Command{
		Use:   "i18n-templates",
		Short: "i18n for front-end templates",
		Long: `i18n-templates extracts [[key:text]] markers from front-end templates,
keeps one editable locale file per language and compiles one JSON template
bundle per language with every marker replaced by its translation.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if flags.Verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is ./.i18n-templates.{yaml,toml,json})")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSlice("ext", nil, "Template extensions scanned in directories (default .html,.htm,.tpl,.tmpl,.mustache,.hbs)")

	rootCmd.AddCommand(buildCmd(flags))
	rootCmd.AddCommand(scanCmd(flags))

	return rootCmd
}

func buildCmd(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [templates or directories...]",
		Short: "Compile template bundles and update locale files",
		Long: `Parses every template, merges the existing locale files over the parsed
defaults, writes <lang><localesSuffix> into the locales folder and
[<lang>_]<templatesSuffix> into the templates folder.

Paths default to the "src" list of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd, flags)
			if err != nil {
				return err
			}
			return runBuild(cmd, opts, args, flags.DryRun)
		},
	}

	addRunFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Run every phase but do not write any output")

	return cmd
}

func scanCmd(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [templates or directories...]",
		Short: "List the markers found in templates without writing anything",
		Long: `Parses templates with the same configuration as build and prints every
definition. Duplicate scopes and keys fail exactly as they would in build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd, flags)
			if err != nil {
				return err
			}
			return runScan(cmd, opts, args)
		},
	}

	addRunFlags(cmd)

	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("templates-folder", "", "Folder where template bundles are written (required)")
	cmd.Flags().String("locales-folder", "", "Folder where locale files are read and written (required)")
	cmd.Flags().StringSlice("locales", nil, "Language tags, i.e. --locales en,de,es")
	cmd.Flags().String("templates-suffix", config.DefaultTemplatesSuffix, "Suffix of template bundle files")
	cmd.Flags().String("locales-suffix", config.DefaultLocalesSuffix, "Suffix of locale files")
	cmd.Flags().String("store", config.StoreFile, "Where outputs are persisted: file or postgres")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string for --store postgres")
}

// loadOptions reads the config file, environment and flags of cmd.
func loadOptions(cmd *cobra.Command, flags *Flags) (*config.Options, error) {
	v, err := loadViper(cmd, flags)
	if err != nil {
		return nil, err
	}
	return config.Load(v)
}

// loadViper reads the config file and environment, then binds the flags of cmd.
func loadViper(cmd *cobra.Command, flags *Flags) (*viper.Viper, error) {
	v, err := config.New(flags.CfgFile)
	if err != nil {
		return nil, err
	}

	bindings := map[string]string{
		config.KeyTemplatesFolder: "templates-folder",
		config.KeyLocalesFolder:   "locales-folder",
		config.KeyLocales:         "locales",
		config.KeyTemplatesSuffix: "templates-suffix",
		config.KeyLocalesSuffix:   "locales-suffix",
		config.KeyStore:           "store",
		config.KeyDatabaseURL:     "database-url",
		config.KeyExtensions:      "ext",
	}
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return v, nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openGateway connects the configured store. The returned close function is
// always safe to call.
func openGateway(ctx context.Context, opts *config.Options, dryRun bool) (persist.Gateway, func(), error) {
	if opts.Store != config.StorePostgres {
		return persist.NewFileGateway(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, func() {}, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	pg := persist.NewPostgresGateway(pool)
	if !dryRun {
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
	}
	return pg, pool.Close, nil
}

// discover expands args, or the configured sources, into template paths.
func discover(p parser.Parser, opts *config.Options, args []string) ([]string, error) {
	if len(args) == 0 {
		args = opts.Sources
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no templates given: pass paths as arguments or set %q in the config file", config.KeySources)
	}

	files, err := filewalker.NewWalker(p).Walk(args)
	if err != nil {
		return nil, fmt.Errorf("discover templates: %w", err)
	}
	return files, nil
}

// runBuild handles the `build` command.
func runBuild(cmd *cobra.Command, opts *config.Options, args []string, dryRun bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	p := parser.NewTemplateParser(opts.Extensions...)
	files, err := discover(p, opts, args)
	if err != nil {
		return err
	}

	gw, closeGateway, err := openGateway(ctx, opts, dryRun)
	if err != nil {
		return err
	}
	defer closeGateway()

	var staged *persist.Memory
	if dryRun {
		staged = persist.NewMemory(gw)
		gw = staged
	}

	log.Info().
		Int("files", len(files)).
		Strs("locales", opts.Locales).
		Msg("Starting i18n build")

	result, err := translator.Run(ctx, opts, gw, files, translator.WithParser(p))
	if err != nil {
		return err
	}

	if staged != nil {
		for _, path := range staged.Paths() {
			data, _ := staged.Get(path)
			log.Info().Str("path", path).Int("bytes", len(data)).Msg("Dry run, not writing")
		}
	}

	if err := report.Summary(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	log.Info().
		Int("files", result.Files).
		Int("definitions", result.Definitions).
		Int("fallbacks", len(result.Missing)).
		Msg("i18n build complete")
	return nil
}

// runScan handles the `scan` command. It stops at the first duplicate
// scope or definition, as a build would, and never reaches the store.
func runScan(cmd *cobra.Command, opts *config.Options, args []string) error {
	p := parser.NewTemplateParser(opts.Extensions...)
	files, err := discover(p, opts, args)
	if err != nil {
		return err
	}

	s, err := translator.New(opts, persist.NewMemory(nil), translator.WithParser(p))
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := s.ParseFile(path); err != nil {
			return err
		}
	}

	return report.Definitions(cmd.OutOrStdout(), s.Parsed())
}
