// Package cli implements the classview command-line interface.
//
// Commands fetch class hierarchies from the analysis backend, build and lay
// them out, render them to files, show them in an interactive terminal
// surface, and serve them over HTTP. Configuration comes from
// classview.yaml, CLASSVIEW_* environment variables and flags (see
// internal/config).
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classview/internal/config"
	"github.com/matzehuels/classview/pkg/buildinfo"
	"github.com/matzehuels/classview/pkg/cache"
	"github.com/matzehuels/classview/pkg/observability"
	"github.com/matzehuels/classview/pkg/pipeline"
	"github.com/matzehuels/classview/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "classview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
	cfg     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "classview lays out and explores class hierarchies",
		Long: `classview fetches the class hierarchy of a source file from an analysis
backend, lays it out as a layered graph and lets you drag classes around,
in the terminal or through its HTTP service.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default: ./classview.yaml)")
	pf.BoolP("verbose", "v", false, "enable verbose logging")
	pf.String("backend", "", "analysis backend URL")
	pf.String("token", "", "bearer token for the analysis backend")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg

	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Register()
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg, err := config.Load("", nil)
		if err != nil {
			cfg = &config.Config{}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

// openCache opens the configured response cache. noCache disables it.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config()
	c.Logger.Debug("opening cache", "backend", cfg.Cache.Backend)
	return cache.Open(ctx, cfg.CacheOptions())
}

// newSource returns the hierarchy source for a command: a directory of
// mapping files when dir is set, otherwise the analysis backend. The
// returned closer releases the backend cache.
func (c *CLI) newSource(ctx context.Context, dir string, noCache bool) (source.Source, func() error, error) {
	if dir != "" {
		return source.NewFileSource(dir), func() error { return nil }, nil
	}
	client, cc, err := c.newClient(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	return client, cc.Close, nil
}

// newClient builds a backend client from the configuration.
func (c *CLI) newClient(ctx context.Context, noCache bool) (*source.Client, cache.Cache, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	cfg := c.config()
	client, err := source.NewClient(source.Options{
		BaseURL: cfg.BackendURL,
		Token:   cfg.Token,
		Cache:   cc,
		TTL:     cfg.Cache.TTL,
		Refresh: cfg.Cache.Refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		_ = cc.Close()
		return nil, nil, fmt.Errorf("backend client: %w", err)
	}
	return client, cc, nil
}

// newRunner creates a pipeline runner with an artifact cache.
func (c *CLI) newRunner(ctx context.Context, src source.Source, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(src, cc, c.Logger), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutOptions fills the spacing and node size from the configuration.
func (c *CLI) layoutOptions(opts *pipeline.Options) {
	cfg := c.config()
	opts.Spacing = cfg.Layout.Spacing()
	opts.NodeSize = cfg.Layout.NodeSize()
	opts.Logger = c.Logger
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
