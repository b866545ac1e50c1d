package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationflow/internal/config"
	"github.com/matzehuels/stationflow/internal/metrics"
	"github.com/matzehuels/stationflow/pkg/buildinfo"
	"github.com/matzehuels/stationflow/pkg/cache"
	"github.com/matzehuels/stationflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
	Logger  *log.Logger
	Config  *config.Config
	Metrics *metrics.Metrics

	// global flags
	verbose     bool
	configPath  string
	noCache     bool
	metricsFile string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  newLogger(w, level),
		Config:  config.DefaultConfig(),
		Metrics: metrics.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stationflow arranges simulation diagrams and plans transporter paths",
		Long: `Stationflow lays out the stations of a simulation model by their flow
topology and computes the waypoint paths transporters take between stations.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default: search $STATIONFLOW_CONFIG, ./stationflow.toml, ~/.config/stationflow/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable result caching")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.segmentsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and registers the
// metrics hooks before any command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if c.configPath != "" {
		cfg, path, err = config.LoadFromPath(c.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if path != "" {
		c.Logger.Debug("loaded config", "path", path, "config", cfg)
	}

	c.Metrics.Register()
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) writeMetrics() error {
	if c.metricsFile == "" {
		return nil
	}
	if err := c.Metrics.WriteFile(c.metricsFile); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured cache. An unusable file cache directory
// falls back to no caching.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.Config.CacheOptions()
	ch, err := cache.Open(ctx, opts)
	if err != nil && opts.Backend == cache.BackendFile {
		c.Logger.Warn("cache disabled", "dir", opts.Dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, err
}

// arrangeDefaults returns the pipeline options derived from the config.
func (c *CLI) arrangeDefaults() pipeline.ArrangeOptions {
	start := c.Config.Start()
	return pipeline.ArrangeOptions{
		Mode:   c.Config.Arrange.Mode,
		Start:  &start,
		Layout: c.Config.LayoutOptions(),
	}
}
