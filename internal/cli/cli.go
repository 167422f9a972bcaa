package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mutdom/pkg/buildinfo"
	"github.com/matzehuels/mutdom/pkg/cache"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mutdom"

	// envRedisURL selects a shared Redis cache instead of the local file cache.
	envRedisURL = "MUTDOM_REDIS_URL"
)

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

	// Config is loaded from the TOML config file before any command runs.
	// It is never nil once RootCommand's pre-run hook has executed.
	Config *Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
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
		Short: "mutdom finds dominator mutants in a mutation kill matrix",
		Long: `mutdom reads a mutation-testing kill matrix, groups mutants that are killed by
exactly the same tests, builds the subsumption graph between those groups and
reports the dominator mutants: the minimal set of mutants whose kills imply
all others.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mutdom/config.toml)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the local file cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the file cache. A missing home directory disables caching
// rather than failing the command.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.localCacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSharedRunner creates the runner for the web service. A Redis URL from
// the flag, the environment or the config file selects Redis; otherwise the
// local file cache is used.
func (c *CLI) newSharedRunner(ctx context.Context, redisURL string) (*pipeline.Runner, error) {
	if redisURL == "" {
		redisURL = os.Getenv(envRedisURL)
	}
	if redisURL == "" {
		redisURL = c.Config.Cache.RedisURL
	}
	if redisURL == "" {
		return c.newRunner(false)
	}

	rc, err := cache.NewRedisCache(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	prefix := c.Config.Cache.Prefix
	if prefix == "" {
		prefix = appName
	}
	c.Logger.Info("using redis cache", "prefix", prefix)
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, prefix), c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mutdom/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/mutdom/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty entries are dropped.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
