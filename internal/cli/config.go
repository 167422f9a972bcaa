package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// configFileName is looked up in configDir when --config is not given.
const configFileName = "config.toml"

// Config is the optional TOML configuration file. Zero values mean "use the
// built-in default"; command-line flags override everything here.
//
//	[analysis]
//	include_survivors = true
//	max_mutants = 50000
//
//	[render]
//	viz_type = "nodelink"
//	formats = ["svg", "json"]
//
//	[server]
//	addr = ":9090"
//	result_ttl = "12h"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Render   RenderConfig   `toml:"render"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
}

// AnalysisConfig holds parsing and analysis ceilings.
type AnalysisConfig struct {
	IncludeSurvivors bool `toml:"include_survivors"`
	MaxMutants       int  `toml:"max_mutants"` // negative disables the limit
	MaxGroups        int  `toml:"max_groups"`  // negative disables the limit
}

// RenderConfig holds display defaults.
type RenderConfig struct {
	VizType  string   `toml:"viz_type"`
	Formats  []string `toml:"formats"`
	Scale    float64  `toml:"scale"`
	UnitSize float64  `toml:"unit_size"`
	Reduce   bool     `toml:"reduce"`
	Detailed bool     `toml:"detailed"`
}

// ServerConfig configures mutdom serve.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	MaxUploadBytes int64         `toml:"max_upload_bytes"`
	ResultTTL      time.Duration `toml:"result_ttl"`
	Formats        []string      `toml:"formats"`

	// Rotating log file; empty logs to stderr.
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
	LogCompress   bool   `toml:"log_compress"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// loadConfig reads the config file at path. An empty path means the default
// location, which is allowed to be missing. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Render.VizType != "" {
		if err := pipeline.ValidateVizType(cfg.Render.VizType); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(cfg.Render.Formats); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(cfg.Server.Formats); err != nil {
		return err
	}
	if cfg.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must not be negative")
	}
	for key, path := range map[string]string{"server.log_file": cfg.Server.LogFile, "cache.dir": cfg.Cache.Dir} {
		if path == "" {
			continue
		}
		if err := errs.ValidatePath(path); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// pipelineOptions converts the file settings into pipeline options.
func (cfg *Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		IncludeSurvivors: cfg.Analysis.IncludeSurvivors,
		MaxMutants:       cfg.Analysis.MaxMutants,
		MaxGroups:        cfg.Analysis.MaxGroups,
		VizType:          cfg.Render.VizType,
		Reduce:           cfg.Render.Reduce,
		Detailed:         cfg.Render.Detailed,
		Formats:          append([]string(nil), cfg.Render.Formats...),
		Scale:            cfg.Render.Scale,
		UnitSize:         cfg.Render.UnitSize,
	}
}

// writeDefaultConfig creates a commented config file at path unless one
// already exists.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigTOML), 0o644)
}

const defaultConfigTOML = `# mutdom configuration. Command-line flags override these values.

[analysis]
# Count mutants that no test killed. They share the empty kill set and
# subsume every other group.
include_survivors = false
# Ceilings on input size; 0 uses the built-in default, negative disables.
max_mutants = 0
max_groups = 0

[render]
viz_type = "layered"  # layered | nodelink
formats = []          # svg, png, pdf, json, dot
scale = 2.0           # PNG scale factor
unit_size = 100.0     # pixels per layout unit in layered drawings
reduce = false        # draw the transitive reduction only
detailed = false      # show kill sets in node labels

[server]
addr = ":8080"
max_upload_bytes = 10485760
result_ttl = "24h"
formats = ["svg", "json", "dot"]
log_file = ""

[cache]
disabled = false
dir = ""              # default: $XDG_CACHE_HOME/mutdom
redis_url = ""        # or MUTDOM_REDIS_URL
prefix = "mutdom"
`

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may not exist yet; skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			if err := writeDefaultConfig(path); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}
