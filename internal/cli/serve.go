package cli

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/mutdom/internal/server"
	"github.com/matzehuels/mutdom/pkg/buildinfo"
	"github.com/matzehuels/mutdom/pkg/cache"
	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/observability"
	"github.com/matzehuels/mutdom/pkg/pipeline"
	"github.com/matzehuels/mutdom/pkg/render"
)

// Log rotation defaults for --log-file.
const (
	defaultLogMaxSizeMB  = 50
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 28
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisURL  string
	logFile   string
	maxUpload int64
	formats   string
}

// serveCommand creates the serve command that runs the web service.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web service",
		Long: `Serve starts the HTTP service: an upload form on /, a JSON API on
/analyze, rendered artifacts on /artifacts/{id}.{format} and Prometheus
metrics on /metrics.

Results are cached in Redis when --redis, MUTDOM_REDIS_URL or the config file
names a server, and in the local cache directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := flags.options(cmd, c.Config)
			if err != nil {
				return err
			}
			return c.runServe(cmd, opts, defaults)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the shared cache (env "+envRedisURL+")")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", server.DefaultMaxUploadBytes, "maximum upload size in bytes")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "formats rendered per analysis (default svg,json,dot)")
	flags.registerParse(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts, defaults pipeline.Options) error {
	ctx := cmd.Context()
	fl := cmd.Flags()
	sc := c.Config.Server

	cfg := server.Config{
		Addr:           sc.Addr,
		MaxUploadBytes: sc.MaxUploadBytes,
		ResultTTL:      sc.ResultTTL,
		Formats:        sc.Formats,
		Defaults:       defaults,
	}
	if fl.Changed("addr") || cfg.Addr == "" {
		cfg.Addr = opts.addr
	}
	if fl.Changed("max-upload") || cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = opts.maxUpload
	}
	if fl.Changed("format") {
		cfg.Formats = parseFormats(opts.formats)
	}

	logFile := sc.LogFile
	if fl.Changed("log-file") {
		logFile = opts.logFile
	}
	logger := c.Logger
	if logFile != "" {
		if err := errs.ValidatePath(logFile); err != nil {
			return err
		}
		w := rotatingWriter(logFile, sc)
		defer w.Close()
		logger = newLogger(w, c.Logger.GetLevel())
		logger.SetReportCaller(true)
		printInfo("Logging to %s", logFile)
	}

	runner, err := c.newSharedRunner(ctx, opts.redisURL)
	if err != nil {
		return err
	}
	runner.Logger = logger
	defer runner.Close()

	observability.NewPrometheusHooks(prometheus.DefaultRegisterer).Install()
	defer observability.Reset()

	logger.Info("starting "+appName, "build", buildinfo.String())
	srv, err := server.New(cfg, runner, logger)
	if err != nil {
		return err
	}

	if needsConverter(srv.Formats()) && !render.ConverterAvailable() {
		printWarning("%s not found: layered PNG and PDF artifacts will fail", render.ConverterBinary)
	}
	printSuccess("Listening on %s", StyleHighlight.Render(cfg.Addr))
	printKeyValue("Formats", strings.Join(srv.Formats(), ", "))
	printKeyValue("Cache", cacheKind(runner.Cache))
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx)
}

// rotatingWriter returns a lumberjack writer for path. Zero config values
// fall back to the package defaults.
func rotatingWriter(path string, sc ServerConfig) io.WriteCloser {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    sc.LogMaxSizeMB,
		MaxBackups: sc.LogMaxBackups,
		MaxAge:     sc.LogMaxAgeDays,
		Compress:   sc.LogCompress,
	}
	if w.MaxSize == 0 {
		w.MaxSize = defaultLogMaxSizeMB
	}
	if w.MaxBackups == 0 {
		w.MaxBackups = defaultLogMaxBackups
	}
	if w.MaxAge == 0 {
		w.MaxAge = defaultLogMaxAgeDays
	}
	return w
}

// needsConverter reports whether any format is produced through rsvg-convert.
func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

func cacheKind(c cache.Cache) string {
	switch c := c.(type) {
	case *cache.RedisCache:
		return "redis"
	case *cache.FileCache:
		return c.Dir()
	default:
		return "disabled"
	}
}
