package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webustler/internal/app"
	"github.com/hyperifyio/webustler/internal/mcpserver"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		envFiles    string
		primaryURL  string
		fallbackURL string
		userAgent   string
		timeout     time.Duration
		outputPath  string
		outputDir   string
		concurrency int
		serveMCP    bool
		metricsAddr string
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("WEBUSTLER_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load (missing files are skipped)")
	flag.StringVar(&primaryURL, "primary.url", "", "Reader service base URL the target URL is appended to (default "+`"https://r.jina.ai/"`+")")
	flag.StringVar(&fallbackURL, "fallback.url", "", "Browser-automation fallback endpoint (default "+`"http://localhost:8191/v1"`+")")
	flag.StringVar(&userAgent, "ua", "", "User-Agent for service requests")
	flag.DurationVar(&timeout, "timeout", 0, "Per-request timeout (default 2m0s, env TIMEOUT in seconds)")
	flag.StringVar(&outputPath, "output", "", "Write the document to this file (single URL only)")
	flag.StringVar(&outputDir, "output.dir", "", "Write one document per URL into this directory")
	flag.IntVar(&concurrency, "concurrency", 0, "Maximum URLs scraped at once (default 4)")
	flag.BoolVar(&serveMCP, "mcp", false, "Serve the scrape tool over MCP on stdin/stdout")
	flag.StringVar(&metricsAddr, "metrics.addr", "", "Expose Prometheus metrics on this address, e.g. :9102")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] URL...\n       %s -mcp [flags]\n\nFlags:\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("webustler %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		log.Fatal().Err(err).Msg("load env files")
	}

	cfg := app.Config{
		PrimaryURL:  primaryURL,
		FallbackURL: fallbackURL,
		UserAgent:   userAgent,
		Timeout:     timeout,
		OutputPath:  outputPath,
		OutputDir:   outputDir,
		MCP:         serveMCP,
		MetricsAddr: metricsAddr,
		Concurrency: concurrency,
		Verbose:     verbose,
	}
	// Precedence: flags, then env, then config file.
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg, flag.Args()); err != nil {
		if errors.Is(err, app.ErrNoURLs) {
			flag.Usage()
			os.Exit(2)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config, urls []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(a),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.MCP {
		if len(urls) > 0 {
			log.Warn().Int("count", len(urls)).Msg("URL arguments are ignored in MCP mode")
		}
		return mcpserver.ServeStdio(ctx, mcpserver.New(a.Scraper(), app.BuildVersion))
	}
	return a.Run(ctx, urls)
}

func metricsMux(a *app.App) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry(), promhttp.HandlerOpts{}))
	return mux
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
