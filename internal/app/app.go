// Package app wires configuration to the scraper and runs batches of URLs.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/webustler/internal/fetch"
	"github.com/hyperifyio/webustler/internal/scrape"
)

// ErrNoURLs is returned by Run when there is nothing to scrape.
var ErrNoURLs = errors.New("no URLs given")

type App struct {
	cfg      Config
	scraper  *scrape.Scraper
	registry *prometheus.Registry
	stdout   io.Writer
}

// New builds the two fetchers and the scraper from cfg. Zero values in cfg
// fall back to the package defaults.
func New(cfg Config) (*App, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	httpClient := newServiceHTTPClient()
	primary := fetch.NewPrimary(cfg.PrimaryURL, cfg.Timeout)
	primary.HTTPClient = httpClient
	primary.UserAgent = cfg.UserAgent
	fallback := fetch.NewFallback(cfg.FallbackURL, cfg.Timeout)
	fallback.HTTPClient = httpClient
	fallback.UserAgent = cfg.UserAgent

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := scrape.New(primary, fallback)
	s.Metrics = scrape.NewMetrics(reg)

	log.Debug().
		Str("primary", primary.BaseURL).
		Str("fallback", fallback.Endpoint).
		Dur("timeout", cfg.Timeout).
		Msg("scraper configured")
	return &App{cfg: cfg, scraper: s, registry: reg, stdout: os.Stdout}, nil
}

// Config returns the effective configuration after defaults.
func (a *App) Config() Config { return a.cfg }

// Scraper returns the scraper shared by the CLI and the MCP server.
func (a *App) Scraper() *scrape.Scraper { return a.scraper }

// Registry returns the registry holding the scrape metrics.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// Page is the outcome of scraping one URL.
type Page struct {
	URL      string
	Document string
	Err      error
}

// ScrapeAll scrapes urls with at most Concurrency calls in flight. A failed
// URL does not stop the others; results keep the input order.
func (a *App) ScrapeAll(ctx context.Context, urls []string) []Page {
	pages := make([]Page, len(urls))
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			doc, err := a.scraper.Scrape(ctx, u)
			pages[i] = Page{URL: u, Document: doc, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

// Run scrapes urls and delivers the documents: to OutputPath for a single
// URL, to one file per URL under OutputDir, or to stdout separated by a blank
// line. The returned error joins the per-URL failures.
func (a *App) Run(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return ErrNoURLs
	}
	if a.cfg.OutputPath != "" && len(urls) > 1 {
		return fmt.Errorf("output path %q needs exactly one URL, got %d", a.cfg.OutputPath, len(urls))
	}

	pages := a.ScrapeAll(ctx, urls)
	var errs []error
	var stdout []string
	for _, p := range pages {
		if p.Err != nil {
			log.Error().Err(p.Err).Str("url", p.URL).Msg("scrape failed")
			errs = append(errs, fmt.Errorf("%s: %w", p.URL, p.Err))
			continue
		}
		switch {
		case a.cfg.OutputPath != "":
			if err := writeDocument(a.cfg.OutputPath, p.Document); err != nil {
				errs = append(errs, err)
				continue
			}
			log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
		case a.cfg.OutputDir != "":
			path := documentPath(a.cfg.OutputDir, p.URL)
			if err := writeDocument(path, p.Document); err != nil {
				errs = append(errs, err)
				continue
			}
			log.Info().Str("url", p.URL).Str("out", path).Msg("wrote output")
		default:
			stdout = append(stdout, p.Document)
		}
	}
	if len(stdout) > 0 {
		if _, err := fmt.Fprintln(a.stdout, strings.Join(stdout, "\n\n")); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeDocument(path, doc string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
