// Package scrape runs the fetch-with-fallback flow and turns the fetched
// page into a single markdown document with frontmatter.
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webustler/internal/classify"
	"github.com/hyperifyio/webustler/internal/fetch"
	"github.com/hyperifyio/webustler/internal/output"
)

// Retry defaults.
const (
	DefaultPrimaryAttempts  = 2
	DefaultFallbackAttempts = 3
	DefaultRetryDelay       = 5 * time.Second
)

// RetriesExhaustedError is returned when every fallback attempt failed.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("failed to scrape URL: %v", e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

// Scraper fetches pages through Primary and falls back to Fallback when the
// primary service is blocked or unavailable. A Scraper holds no per-call
// state and may be shared by concurrent callers.
type Scraper struct {
	Primary  fetch.Fetcher
	Fallback fetch.Fetcher
	Pipeline *Pipeline
	Metrics  *Metrics

	PrimaryAttempts  int
	FallbackAttempts int
	RetryDelay       time.Duration
	// Sleep waits between attempts; it must return early with ctx.Err()
	// when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Scraper with the default retry policy.
func New(primary, fallback fetch.Fetcher) *Scraper {
	return &Scraper{
		Primary:          primary,
		Fallback:         fallback,
		Pipeline:         NewPipeline(),
		PrimaryAttempts:  DefaultPrimaryAttempts,
		FallbackAttempts: DefaultFallbackAttempts,
		RetryDelay:       DefaultRetryDelay,
		Sleep:            sleepContext,
	}
}

type state int

const (
	stateTryPrimary state = iota
	stateCheckBlocked
	stateTryFallback
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateTryPrimary:
		return "try_primary"
	case stateCheckBlocked:
		return "check_blocked"
	case stateTryFallback:
		return "try_fallback"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// run is the mutable state of one Scrape call.
type run struct {
	target           string
	state            state
	primaryAttempts  int
	fallbackAttempts int
	primaryBody      string
	result           string
	outcome          string
	lastErr          error
	// aborted is set when ctx ended; it is returned as is.
	aborted error
}

// Scrape returns the document for target: the primary service's markdown
// verbatim, a file notice for binary content, or the markdown rendered from
// the fallback service's HTML. Only exhausting the fallback is an error.
func (s *Scraper) Scrape(ctx context.Context, target string) (string, error) {
	logger := log.With().Str("scrape_id", uuid.NewString()).Str("url", target).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	r := &run{target: target, state: stateTryPrimary}
	for r.state != stateDone && r.state != stateFailed {
		if err := ctx.Err(); err != nil {
			r.aborted = err
			r.state = stateFailed
			break
		}
		from := r.state
		r.state = s.step(ctx, r)
		logger.Debug().Stringer("from", from).Stringer("to", r.state).Msg("scrape transition")
	}

	if r.state == stateDone {
		s.Metrics.finish(r.outcome, time.Since(start).Seconds())
		logger.Info().Str("outcome", r.outcome).Dur("took", time.Since(start)).Msg("scrape finished")
		return r.result, nil
	}
	s.Metrics.finish(OutcomeFailed, time.Since(start).Seconds())
	if r.aborted == nil {
		r.aborted = ctx.Err()
	}
	if r.aborted != nil {
		logger.Warn().Err(r.aborted).Msg("scrape aborted")
		return "", r.aborted
	}
	err := &RetriesExhaustedError{Attempts: r.fallbackAttempts, Last: r.lastErr}
	logger.Error().Err(err).Int("attempts", r.fallbackAttempts).Msg("scrape failed")
	return "", err
}

func (s *Scraper) step(ctx context.Context, r *run) state {
	logger := zerolog.Ctx(ctx)
	switch r.state {
	case stateTryPrimary:
		r.primaryAttempts++
		res, err := s.Primary.Fetch(ctx, r.target)
		s.Metrics.attempt("primary", err)
		if err == nil {
			r.primaryBody = res.Body
			return stateCheckBlocked
		}
		logger.Debug().Err(err).Int("attempt", r.primaryAttempts).Msg("primary fetch failed")
		if r.primaryAttempts >= s.primaryAttempts() {
			return stateTryFallback
		}
		return s.pause(ctx, r, stateTryPrimary)

	case stateCheckBlocked:
		if IsBlocked(r.primaryBody) {
			s.Metrics.blocked()
			logger.Info().Msg("primary response blocked; using fallback")
			return stateTryFallback
		}
		r.result, r.outcome = r.primaryBody, OutcomePrimary
		return stateDone

	case stateTryFallback:
		r.fallbackAttempts++
		doc, outcome, err := s.fallbackOnce(ctx, r.target)
		s.Metrics.attempt("fallback", err)
		if err == nil {
			r.result, r.outcome = doc, outcome
			return stateDone
		}
		r.lastErr = err
		logger.Warn().Err(err).Int("attempt", r.fallbackAttempts).Msg("fallback attempt failed")
		if r.fallbackAttempts >= s.fallbackAttempts() {
			return stateFailed
		}
		return s.pause(ctx, r, stateTryFallback)
	}
	return stateFailed
}

// pause sleeps RetryDelay and then moves to next, or fails when ctx ends.
func (s *Scraper) pause(ctx context.Context, r *run, next state) state {
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	if err := sleep(ctx, s.RetryDelay); err != nil {
		r.aborted = err
		return stateFailed
	}
	return next
}

func (s *Scraper) fallbackOnce(ctx context.Context, target string) (string, string, error) {
	res, err := s.Fallback.Fetch(ctx, target)
	if err != nil {
		return "", "", err
	}
	if c := classify.Classify(res.Body); c.IsBinary {
		zerolog.Ctx(ctx).Info().Str("file_type", c.FileType).Msg("binary content detected")
		return output.FileNotice(target, c.FileType), OutcomeFile, nil
	}
	pipeline := s.Pipeline
	if pipeline == nil {
		pipeline = NewPipeline()
	}
	doc, err := pipeline.Render(res.Body, target, res.StatusCode)
	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", target, err)
	}
	return doc, OutcomeFallback, nil
}

func (s *Scraper) primaryAttempts() int {
	if s.PrimaryAttempts <= 0 {
		return 1
	}
	return s.PrimaryAttempts
}

func (s *Scraper) fallbackAttempts() int {
	if s.FallbackAttempts <= 0 {
		return 1
	}
	return s.FallbackAttempts
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
