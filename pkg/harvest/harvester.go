package harvest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"newsharvest/pkg/fetch"
	"newsharvest/pkg/query"
	"newsharvest/pkg/ratelimit"
	"newsharvest/pkg/record"
)

// PageFetcher is the interface the harvester needs for single-page fetching.
type PageFetcher interface {
	// FetchPage fetches one zero-based page of the query.
	FetchPage(ctx context.Context, q query.Query, page int) *fetch.PageResult
}

// Pacer spaces out consecutive page requests.
type Pacer interface {
	// Wait blocks for the inter-request pause or until ctx is cancelled.
	Wait(ctx context.Context) error

	// Backoff stretches the next wait by a service-provided hint.
	Backoff(hint time.Duration)
}

// Outcome is the terminal state of a harvest run.
type Outcome string

const (
	// OutcomeSuccess means every attempted page succeeded.
	OutcomeSuccess Outcome = "success"

	// OutcomePartial means page 0 succeeded but later pages failed or the
	// run was cancelled before completing.
	OutcomePartial Outcome = "partial"

	// OutcomeFailure means page 0 failed; there is no data to anchor
	// pagination, so nothing was gathered.
	OutcomeFailure Outcome = "failure"
)

// PageFailure records one unsuccessful page.
type PageFailure struct {
	Page int
	Err  *fetch.Error
}

// Result is the outcome of a full harvest run. Records are ordered by page,
// then by in-page position; no reordering ever happens.
type Result struct {
	Records        []record.Record
	Total          int // reported total-item count from page 0
	PagesAttempted int
	PagesSucceeded int
	Failures       []PageFailure
	Cancelled      bool
	Outcome        Outcome
}

// Config holds harvester configuration.
type Config struct {
	// Delay is the fixed pause between consecutive page requests.
	Delay time.Duration

	// MaxPages caps the number of pages attempted. 0 means no cap: the
	// run goes to completion, which for large result sets can take the
	// better part of an hour at typical delays.
	MaxPages int

	// Pacer overrides the default fixed-delay limiter. Nil uses
	// ratelimit.NewLimiter(Delay).
	Pacer Pacer
}

// Harvester retrieves all pages of a query, one request at a time.
type Harvester struct {
	fetcher PageFetcher
	config  Config
}

// New creates a harvester on top of a page fetcher.
func New(fetcher PageFetcher, config Config) *Harvester {
	return &Harvester{
		fetcher: fetcher,
		config:  config,
	}
}

// PageCount returns the number of pages needed for total items at the given
// page size: ceil(total/pageSize), and never less than 1 because page 0 is
// always attempted.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Harvest retrieves every page of the query sequentially and returns the
// combined table. Errors are attached to the result, never swallowed.
func (h *Harvester) Harvest(ctx context.Context, q query.Query) *Result {
	start := time.Now()
	logger := log.With().Str("component", "harvester").Logger()

	pacer := h.config.Pacer
	if pacer == nil {
		pacer = ratelimit.NewLimiter(h.config.Delay, logger)
	}

	// Page 0 anchors the run: fail fast if it fails.
	first := h.fetcher.FetchPage(ctx, q, 0)
	if !first.OK() {
		logger.Warn().
			Err(first.Err).
			Msg("Page 0 failed - aborting harvest")

		return &Result{
			PagesAttempted: 1,
			Failures:       []PageFailure{{Page: 0, Err: first.Err}},
			Outcome:        OutcomeFailure,
		}
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		// Fall back to the observed page size
		pageSize = len(first.Records)
	}

	// Computed once from page 0's reported total, held fixed for the run.
	pages := PageCount(first.Total, pageSize)
	if h.config.MaxPages > 0 && pages > h.config.MaxPages {
		logger.Info().
			Int("pages", pages).
			Int("max_pages", h.config.MaxPages).
			Msg("Clamping harvest to page cap")
		pages = h.config.MaxPages
	}

	logger.Info().
		Str("endpoint", q.Endpoint).
		Int("total_items", first.Total).
		Int("total_pages", pages).
		Dur("delay", h.config.Delay).
		Msg("Starting harvest")

	result := &Result{
		Records:        append([]record.Record(nil), first.Records...),
		Total:          first.Total,
		PagesAttempted: pages,
		PagesSucceeded: 1,
	}

	for page := 1; page < pages; page++ {
		// The pause is the only cancellation boundary: an in-flight fetch
		// always runs to completion.
		if err := pacer.Wait(ctx); err != nil {
			logger.Warn().
				Err(err).
				Int("next_page", page).
				Int("fetched", result.PagesSucceeded).
				Msg("Harvest cancelled between pages")

			result.Cancelled = true
			result.Outcome = OutcomePartial
			return result
		}

		res := h.fetcher.FetchPage(ctx, q, page)
		if !res.OK() {
			logger.Warn().
				Err(res.Err).
				Int("page", page).
				Msg("Page fetch failed - skipping")

			result.Failures = append(result.Failures, PageFailure{Page: page, Err: res.Err})
			if res.RetryAfter > 0 {
				pacer.Backoff(res.RetryAfter)
			}
			continue
		}

		result.Records = append(result.Records, res.Records...)
		result.PagesSucceeded++

		// Progress logging every 50 pages
		if result.PagesSucceeded%50 == 0 {
			logger.Info().
				Int("fetched", result.PagesSucceeded).
				Int("total", pages).
				Float64("progress_pct", float64(result.PagesSucceeded)/float64(pages)*100).
				Msg("Harvest progress")
		}
	}

	result.Outcome = OutcomeSuccess
	if len(result.Failures) > 0 {
		result.Outcome = OutcomePartial
	}

	logger.Info().
		Int("pages", result.PagesSucceeded).
		Int("total", pages).
		Int("records", len(result.Records)).
		Dur("duration", time.Since(start)).
		Msg("Harvest complete")

	return result
}
