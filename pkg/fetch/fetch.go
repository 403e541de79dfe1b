// Package fetch issues single-page requests against a search endpoint and
// turns JSON responses into flat record batches.
package fetch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newsharvest/pkg/cache"
	"newsharvest/pkg/query"
	"newsharvest/pkg/record"
)

// Prometheus metrics for page fetch operations.
var (
	harvestRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_requests_total",
		Help: "Total page requests by endpoint and status",
	}, []string{"endpoint", "status"})

	harvestRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harvest_request_duration_seconds",
		Help:    "Page request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	harvestPageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_page_errors_total",
		Help: "Total page failures by kind",
	}, []string{"kind"})
)

// PageResult is the outcome of fetching one page. It is produced once per
// fetch and never mutated.
type PageResult struct {
	// Page is the zero-based page index.
	Page int

	// Records is the flat record batch, empty on failure.
	Records []record.Record

	// Total is the reported total-item count, 0 on failure (never guessed).
	Total int

	// RetryAfter carries the service's Retry-After hint from a 429
	// response, 0 otherwise. Advisory; the harvest loop decides.
	RetryAfter time.Duration

	// Err is nil on success.
	Err *Error
}

// OK reports whether the page was fetched and parsed successfully.
func (r *PageResult) OK() bool {
	return r.Err == nil
}

// Config holds the fetcher configuration for one source.
type Config struct {
	// Source is the source name, used for cache keys and logging.
	Source string

	// UserAgent identifies the harvester to the service (required).
	UserAgent string

	// RecordsPath is the dotted path to the result array
	// (e.g. "items" or "articles").
	RecordsPath string

	// TotalPath is the dotted path to the total-item count
	// (e.g. "totalItems" or "totalResults").
	TotalPath string

	// Timeout per HTTP request. Defaults to 30s.
	Timeout time.Duration

	// Cache optionally replays previously fetched pages. Nil disables.
	Cache *cache.Manager

	// CacheTTL is how long successful page bodies stay cached.
	CacheTTL time.Duration
}

// Fetcher fetches single pages from one configured source.
type Fetcher struct {
	http   *resty.Client
	config Config
	logger zerolog.Logger
}

// New creates a fetcher for one source.
func New(cfg Config) (*Fetcher, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.RecordsPath == "" {
		return nil, fmt.Errorf("records path is required")
	}
	if cfg.TotalPath == "" {
		return nil, fmt.Errorf("total path is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	logger := log.With().
		Str("component", "fetcher").
		Str("source", cfg.Source).
		Logger()

	return &Fetcher{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}, nil
}

// FetchPage performs one GET for the given zero-based page and returns the
// parsed result. It makes at most one network call and never retries;
// retry policy belongs to the caller.
func (f *Fetcher) FetchPage(ctx context.Context, q query.Query, page int) *PageResult {
	pq := q.WithPage(page)
	endpoint := pq.Endpoint

	startTime := time.Now()
	defer func() {
		harvestRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Replay a cached page when available
	if f.config.Cache != nil {
		key := f.cacheKey(pq)
		entry, err := f.config.Cache.Get(ctx, key)
		if err == nil {
			f.logger.Debug().
				Int("page", page).
				Msg("Replaying cached page")
			return f.parsePage(entry.Body, page)
		}
		if err != cache.ErrCacheMiss {
			f.logger.Warn().Err(err).Int("page", page).Msg("Cache get error")
		}
	}

	f.logger.Debug().
		Str("endpoint", endpoint).
		Int("page", page).
		Msg("Fetching page")

	res, err := f.http.R().
		SetContext(ctx).
		SetQueryParams(pq.Values()).
		Get(pq.URL())
	if err != nil {
		harvestRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return f.failure(page, &Error{
			Kind:    ErrorKindTransport,
			Message: "request failed",
			Err:     err,
		})
	}

	status := res.StatusCode()
	harvestRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	if status < 200 || status > 299 {
		result := f.failure(page, &Error{
			Kind:       ErrorKindHTTPStatus,
			StatusCode: status,
			Message:    res.Status(),
		})
		if status == 429 {
			result.RetryAfter = parseRetryAfter(res.Header().Get("Retry-After"))
		}
		return result
	}

	result := f.parsePage(res.Body(), page)

	if result.OK() && f.config.Cache != nil {
		if err := f.config.Cache.Put(ctx, f.cacheKey(pq), res.Body(), status, f.config.CacheTTL); err != nil {
			f.logger.Warn().Err(err).Int("page", page).Msg("Failed to cache page")
		}
	}

	return result
}

// parsePage flattens a response body into a record batch and extracts the
// reported total-item count.
func (f *Fetcher) parsePage(body []byte, page int) *PageResult {
	doc, err := record.Parse(body)
	if err != nil {
		return f.failure(page, &Error{
			Kind:    ErrorKindParse,
			Message: "body is not valid JSON",
			Err:     err,
		})
	}

	totalDoc, ok := doc.Lookup(f.config.TotalPath)
	if !ok {
		return f.failure(page, &Error{
			Kind:    ErrorKindSchema,
			Message: ErrMissingTotal.Error(),
			Err:     ErrMissingTotal,
		})
	}
	total, ok := totalDoc.Int()
	if !ok {
		return f.failure(page, &Error{
			Kind:    ErrorKindSchema,
			Message: fmt.Sprintf("total count field %q is not a number", f.config.TotalPath),
		})
	}

	// A missing result array with a valid total means the page is past the
	// end of the result set; that is an empty batch, not a failure.
	var records []record.Record
	if items, ok := doc.Lookup(f.config.RecordsPath); ok {
		records = items.Flatten()
	}

	return &PageResult{
		Page:    page,
		Records: records,
		Total:   total,
	}
}

func (f *Fetcher) failure(page int, ferr *Error) *PageResult {
	harvestPageErrorsTotal.WithLabelValues(string(ferr.Kind)).Inc()

	f.logger.Warn().
		Int("page", page).
		Str("kind", string(ferr.Kind)).
		Int("status", ferr.StatusCode).
		Msg("Page fetch failed")

	return &PageResult{Page: page, Err: ferr}
}

func (f *Fetcher) cacheKey(q query.Query) cache.Key {
	// Credentials stay out of cache keys
	return cache.Key{
		Source:   f.config.Source,
		Endpoint: q.Endpoint,
		Params:   q.Params,
	}
}

// parseRetryAfter interprets a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
