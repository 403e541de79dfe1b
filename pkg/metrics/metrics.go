// Package metrics provides centralized Prometheus metrics registry for the
// harvester. All metrics are defined in their respective packages (fetch,
// cache, ratelimit) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the harvester.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/fetch):
//   - harvest_requests_total{endpoint, status} (Counter): Page requests by endpoint and HTTP status
//   - harvest_request_duration_seconds{endpoint} (Histogram): Page request duration by endpoint
//   - harvest_page_errors_total{kind} (Counter): Page failures by kind
//     (transport, http_status, parse, schema)
//
// Pacing Metrics (pkg/ratelimit):
//   - harvest_rate_limit_waits_total (Counter): Inter-request pauses taken
//   - harvest_rate_limit_wait_seconds (Histogram): Pause durations
//   - harvest_rate_limit_backoffs_total (Counter): Waits stretched by Retry-After hints
//
// Cache Metrics (pkg/cache):
//   - harvest_cache_hits_total (Counter): Replayed pages
//   - harvest_cache_misses_total (Counter): Pages fetched from the service
//   - harvest_cache_size_bytes (Gauge): Bytes written to the page cache
//   - harvest_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(harvest_cache_hits_total[5m])) /
//   (sum(rate(harvest_cache_hits_total[5m])) + sum(rate(harvest_cache_misses_total[5m])))
//
//   # Page Failure Rate
//   rate(harvest_page_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(harvest_request_duration_seconds_bucket[5m]))
