// Package query assembles paged search requests. A Query is a cheap
// immutable value; each page of a harvest derives its own copy with only
// the page parameter overridden.
package query

import (
	"strconv"
	"strings"
)

// Default query parameter names. Sources override them as needed.
const (
	DefaultPageParam   = "page"
	DefaultAPIKeyParam = "api-key"
)

// Query describes one GET against a search endpoint. It carries no
// encoding policy: percent-encoding happens in the HTTP layer when the
// request is actually sent.
type Query struct {
	// Base is the service authority, e.g. "https://chroniclingamerica.loc.gov".
	Base string

	// Endpoint is the resource path, with or without a leading slash.
	Endpoint string

	// Params are the query parameters for this page, including the page
	// parameter itself once WithPage has been applied.
	Params map[string]string

	// PageParam is the parameter name carrying the page index.
	// Empty means DefaultPageParam.
	PageParam string

	// PageBase is the index of the first page as the service counts it
	// (0 for zero-based services, 1 for one-based ones).
	PageBase int

	// APIKey is the opaque credential, empty for public services. It is
	// threaded in explicitly by the caller, never read from the process
	// environment here.
	APIKey string

	// APIKeyParam is the parameter name carrying APIKey.
	// Empty means DefaultAPIKeyParam.
	APIKeyParam string

	// PageSize is the number of records per page.
	PageSize int
}

// Build composes a Query from a base address, an endpoint path and a
// parameter set, positioned at the given page. The input map is copied;
// only the page parameter is overwritten.
func Build(base, endpoint string, params map[string]string, page int) Query {
	q := Query{
		Base:     base,
		Endpoint: endpoint,
		Params:   params,
	}
	return q.WithPage(page)
}

// WithPage derives a copy of the query positioned at the given zero-based
// page index. The service-visible value is PageBase + page.
func (q Query) WithPage(page int) Query {
	params := make(map[string]string, len(q.Params)+1)
	for k, v := range q.Params {
		params[k] = v
	}
	params[q.pageParam()] = strconv.Itoa(q.PageBase + page)

	q.Params = params
	return q
}

// URL joins base and endpoint into the request locator.
func (q Query) URL() string {
	return strings.TrimRight(q.Base, "/") + "/" + strings.TrimLeft(q.Endpoint, "/")
}

// Values returns the full parameter set for sending, including the
// credential parameter when an API key is present.
func (q Query) Values() map[string]string {
	params := make(map[string]string, len(q.Params)+1)
	for k, v := range q.Params {
		params[k] = v
	}
	if q.APIKey != "" {
		params[q.apiKeyParam()] = q.APIKey
	}
	return params
}

func (q Query) pageParam() string {
	if q.PageParam == "" {
		return DefaultPageParam
	}
	return q.PageParam
}

func (q Query) apiKeyParam() string {
	if q.APIKeyParam == "" {
		return DefaultAPIKeyParam
	}
	return q.APIKeyParam
}
