package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies one cached page response.
type Key struct {
	// Source is the configured source name (e.g. "chronam").
	Source string

	// Endpoint is the resource path the page was fetched from.
	Endpoint string

	// Params are the full query parameters of the page request, including
	// the page parameter. Credentials must not be included.
	Params map[string]string
}

// String generates a deterministic cache key string.
// Format: harvest:source:endpoint:param1=val1:param2=val2
//
// Example:
//
//	harvest:chronam:search/pages/results:andtext=mining:format=json:page=3
func (k Key) String() string {
	parts := []string{"harvest", k.Source}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted for determinism
	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
		}
	}

	return strings.Join(parts, ":")
}
