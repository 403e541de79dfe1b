package cache

import "time"

// Entry is a cached page response.
type Entry struct {
	// Body is the raw JSON response body.
	Body []byte `json:"body"`

	// StatusCode is the HTTP status of the original response.
	StatusCode int `json:"status_code"`

	// FetchedAt is when the page was fetched from the service.
	FetchedAt time.Time `json:"fetched_at"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the entry has passed its expiry time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
