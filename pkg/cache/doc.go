// Package cache provides a Redis-backed store for raw page responses.
//
// A full harvest of a large result set can take the better part of an hour
// at one request per delay interval. Caching successful page bodies lets a
// re-run of the same query replay pages instead of re-fetching them.
//
// Keys are derived deterministically from the source name and the full
// query parameter set (including the page parameter), so any change to the
// search term, page size or page index produces a distinct entry.
package cache
