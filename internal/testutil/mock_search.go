// Package testutil provides testing utilities for the harvester.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock search endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// PagedFixture configures a paged search endpoint backed by a fixed set of
// result items.
type PagedFixture struct {
	// TotalField is the JSON field carrying the total-item count.
	TotalField string

	// ItemsField is the JSON field carrying the result array.
	ItemsField string

	// PageParam is the query parameter carrying the page index.
	PageParam string

	// PageBase is the index of the first page as served (0 or 1).
	PageBase int

	// PageSize is the number of items per page.
	PageSize int

	// Items are raw JSON objects, one per record, in result order.
	Items []string

	// FailPages maps zero-based page indexes to HTTP status codes that
	// should be returned instead of data.
	FailPages map[int]int
}

// MockSearchAPI is a configurable mock search service for testing.
type MockSearchAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount   int
	RequestedPages []int
	LastQuery      map[string]string
}

// NewMockSearchAPI creates a new mock search service.
func NewMockSearchAPI() *MockSearchAPI {
	mock := &MockSearchAPI{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = map[string]string{}
		for name := range r.URL.Query() {
			mock.LastQuery[name] = r.URL.Query().Get(name)
		}
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			mock.RequestedPages = append(mock.RequestedPages, page)
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockSearchAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSearchAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockSearchAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestedPages = nil
	m.LastQuery = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSearchAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Pages returns the page parameter values observed, in request order.
func (m *MockSearchAPI) Pages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.RequestedPages...)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockSearchAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockSearchAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ServePaged installs a paged search handler backed by the fixture.
func (m *MockSearchAPI) ServePaged(path string, fx PagedFixture) {
	if fx.TotalField == "" {
		fx.TotalField = "totalItems"
	}
	if fx.ItemsField == "" {
		fx.ItemsField = "items"
	}
	if fx.PageParam == "" {
		fx.PageParam = "page"
	}
	if fx.PageSize <= 0 {
		fx.PageSize = 20
	}

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get(fx.PageParam)
		served, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":"bad page %q"}`, raw), http.StatusBadRequest)
			return
		}
		page := served - fx.PageBase

		if status, ok := fx.FailPages[page]; ok {
			http.Error(w, `{"error":"injected failure"}`, status)
			return
		}

		start := page * fx.PageSize
		end := start + fx.PageSize
		if start < 0 || start > len(fx.Items) {
			start, end = 0, 0
		}
		if end > len(fx.Items) {
			end = len(fx.Items)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"%s":%d,"%s":[%s]}`,
			fx.TotalField, len(fx.Items),
			fx.ItemsField, strings.Join(fx.Items[start:end], ","))
	})
}

// SentinelItems generates n distinguishable JSON records for order checks.
func SentinelItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":%d,"title":"record-%d"}`, i, i)
	}
	return items
}
