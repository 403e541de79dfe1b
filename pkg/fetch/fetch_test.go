package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsharvest/internal/testutil"
	"newsharvest/pkg/query"
)

func newTestFetcher(t *testing.T, cfg Config) *Fetcher {
	t.Helper()

	if cfg.UserAgent == "" {
		cfg.UserAgent = "newsharvest-test/0.1.0"
	}
	if cfg.RecordsPath == "" {
		cfg.RecordsPath = "items"
	}
	if cfg.TotalPath == "" {
		cfg.TotalPath = "totalItems"
	}

	f, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return f
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: Config{
				UserAgent:   "newsharvest/0.1.0 (test@example.com)",
				RecordsPath: "items",
				TotalPath:   "totalItems",
			},
			expectError: false,
		},
		{
			name: "empty user agent",
			config: Config{
				RecordsPath: "items",
				TotalPath:   "totalItems",
			},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
		{
			name: "missing records path",
			config: Config{
				UserAgent: "newsharvest/0.1.0",
				TotalPath: "totalItems",
			},
			expectError: true,
			errorMsg:    "records path is required",
		},
		{
			name: "missing total path",
			config: Config{
				UserAgent:   "newsharvest/0.1.0",
				RecordsPath: "items",
			},
			expectError: true,
			errorMsg:    "total path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if f == nil {
				t.Fatal("Expected fetcher, got nil")
			}
		})
	}
}

func TestFetchPage_Success(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.ServePaged("/search/pages/results/", testutil.PagedFixture{
		PageSize: 2,
		Items: []string{
			`{"title":"gold strike","paper":{"state":"Nevada"}}`,
			`{"title":"rail opens","paper":{"state":"Utah"}}`,
			`{"title":"flood","paper":{"state":"Ohio"}}`,
		},
	})

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{
		Base:     mock.URL(),
		Endpoint: "/search/pages/results/",
		Params:   map[string]string{"format": "json"},
		PageSize: 2,
	}

	result := f.FetchPage(context.Background(), q, 0)
	if !result.OK() {
		t.Fatalf("FetchPage() failed: %v", result.Err)
	}

	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}

	// Nested object collapsed into a dotted field
	state, ok := result.Records[0].Get("paper.state")
	if !ok || state.Text != "Nevada" {
		t.Errorf("paper.state = %v, %v; want Nevada", state, ok)
	}
}

func TestFetchPage_SendsQueryParams(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.ServePaged("/v2/everything", testutil.PagedFixture{
		TotalField: "totalResults",
		ItemsField: "articles",
		PageBase:   1,
		PageSize:   20,
		Items:      testutil.SentinelItems(5),
	})

	f := newTestFetcher(t, Config{
		Source:      "newsapi",
		RecordsPath: "articles",
		TotalPath:   "totalResults",
	})
	q := query.Query{
		Base:        mock.URL(),
		Endpoint:    "/v2/everything",
		Params:      map[string]string{"q": "bitcoin"},
		PageBase:    1,
		APIKey:      "secret-token",
		APIKeyParam: "apiKey",
	}

	result := f.FetchPage(context.Background(), q, 0)
	if !result.OK() {
		t.Fatalf("FetchPage() failed: %v", result.Err)
	}

	if got := mock.LastQuery["q"]; got != "bitcoin" {
		t.Errorf("q param = %q, want %q", got, "bitcoin")
	}
	if got := mock.LastQuery["apiKey"]; got != "secret-token" {
		t.Errorf("apiKey param = %q, want %q", got, "secret-token")
	}
	// Zero-based page 0 on a one-based service
	if got := mock.LastQuery["page"]; got != "1" {
		t.Errorf("page param = %q, want %q", got, "1")
	}
}

func TestFetchPage_HTTPStatusError(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{Base: mock.URL(), Endpoint: "/missing/"}

	result := f.FetchPage(context.Background(), q, 0)
	if result.OK() {
		t.Fatal("FetchPage() should fail on 404")
	}

	if result.Err.Kind != ErrorKindHTTPStatus {
		t.Errorf("Kind = %q, want %q", result.Err.Kind, ErrorKindHTTPStatus)
	}
	if result.Err.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", result.Err.StatusCode)
	}
	// Failures never guess
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
	if len(result.Records) != 0 {
		t.Errorf("Records = %d, want 0", len(result.Records))
	}
}

func TestFetchPage_RetryAfterHint(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.SetResponse("/v2/everything", testutil.MockResponse{
		StatusCode: 429,
		Body:       `{"error":"rate limit exceeded"}`,
		Headers:    map[string]string{"Retry-After": "7"},
	})

	f := newTestFetcher(t, Config{Source: "newsapi"})
	q := query.Query{Base: mock.URL(), Endpoint: "/v2/everything"}

	result := f.FetchPage(context.Background(), q, 3)
	if result.OK() {
		t.Fatal("FetchPage() should fail on 429")
	}

	if result.Err.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", result.Err.StatusCode)
	}
	if result.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", result.RetryAfter)
	}
}

func TestFetchPage_ParseError(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.SetResponse("/search/pages/results/", testutil.MockResponse{
		StatusCode: 200,
		Body:       `<html>not json</html>`,
	})

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{Base: mock.URL(), Endpoint: "/search/pages/results/"}

	result := f.FetchPage(context.Background(), q, 0)
	if result.OK() {
		t.Fatal("FetchPage() should fail on invalid JSON")
	}
	if result.Err.Kind != ErrorKindParse {
		t.Errorf("Kind = %q, want %q", result.Err.Kind, ErrorKindParse)
	}
}

func TestFetchPage_MissingTotal(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	// Valid JSON, but no total-count field: failure, never a silent zero
	mock.SetResponse("/search/pages/results/", testutil.MockResponse{
		StatusCode: 200,
		Body:       `{"items":[{"title":"x"}]}`,
	})

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{Base: mock.URL(), Endpoint: "/search/pages/results/"}

	result := f.FetchPage(context.Background(), q, 0)
	if result.OK() {
		t.Fatal("FetchPage() should fail without total count field")
	}
	if result.Err.Kind != ErrorKindSchema {
		t.Errorf("Kind = %q, want %q", result.Err.Kind, ErrorKindSchema)
	}
	if !errors.Is(result.Err, ErrMissingTotal) {
		t.Error("error should wrap ErrMissingTotal")
	}
}

func TestFetchPage_MissingRecordsPathIsEmptyBatch(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.SetResponse("/search/pages/results/", testutil.MockResponse{
		StatusCode: 200,
		Body:       `{"totalItems":45}`,
	})

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{Base: mock.URL(), Endpoint: "/search/pages/results/"}

	result := f.FetchPage(context.Background(), q, 2)
	if !result.OK() {
		t.Fatalf("FetchPage() failed: %v", result.Err)
	}
	if result.Total != 45 {
		t.Errorf("Total = %d, want 45", result.Total)
	}
	if len(result.Records) != 0 {
		t.Errorf("Records = %d, want 0", len(result.Records))
	}
}

func TestFetchPage_TransportError(t *testing.T) {
	f := newTestFetcher(t, Config{Source: "chronam", Timeout: time.Second})

	// Nothing listens here
	q := query.Query{Base: "http://127.0.0.1:1", Endpoint: "/search/"}

	result := f.FetchPage(context.Background(), q, 0)
	if result.OK() {
		t.Fatal("FetchPage() should fail when the service is unreachable")
	}
	if result.Err.Kind != ErrorKindTransport {
		t.Errorf("Kind = %q, want %q", result.Err.Kind, ErrorKindTransport)
	}
}

func TestFetchPage_SingleCall(t *testing.T) {
	mock := testutil.NewMockSearchAPI()
	defer mock.Close()

	mock.SetResponse("/search/", testutil.MockResponse{
		StatusCode: 500,
		Body:       `{"error":"boom"}`,
	})

	f := newTestFetcher(t, Config{Source: "chronam"})
	q := query.Query{Base: mock.URL(), Endpoint: "/search/"}

	f.FetchPage(context.Background(), q, 0)

	// No internal retry: exactly one network call per invocation
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}
}
