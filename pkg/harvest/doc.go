// Package harvest drives sequential paged retrieval of a full result set.
//
// Public search APIs rate-limit aggressively, so the harvester issues
// exactly one request at a time with a fixed pause between pages. Page 0
// anchors the run: its reported total-item count fixes the page count for
// the remainder of the harvest and is never re-checked.
//
// Example usage:
//
//	fetcher, _ := fetch.New(fetch.Config{
//		Source:      "chronam",
//		UserAgent:   "newsharvest/0.1.0 (you@example.com)",
//		RecordsPath: "items",
//		TotalPath:   "totalItems",
//	})
//	h := harvest.New(fetcher, harvest.Config{Delay: 3 * time.Second})
//	result := h.Harvest(ctx, query.Query{
//		Base:     "https://chroniclingamerica.loc.gov",
//		Endpoint: "/search/pages/results/",
//		Params:   map[string]string{"andtext": "gold rush", "format": "json"},
//		PageSize: 20,
//	})
//
// The harvester:
//   - Fetches page 0 to determine the total page count (fail fast if it fails)
//   - Pauses for the configured delay before every later page
//   - Skips failed later pages and keeps going, recording each failure
//   - Concatenates records in page order, then in-page order
//   - Stops at the pause boundary when the context is cancelled
package harvest
