package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// BenchmarkBatch_FetchAll measures the fan-out under different concurrency
// limits against a local server with a small per-request delay.
func BenchmarkBatch_FetchAll(b *testing.B) {
	page := "<html><head><title>ok</title></head><body><main><p>" + strings.Repeat("hello ", 100) + "</p></main></body></html>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/page/%d", ts.URL, i)
	}

	for _, conc := range []int{1, 3, 0} {
		b.Run(fmt.Sprintf("conc=%d", conc), func(b *testing.B) {
			batch := &Batch{
				Getter:      &Client{HTTPClient: ts.Client(), MaxAttempts: 1, PerRequestTimeout: 2 * time.Second},
				Concurrency: conc,
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				pages := batch.FetchAll(context.Background(), urls)
				if len(FilterUsable(pages, 0)) != len(urls) {
					b.Fatalf("expected all pages usable")
				}
			}
		})
	}
}
