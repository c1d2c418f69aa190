package search

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name    string
	results []Result
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(context.Context, string, int) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func TestFallback_UsesFirstProviderWithResults(t *testing.T) {
	google := &stubProvider{name: "google", err: errors.New("blocked")}
	ddg := &stubProvider{name: "duckduckgo", results: []Result{{Title: "t", URL: "https://x.test"}}}
	never := &stubProvider{name: "bing"}

	f := &Fallback{Providers: []Provider{google, ddg, never}}
	got, err := f.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || never.calls != 0 {
		t.Fatalf("expected to stop at second provider; got %d results, bing calls %d", len(got), never.calls)
	}
}

func TestFallback_AllFailJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &Fallback{Providers: []Provider{
		&stubProvider{name: "a", err: boom},
		&stubProvider{name: "b"},
	}}
	_, err := f.Search(context.Background(), "q", 3)
	if !errors.Is(err, boom) || !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected joined errors, got %v", err)
	}
}
