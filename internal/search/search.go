package search

import (
	"context"
	"errors"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source,omitempty"` // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// ErrNoResults signals that a provider worked but found nothing usable. It
// is not fatal: callers degrade to answering without web context.
var ErrNoResults = errors.New("no search results")
