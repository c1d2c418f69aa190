package serp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/search"
)

// Provider is a search.Provider that scrapes a public engine's result page.
type Provider struct {
	Engine Engine
	Getter fetch.Getter
	// Links defaults to the regex strategy backed by the DOM strategy.
	Links   LinkExtractor
	Metrics *metrics.Metrics
}

// DefaultLinks is the extraction chain used when Provider.Links is nil.
var DefaultLinks LinkExtractor = Chain{RegexExtractor{}, DOMExtractor{}}

func (p *Provider) Name() string { return p.Engine.String() }

// Search fetches the result page for query and returns up to limit results.
// A page yielding no links returns search.ErrNoResults.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	page, err := p.Page(ctx, query)
	if err != nil {
		return nil, err
	}
	links := p.ExtractLinks(page)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Engine, search.ErrNoResults)
	}
	results := Summarize(page, links)
	for i := range results {
		results[i].Source = p.Name()
	}
	return results, nil
}

// Page fetches the raw result page for query.
func (p *Provider) Page(ctx context.Context, query string) (string, error) {
	u := BuildURL(query, p.Engine)
	log.Debug().Str("engine", p.Name()).Str("url", u).Msg("fetching result page")
	body, _, err := p.Getter.Get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("fetch %s results: %w", p.Engine, err)
	}
	return string(body), nil
}

// ExtractLinks runs the configured extractor over page and records the
// link count. Zero links usually means the engine changed its markup.
func (p *Provider) ExtractLinks(page string) []string {
	ex := p.Links
	if ex == nil {
		ex = DefaultLinks
	}
	links := ex.ExtractLinks(page, p.Engine)
	p.Metrics.SERPLinks(p.Name(), len(links))
	if len(links) == 0 {
		log.Warn().Str("engine", p.Name()).Int("page_bytes", len(page)).Msg("no links extracted from result page")
	}
	return links
}
