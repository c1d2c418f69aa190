package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// Source is a cited page; ID is its citation label such as "S1".
type Source struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Answer is the outcome of SearchAndRead or Research.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	// Engine is the engine whose results backed the answer; empty when
	// Research fell back to plain chat.
	Engine string `json:"engine,omitempty"`
	Notice string `json:"notice,omitempty"`
}

// WebSearch returns up to limit results from the configured provider.
// A non-positive limit means DefaultSearchResults.
func (a *Assistant) WebSearch(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if limit <= 0 {
		limit = DefaultSearchResults
	}
	p := a.searchProvider()
	results, err := p.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", p.Name(), err)
	}
	return results, nil
}

// VisitURL fetches one page and returns its title and readable text.
func (a *Assistant) VisitURL(ctx context.Context, rawURL string) (fetch.Page, error) {
	body, _, err := a.Getter.Get(ctx, rawURL)
	a.Metrics.PageFetched(err)
	if err != nil {
		return fetch.Page{URL: rawURL, Err: err}, err
	}
	doc := extract.RegexExtractor{Limit: extract.VisitLimit}.Extract(body)
	return fetch.Page{URL: rawURL, Title: doc.Title, Text: doc.Text}, nil
}

// SearchAndRead scrapes engine for query, reads up to limit result pages
// concurrently and asks the model for an answer citing them. It returns
// search.ErrNoResults when the result page has no links and ErrNoSources
// when none of the pages has usable text.
func (a *Assistant) SearchAndRead(ctx context.Context, s settings.Settings, query string, engine serp.Engine, limit int) (Answer, error) {
	if limit <= 0 {
		limit = DefaultSearchResults
	}
	p := &serp.Provider{Engine: engine, Getter: a.Getter, Links: a.Links, Metrics: a.Metrics}
	page, err := p.Page(ctx, query)
	if err != nil {
		return Answer{}, err
	}
	links := p.ExtractLinks(page)
	if len(links) > limit {
		links = links[:limit]
	}
	if len(links) == 0 {
		return Answer{}, fmt.Errorf("%s: %w", engine, search.ErrNoResults)
	}

	pages := fetch.FilterUsable(a.batch(extract.CorpusLimit).FetchAll(ctx, links), fetch.MinUsableChars)
	log.Debug().Str("engine", engine.String()).Int("links", len(links)).Int("usable", len(pages)).Msg("sources read")
	if len(pages) == 0 {
		return Answer{}, fmt.Errorf("%s: %w", engine, ErrNoSources)
	}

	answer, err := a.Completer.Complete(ctx, s, llm.UserRequest(llm.ChatProfile, ResearchPrompt(query, Corpus(pages))))
	if err != nil {
		return Answer{}, err
	}
	return Answer{Answer: answer, Sources: sourcesOf(pages), Engine: engine.String()}, nil
}

// sourcesOf labels pages in corpus order.
func sourcesOf(pages []fetch.Page) []Source {
	sources := make([]Source, len(pages))
	for i, p := range pages {
		sources[i] = Source{ID: fmt.Sprintf("S%d", i+1), URL: p.URL}
	}
	return sources
}

// researchNotice prefixes a Research answer that was produced without any
// web sources.
const researchNotice = "Web research is unavailable right now; this answer is based on the model's own knowledge."

// Research tries SearchAndRead on each research engine in turn and finally
// answers from the model alone with a notice. Configuration and completion
// errors are returned; search failures only move on to the next engine.
func (a *Assistant) Research(ctx context.Context, s settings.Settings, query string) (Answer, error) {
	if err := s.Validate(); err != nil {
		return Answer{}, err
	}
	for _, e := range a.researchEngines() {
		ans, err := a.SearchAndRead(ctx, s, query, e, ResearchResults)
		if err == nil {
			return ans, nil
		}
		if !searchFailure(err) || ctx.Err() != nil {
			return Answer{}, err
		}
		log.Warn().Err(err).Str("engine", e.String()).Msg("research engine failed; trying next")
	}
	reply, err := a.Prompt(ctx, s, query)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Answer: reply, Sources: []Source{}, Notice: researchNotice}, nil
}

// searchFailure reports whether err came from scraping or reading rather
// than from the completion endpoint.
func searchFailure(err error) bool {
	var httpErr *llm.HTTPError
	switch {
	case errors.Is(err, llm.ErrConfigMissing), errors.Is(err, llm.ErrMalformedResponse), errors.As(err, &httpErr):
		return false
	}
	return true
}
