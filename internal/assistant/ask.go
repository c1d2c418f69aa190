package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/aggregate"
	"github.com/hyperifyio/browseassist/internal/decide"
	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/search"
	selecter "github.com/hyperifyio/browseassist/internal/select"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// AskResult is the rendered outcome of one Ask turn.
type AskResult struct {
	Answer   string          `json:"answer"`
	Decision decide.Decision `json:"decision"`
	// Results and Sources are set only when the answer used the web.
	Results []search.Result `json:"results,omitempty"`
	Sources []Source        `json:"sources,omitempty"`
	// Notice explains a degraded answer.
	Notice string `json:"notice,omitempty"`
	// History is the request history followed by this turn.
	History []llm.Message `json:"history"`
}

const searchDegradedNotice = "Web search did not return usable results; answered without web content."

// Ask runs one assistant turn: it decides whether the message needs the
// web, answers from search results and visited pages when it does and
// from the conversation alone otherwise. Any failure on the search path
// degrades to the direct answer. Completion errors are returned.
func (a *Assistant) Ask(ctx context.Context, s settings.Settings, req ChatRequest) (AskResult, error) {
	enter(ctx, StateIdle)
	if err := s.Validate(); err != nil {
		return AskResult{}, err
	}

	enter(ctx, StateAwaitDecision)
	d := a.decider().Decide(ctx, s, req.Message)
	res := AskResult{Decision: d}

	if d.NeedsSearch {
		enter(ctx, StateSearchPath)
		prompt, results, pages, err := a.searchPath(ctx, req.Message, d.Query)
		if err == nil {
			enter(ctx, StateAwaitComplete)
			answer, err := a.Completer.Complete(ctx, s, llm.UserRequest(llm.ChatProfile, prompt))
			if err != nil {
				return AskResult{}, err
			}
			res.Answer = answer
			res.Results = results
			res.Sources = sourcesOf(pages)
			return a.render(ctx, req, res), nil
		}
		if ctx.Err() != nil {
			return AskResult{}, ctx.Err()
		}
		log.Ctx(ctx).Warn().Err(err).Str("query", d.Query).Msg("search path failed; answering directly")
		res.Notice = searchDegradedNotice
	}

	enter(ctx, StateDirectChatPath)
	enter(ctx, StateAwaitComplete)
	answer, err := a.Chat(ctx, s, req)
	if err != nil {
		return AskResult{}, err
	}
	res.Answer = answer
	return a.render(ctx, req, res), nil
}

// searchPath searches for query and reads the top results, preferring one
// page per site. It returns the answer prompt with what it used.
func (a *Assistant) searchPath(ctx context.Context, message, query string) (string, []search.Result, []fetch.Page, error) {
	results, err := a.WebSearch(ctx, query, DefaultSearchResults)
	if err != nil {
		return "", nil, nil, err
	}
	results = aggregate.MergeAndNormalize([][]search.Result{results})
	picked := selecter.Select(results, selecter.Options{MaxTotal: VisitPages, PerDomain: 1})
	picked = fillPicks(picked, results, VisitPages)
	urls := make([]string, len(picked))
	for i, r := range picked {
		urls[i] = r.URL
	}

	var pages []fetch.Page
	for _, p := range a.batch(extract.VisitLimit).FetchAll(ctx, urls) {
		if p.Err == nil && p.Text != "" {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return "", nil, nil, fmt.Errorf("visit %d results: %w", len(urls), ErrNoSources)
	}
	return WebAnswerPrompt(message, results, pages), results, pages, nil
}

// fillPicks tops picked up to n with the highest ranked results not already
// in it, keeping the one-per-site picks first.
func fillPicks(picked, results []search.Result, n int) []search.Result {
	if len(picked) >= n {
		return picked
	}
	taken := make(map[string]struct{}, len(picked))
	for _, r := range picked {
		taken[r.URL] = struct{}{}
	}
	for _, r := range results {
		if len(picked) >= n {
			break
		}
		if _, ok := taken[r.URL]; ok {
			continue
		}
		taken[r.URL] = struct{}{}
		picked = append(picked, r)
	}
	return picked
}

func (a *Assistant) render(ctx context.Context, req ChatRequest, res AskResult) AskResult {
	res.History = make([]llm.Message, 0, len(req.History)+2)
	res.History = append(res.History, req.History...)
	res.History = append(res.History,
		llm.Message{Role: llm.RoleUser, Content: req.Message},
		llm.Message{Role: llm.RoleAssistant, Content: res.Answer},
	)
	enter(ctx, StateRendered)
	return res
}
