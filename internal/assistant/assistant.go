// Package assistant composes prompts from page context, conversation history
// and retrieved sources, and sequences calls to the completion endpoint.
// Every operation takes the caller's settings explicitly.
package assistant

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/decide"
	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
	"github.com/hyperifyio/browseassist/internal/settings"
)

const (
	// DefaultSearchResults is the result count for WebSearch and Ask.
	DefaultSearchResults = 5
	// ResearchResults is the result count per engine in Research.
	ResearchResults = 4
	// VisitPages is how many search results Ask reads before answering.
	VisitPages = 3
	// HistoryTurns is how many prior messages are quoted in a chat prompt.
	HistoryTurns = 6
	// pageExcerptChars bounds each visited page quoted in an Ask answer.
	pageExcerptChars = 1000
)

// ErrNoSources is returned when a search produced no page with usable text.
var ErrNoSources = errors.New("no readable sources")

// Completer is the subset of llm.Completer the assistant needs.
type Completer interface {
	Complete(ctx context.Context, s settings.Settings, req llm.Request) (string, error)
}

// Assistant is the chat and search orchestrator.
type Assistant struct {
	Completer Completer
	// Decider classifies messages for Ask; nil builds the default pipeline.
	Decider *decide.Pipeline
	// Getter fetches result pages and articles.
	Getter fetch.Getter
	// Search backs WebSearch and Ask; nil scrapes Google.
	Search search.Provider
	// Links overrides the link extraction strategy for scraped engines.
	Links serp.LinkExtractor
	// ResearchEngines are tried in order by Research.
	ResearchEngines []serp.Engine
	// Concurrency bounds page fetches per batch; zero is unbounded.
	Concurrency int
	Metrics     *metrics.Metrics
}

// New returns an Assistant with the default decision pipeline.
func New(c Completer, g fetch.Getter, m *metrics.Metrics) *Assistant {
	return &Assistant{
		Completer:       c,
		Decider:         decide.NewPipeline(c, m),
		Getter:          g,
		ResearchEngines: []serp.Engine{serp.Google, serp.DuckDuckGo},
		Metrics:         m,
	}
}

func (a *Assistant) searchProvider() search.Provider {
	if a.Search != nil {
		return a.Search
	}
	return a.engine(serp.Google)
}

func (a *Assistant) engine(e serp.Engine) search.Provider {
	return &serp.Provider{Engine: e, Getter: a.Getter, Links: a.Links, Metrics: a.Metrics}
}

func (a *Assistant) decider() *decide.Pipeline {
	if a.Decider != nil {
		return a.Decider
	}
	return decide.NewPipeline(a.Completer, a.Metrics)
}

func (a *Assistant) researchEngines() []serp.Engine {
	if len(a.ResearchEngines) > 0 {
		return a.ResearchEngines
	}
	return []serp.Engine{serp.Google, serp.DuckDuckGo}
}

func (a *Assistant) batch(limit int) *fetch.Batch {
	return &fetch.Batch{
		Getter:      a.Getter,
		Extractor:   extract.RegexExtractor{Limit: limit},
		Concurrency: a.Concurrency,
		Metrics:     a.Metrics,
	}
}

// State is a step of the Ask flow.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitDecision  State = "awaiting-search-decision"
	StateSearchPath     State = "search-path"
	StateDirectChatPath State = "direct-chat-path"
	StateAwaitComplete  State = "awaiting-completion"
	StateRendered       State = "rendered"
)

func enter(ctx context.Context, st State) {
	log.Ctx(ctx).Debug().Str("state", string(st)).Msg("ask")
}
