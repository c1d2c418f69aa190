// Package decide answers whether a chat message needs a web search. It runs
// an ordered list of strategies over one classifier reply; each strategy
// either decides or passes. The last strategy never passes, so a decision is
// always produced even when the model is unreachable.
package decide

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// Decision is the outcome of a needs-search analysis.
type Decision struct {
	NeedsSearch bool   `json:"needsSearch"`
	Query       string `json:"searchQuery"`
	Reason      string `json:"reason"`
	// Strategy names the strategy that produced the decision.
	Strategy string `json:"strategy"`
}

// Input is what a strategy sees: the user's message and the classifier's
// raw reply. Reply is empty and ReplyErr set when the model call failed.
type Input struct {
	Message  string
	Reply    string
	ReplyErr error
}

// Strategy inspects Input and returns ok=false when it cannot decide.
type Strategy interface {
	Name() string
	Decide(in Input) (Decision, bool)
}

// Completer is the subset of llm.Completer used for classification.
type Completer interface {
	Complete(ctx context.Context, s settings.Settings, req llm.Request) (string, error)
}

// Pipeline asks the model once and walks Strategies in order.
type Pipeline struct {
	Completer  Completer
	Strategies []Strategy
	Metrics    *metrics.Metrics
}

// DefaultStrategies is strict JSON, then regex field extraction, then
// keyword matching.
func DefaultStrategies() []Strategy {
	return []Strategy{JSONStrategy{}, RegexStrategy{}, NewKeywordStrategy(nil)}
}

// NewPipeline returns a Pipeline with the default strategies.
func NewPipeline(c Completer, m *metrics.Metrics) *Pipeline {
	return &Pipeline{Completer: c, Strategies: DefaultStrategies(), Metrics: m}
}

// Decide classifies message. It never fails: a model error only makes the
// reply-based strategies pass.
func (p *Pipeline) Decide(ctx context.Context, s settings.Settings, message string) Decision {
	in := Input{Message: message}
	if p.Completer != nil {
		in.Reply, in.ReplyErr = p.Completer.Complete(ctx, s, llm.UserRequest(llm.ChatProfile, ClassifierPrompt(message)))
	} else {
		in.ReplyErr = llm.ErrConfigMissing
	}
	if in.ReplyErr != nil {
		log.Warn().Err(in.ReplyErr).Str("stage", "decide").Msg("classifier call failed; falling back")
	}

	strategies := p.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	for _, st := range strategies {
		d, ok := st.Decide(in)
		if !ok {
			log.Debug().Str("strategy", st.Name()).Msg("strategy inconclusive")
			continue
		}
		d.Strategy = st.Name()
		if strings.TrimSpace(d.Query) == "" {
			d.Query = message
		}
		p.Metrics.Decided(d.Strategy, d.NeedsSearch)
		log.Debug().Str("strategy", d.Strategy).Bool("needs_search", d.NeedsSearch).Msg("search decision")
		return d
	}
	// only reachable with a custom strategy list that lacks a terminal strategy
	d := Decision{Query: message, Reason: "no strategy decided", Strategy: "none"}
	p.Metrics.Decided(d.Strategy, false)
	return d
}

// ClassifierPrompt asks the model for a strict JSON verdict on message.
func ClassifierPrompt(message string) string {
	var sb strings.Builder
	sb.WriteString("Analyze whether the following user message needs a web search to get up-to-date information.\n\n")
	sb.WriteString("User message: \"")
	sb.WriteString(message)
	sb.WriteString("\"\n\n")
	sb.WriteString("Reply with strict JSON only, in this format:\n")
	sb.WriteString("{\n  \"needsSearch\": true/false,\n  \"searchQuery\": \"search keywords if a search is needed\",\n  \"reason\": \"why\"\n}\n\n")
	sb.WriteString("A search is needed for:\n")
	sb.WriteString("- latest news and current events\n")
	sb.WriteString("- real-time data (stock prices, weather)\n")
	sb.WriteString("- visiting a specific website\n")
	sb.WriteString("- questions about the current date or time\n")
	sb.WriteString("- explicit requests to search or look something up\n\n")
	sb.WriteString("No search is needed for:\n")
	sb.WriteString("- general knowledge questions\n")
	sb.WriteString("- programming questions\n")
	sb.WriteString("- explanations of theory or concepts\n")
	sb.WriteString("- questions about the current page content")
	return sb.String()
}
