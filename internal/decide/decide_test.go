package decide

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/settings"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
	last  llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, _ settings.Settings, req llm.Request) (string, error) {
	s.calls++
	s.last = req
	return s.reply, s.err
}

func decideWith(reply string, err error, message string) (Decision, *stubCompleter) {
	c := &stubCompleter{reply: reply, err: err}
	return NewPipeline(c, nil).Decide(context.Background(), settings.Defaults(), message), c
}

func TestDecide_StrictJSON(t *testing.T) {
	d, c := decideWith(`{"needsSearch": true, "searchQuery": "bitcoin price", "reason": "real-time data"}`, nil, "what is bitcoin worth")
	if !d.NeedsSearch || d.Query != "bitcoin price" || d.Reason != "real-time data" || d.Strategy != "json" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if c.calls != 1 {
		t.Fatalf("expected one model call, got %d", c.calls)
	}
	if !strings.Contains(c.last.Messages[0].Content, "what is bitcoin worth") {
		t.Fatalf("classifier prompt must carry the message")
	}
}

func TestDecide_FencedJSON(t *testing.T) {
	d, _ := decideWith("```json\n{\"needsSearch\": false, \"reason\": \"concept\"}\n```", nil, "explain closures")
	if d.NeedsSearch || d.Strategy != "json" || d.Query != "explain closures" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecide_MalformedJSONUsesRegex(t *testing.T) {
	reply := `Sure! {"needsSearch": true, "searchQuery": "go 1.24 release notes", "reason": "latest info",}`
	d, _ := decideWith(reply, nil, "what's new in go")
	if !d.NeedsSearch || d.Strategy != "regex" || d.Query != "go 1.24 release notes" || d.Reason != "latest info" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecide_MalformedJSONFallsBackToKeywords(t *testing.T) {
	for _, tc := range []struct {
		message string
		want    bool
	}{
		{"Show me the LATEST headlines", true},
		{"今天天气怎么样", true},
		{"explain how a hash map works", false},
	} {
		d, _ := decideWith("I think you should probably search, maybe?", nil, tc.message)
		if d.Strategy != "keywords" {
			t.Fatalf("expected keyword strategy, got %+v", d)
		}
		if d.NeedsSearch != tc.want {
			t.Fatalf("%q: expected %v, got %+v", tc.message, tc.want, d)
		}
		if d.Query != tc.message {
			t.Fatalf("query should default to the message, got %q", d.Query)
		}
	}
}

func TestDecide_APIFailureFallsBackToKeywords(t *testing.T) {
	d, c := decideWith("", &llm.HTTPError{Status: 500}, "find the news about rust")
	if c.calls != 1 {
		t.Fatalf("expected a single model attempt, got %d", c.calls)
	}
	if !d.NeedsSearch || d.Strategy != "keywords" || !strings.Contains(d.Reason, "unavailable") {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDecide_ReplyWithoutNeedsSearchIsInconclusive(t *testing.T) {
	d, _ := decideWith(`{"searchQuery": "x"}`, nil, "hello")
	if d.Strategy != "keywords" || d.NeedsSearch {
		t.Fatalf("expected keyword fallback, got %+v", d)
	}
}

func TestDecide_NilCompleter(t *testing.T) {
	d := (&Pipeline{}).Decide(context.Background(), settings.Defaults(), "visit example.com")
	if !d.NeedsSearch || d.Strategy != "keywords" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

type passStrategy struct{}

func (passStrategy) Name() string { return "pass" }
func (passStrategy) Decide(Input) (Decision, bool) { return Decision{}, false }

func TestDecide_NoTerminalStrategy(t *testing.T) {
	p := &Pipeline{Completer: &stubCompleter{err: errors.New("down")}, Strategies: []Strategy{passStrategy{}}}
	d := p.Decide(context.Background(), settings.Defaults(), "q")
	if d.NeedsSearch || d.Query != "q" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestKeywordStrategy_CaseFolding(t *testing.T) {
	k := NewKeywordStrategy([]string{"ÉCOLE"})
	if d, ok := k.Decide(Input{Message: "une école ouverte"}); !ok || !d.NeedsSearch {
		t.Fatalf("expected folded match, got %+v", d)
	}
}
