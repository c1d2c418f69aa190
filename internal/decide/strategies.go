package decide

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// JSONStrategy parses the reply as strict JSON. A reply wrapped in a
// Markdown code fence is unwrapped first.
type JSONStrategy struct{}

func (JSONStrategy) Name() string { return "json" }

func (JSONStrategy) Decide(in Input) (Decision, bool) {
	if in.ReplyErr != nil {
		return Decision{}, false
	}
	var raw struct {
		NeedsSearch *bool  `json:"needsSearch"`
		SearchQuery string `json:"searchQuery"`
		Reason      string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(stripFence(in.Reply)), &raw); err != nil || raw.NeedsSearch == nil {
		return Decision{}, false
	}
	reason := raw.Reason
	if reason == "" {
		reason = "model analysis"
	}
	return Decision{NeedsSearch: *raw.NeedsSearch, Query: raw.SearchQuery, Reason: reason}, true
}

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

var (
	needsSearchField = regexp.MustCompile(`"needsSearch"\s*:\s*(true|false)`)
	queryField       = regexp.MustCompile(`"searchQuery"\s*:\s*"(.*?)"`)
	reasonField      = regexp.MustCompile(`"reason"\s*:\s*"(.*?)"`)
)

// RegexStrategy pulls the fields out of a reply that is not valid JSON. It
// passes when needsSearch cannot be found.
type RegexStrategy struct{}

func (RegexStrategy) Name() string { return "regex" }

func (RegexStrategy) Decide(in Input) (Decision, bool) {
	if in.ReplyErr != nil {
		return Decision{}, false
	}
	m := needsSearchField.FindStringSubmatch(in.Reply)
	if m == nil {
		return Decision{}, false
	}
	d := Decision{NeedsSearch: m[1] == "true", Reason: "model analysis"}
	if q := queryField.FindStringSubmatch(in.Reply); q != nil {
		d.Query = q[1]
	}
	if r := reasonField.FindStringSubmatch(in.Reply); r != nil && r[1] != "" {
		d.Reason = r[1]
	}
	return d, true
}

// DefaultKeywords trigger a search when found in the message.
var DefaultKeywords = []string{
	"今天", "今日", "最新", "新闻", "股价", "天气", "实时", "当前",
	"搜索", "查找", "访问", "打开", "网站", "最近", "现在", "目前",
	"today", "latest", "news", "current", "search", "find", "visit",
}

// KeywordStrategy matches the message against a static keyword list with
// Unicode case folding. It always decides.
type KeywordStrategy struct {
	keywords []string
}

// NewKeywordStrategy builds a KeywordStrategy; nil keywords means
// DefaultKeywords.
func NewKeywordStrategy(keywords []string) KeywordStrategy {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	fold := cases.Fold()
	k := KeywordStrategy{}
	for _, w := range keywords {
		k.keywords = append(k.keywords, fold.String(w))
	}
	return k
}

func (KeywordStrategy) Name() string { return "keywords" }

func (k KeywordStrategy) Decide(in Input) (Decision, bool) {
	// Casers carry state, so each call folds with its own.
	msg := cases.Fold().String(in.Message)
	reason := "keyword match"
	if in.ReplyErr != nil {
		reason = "keyword match (model unavailable)"
	}
	for _, w := range k.keywords {
		if strings.Contains(msg, w) {
			return Decision{NeedsSearch: true, Query: in.Message, Reason: reason}, true
		}
	}
	return Decision{NeedsSearch: false, Query: in.Message, Reason: reason}, true
}
