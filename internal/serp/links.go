package serp

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/hyperifyio/browseassist/internal/aggregate"
)

// MaxCandidates caps the links recovered from one result page. Callers
// truncate further to their own result limit.
const MaxCandidates = 15

// LinkExtractor recovers organic result URLs from a result page. It never
// fails: unparseable input yields an empty list.
type LinkExtractor interface {
	ExtractLinks(page string, engine Engine) []string
}

// linkPatterns are tried in order per engine; group 1 is the candidate URL.
var linkPatterns = map[Engine][]*regexp.Regexp{
	Google: {
		regexp.MustCompile(`<div[^>]*class="[^"]*(?:g|tF2CMy)[^"]*"[^>]*>[\s\S]*?<a href="(https?://[^"#]+)"`),
		regexp.MustCompile(`<h3[^>]*>[\s\S]*?<a href="(https?://[^"#]+)"`),
		regexp.MustCompile(`<a href="(https?://[^"#]+)"[^>]*><h3`),
		regexp.MustCompile(`<a href="/url\?q=(https?://[^&"#]+)`),
	},
	Bing: {
		regexp.MustCompile(`<li class="b_algo"[\s\S]*?<a href="(https?://[^"#]+)"`),
		regexp.MustCompile(`<h2><a href="(https?://[^"#]+)"`),
	},
	DuckDuckGo: {
		regexp.MustCompile(`<a class="result__url" href="(https?://[^"#]+)"`),
		regexp.MustCompile(`<a href="(https?://[^"#]+)"[^>]*class="[^"]*result[^"]*"`),
		regexp.MustCompile(`uddg=(https?%3A%2F%2F[^&"]+)`),
	},
}

// RegexExtractor applies the engine specific pattern lists. Unknown engines
// use the Google patterns.
type RegexExtractor struct{}

func (RegexExtractor) ExtractLinks(page string, engine Engine) (links []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("engine", engine.String()).Msg("link extraction failed")
			links = nil
		}
	}()
	patterns, ok := linkPatterns[engine]
	if !ok {
		patterns = linkPatterns[Google]
	}
	set := newLinkSet()
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			if set.full() {
				return set.list
			}
			set.add(m[1])
		}
	}
	return set.list
}

// Chain tries each extractor in order and returns the first non-empty list.
type Chain []LinkExtractor

func (c Chain) ExtractLinks(page string, engine Engine) []string {
	for _, ex := range c {
		if links := ex.ExtractLinks(page, engine); len(links) > 0 {
			return links
		}
	}
	return nil
}

// linkSet accumulates normalized, non-excluded links in first-seen order.
type linkSet struct {
	seen map[string]struct{}
	list []string
}

func newLinkSet() *linkSet {
	return &linkSet{seen: map[string]struct{}{}}
}

func (s *linkSet) full() bool { return len(s.list) >= MaxCandidates }

func (s *linkSet) add(raw string) {
	if s.full() {
		return
	}
	u, ok := resolveHref(raw)
	if !ok || Excluded(u) {
		return
	}
	if _, dup := s.seen[u]; dup {
		return
	}
	s.seen[u] = struct{}{}
	s.list = append(s.list, u)
}

// resolveHref entity-decodes a scraped href, unwraps engine redirects,
// percent-decodes it and returns its canonical absolute form.
func resolveHref(raw string) (string, bool) {
	raw = unwrapRedirect(html.UnescapeString(raw))
	if strings.Contains(raw, "%") {
		if dec, err := url.PathUnescape(raw); err == nil {
			raw = dec
		}
	}
	return aggregate.NormalizeURL(raw)
}

// unwrapRedirect resolves engine redirect hrefs (/url?q=, uddg=) and
// protocol-relative links to their target.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	q := u.Query()
	switch {
	case strings.HasPrefix(href, "/url?"):
		if t := q.Get("q"); t != "" {
			return t
		}
		return q.Get("url")
	case q.Get("uddg") != "":
		return q.Get("uddg")
	}
	return href
}
