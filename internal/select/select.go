package selecter

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/browseassist/internal/search"
)

// Options configures selection constraints.
type Options struct {
	MaxTotal  int
	PerDomain int
	// MinSnippetChars drops results whose snippet has fewer than this many
	// non-whitespace characters. Zero disables low-signal filtering.
	MinSnippetChars int
}

// Select picks results in their original rank order while enforcing a total
// cap and a per-host cap, so the pages visited for one answer are not all
// from the same site.
func Select(results []search.Result, opt Options) []search.Result {
	if opt.MaxTotal <= 0 {
		opt.MaxTotal = 3
	}
	if opt.PerDomain <= 0 {
		opt.PerDomain = 2
	}
	domainCounts := map[string]int{}
	seenURL := map[string]struct{}{}

	out := make([]search.Result, 0, opt.MaxTotal)
	for _, r := range results {
		if opt.MinSnippetChars > 0 && nonSpaceLen(r.Snippet) < opt.MinSnippetChars {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(r.URL))
		if err != nil || u.Host == "" {
			continue
		}
		canon := canonicalizeURL(u)
		if _, ok := seenURL[canon]; ok {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if domainCounts[host] >= opt.PerDomain {
			continue
		}
		seenURL[canon] = struct{}{}
		domainCounts[host]++
		out = append(out, r)
		if len(out) >= opt.MaxTotal {
			break
		}
	}
	return out
}

func nonSpaceLen(s string) int {
	return len(strings.Join(strings.Fields(s), ""))
}

func canonicalizeURL(u *url.URL) string {
	// drop fragments and default ports; lower-case host
	u2 := *u
	u2.Fragment = ""
	u2.Host = strings.ToLower(u2.Host)
	if (u2.Scheme == "http" && strings.HasSuffix(u2.Host, ":80")) || (u2.Scheme == "https" && strings.HasSuffix(u2.Host, ":443")) {
		u2.Host = u2.Hostname()
	}
	return u2.String()
}
