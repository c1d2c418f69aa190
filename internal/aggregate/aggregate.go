package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/browseassist/internal/search"
)

var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"}

// MergeAndNormalize merges results from multiple providers or queries,
// canonicalizes URLs, trims obvious tracking parameters, and de-duplicates
// exact URLs. The first occurrence wins so provider rank is preserved.
func MergeAndNormalize(groups [][]search.Result) []search.Result {
	seen := map[string]struct{}{}
	out := make([]search.Result, 0, 16)
	for _, g := range groups {
		for _, r := range g {
			key, ok := NormalizeURL(r.URL)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			r.URL = key
			out = append(out, r)
		}
	}
	return out
}

// NormalizeURL parses raw as an absolute http(s) URL and returns its
// canonical string form: lower-case host, no fragment, no tracking params.
func NormalizeURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.RawQuery != "" {
		q := u.Query()
		removed := false
		for _, p := range trackingParams {
			if q.Has(p) {
				q.Del(p)
				removed = true
			}
		}
		if removed {
			u.RawQuery = q.Encode()
		}
	}
	return u.String(), true
}
