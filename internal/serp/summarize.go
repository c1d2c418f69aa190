package serp

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/search"
)

var (
	hrefPattern       = regexp.MustCompile(`href="([^"]+)"`)
	blockStartPattern = regexp.MustCompile(`<(?:div|li)[^>]*class="[^"]*\b(?:g|tF2CMy|b_algo|result)\b[^"]*"`)
	titlePatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<h3[^>]*>(.*?)</h3>`),
		regexp.MustCompile(`(?s)<h2[^>]*>(.*?)</h2>`),
		regexp.MustCompile(`(?s)<a[^>]*class="[^"]*result__a[^"]*"[^>]*>(.*?)</a>`),
	}
	snippetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<(span|div)[^>]*class="[^"]*(?:aCOpRe|lEBKkf|VwiC3b)[^"]*"[^>]*>(.*?)</(?:span|div)>`),
		regexp.MustCompile(`(?s)<(div)[^>]*class="[^"]*b_caption[^"]*"[^>]*>\s*<p[^>]*>(.*?)</p>`),
		regexp.MustCompile(`(?s)<(a|div)[^>]*class="[^"]*result__snippet[^"]*"[^>]*>(.*?)</(?:a|div)>`),
	}
)

type block struct {
	title   string
	snippet string
	links   map[string]bool
}

// Summarize pairs each link with the first unused result block on the page
// that links to it. Links without a block get a numbered title and a host
// based snippet, so the output always has one entry per link, in link order.
func Summarize(page string, links []string) []search.Result {
	blocks := resultBlocks(page)
	used := make([]bool, len(blocks))
	out := make([]search.Result, 0, len(links))
	for i, link := range links {
		r := search.Result{URL: link}
		for j, b := range blocks {
			if !used[j] && b.links[link] {
				used[j] = true
				r.Title = b.title
				r.Snippet = b.snippet
				break
			}
		}
		if r.Title == "" {
			r.Title = fmt.Sprintf("Search result %d", i+1)
		}
		if r.Snippet == "" {
			r.Snippet = "Content from " + hostOf(link)
		}
		out = append(out, r)
	}
	return out
}

// resultBlocks splits the page at each result container and pulls the first
// title, the first snippet and every resolvable link from each slice. Blocks
// carrying neither title nor snippet are dropped.
func resultBlocks(page string) []block {
	starts := blockStartPattern.FindAllStringIndex(page, -1)
	var blocks []block
	for i, loc := range starts {
		end := len(page)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		chunk := page[loc[0]:end]
		b := block{
			title:   firstGroup(chunk, titlePatterns, 1),
			snippet: firstGroup(chunk, snippetPatterns, 2),
			links:   map[string]bool{},
		}
		for _, m := range hrefPattern.FindAllStringSubmatch(chunk, -1) {
			if u, ok := resolveHref(m[1]); ok {
				b.links[u] = true
			}
		}
		if b.title != "" || b.snippet != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func firstGroup(chunk string, patterns []*regexp.Regexp, group int) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(chunk); m != nil {
			if s := extract.CleanText(m[group]); s != "" {
				return s
			}
		}
	}
	return ""
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Hostname()
}
