package serp

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/browseassist/internal/search"
)

const googlePage = `<html><body>
<a href="https://www.google.com/search?q=go&amp;tbm=isch">Images</a>
<div class="g"><div class="yuRUbf"><a href="https://go.dev/doc/"><h3 class="LC20lb">Documentation - The Go Programming Language</h3></a></div>
<div class="VwiC3b">The Go programming language is an <em>open source</em> project.</div></div>
<div class="g"><a href="https://accounts.google.com/ServiceLogin">Sign in</a></div>
<div class="g"><a href="/url?q=https://example.com/article&amp;sa=U"><h3>Example &amp; Article</h3></a>
<span class="aCOpRe">An example snippet.</span></div>
<a href="https://www.youtube.com/watch?v=1">video</a>
<div class="g"><a href="https://support.google.com/websearch">Help</a></div>
<a href="https://webcache.googleusercontent.com/search?q=cache:x">Cached</a>
</body></html>`

const bingPage = `<html><body><ol id="b_results">
<li class="b_algo"><h2><a href="https://go.dev/">The Go Programming Language</a></h2>
<div class="b_caption"><p>Go is an open source programming language.</p></div></li>
<li class="b_algo"><h2><a href="https://www.microsoft.com/en-us/">Microsoft</a></h2></li>
<li class="b_algo"><h2><a href="https://gobyexample.com/">Go by Example</a></h2>
<div class="b_caption"><p>Hands-on introduction to Go.</p></div></li>
</ol>
<a href="https://www.bing.com/images/search?q=go">Images</a>
</body></html>`

const duckPage = `<html><body>
<div class="result results_links results_links_deep web-result">
  <div class="links_main links_deep result__body">
    <h2 class="result__title"><a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Flearn%2F&amp;rut=abc">Get Started - The Go Programming Language</a></h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Flearn%2F&amp;rut=abc">Install the latest version of Go.</a>
    <a class="result__url" href="https://go.dev/learn/">go.dev/learn</a>
  </div>
</div>
<div class="result results_links web-result">
  <h2 class="result__title"><a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgobyexample.com%2F&amp;rut=def">Go by Example</a></h2>
</div>
<a href="https://duckduckgo.com/html/?q=go&amp;s=30">Next</a>
</body></html>`

var fixtures = []struct {
	engine Engine
	page   string
	want   []string
}{
	{Google, googlePage, []string{"https://go.dev/doc/", "https://example.com/article"}},
	{Bing, bingPage, []string{"https://go.dev/", "https://gobyexample.com/"}},
	{DuckDuckGo, duckPage, []string{"https://go.dev/learn/", "https://gobyexample.com/"}},
}

func TestExtractLinks_Fixtures(t *testing.T) {
	for _, ex := range []LinkExtractor{RegexExtractor{}, DOMExtractor{}} {
		for _, f := range fixtures {
			t.Run(fmt.Sprintf("%T/%s", ex, f.engine), func(t *testing.T) {
				got := ex.ExtractLinks(f.page, f.engine)
				if !reflect.DeepEqual(got, f.want) {
					t.Fatalf("got %v, want %v", got, f.want)
				}
				for _, u := range got {
					if Excluded(u) {
						t.Fatalf("excluded URL leaked: %s", u)
					}
				}
			})
		}
	}
}

func TestExtractLinks_CapsAndDedupes(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		// every link appears twice, once with a fragment
		fmt.Fprintf(&b, `<li class="b_algo"><h2><a href="https://site%d.example/page">r</a></h2></li>`, i)
		fmt.Fprintf(&b, `<h2><a href="https://SITE%d.example/page#frag">r</a></h2>`, i)
	}
	for _, ex := range []LinkExtractor{RegexExtractor{}, DOMExtractor{}} {
		got := ex.ExtractLinks(b.String(), Bing)
		if len(got) != MaxCandidates {
			t.Fatalf("%T: expected %d links, got %d", ex, MaxCandidates, len(got))
		}
		seen := map[string]bool{}
		for _, u := range got {
			if seen[u] {
				t.Fatalf("%T: duplicate %s", ex, u)
			}
			seen[u] = true
		}
	}
}

func TestExtractLinks_GarbageYieldsEmpty(t *testing.T) {
	for _, page := range []string{"", "not html at all", `<a href="https://[::1`, `<div class="g"><a href="javascript:alert(1)">x</a></div>`} {
		if got := (Chain{RegexExtractor{}, DOMExtractor{}}).ExtractLinks(page, Google); len(got) != 0 {
			t.Fatalf("expected no links for %q, got %v", page, got)
		}
	}
}

func TestChain_FallsThrough(t *testing.T) {
	// anchor attributes in an order the regex patterns do not expect
	page := `<div class="result"><a class="result__a" rel="nofollow" href="https://go.dev/blog/">Blog</a></div>`
	if got := (RegexExtractor{}).ExtractLinks(page, DuckDuckGo); len(got) != 0 {
		t.Fatalf("expected regex strategy to miss, got %v", got)
	}
	got := Chain{RegexExtractor{}, DOMExtractor{}}.ExtractLinks(page, DuckDuckGo)
	if len(got) != 1 || got[0] != "https://go.dev/blog/" {
		t.Fatalf("expected DOM fallback to find link, got %v", got)
	}
}

func TestExcluded(t *testing.T) {
	for _, u := range []string{
		"https://www.google.com/search?q=x",
		"https://accounts.google.com/x",
		"https://www.google.com/maps/place",
		"https://www.youtube.com/watch?v=abc",
		"https://learn.microsoft.com/en-us/",
		"https://www.facebook.com/tr?id=1",
		"https://www.googletagmanager.com/gtm.js",
		"https://ad.doubleclick.net/x",
		"https://www.bing.com/news/search?q=x",
	} {
		if !Excluded(u) {
			t.Fatalf("expected %s excluded", u)
		}
	}
	if Excluded("https://go.dev/doc/") {
		t.Fatalf("organic result excluded")
	}
}

func TestSummarize_PairsByURL(t *testing.T) {
	links := (RegexExtractor{}).ExtractLinks(bingPage, Bing)
	got := Summarize(bingPage, links)
	want := []search.Result{
		{Title: "The Go Programming Language", URL: "https://go.dev/", Snippet: "Go is an open source programming language."},
		{Title: "Go by Example", URL: "https://gobyexample.com/", Snippet: "Hands-on introduction to Go."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}

	g := Summarize(googlePage, (RegexExtractor{}).ExtractLinks(googlePage, Google))
	if g[0].Snippet != "The Go programming language is an open source project." {
		t.Fatalf("unexpected google snippet %q", g[0].Snippet)
	}
	if g[1].Title != "Example & Article" {
		t.Fatalf("unexpected google title %q", g[1].Title)
	}

	d := Summarize(duckPage, (RegexExtractor{}).ExtractLinks(duckPage, DuckDuckGo))
	if d[0].Title != "Get Started - The Go Programming Language" || d[0].Snippet != "Install the latest version of Go." {
		t.Fatalf("unexpected duckduckgo result %+v", d[0])
	}
}

func TestSummarize_PadsWithFallbacks(t *testing.T) {
	links := []string{"https://a.example/x", "https://b.example/y"}
	got := Summarize("<html>no blocks</html>", links)
	if len(got) != len(links) {
		t.Fatalf("expected %d results, got %d", len(links), len(got))
	}
	if got[1].Title != "Search result 2" || got[1].Snippet != "Content from b.example" || got[1].URL != links[1] {
		t.Fatalf("unexpected fallback %+v", got[1])
	}
}

func TestParseEngineAndBuildURL(t *testing.T) {
	for in, want := range map[string]Engine{"": Google, "Google": Google, "bing": Bing, "ddg": DuckDuckGo, "duckduckgo": DuckDuckGo} {
		got, err := ParseEngine(in)
		if err != nil || got != want {
			t.Fatalf("ParseEngine(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseEngine("yahoo"); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
	if got := BuildURL("go & rust", Google); got != "https://www.google.com/search?q=go+%26+rust" {
		t.Fatalf("unexpected google url %s", got)
	}
	if got := BuildURL("x", DuckDuckGo); got != "https://duckduckgo.com/html/?q=x" {
		t.Fatalf("unexpected duckduckgo url %s", got)
	}
	if got := BuildURL("x", Bing); got != "https://www.bing.com/search?q=x" {
		t.Fatalf("unexpected bing url %s", got)
	}
}

type pageGetter struct {
	page string
	err  error
	url  string
}

func (g *pageGetter) Get(_ context.Context, u string) ([]byte, string, error) {
	g.url = u
	return []byte(g.page), "text/html", g.err
}

func TestProvider_Search(t *testing.T) {
	g := &pageGetter{page: googlePage}
	p := &Provider{Engine: Google, Getter: g}
	res, err := p.Search(context.Background(), "golang docs", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].URL != "https://go.dev/doc/" || res[0].Source != "google" {
		t.Fatalf("unexpected results %+v", res)
	}
	if g.url != "https://www.google.com/search?q=golang+docs" {
		t.Fatalf("unexpected request url %s", g.url)
	}
}

func TestProvider_NoLinksIsNoResults(t *testing.T) {
	p := &Provider{Engine: Bing, Getter: &pageGetter{page: "<html>captcha</html>"}}
	_, err := p.Search(context.Background(), "q", 5)
	if !errors.Is(err, search.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
	p = &Provider{Engine: Bing, Getter: &pageGetter{err: errors.New("boom")}}
	if _, err := p.Search(context.Background(), "q", 5); err == nil || errors.Is(err, search.ErrNoResults) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
