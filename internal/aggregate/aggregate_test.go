package aggregate

import (
	"testing"

	"github.com/hyperifyio/browseassist/internal/search"
)

func TestMergeAndNormalize_Dedup_TrimUTM(t *testing.T) {
	groups := [][]search.Result{
		{
			{Title: "A", URL: "https://example.com/page?utm_source=x&utm_medium=y#top", Snippet: "one"},
		},
		{
			{Title: "A dup", URL: "https://EXAMPLE.com/page", Snippet: "two"},
			{Title: "B", URL: "ftp://example.com/file", Snippet: "wrong scheme"},
		},
	}
	out := MergeAndNormalize(groups)
	if len(out) != 1 {
		t.Fatalf("expected 1 after dedup, got %d", len(out))
	}
	if out[0].URL != "https://example.com/page" || out[0].Title != "A" {
		t.Fatalf("unexpected result: %+v", out[0])
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://Example.COM/a?b=1", "https://example.com/a?b=1", true},
		{"HTTP://example.com/x#frag", "http://example.com/x", true},
		{"https://example.com/?q=a+b&gclid=z", "https://example.com/?q=a+b", true},
		{"/relative/path", "", false},
		{"javascript:void(0)", "", false},
		{"://bad", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeURL(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("NormalizeURL(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
