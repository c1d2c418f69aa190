package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Character budgets used by callers of Readable.
const (
	PageLimit   = 8000
	VisitLimit  = 5000
	CorpusLimit = 4000
	// TitleLimit caps cleaned titles and SERP snippets.
	TitleLimit = 200
)

// UnknownTitle is returned by Title when a document has no usable <title>.
const UnknownTitle = "Unknown title"

var (
	blockPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b.*?</script\s*>`),
		regexp.MustCompile(`(?is)<style\b.*?</style\s*>`),
		regexp.MustCompile(`(?is)<nav\b.*?</nav\s*>`),
		regexp.MustCompile(`(?is)<header\b.*?</header\s*>`),
		regexp.MustCompile(`(?is)<footer\b.*?</footer\s*>`),
		regexp.MustCompile(`(?s)<!--.*?-->`),
	}
	// unterminated script/style blocks swallow the rest of the document
	openBlockPattern = regexp.MustCompile(`(?is)<(?:script|style)\b.*$`)
	tagPattern       = regexp.MustCompile(`<[^>]+>`)
	titlePattern     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title\s*>`)

	// only tag-shaped text, so decoded comparisons like "a < b" survive
	decodedTagPattern = regexp.MustCompile(`<[A-Za-z/!][^>]*>`)
)

// Readable strips markup and boilerplate blocks from raw HTML with regular
// expressions and returns whitespace-collapsed text of at most limit runes.
// A non-positive limit disables truncation. This is not a DOM parse: markup
// that confuses the patterns yields imprecise text rather than an error.
func Readable(raw string, limit int) string {
	text := raw
	for _, re := range blockPatterns {
		text = re.ReplaceAllString(text, " ")
	}
	text = openBlockPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	// entities may have spelled out tags
	text = decodedTagPattern.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	return Truncate(text, limit)
}

// Title returns the cleaned contents of the first <title> element.
func Title(raw string) string {
	m := titlePattern.FindStringSubmatch(raw)
	if m == nil {
		return UnknownTitle
	}
	t := CleanText(m[1])
	if t == "" {
		return UnknownTitle
	}
	return t
}

// CleanText removes tags, decodes entities and collapses whitespace, capping
// the result at TitleLimit runes.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	return Truncate(s, TitleLimit)
}

// Truncate returns at most n runes of s. n <= 0 returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
