package serp

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// domSelectors select result anchors per engine.
var domSelectors = map[Engine]string{
	Google:     "div.g a[href], a[href]:has(h3), a[href^='/url?']",
	Bing:       "li.b_algo h2 a[href], li.b_algo a[href]",
	DuckDuckGo: "a.result__a[href], a.result__url[href]",
}

// DOMExtractor parses the page with goquery and selects result anchors with
// CSS selectors. It is less sensitive to attribute order than the regex
// strategy and understands redirect hrefs.
type DOMExtractor struct{}

func (DOMExtractor) ExtractLinks(page string, engine Engine) (links []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("engine", engine.String()).Msg("dom link extraction failed")
			links = nil
		}
	}()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		log.Debug().Err(err).Msg("parse result page")
		return nil
	}
	sel, ok := domSelectors[engine]
	if !ok {
		sel = domSelectors[Google]
	}
	set := newLinkSet()
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		set.add(href)
		return !set.full()
	})
	return set.list
}
