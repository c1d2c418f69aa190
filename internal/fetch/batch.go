package fetch

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/metrics"
)

// MinUsableChars is the extracted-text length a page must exceed before it
// is used as model context.
const MinUsableChars = 200

// Getter is the minimal fetch method used by Batch.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Page is the extracted content of one fetched URL. A failed fetch keeps
// its slot with empty Text and the cause in Err.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Err   error  `json:"-"`
}

// Batch fetches a set of URLs concurrently and extracts their text. Each
// fetch is isolated: one failure never aborts or shortens the batch.
type Batch struct {
	Getter    Getter
	Extractor extract.Extractor
	// Concurrency bounds in-flight fetches; zero means one goroutine per URL.
	Concurrency int
	Metrics     *metrics.Metrics
}

// FetchAll returns exactly one Page per input URL, in input order, once all
// fetches have settled.
func (b *Batch) FetchAll(ctx context.Context, urls []string) []Page {
	pages := make([]Page, len(urls))
	ex := b.Extractor
	if ex == nil {
		ex = extract.RegexExtractor{Limit: extract.VisitLimit}
	}

	// errgroup only for fan-out and join: workers never return an error so a
	// failing page cannot cancel its siblings.
	var g errgroup.Group
	if b.Concurrency > 0 {
		g.SetLimit(b.Concurrency)
	}
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			pages[i] = b.fetchOne(ctx, u, ex)
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func (b *Batch) fetchOne(ctx context.Context, u string, ex extract.Extractor) Page {
	page := Page{URL: u}
	if err := ctx.Err(); err != nil {
		page.Err = err
		b.Metrics.PageFetched(err)
		return page
	}
	body, _, err := b.Getter.Get(ctx, u)
	b.Metrics.PageFetched(err)
	if err != nil {
		log.Warn().Err(err).Str("url", u).Msg("fetch failed; keeping empty page")
		page.Err = err
		return page
	}
	doc := ex.Extract(body)
	page.Title = doc.Title
	page.Text = doc.Text
	log.Debug().Str("url", u).Int("chars", len(page.Text)).Msg("page extracted")
	return page
}

// FilterUsable drops pages whose text is not longer than minChars runes.
// A non-positive minChars means MinUsableChars.
func FilterUsable(pages []Page, minChars int) []Page {
	if minChars <= 0 {
		minChars = MinUsableChars
	}
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if utf8.RuneCountInString(p.Text) > minChars {
			out = append(out, p)
		}
	}
	return out
}
