package extract

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into a simplified Document.
	// Implementations should be deterministic and avoid side effects.
	Extract(input []byte) Document
}

// RegexExtractor strips markup with regular expressions. It is the strategy
// used for pages fetched during a search.
type RegexExtractor struct {
	// Limit caps the extracted text in runes; zero means VisitLimit.
	Limit int
}

func (e RegexExtractor) Extract(input []byte) Document {
	limit := e.Limit
	if limit == 0 {
		limit = VisitLimit
	}
	raw := string(input)
	return Document{Title: Title(raw), Text: Readable(raw, limit)}
}

// DOMExtractor walks the parsed document and prefers the main content
// region. It is used for the page the user is currently looking at.
type DOMExtractor struct {
	// Limit caps the extracted text in runes; zero means PageLimit.
	Limit int
}

func (e DOMExtractor) Extract(input []byte) Document {
	limit := e.Limit
	if limit == 0 {
		limit = PageLimit
	}
	doc := FromHTML(input)
	if doc.Title == "" {
		doc.Title = UnknownTitle
	}
	doc.Text = Truncate(doc.Text, limit)
	return doc
}
