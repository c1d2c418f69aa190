// Package serp scrapes search engine result pages: it builds the result page
// URL for an engine, recovers organic result links from the returned HTML and
// pairs them with titles and snippets.
package serp

import (
	"fmt"
	"net/url"
	"strings"
)

// Engine identifies a supported search engine.
type Engine string

const (
	Google     Engine = "google"
	Bing       Engine = "bing"
	DuckDuckGo Engine = "duckduckgo"
)

// Engines lists the supported engines in their default fallback order.
var Engines = []Engine{Google, DuckDuckGo, Bing}

// ParseEngine maps a user supplied name to an Engine. The empty string
// selects Google.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "google":
		return Google, nil
	case "bing":
		return Bing, nil
	case "duckduckgo", "ddg":
		return DuckDuckGo, nil
	default:
		return "", fmt.Errorf("unknown search engine %q", name)
	}
}

func (e Engine) String() string { return string(e) }

// BuildURL returns the result page URL for query on engine. DuckDuckGo uses
// its HTML endpoint because the default one renders results client side.
func BuildURL(query string, engine Engine) string {
	q := url.QueryEscape(query)
	switch engine {
	case Bing:
		return "https://www.bing.com/search?q=" + q
	case DuckDuckGo:
		return "https://duckduckgo.com/html/?q=" + q
	default:
		return "https://www.google.com/search?q=" + q
	}
}
