// Package protocol defines the typed message contract between a browser
// client and the assistant, and dispatches requests to assistant
// operations. Every request yields exactly one response.
package protocol

import (
	"github.com/hyperifyio/browseassist/internal/assistant"
	"github.com/hyperifyio/browseassist/internal/decide"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// Type names a request kind.
type Type string

const (
	TypeChat           Type = "CHAT_REQUEST"
	TypeWriting        Type = "WRITING_REQUEST"
	TypeSearchAndRead  Type = "SEARCH_AND_READ"
	TypeResearch       Type = "RESEARCH"
	TypeWebSearch      Type = "WEB_SEARCH"
	TypeVisitURL       Type = "VISIT_URL"
	TypeOCR            Type = "OCR_REQUEST"
	TypeTranslate      Type = "TRANSLATE_REQUEST"
	TypeAsk            Type = "ASK"
	TypeValidateConfig Type = "VALIDATE_CONFIG"
)

// Types lists every request kind the dispatcher understands.
var Types = []Type{
	TypeChat, TypeWriting, TypeSearchAndRead, TypeResearch, TypeWebSearch,
	TypeVisitURL, TypeOCR, TypeTranslate, TypeAsk, TypeValidateConfig,
}

// Request is a tagged union; which fields apply depends on Type.
type Request struct {
	Type Type `json:"type"`

	// CHAT_REQUEST and ASK
	Message     string        `json:"message,omitempty"`
	PageContext string        `json:"pageContext,omitempty"`
	History     []llm.Message `json:"history,omitempty"`

	// WRITING_REQUEST: either a raw prompt, or an action applied to Text.
	Prompt string `json:"prompt,omitempty"`
	Action string `json:"action,omitempty"`

	// TRANSLATE_REQUEST and rewrite actions
	Text string `json:"text,omitempty"`

	// SEARCH_AND_READ, RESEARCH and WEB_SEARCH
	Query      string `json:"query,omitempty"`
	Engine     string `json:"engine,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`

	// VISIT_URL
	URL string `json:"url,omitempty"`

	// OCR_REQUEST
	ImageSrc string `json:"imageSrc,omitempty"`

	// Settings overrides the stored settings for this request.
	Settings *settings.Settings `json:"settings,omitempty"`
}

// Response carries success plus the payload fields of the handled type, or
// success=false with Error.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Content        string `json:"content,omitempty"`
	Text           string `json:"text,omitempty"`
	TranslatedText string `json:"translatedText,omitempty"`
	Title          string `json:"title,omitempty"`
	URL            string `json:"url,omitempty"`

	Results []search.Result    `json:"results,omitempty"`
	Answer  string             `json:"answer,omitempty"`
	Sources []assistant.Source `json:"sources,omitempty"`
	Engine  string             `json:"engine,omitempty"`
	Notice  string             `json:"notice,omitempty"`

	Decision *decide.Decision `json:"decision,omitempty"`
	History  []llm.Message    `json:"history,omitempty"`
}

// Failure builds an error response.
func Failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
