package assistant

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/browseassist/internal/extract"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/search"
)

// ContextPrompt combines the current page, the question and the tail of the
// conversation into one user message.
func ContextPrompt(message, pageContext string, history []llm.Message) string {
	var sb strings.Builder
	if page := strings.TrimSpace(pageContext); page != "" {
		sb.WriteString("Current page content:\n")
		sb.WriteString(extract.Truncate(page, extract.PageLimit))
		sb.WriteString("\n\n")
	}
	sb.WriteString("User question: ")
	sb.WriteString(message)
	if tail := lastTurns(history, HistoryTurns); len(tail) > 0 {
		sb.WriteString("\n\nPrevious conversation:\n")
		for _, m := range tail {
			who := "AI"
			if m.Role == llm.RoleUser {
				who = "User"
			}
			sb.WriteString(who)
			sb.WriteString(": ")
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func lastTurns(history []llm.Message, n int) []llm.Message {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

// Corpus numbers pages as sources S1..Sn and bounds each excerpt.
func Corpus(pages []fetch.Page) string {
	parts := make([]string, 0, len(pages))
	for i, p := range pages {
		parts = append(parts, fmt.Sprintf("Source %d: %s\n%s", i+1, p.URL, extract.Truncate(p.Text, extract.CorpusLimit)))
	}
	return strings.Join(parts, "\n\n")
}

// ResearchPrompt asks for a cited answer over a corpus built by Corpus.
func ResearchPrompt(query, corpus string) string {
	return "You are a research assistant. Read the sources below and answer the user query.\n" +
		"Rules: cite sources as [S1], [S2]... using the numbering in the sources. Be concise, prioritized, and avoid speculation. " +
		"Provide bullet points and a short summary. If insufficient info, say so.\n\n" +
		"User query: " + query + "\n\nSources:\n" + corpus
}

// WebAnswerPrompt asks for an answer grounded in search results and the
// pages visited from them.
func WebAnswerPrompt(message string, results []search.Result, pages []fetch.Page) string {
	var sb strings.Builder
	sb.WriteString("Answer the user's question based on the search results and page content below.\n\n")
	sb.WriteString("User question: ")
	sb.WriteString(message)
	sb.WriteString("\n\nSearch results:\n")
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.Snippet, r.URL)
	}
	sb.WriteString("\nPage content:\n")
	for i, p := range pages {
		fmt.Fprintf(&sb, "\n=== Page %d: %s ===\nURL: %s\nExcerpt: %s...\n", i+1, p.Title, p.URL, extract.Truncate(p.Text, pageExcerptChars))
	}
	sb.WriteString("\nGive an accurate, detailed answer. If the information is insufficient, say so. List the reference sources at the end.")
	return sb.String()
}

// RewriteAction selects a rewrite instruction.
type RewriteAction string

const (
	Improve RewriteAction = "improve"
	Shorten RewriteAction = "shorten"
	Expand  RewriteAction = "expand"
	Grammar RewriteAction = "grammar"
)

var rewriteInstructions = map[RewriteAction]string{
	Improve: "Improve this text to make it clearer, more engaging, and better written",
	Shorten: "Make this text shorter and more concise while keeping the main meaning",
	Expand:  "Expand this text with more details, examples, and elaboration",
	Grammar: "Check and correct any grammar, spelling, or punctuation errors in this text",
}

// ParseRewriteAction validates a client supplied action name.
func ParseRewriteAction(s string) (RewriteAction, error) {
	a := RewriteAction(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rewriteInstructions[a]; !ok {
		return "", fmt.Errorf("unknown rewrite action %q", s)
	}
	return a, nil
}

// RewritePrompt applies action to text.
func RewritePrompt(action RewriteAction, text string) string {
	return fmt.Sprintf("%s: %q", rewriteInstructions[action], text)
}

// GeneratePrompt asks for new content from a free-form request.
func GeneratePrompt(request string) string {
	return "Write content based on this request: " + request + ". Make it clear, engaging, and well-structured."
}

// TranslatePrompt asks for an English translation returned verbatim when
// the text is already English.
func TranslatePrompt(text string) string {
	return "Please translate the following text to English. If it's already in English, keep it as is. Only return the translated text without any additional commentary:\n\n" + text
}

// OCRPrompt asks the model to transcribe the text in an image.
func OCRPrompt(imageURL string) string {
	return "Please extract and transcribe all text content from this image. Return only the text content without any additional commentary or formatting. Image URL: " + imageURL
}

// ValidationPrompt is the probe sent by ValidateConfig.
const ValidationPrompt = `Please reply "Configuration correct" to confirm the connection`
