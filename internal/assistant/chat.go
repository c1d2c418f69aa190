package assistant

import (
	"context"
	"strings"

	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// ChatRequest is one user turn with its surrounding context.
type ChatRequest struct {
	Message     string        `json:"message"`
	PageContext string        `json:"pageContext,omitempty"`
	History     []llm.Message `json:"history,omitempty"`
}

// Chat answers a message using the page context and recent history.
func (a *Assistant) Chat(ctx context.Context, s settings.Settings, req ChatRequest) (string, error) {
	return a.Completer.Complete(ctx, s, llm.UserRequest(llm.ChatProfile, ContextPrompt(req.Message, req.PageContext, req.History)))
}

// Prompt sends a prebuilt message with the chat profile and no extra context.
func (a *Assistant) Prompt(ctx context.Context, s settings.Settings, message string) (string, error) {
	return a.Completer.Complete(ctx, s, llm.UserRequest(llm.ChatProfile, message))
}

// Write sends a writing prompt as is.
func (a *Assistant) Write(ctx context.Context, s settings.Settings, prompt string) (string, error) {
	return a.Completer.Complete(ctx, s, llm.UserRequest(llm.WritingProfile, prompt))
}

// Rewrite transforms text according to action.
func (a *Assistant) Rewrite(ctx context.Context, s settings.Settings, action RewriteAction, text string) (string, error) {
	if _, ok := rewriteInstructions[action]; !ok {
		_, err := ParseRewriteAction(string(action))
		return "", err
	}
	return a.Write(ctx, s, RewritePrompt(action, text))
}

// Generate writes new content from a free-form request.
func (a *Assistant) Generate(ctx context.Context, s settings.Settings, request string) (string, error) {
	return a.Write(ctx, s, GeneratePrompt(request))
}

// Translate renders text in English.
func (a *Assistant) Translate(ctx context.Context, s settings.Settings, text string) (string, error) {
	return a.Write(ctx, s, TranslatePrompt(text))
}

// OCR asks the model to transcribe the text in the image at imageURL.
func (a *Assistant) OCR(ctx context.Context, s settings.Settings, imageURL string) (string, error) {
	return a.Write(ctx, s, OCRPrompt(imageURL))
}

// ValidateConfig sends a probe message and reports whether the endpoint
// answered.
func (a *Assistant) ValidateConfig(ctx context.Context, s settings.Settings) (string, error) {
	reply, err := a.Prompt(ctx, s, ValidationPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
