package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/browseassist/internal/cache"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// Profile fixes the system prompt and sampling parameters for one kind of
// request.
type Profile struct {
	Name        string
	System      string
	MaxTokens   int
	Temperature float32
}

var (
	// ChatProfile answers questions about page content and search results.
	ChatProfile = Profile{
		Name:        "chat",
		System:      "You are a professional AI assistant specialized in analyzing webpage content and answering user questions. Base your answers on the provided webpage content. If the content is insufficient, explain this and provide general advice. Be concise, accurate, and helpful.",
		MaxTokens:   1000,
		Temperature: 0.7,
	}
	// WritingProfile creates and rewrites text.
	WritingProfile = Profile{
		Name:        "writing",
		System:      "You are a professional writing assistant. Help users create, improve, and refine their text. Provide clear, engaging, and well-structured content. Focus on clarity, coherence, and style.",
		MaxTokens:   1500,
		Temperature: 0.8,
	}
)

// Message is one prior conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Request is a single completion call. Messages follow the profile's
// system prompt in order; the last one is normally the user turn.
type Request struct {
	Profile  Profile
	Messages []Message
}

// UserRequest is shorthand for a request carrying one user message.
func UserRequest(p Profile, content string) Request {
	return Request{Profile: p, Messages: []Message{{Role: RoleUser, Content: content}}}
}

// Completer sends Requests to the OpenAI-compatible endpoint named by the
// settings passed with each call.
type Completer struct {
	// NewClient builds the transport for one call. Nil means NewClient with
	// HTTPClient.
	NewClient  func(s settings.Settings) Client
	HTTPClient *http.Client
	// Cache, when set, memoizes replies by model and prompt.
	Cache   *cache.LLMCache
	Metrics *metrics.Metrics
}

// Complete returns the first choice's content. Errors are ErrConfigMissing,
// *HTTPError, ErrMalformedResponse, or a wrapped transport error.
func (c *Completer) Complete(ctx context.Context, s settings.Settings, req Request) (string, error) {
	if err := s.Validate(); err != nil {
		return "", ErrConfigMissing
	}
	model := s.ModelOrDefault()
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.Profile.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.Profile.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var key string
	if c.Cache != nil {
		key = cacheKey(model, req.Profile, msgs)
		if raw, ok, _ := c.Cache.Get(ctx, key); ok {
			var out struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal(raw, &out); err == nil && out.Content != "" {
				log.Debug().Str("profile", req.Profile.Name).Msg("completion served from cache")
				return out.Content, nil
			}
		}
	}

	log.Debug().
		Str("profile", req.Profile.Name).
		Str("model", model).
		Int("messages", len(msgs)).
		Int("prompt_chars", promptChars(msgs)).
		Msg("calling completion endpoint")

	// stream is false by default and omitted from the body by the client.
	resp, err := c.client(s).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   req.Profile.MaxTokens,
		Temperature: req.Profile.Temperature,
	})
	if err != nil {
		err = classify(err)
		c.Metrics.LLMCalled(req.Profile.Name, err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		c.Metrics.LLMCalled(req.Profile.Name, ErrMalformedResponse)
		return "", ErrMalformedResponse
	}
	content := resp.Choices[0].Message.Content
	c.Metrics.LLMCalled(req.Profile.Name, nil)

	if c.Cache != nil && strings.TrimSpace(content) != "" {
		payload, _ := json.Marshal(map[string]string{"content": content})
		_ = c.Cache.Save(ctx, key, payload)
	}
	return content, nil
}

func (c *Completer) client(s settings.Settings) Client {
	if c.NewClient != nil {
		return c.NewClient(s)
	}
	return NewClient(s, c.HTTPClient)
}

func cacheKey(model string, p Profile, msgs []openai.ChatCompletionMessage) string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	for _, m := range msgs {
		sb.WriteString("\n")
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return cache.KeyFrom(model, sb.String())
}

func promptChars(msgs []openai.ChatCompletionMessage) int {
	n := 0
	for _, m := range msgs {
		n += len(m.Content)
	}
	return n
}
