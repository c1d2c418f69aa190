package protocol

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/assistant"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// Backend is the set of assistant operations the dispatcher routes to.
// *assistant.Assistant implements it.
type Backend interface {
	Chat(ctx context.Context, s settings.Settings, req assistant.ChatRequest) (string, error)
	Write(ctx context.Context, s settings.Settings, prompt string) (string, error)
	Rewrite(ctx context.Context, s settings.Settings, action assistant.RewriteAction, text string) (string, error)
	Translate(ctx context.Context, s settings.Settings, text string) (string, error)
	OCR(ctx context.Context, s settings.Settings, imageURL string) (string, error)
	ValidateConfig(ctx context.Context, s settings.Settings) (string, error)
	WebSearch(ctx context.Context, query string, limit int) ([]search.Result, error)
	VisitURL(ctx context.Context, rawURL string) (fetch.Page, error)
	SearchAndRead(ctx context.Context, s settings.Settings, query string, engine serp.Engine, limit int) (assistant.Answer, error)
	Research(ctx context.Context, s settings.Settings, query string) (assistant.Answer, error)
	Ask(ctx context.Context, s settings.Settings, req assistant.ChatRequest) (assistant.AskResult, error)
}

// ErrUnknownType is reported for requests whose type is not in Types.
var ErrUnknownType = errors.New("unknown message type")

// SettingsSource supplies settings for requests that carry none.
// *settings.Store implements it.
type SettingsSource interface {
	Load() (settings.Settings, error)
}

// Dispatcher routes requests to a Backend.
type Dispatcher struct {
	Backend Backend
	// Settings is consulted per request; nil means settings.Defaults.
	Settings SettingsSource
	Metrics  *metrics.Metrics
}

// Handle runs one request and always returns a response. Errors, including
// panics in the backend, become success=false responses.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("type", string(req.Type)).Msg("request handler panicked")
			resp = Failure("internal error")
		}
		d.Metrics.MessageHandled(metricLabel(req.Type), resp.Success)
	}()

	resp, err := d.handle(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("type", string(req.Type)).Msg("request failed")
		return Failure(err.Error())
	}
	resp.Success = true
	return resp
}

func (d *Dispatcher) handle(ctx context.Context, req Request) (Response, error) {
	s := d.settingsFor(req)
	b := d.Backend
	switch req.Type {
	case TypeChat:
		if err := required("message", req.Message); err != nil {
			return Response{}, err
		}
		out, err := b.Chat(ctx, s, chatRequest(req))
		return Response{Content: out}, err

	case TypeWriting:
		var (
			out string
			err error
		)
		if req.Action != "" {
			action, perr := assistant.ParseRewriteAction(req.Action)
			if perr != nil {
				return Response{}, perr
			}
			if err := required("text", req.Text); err != nil {
				return Response{}, err
			}
			out, err = b.Rewrite(ctx, s, action, req.Text)
		} else {
			if err := required("prompt", req.Prompt); err != nil {
				return Response{}, err
			}
			out, err = b.Write(ctx, s, req.Prompt)
		}
		return Response{Content: out}, err

	case TypeSearchAndRead:
		if err := required("query", req.Query); err != nil {
			return Response{}, err
		}
		engine, err := serp.ParseEngine(req.Engine)
		if err != nil {
			return Response{}, err
		}
		if err := s.Validate(); err != nil {
			return Response{}, err
		}
		ans, err := b.SearchAndRead(ctx, s, req.Query, engine, req.MaxResults)
		return answerResponse(ans), err

	case TypeResearch:
		if err := required("query", req.Query); err != nil {
			return Response{}, err
		}
		ans, err := b.Research(ctx, s, req.Query)
		return answerResponse(ans), err

	case TypeWebSearch:
		if err := required("query", req.Query); err != nil {
			return Response{}, err
		}
		results, err := b.WebSearch(ctx, req.Query, req.MaxResults)
		return Response{Results: results}, err

	case TypeVisitURL:
		if err := required("url", req.URL); err != nil {
			return Response{}, err
		}
		page, err := b.VisitURL(ctx, req.URL)
		if err != nil {
			return Response{}, err
		}
		return Response{Content: page.Text, Title: page.Title, URL: page.URL}, nil

	case TypeOCR:
		if err := required("imageSrc", req.ImageSrc); err != nil {
			return Response{}, err
		}
		out, err := b.OCR(ctx, s, req.ImageSrc)
		return Response{Text: out}, err

	case TypeTranslate:
		if err := required("text", req.Text); err != nil {
			return Response{}, err
		}
		out, err := b.Translate(ctx, s, req.Text)
		return Response{TranslatedText: out}, err

	case TypeAsk:
		if err := required("message", req.Message); err != nil {
			return Response{}, err
		}
		res, err := b.Ask(ctx, s, chatRequest(req))
		if err != nil {
			return Response{}, err
		}
		return Response{
			Content:  res.Answer,
			Results:  res.Results,
			Sources:  res.Sources,
			Notice:   res.Notice,
			Decision: &res.Decision,
			History:  res.History,
		}, nil

	case TypeValidateConfig:
		out, err := b.ValidateConfig(ctx, s)
		return Response{Content: out}, err
	}
	return Response{}, ErrUnknownType
}

// settingsFor returns the inline settings of req or the stored ones.
func (d *Dispatcher) settingsFor(req Request) settings.Settings {
	if req.Settings != nil {
		return *req.Settings
	}
	if d.Settings == nil {
		return settings.Defaults()
	}
	s, err := d.Settings.Load()
	if err != nil {
		log.Warn().Err(err).Msg("settings unreadable; using defaults")
	}
	return s
}

// metricLabel bounds label cardinality to the known types.
func metricLabel(t Type) string {
	if slices.Contains(Types, t) {
		return string(t)
	}
	return "unknown"
}

func chatRequest(req Request) assistant.ChatRequest {
	return assistant.ChatRequest{Message: req.Message, PageContext: req.PageContext, History: req.History}
}

func answerResponse(ans assistant.Answer) Response {
	return Response{Answer: ans.Answer, Sources: ans.Sources, Engine: ans.Engine, Notice: ans.Notice}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
