// Package app wires configuration, settings, caches, the fetcher, the
// completion client and the assistant into one runnable application.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/browseassist/internal/assistant"
	"github.com/hyperifyio/browseassist/internal/cache"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/llm"
	"github.com/hyperifyio/browseassist/internal/metrics"
	"github.com/hyperifyio/browseassist/internal/protocol"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
	"github.com/hyperifyio/browseassist/internal/server"
	"github.com/hyperifyio/browseassist/internal/settings"
)

// App holds the wired components. Fields are exported for the CLI.
type App struct {
	cfg Config

	Store      *settings.Store
	Metrics    *metrics.Metrics
	Fetcher    *fetch.Client
	Completer  *llm.Completer
	Assistant  *assistant.Assistant
	Dispatcher *protocol.Dispatcher
}

// New validates cfg and builds the application.
func New(ctx context.Context, cfg Config) (*App, error) {
	cfg = cfg.WithDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	path := cfg.SettingsPath
	if strings.TrimSpace(path) == "" {
		path = settings.DefaultPath()
	}
	m := metrics.New()
	a := &App{cfg: cfg, Store: settings.NewStore(path), Metrics: m}

	a.Fetcher = &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.HTTPTimeout),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.HTTPTimeout,
		CacheMaxAge:       cfg.CacheMaxAge,
		MaxConcurrent:     cfg.MaxConcurrent,
	}
	a.Completer = &llm.Completer{HTTPClient: newHTTPClient(cfg.RequestTimeout), Metrics: m}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
			} else if n > 0 {
				log.Info().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.Fetcher.Cache = &cache.HTTPCache{Dir: filepath.Join(cfg.CacheDir, cache.HTTPSubdir), StrictPerms: cfg.CacheStrictPerms}
		a.Completer.Cache = &cache.LLMCache{Dir: filepath.Join(cfg.CacheDir, cache.LLMSubdir), StrictPerms: cfg.CacheStrictPerms}
	}

	a.Assistant = assistant.New(a.Completer, a.Fetcher, m)
	a.Assistant.Search = a.searchProvider()
	a.Assistant.Concurrency = cfg.MaxConcurrent
	a.Dispatcher = &protocol.Dispatcher{Backend: a.Assistant, Settings: settingsOverlay{store: a.Store, cfg: cfg}, Metrics: m}

	log.Debug().
		Str("settings", path).
		Str("engine", cfg.SearchEngine).
		Str("cache", cfg.CacheDir).
		Msg("app initialized")
	return a, nil
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// searchProvider picks the WebSearch backend. A scraped engine falls back
// to SearxNG when an instance is configured.
func (a *App) searchProvider() search.Provider {
	cfg := a.cfg
	searx := func() *search.SearxNG {
		return &search.SearxNG{
			BaseURL:    cfg.SearxURL,
			APIKey:     cfg.SearxKey,
			HTTPClient: newHTTPClient(cfg.HTTPTimeout),
			UserAgent:  cfg.SearxUA,
		}
	}
	switch strings.ToLower(cfg.SearchEngine) {
	case EngineSearxNG:
		return searx()
	case EngineFile:
		return &search.FileProvider{Path: cfg.FileSearchPath}
	}
	engine, _ := serp.ParseEngine(cfg.SearchEngine)
	scraped := &serp.Provider{Engine: engine, Getter: a.Fetcher, Metrics: a.Metrics}
	if cfg.SearxURL == "" {
		return scraped
	}
	return &search.Fallback{Providers: []search.Provider{scraped, searx()}}
}

// Settings returns the stored settings with configured LLM overrides
// applied.
func (a *App) Settings() (settings.Settings, error) {
	return settingsOverlay{store: a.Store, cfg: a.cfg}.Load()
}

// Preflight lists the models of the configured endpoint. It is best-effort:
// failures are logged and returned but callers may continue.
func (a *App) Preflight(ctx context.Context) error {
	s, err := a.Settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	lister, ok := llm.NewClient(s, a.Completer.HTTPClient).(llm.ModelLister)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return fmt.Errorf("list models: %w", err)
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return nil
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
	return nil
}

// Serve runs the HTTP transport until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Preflight(ctx); err != nil {
		log.Warn().Err(err).Msg("preflight failed; serving anyway")
	}
	srv := &server.Server{Handler: a.Dispatcher, Metrics: a.Metrics, RequestTimeout: a.cfg.RequestTimeout}
	return srv.ListenAndServe(ctx, a.cfg.Addr)
}

// settingsOverlay loads stored settings and applies LLM overrides from the
// configuration.
type settingsOverlay struct {
	store *settings.Store
	cfg   Config
}

func (o settingsOverlay) Load() (settings.Settings, error) {
	s, err := o.store.Load()
	if v := strings.TrimSpace(o.cfg.LLMBaseURL); v != "" {
		s.BaseURL = v
	}
	if v := strings.TrimSpace(o.cfg.LLMAPIKey); v != "" {
		s.APIKey = v
	}
	if v := strings.TrimSpace(o.cfg.LLMModel); v != "" {
		s.Model = v
	}
	return s, err
}
