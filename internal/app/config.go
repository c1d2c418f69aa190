package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/browseassist/internal/serp"
)

// Config holds runtime configuration for the application. Zero values mean
// "not set"; WithDefaults fills them in after flags, environment and the
// config file have been applied.
type Config struct {
	// Settings
	SettingsPath string

	// LLM overrides applied on top of the stored settings
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Search
	SearchEngine   string // google, bing, duckduckgo, searxng or file
	SearxURL       string
	SearxKey       string
	SearxUA        string
	FileSearchPath string

	// Fetching
	UserAgent     string
	HTTPTimeout   time.Duration
	MaxAttempts   int
	MaxConcurrent int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Server
	Addr           string
	RequestTimeout time.Duration

	Verbose bool
}

const (
	defaultEngine         = "google"
	defaultSearxUA        = "browseassist/1.0 (+https://github.com/hyperifyio/browseassist)"
	defaultHTTPTimeout    = 15 * time.Second
	defaultMaxAttempts    = 1
	defaultMaxConcurrent  = 8
	defaultAddr           = "127.0.0.1:8787"
	defaultRequestTimeout = 2 * time.Minute
)

// Search engine names accepted besides the scraped engines.
const (
	EngineSearxNG = "searxng"
	EngineFile    = "file"
)

// WithDefaults returns cfg with unset fields filled in.
func (cfg Config) WithDefaults() Config {
	if strings.TrimSpace(cfg.SearchEngine) == "" {
		cfg.SearchEngine = defaultEngine
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = defaultSearxUA
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return cfg
}

// ValidateConfig rejects negative limits and unknown search engines.
func ValidateConfig(cfg Config) error {
	if cfg.MaxAttempts < 0 || cfg.MaxConcurrent < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.HTTPTimeout < 0 || cfg.RequestTimeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	switch engine := strings.ToLower(strings.TrimSpace(cfg.SearchEngine)); engine {
	case EngineSearxNG:
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searxng engine requires searx.url (or SEARX_URL)")
		}
	case EngineFile:
		if strings.TrimSpace(cfg.FileSearchPath) == "" {
			return errors.New("config: file engine requires search.file (or SEARCH_FILE)")
		}
	default:
		if _, err := serp.ParseEngine(engine); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
