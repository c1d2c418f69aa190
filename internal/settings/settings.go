// Package settings holds the assistant's persisted configuration record and
// a file-backed store for it. Settings are passed explicitly into every
// orchestration call; nothing in this package is global.
package settings

import (
	"errors"
	"slices"
	"strings"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

// ErrIncomplete is returned when the base URL or API key is missing.
var ErrIncomplete = errors.New("API configuration incomplete")

// Settings is the single persisted configuration record.
type Settings struct {
	BaseURL            string   `json:"baseUrl"`
	APIKey             string   `json:"apiKey"`
	Model              string   `json:"model"`
	EnableGlobalHelper bool     `json:"enableGlobalHelper"`
	DisabledSites      []string `json:"disabledSites"`
}

// Defaults returns the record used before the user saves anything.
func Defaults() Settings {
	return Settings{
		BaseURL:            DefaultBaseURL,
		Model:              DefaultModel,
		EnableGlobalHelper: true,
		DisabledSites:      []string{},
	}
}

// Validate reports ErrIncomplete when the completion endpoint cannot be
// called with these settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.BaseURL) == "" || strings.TrimSpace(s.APIKey) == "" {
		return ErrIncomplete
	}
	return nil
}

// ModelOrDefault returns the configured model, or DefaultModel when unset.
func (s Settings) ModelOrDefault() string {
	if m := strings.TrimSpace(s.Model); m != "" {
		return m
	}
	return DefaultModel
}

// HelperEnabled reports whether the in-page writing helper should run on host.
func (s Settings) HelperEnabled(host string) bool {
	host = normalizeHost(host)
	return s.EnableGlobalHelper && !slices.ContainsFunc(s.DisabledSites, func(h string) bool {
		return normalizeHost(h) == host
	})
}

// WithSiteDisabled returns a copy of s with host added to or removed from
// the disabled list. The receiver is not modified.
func (s Settings) WithSiteDisabled(host string, disabled bool) Settings {
	host = normalizeHost(host)
	out := s
	out.DisabledSites = make([]string, 0, len(s.DisabledSites)+1)
	for _, h := range s.DisabledSites {
		if h != host {
			out.DisabledSites = append(out.DisabledSites, h)
		}
	}
	if disabled && host != "" {
		out.DisabledSites = append(out.DisabledSites, host)
	}
	return out
}

// Redacted returns a copy safe to log or echo back to a client.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		s.APIKey = "***"
	}
	return s
}

// normalizeSites lower-cases and trims hand-edited entries and drops empty
// or repeated ones. The result is never nil.
func normalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, h := range sites {
		h = normalizeHost(h)
		if h != "" && !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

func normalizeHost(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
