package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/browseassist/internal/protocol"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
	"github.com/hyperifyio/browseassist/internal/settings"
)

func TestValidateConfig(t *testing.T) {
	ok := Config{}.WithDefaults()
	if err := ValidateConfig(ok); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if ok.MaxAttempts != 1 {
		t.Fatalf("fetches must not retry by default, got MaxAttempts=%d", ok.MaxAttempts)
	}
	for name, cfg := range map[string]Config{
		"negative":      {MaxConcurrent: -1},
		"unknown":       {SearchEngine: "altavista"},
		"searx no url":  {SearchEngine: EngineSearxNG},
		"file no path":  {SearchEngine: EngineFile},
		"negative time": {HTTPTimeout: -time.Second},
	} {
		if err := ValidateConfig(cfg.WithDefaults()); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestApplyFileConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browseassist.yaml")
	content := `
llm:
  base: http://llm.local/v1
  model: file-model
search:
  engine: bing
fetch:
  timeout: 20s
  maxConcurrent: 4
cache:
  dir: /tmp/ba-cache
  maxAge: 24h
server:
  addr: 127.0.0.1:9999
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := Config{LLMModel: "flag-model"}
	ApplyFileConfig(&cfg, fc)
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("file must not override explicit values, got %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://llm.local/v1" || cfg.SearchEngine != "bing" || cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.HTTPTimeout != 20*time.Second || cfg.MaxConcurrent != 4 || cfg.CacheMaxAge != 24*time.Hour {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browseassist.json")
	if err := os.WriteFile(path, []byte(`{"searx":{"url":"http://searx.local"},"fetch":{"timeout":"3s"}}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Searx.URL != "http://searx.local" || time.Duration(fc.Fetch.Timeout) != 3*time.Second {
		t.Fatalf("unexpected file config %+v", fc)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{"fetch":{"timeout":3}}`), 0o600)
	if _, err := LoadConfigFile(bad); err == nil {
		t.Fatalf("expected an error for a numeric duration")
	}
}

func TestNew_SearchProviderSelection(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "google"},
		{Config{SearchEngine: "ddg"}, "duckduckgo"},
		{Config{SearchEngine: "bing", SearxURL: "http://searx.local"}, "fallback"},
		{Config{SearchEngine: EngineSearxNG, SearxURL: "http://searx.local"}, "searxng"},
		{Config{SearchEngine: EngineFile, FileSearchPath: filepath.Join(dir, "results.json")}, "file"},
	}
	for _, tc := range cases {
		tc.cfg.SettingsPath = filepath.Join(dir, "settings.json")
		a, err := New(context.Background(), tc.cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if got := a.Assistant.Search.Name(); got != tc.want {
			t.Fatalf("engine %q: got provider %q, want %q", tc.cfg.SearchEngine, got, tc.want)
		}
	}
	a, _ := New(context.Background(), Config{SearchEngine: "bing", SearxURL: "http://searx.local", SettingsPath: filepath.Join(dir, "s.json")})
	fb := a.Assistant.Search.(*search.Fallback)
	if p, ok := fb.Providers[0].(*serp.Provider); !ok || p.Engine != serp.Bing {
		t.Fatalf("scraped engine should be tried first, got %T", fb.Providers[0])
	}
}

func TestNew_CacheLayout(t *testing.T) {
	dir := t.TempDir()
	a, err := New(context.Background(), Config{CacheDir: dir, CacheStrictPerms: true, SettingsPath: filepath.Join(dir, "settings.json")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Fetcher.Cache == nil || a.Fetcher.Cache.Dir != filepath.Join(dir, "http") || !a.Fetcher.Cache.StrictPerms {
		t.Fatalf("unexpected http cache %+v", a.Fetcher.Cache)
	}
	if a.Completer.Cache == nil || a.Completer.Cache.Dir != filepath.Join(dir, "llm") {
		t.Fatalf("unexpected llm cache %+v", a.Completer.Cache)
	}
}

func TestSettings_OverridesApplyOverStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	stored := settings.Defaults()
	stored.APIKey = "sk-stored"
	stored.Model = "stored-model"
	if err := settings.NewStore(path).Save(stored); err != nil {
		t.Fatalf("save: %v", err)
	}
	a, err := New(context.Background(), Config{SettingsPath: path, LLMModel: "override-model"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s, err := a.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.APIKey != "sk-stored" || s.Model != "override-model" {
		t.Fatalf("unexpected settings %+v", s.Redacted())
	}
}

// An end-to-end chat through the dispatcher against a stub completion
// endpoint, using settings from the store.
func TestDispatcher_ChatAgainstStubEndpoint(t *testing.T) {
	var gotAuth, gotModel string
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"stub reply"}}]}`))
	}))
	defer llmSrv.Close()

	path := filepath.Join(t.TempDir(), "settings.json")
	stored := settings.Defaults()
	stored.BaseURL = llmSrv.URL + "/v1/chat/completions"
	stored.APIKey = "sk-stub"
	stored.Model = "stub-model"
	if err := settings.NewStore(path).Save(stored); err != nil {
		t.Fatalf("save: %v", err)
	}
	a, err := New(context.Background(), Config{SettingsPath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	resp := a.Dispatcher.Handle(context.Background(), protocol.Request{Type: protocol.TypeChat, Message: "hello"})
	if !resp.Success || resp.Content != "stub reply" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gotAuth != "Bearer sk-stub" || gotModel != "stub-model" {
		t.Fatalf("unexpected request auth=%q model=%q", gotAuth, gotModel)
	}

	resp = a.Dispatcher.Handle(context.Background(), protocol.Request{Type: "NOPE"})
	if resp.Success || !strings.Contains(resp.Error, "unknown") {
		t.Fatalf("unexpected response %+v", resp)
	}
}
