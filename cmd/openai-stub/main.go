// Command openai-stub serves a canned OpenAI-compatible API for local runs
// and end-to-end checks of browseassist without a real model.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

var (
	quotedMessage = regexp.MustCompile(`User message: "([^"]*)"`)
	sourceLine    = regexp.MustCompile(`(?m)^Source (\d+): (\S+)`)
	searchWords   = []string{"latest", "news", "today", "current", "weather", "price", "search", "look up"}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		content := reply(req.Messages[len(req.Messages)-1].Content)
		log.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": model,
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

// reply picks a canned answer by the prompt the assistant sent.
func reply(prompt string) string {
	switch {
	case strings.HasPrefix(prompt, "Analyze whether"):
		msg := ""
		if m := quotedMessage.FindStringSubmatch(prompt); m != nil {
			msg = m[1]
		}
		needs := false
		lower := strings.ToLower(msg)
		for _, w := range searchWords {
			if strings.Contains(lower, w) {
				needs = true
				break
			}
		}
		b, _ := json.Marshal(map[string]any{"needsSearch": needs, "searchQuery": msg, "reason": "stub keyword match"})
		return string(b)
	case strings.HasPrefix(prompt, "You are a research assistant."):
		var sb strings.Builder
		sb.WriteString("Summary of the sources:\n")
		for _, m := range sourceLine.FindAllStringSubmatch(prompt, -1) {
			sb.WriteString("- Finding from " + m[2] + " [S" + m[1] + "]\n")
		}
		return sb.String()
	case strings.HasPrefix(prompt, "Answer the user's question based on the search results"):
		return "Answer based on the search results.\n\nSources: see the listed pages."
	case strings.Contains(prompt, "Configuration correct"):
		return "Configuration correct"
	case strings.HasPrefix(prompt, "Please translate"):
		if i := strings.Index(prompt, "\n\n"); i >= 0 {
			return prompt[i+2:]
		}
		return prompt
	default:
		if len(prompt) > 200 {
			prompt = prompt[:200]
		}
		return "stub reply: " + prompt
	}
}
