// Package metrics holds the Prometheus collectors for fetches, model calls
// and search decisions. All methods are safe on a nil *Metrics so packages
// can record unconditionally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	pageFetches *prometheus.CounterVec
	llmCalls    *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	serpLinks   *prometheus.HistogramVec
	messages    *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		pageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browseassist",
			Name:      "page_fetches_total",
			Help:      "Page fetches by outcome (ok, error).",
		}, []string{"outcome"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browseassist",
			Name:      "llm_calls_total",
			Help:      "Chat completion calls by profile and outcome.",
		}, []string{"profile", "outcome"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browseassist",
			Name:      "search_decisions_total",
			Help:      "Needs-search decisions by deciding strategy and result.",
		}, []string{"strategy", "needs_search"}),
		serpLinks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "browseassist",
			Name:      "serp_links",
			Help:      "Links extracted per result page.",
			Buckets:   []float64{0, 1, 3, 5, 10, 15},
		}, []string{"engine"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browseassist",
			Name:      "messages_total",
			Help:      "Protocol messages handled by type and success.",
		}, []string{"type", "success"}),
	}
	m.Registry.MustRegister(m.pageFetches, m.llmCalls, m.decisions, m.serpLinks, m.messages)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (m *Metrics) PageFetched(err error) {
	if m == nil {
		return
	}
	m.pageFetches.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) LLMCalled(profile string, err error) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(profile, outcome(err)).Inc()
}

func (m *Metrics) Decided(strategy string, needsSearch bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(strategy, boolLabel(needsSearch)).Inc()
}

func (m *Metrics) SERPLinks(engine string, n int) {
	if m == nil {
		return
	}
	m.serpLinks.WithLabelValues(engine).Observe(float64(n))
}

func (m *Metrics) MessageHandled(msgType string, success bool) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(msgType, boolLabel(success)).Inc()
}
