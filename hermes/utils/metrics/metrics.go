package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_agent_requests_total", Help: "Questions handled by the agent, by result.",
	}, []string{"result"})
	AgentLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hermes_agent_latency_seconds",
		Help:    "Wall-clock time of one agent question/answer round-trip.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_tool_calls_total", Help: "Analytics actions invoked, by action and result.",
	}, []string{"action", "result"})
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_llm_calls_total", Help: "Model calls, by provider and result.",
	}, []string{"provider", "result"})
	LLMTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_llm_tokens_total", Help: "Tokens reported by the model provider, by provider and kind.",
	}, []string{"provider", "kind"})
	InteractionsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_interactions_persisted_total", Help: "Interaction records appended to the log store, by result.",
	}, []string{"result"})
	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hermes_dataset_rows", Help: "Shipment rows loaded at startup.",
	})
)

const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultFallback = "fallback"

	TokensPrompt     = "prompt"
	TokensCompletion = "completion"
)
