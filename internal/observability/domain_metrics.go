package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creditbench_questions_total",
			Help: "Total number of natural language questions processed, by outcome.",
		},
		[]string{"outcome"},
	)
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creditbench_queries_total",
			Help: "Total number of SQL statements submitted to the safe executor, by status.",
		},
		[]string{"status"},
	)
	guardRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creditbench_guard_rejections_total",
			Help: "Total number of SQL statements rejected by the safety guard, by kind.",
		},
		[]string{"kind"},
	)
	queryDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creditbench_query_duration_ms",
			Help:    "Dataset query execution latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creditbench_query_rows_returned",
			Help:    "Rows returned per successful dataset query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)
	llmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creditbench_llm_requests_total",
			Help: "Total number of language model calls, by purpose and status.",
		},
		[]string{"purpose", "status"},
	)
	llmLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "creditbench_llm_latency_ms",
			Help:    "Language model call latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 30000},
		},
		[]string{"purpose"},
	)
)

func init() {
	prometheus.MustRegister(
		questionsTotal,
		queriesTotal,
		guardRejectionsTotal,
		queryDurationMs,
		queryRowsReturned,
		llmRequestsTotal,
		llmLatencyMs,
	)
}

func ObserveQuestion(outcome string) {
	questionsTotal.WithLabelValues(outcome).Inc()
}

func ObserveGuardRejection(kind string) {
	queriesTotal.WithLabelValues("rejected").Inc()
	guardRejectionsTotal.WithLabelValues(kind).Inc()
}

func ObserveQueryError() {
	queriesTotal.WithLabelValues("error").Inc()
}

func ObserveQueryExecution(rows int, elapsed time.Duration) {
	queriesTotal.WithLabelValues("ok").Inc()
	queryDurationMs.Observe(float64(elapsed.Milliseconds()))
	queryRowsReturned.Observe(float64(rows))
}

func ObserveLLMCall(purpose string, elapsed time.Duration, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	llmRequestsTotal.WithLabelValues(purpose, status).Inc()
	llmLatencyMs.WithLabelValues(purpose).Observe(float64(elapsed.Milliseconds()))
}
