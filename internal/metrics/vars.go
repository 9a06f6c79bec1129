package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StrategyAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_strategy_attempts_total",
		Help: "Extraction strategy runs by result (hit, miss, error)",
	}, []string{"strategy", "result"})

	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_fetch_total",
		Help: "Leaderboard fetch cycles by outcome",
	}, []string{"outcome"})

	FetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "board_fetch_duration_seconds",
		Help:    "Time spent on one page session and strategy chain",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
	})

	SessionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_session_failures_total",
		Help: "Browser session failures by stage",
	}, []string{"stage"})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_cache_hits_total",
		Help: "Requests served from the ranked cache",
	})

	Records = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_records",
		Help: "Number of records in the last successful result",
	})
)

func init() {
	prometheus.MustRegister(
		StrategyAttempts,
		FetchTotal,
		FetchLatency,
		SessionFailures,
		CacheHits,
		Records,
	)
}
