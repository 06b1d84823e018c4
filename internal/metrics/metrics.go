package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweeper_games_started_total",
			Help: "Sessions started, including in-place restarts",
		},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweeper_games_finished_total",
			Help: "Sessions that reached a terminal state",
		},
		[]string{"status", "cause"},
	)
	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweeper_actions_total",
			Help: "Player actions by kind and outcome",
		},
		[]string{"action", "outcome"},
	)
	ActiveGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sweeper_active_games",
			Help: "Hosted games currently open",
		},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sweeper_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(Actions)
	prometheus.MustRegister(ActiveGames)
	prometheus.MustRegister(RequestDuration)
}
