package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amazonia_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amazonia_http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_checkins_total",
			Help: "Check-in attempts by target type and outcome",
		},
		[]string{"target", "outcome"},
	)

	Redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_redemptions_total",
			Help: "Reward redemption attempts by outcome",
		},
		[]string{"outcome"},
	)

	CoinsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_coins_awarded_total",
			Help: "AmaCoins credited by reason",
		},
		[]string{"reason"},
	)

	AssistantCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amazonia_assistant_calls_total",
			Help: "Chat assistant calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amazonia_websocket_clients",
			Help: "Connected alert websocket clients",
		},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordCheckIn(target, outcome string) {
	CheckIns.WithLabelValues(target, outcome).Inc()
}

func RecordRedemption(outcome string) {
	Redemptions.WithLabelValues(outcome).Inc()
}

func RecordCoins(reason string, amount int64) {
	if amount > 0 {
		CoinsAwarded.WithLabelValues(reason).Add(float64(amount))
	}
}

func RecordAssistantCall(provider, outcome string) {
	AssistantCalls.WithLabelValues(provider, outcome).Inc()
}
