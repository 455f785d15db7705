package infrastructure

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes recorded by ObserveDispatch.
const (
	OutcomeSent          = "sent"
	OutcomeConfigMissing = "config_missing"
	OutcomeProviderError = "provider_error"
	OutcomeError         = "error"
)

var (
	metricsOnce sync.Once

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegraph_dispatch_total",
			Help: "Dispatch attempts by outcome.",
		},
		[]string{"outcome"},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telegraph_provider_send_seconds",
			Help:    "Latency of Telegram sendMessage calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"success"},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegraph_cache_requests_total",
			Help: "Credential cache lookups by key kind and result.",
		},
		[]string{"kind", "result"},
	)
)

// MustRegisterMetrics registers the collectors with the default registry
// exactly once.
func MustRegisterMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(dispatchTotal, providerLatency, cacheRequests)
	})
}

func ObserveDispatch(outcome string) {
	dispatchTotal.WithLabelValues(outcome).Inc()
}

func ObserveProviderCall(d time.Duration, success bool) {
	providerLatency.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

// IncCacheRequest records a cache "hit" or "miss" for kind.
func IncCacheRequest(kind, result string) {
	cacheRequests.WithLabelValues(kind, result).Inc()
}
