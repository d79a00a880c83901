package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "Number of HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	FeaturedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_featured_cache_lookups_total",
			Help: "Featured products cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_auth_events_total",
			Help: "Authentication events by type (signup, login, login_failed, refresh, logout).",
		},
		[]string{"event"},
	)
)

func FeaturedCacheHit()  { FeaturedCacheLookups.WithLabelValues("hit").Inc() }
func FeaturedCacheMiss() { FeaturedCacheLookups.WithLabelValues("miss").Inc() }

func RecordAuthEvent(event string) { AuthEvents.WithLabelValues(event).Inc() }
