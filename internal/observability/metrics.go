package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RidesCreatedTotal counts created rides by type.
	RidesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "rides_created_total", Help: "Total rides created"},
		[]string{"type"},
	)

	// RideAcceptsTotal counts successful ride acceptances.
	RideAcceptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_accepts_total", Help: "Total rides accepted by a rider"},
	)

	// RideAcceptConflictsTotal counts acceptances lost to a racing rider.
	RideAcceptConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_accept_conflicts_total", Help: "Total accept attempts that lost the race"},
	)

	// RideJoinsTotal counts successful shared ride joins.
	RideJoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_joins_total", Help: "Total shared ride joins"},
	)

	// RideJoinRejectionsTotal counts rejected joins by reason.
	RideJoinRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_join_rejections_total", Help: "Total rejected shared ride joins"},
		[]string{"reason"},
	)

	// RideCompletionsTotal counts completed rides.
	RideCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_completions_total", Help: "Total completed rides"},
	)

	// RideCancellationsTotal counts cancellations by the state they left.
	RideCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "ride_cancellations_total", Help: "Total ride cancellations"},
		[]string{"from_status"},
	)

	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "campus_ride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus_ride",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
