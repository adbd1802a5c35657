package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faxcast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faxcast_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// SupabaseOperations counts every platform call by outcome (ok, error, no_data).
	SupabaseOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faxcast_supabase_operations_total",
			Help: "Number of Supabase operations by subsystem, operation and outcome",
		},
		[]string{"subsystem", "operation", "outcome"},
	)

	SupabaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faxcast_supabase_operation_duration_seconds",
			Help:    "Duration of Supabase operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subsystem", "operation"},
	)

	RealtimeSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "faxcast_realtime_subscriptions",
			Help: "Number of open realtime subscriptions",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCount, RequestDuration, SupabaseOperations, SupabaseDuration, RealtimeSubscriptions)
}
