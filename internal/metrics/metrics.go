package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CodesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "verification_codes_issued_total", Help: "Verification codes issued"},
	)
	CodesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "verification_codes_consumed_total", Help: "Verification code consumption attempts"},
		[]string{"result"}, // ok | invalid | expired
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, CodesIssued, CodesConsumed)
}
