package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Provisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofield_provision_total",
			Help: "Spatial extension provisioning runs",
		},
		[]string{"backend", "result"},
	)
	Writes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofield_writes_total",
			Help: "Geometry column writes by value kind",
		},
		[]string{"backend", "value"},
	)
	DecodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofield_decode_errors_total",
			Help: "Rejected geometry inputs",
		},
		[]string{"kind"},
	)
	GeocodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofield_geocode_requests_total",
			Help: "Geocoding lookups by outcome",
		},
		[]string{"result"},
	)
	GeocodeLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geofield_geocode_seconds",
			Help:    "Latency of geocoding lookups",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		Provisions,
		Writes,
		DecodeErrors,
		GeocodeRequests,
		GeocodeLatency,
	)
}
