// Package metrics provides Prometheus metrics for the asset service
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itam_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itam_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Rack metrics
	RackResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itam_rack_resolutions_total",
			Help: "Total number of rack occupancy computations",
		},
		[]string{"side", "status"},
	)

	RackEmptyUnits = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itam_rack_empty_units",
			Help: "Empty units found on the last resolution of a rack side",
		},
		[]string{"rack_id", "side"},
	)

	// Asset lifecycle metrics
	DeprecatedAssets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itam_deprecated_assets",
			Help: "Assets whose support window has elapsed, per mode",
		},
		[]string{"mode"},
	)

	RecordsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itam_records_saved_total",
			Help: "Total number of records created or updated",
		},
		[]string{"entity", "operation"},
	)
)

// ObserveRequest records one served HTTP request
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveRackSide records a rack side occupancy computation
func ObserveRackSide(rackID int64, side string, emptyUnits int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RackResolutions.WithLabelValues(side, status).Inc()
	if err == nil {
		RackEmptyUnits.WithLabelValues(strconv.FormatInt(rackID, 10), side).Set(float64(emptyUnits))
	}
}

// RecordSave counts a create or update
func RecordSave(entity, operation string) {
	RecordsSaved.WithLabelValues(entity, operation).Inc()
}
