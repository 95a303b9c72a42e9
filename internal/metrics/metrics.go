package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// InspectionsTotal counts submitted inspection records
	InspectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patrol_inspections_total",
			Help: "Total number of submitted inspection records",
		},
		[]string{"room", "status"},
	)

	// DailyResetsTotal counts daily reset transitions
	DailyResetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patrol_daily_resets_total",
			Help: "Total number of daily reset transitions",
		},
		[]string{"trigger"}, // "scheduled" or "manual"
	)

	// RoomsByStatus tracks room count by derived today-status
	RoomsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "patrol_rooms_by_status",
			Help: "Number of rooms by derived today-status",
		},
		[]string{"status"},
	)

	// PersistenceFailuresTotal counts document store save failures
	PersistenceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patrol_persistence_failures_total",
			Help: "Total number of document store save failures",
		},
		[]string{"key"},
	)

	// LoginsTotal counts login attempts by outcome
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patrol_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success" or "failure"
	)
)

// InitMetrics registers Prometheus metrics
func InitMetrics() {
	prometheus.MustRegister(InspectionsTotal)
	prometheus.MustRegister(DailyResetsTotal)
	prometheus.MustRegister(RoomsByStatus)
	prometheus.MustRegister(PersistenceFailuresTotal)
	prometheus.MustRegister(LoginsTotal)
}

// MetricsHandler returns HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
