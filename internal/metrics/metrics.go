package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nxq_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nxq_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nxq_login_attempts_total",
			Help: "Login attempts by outcome (success, invalid, locked)",
		},
		[]string{"outcome"},
	)

	DeliveriesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nxq_deliveries_recorded_total",
		Help: "Deliveries accepted by the balance engine",
	})

	DeliveriesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nxq_deliveries_rejected_total",
		Help: "Deliveries rejected for exceeding the remaining balance",
	})

	MigrationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nxq_migrations_applied_total",
		Help: "Schema migration steps executed since start",
	})

	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nxq_backups_total",
			Help: "Store snapshot uploads by result",
		},
		[]string{"result"},
	)

	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nxq_event_subscribers",
		Help: "Connected websocket event subscribers",
	})
)
