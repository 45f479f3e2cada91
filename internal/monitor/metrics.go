package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rentalsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamerent_rentals_created_total",
		Help: "Total number of rental orders created",
	})

	rentalConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamerent_rental_conflicts_total",
		Help: "Total number of rental submissions rejected because a game was unavailable",
	})

	rentalStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerent_rental_status_updates_total",
		Help: "Total number of rental status updates",
	}, []string{"status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamerent_ws_connections_active",
		Help: "Number of currently registered WebSocket connections",
	})

	wsBroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamerent_ws_broadcasts_total",
		Help: "Total number of events fanned out to WebSocket clients",
	})

	wsReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamerent_ws_connections_reaped_total",
		Help: "Total number of WebSocket connections terminated by the liveness sweep",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamerent_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamerent_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// IncRentalsCreated counts a successful rental submission
func IncRentalsCreated() {
	rentalsCreatedTotal.Inc()
}

// IncRentalConflicts counts a submission lost to an availability conflict
func IncRentalConflicts() {
	rentalConflictsTotal.Inc()
}

// IncStatusUpdates counts a rental status update
func IncStatusUpdates(status string) {
	rentalStatusUpdatesTotal.WithLabelValues(status).Inc()
}

// SetActiveConnections records the size of the hub registry
func SetActiveConnections(n int) {
	wsConnectionsActive.Set(float64(n))
}

// IncBroadcasts counts one fan-out
func IncBroadcasts() {
	wsBroadcastsTotal.Inc()
}

// IncReapedConnections counts a connection reaped by the liveness sweep
func IncReapedConnections() {
	wsReapedTotal.Inc()
}

// HTTPMetrics gin middleware recording request counts and latency
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
