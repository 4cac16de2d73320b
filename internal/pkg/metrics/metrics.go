package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "areaselector",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "areaselector",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Editor metrics
	PolygonsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "polygons_committed_total",
		Help:      "Collections that were committed as polygons",
	})

	CollectionsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "collections_discarded_total",
		Help:      "Collections dropped for having too few vertices",
	})

	VertexDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "vertex_deletions_total",
		Help:      "Vertex deletion attempts by result",
	}, []string{"result"})

	PolygonsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "polygons_deleted_total",
		Help:      "Polygons removed from the live set",
	})

	ZOrderCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "zorder_cycles_total",
		Help:      "Clicks that sank a polygon behind the others",
	})

	ActivePolygons = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "areaselector",
		Subsystem: "editor",
		Name:      "active_polygons",
		Help:      "Polygons currently live",
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "export",
		Name:      "exports_total",
		Help:      "Polygon exports served by format",
	}, []string{"format"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "areaselector",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "areaselector",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "areaselector",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "areaselector",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "areaselector",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// route pattern keeps polygon IDs out of the label set
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics copies pgx pool stats into the pool gauges.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
