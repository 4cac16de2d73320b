package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/areaselector/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// stringSunset is when GET /v1/polygons/:id/string goes away.
var stringSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// RouteOptions tunes the middleware stack.
type RouteOptions struct {
	CORSOrigins string
	// RateLimit is requests per minute per IP; 0 selects the default.
	RateLimit int
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts ...RouteOptions) {
	var o RouteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.CORSOrigins == "" {
		o.CORSOrigins = "*"
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 600
	}

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  o.CORSOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition,ETag,Link,Deprecation,Sunset",
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Pointer moves arrive in bursts, so the limit is generous
	app.Use(limiter.New(limiter.Config{
		Max:        o.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, 429, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/polygons/:id/string",
			SunsetDate:  stringSunset,
			Alternative: "/v1/polygons/{id}/export?format=text",
		},
	}))

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	v1.Get("/collection", GetCollectionHandler(deps))
	v1.Post("/collection/begin", BeginCollectionHandler(deps))
	v1.Post("/collection/vertices", AddVertexHandler(deps))
	v1.Post("/collection/end", EndCollectionHandler(deps))

	v1.Post("/events", DispatchEventHandler(deps))

	v1.Get("/polygons", ListPolygonsHandler(deps))
	v1.Post("/polygons/import", ImportPolygonHandler(deps))
	v1.Get("/polygons/:id", GetPolygonHandler(deps))
	v1.Delete("/polygons/:id", DeletePolygonHandler(deps))
	v1.Get("/polygons/:id/vertices/nearest", NearestVertexHandler(deps))
	v1.Delete("/polygons/:id/vertices/nearest", DeleteNearestVertexHandler(deps))
	v1.Delete("/polygons/:id/vertices/:index", DeleteVertexHandler(deps))
	v1.Post("/polygons/:id/zorder", CycleZOrderHandler(deps))
	v1.Put("/polygons/:id/highlight", SetHighlightHandler(deps))

	// Rendering and storage may hit the cache or the database
	v1.Get("/polygons/:id/export", timeout.NewWithContext(ExportHandler(deps), requestTimeout))
	v1.Get("/polygons/:id/string", timeout.NewWithContext(StringExportHandler(deps), requestTimeout))
	v1.Post("/polygons/:id/archive", timeout.NewWithContext(ArchiveHandler(deps), requestTimeout))
	v1.Get("/polygons/:id/archives", timeout.NewWithContext(ListArchivesHandler(deps), requestTimeout))

	v1.Post("/menu", OpenMenuHandler(deps))
	v1.Post("/menu/:token/:action", InvokeMenuHandler(deps))
	v1.Delete("/menu", CloseMenuHandler(deps))

	v1.Get("/viewport", timeout.NewWithContext(GetViewportHandler(deps), requestTimeout))
	v1.Put("/viewport", timeout.NewWithContext(PutViewportHandler(deps), requestTimeout))
	v1.Delete("/viewport", timeout.NewWithContext(DeleteViewportHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}

// isLive reports whether path serves editor state that changes per event.
func isLive(path string) bool {
	for _, prefix := range []string{"/v1/collection", "/v1/polygons", "/v1/menu", "/v1/viewport"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
