// Package httpapi wires the HTTP transport (Gin) to the inquiry service, the
// static site, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging/redaction, panic
// recovery, metrics, compression, CORS, security headers, idempotency, and
// rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - JSON errors under /api, the site's main page everywhere else
package httpapi

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/flexai-site/docs" // registers the OpenAPI document
	"github.com/tbourn/flexai-site/internal/config"
	"github.com/tbourn/flexai-site/internal/http/apierror"
	"github.com/tbourn/flexai-site/internal/http/handlers"
	"github.com/tbourn/flexai-site/internal/http/middleware"
	"github.com/tbourn/flexai-site/internal/repo"
	"github.com/tbourn/flexai-site/internal/services"
	"github.com/tbourn/flexai-site/internal/web"
)

// APIPrefix is the mount point of the JSON API. Unmatched paths below it get
// a JSON 404 instead of the site's main page.
const APIPrefix = "/api"

// maxBodyBytes caps request bodies; the largest valid inquiry is a few KiB.
const maxBodyBytes = 1 << 20

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: health and metrics endpoints, the JSON API under /api, the staff
// list page, optional Swagger UI, and the static site with SPA fallback.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Compression (not for /metrics)
//  8. CORS and Security headers
//  9. API only: idempotency validator, then rate limiter (bypass on replay)
func RegisterRoutes(r *gin.Engine, svc *services.InquiryService, assets fs.FS, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(web.Templates())

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
			middleware.HeaderIdempotencyKey,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics
	r.Use(middleware.Metrics())

	// 7) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		EnablePolicy:          true,
		ContentSecurityPolicy: middleware.DefaultContentSecurityPolicy,
	}))

	// Fallbacks
	serveSite := web.Serve(assets)
	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == APIPrefix || strings.HasPrefix(p, APIPrefix+"/") {
			handlers.Fail(c, http.StatusNotFound, apierror.CodeNotFound)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			handlers.Fail(c, http.StatusMethodNotAllowed, apierror.CodeMethodNotAllowed)
			return
		}
		serveSite(c)
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, apierror.CodeMethodNotAllowed)
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": svc.Backend()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc)

	// Staff list view
	r.GET("/inquiries", h.InquiryPage)

	// Public API
	api := r.Group(APIPrefix)
	api.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		idempotencyLookup(svc.Idem),
	))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	api.Use(rl.Handler())
	{
		api.GET("/inquiries", h.ListInquiries)
		api.POST("/inquiries", h.CreateInquiry)
		api.DELETE("/inquiries/:id", h.DeleteInquiry)
		api.POST("/consultations", h.CreateConsultation)
	}
}

// idempotencyLookup adapts the idempotency store to the middleware's lookup.
// A nil store never reports a replay.
func idempotencyLookup(idem services.IdempotencyStore) middleware.IdempotencyLookup {
	return func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
		if idem == nil {
			return false, nil
		}
		_, err := idem.Lookup(ctx, scope, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

// corsMiddleware returns the CORS chain. With no allowlist every origin is
// accepted without credentials; otherwise only listed origins are echoed.
func corsMiddleware(allowedOrigins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotentReplayed},
		AllowCredentials: false, // must remain false with AllowAllOrigins
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	base.AllowOrigins = allowedOrigins
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
