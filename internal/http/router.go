// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
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
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/auth"
	"github.com/beyondchart/go-study-backend/internal/config"
	"github.com/beyondchart/go-study-backend/internal/embedder"
	"github.com/beyondchart/go-study-backend/internal/http/handlers"
	"github.com/beyondchart/go-study-backend/internal/http/middleware"
	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/services"
	"github.com/beyondchart/go-study-backend/internal/storage"
)

// Deps carries the externally constructed dependencies the router wires
// into services. Generator is an interface so tests can register routes
// without a live Gemini key.
type Deps struct {
	DB        *gorm.DB
	Store     *storage.FileStore
	Embedder  *embedder.Client
	Generator ai.Generator
	Tokens    *auth.TokenIssuer
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (sized for multipart PDF uploads)
//  6. Response compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit, sized for the PDF upload cap
	r.Use(limitBody(cfg.MaxUploadBytes))

	// 6) Compress responses (chat transcripts and quiz payloads are large)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, chatID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, deps.DB, userID, chatID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", healthHandler)

	// Swagger UI (dev/staging only)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/store/clients
	authSvc := &services.AuthService{DB: deps.DB, Tokens: deps.Tokens}
	pdfSvc := &services.PdfService{
		DB:            deps.DB,
		Store:         deps.Store,
		Embedder:      deps.Embedder,
		IngestTimeout: cfg.AI.IngestTimeout,
	}
	chatSvc := &services.ChatService{
		DB:        deps.DB,
		Retriever: deps.Embedder,
		Generator: deps.Generator,
		TopK:      cfg.RetrievalTopK,
	}
	quizSvc := &services.QuizService{
		DB:        deps.DB,
		Sampler:   deps.Embedder,
		Generator: deps.Generator,
		Pdfs:      pdfSvc,
	}
	dashSvc := &services.DashboardService{DB: deps.DB}
	videoSvc := &services.VideoService{Generator: deps.Generator, Pdfs: pdfSvc}

	h := handlers.New(authSvc, pdfSvc, chatSvc, quizSvc, dashSvc, videoSvc, deps.DB, cfg.IdempotencyTTL)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/health", healthHandler)
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
	}

	// Everything else requires a valid bearer token.
	authed := api.Group("", middleware.Auth(deps.Tokens))
	{
		// Documents
		authed.POST("/upload", h.Upload)
		authed.GET("/pdfs", h.ListPdfs)
		authed.GET("/pdfs/:id", h.GetPdf)

		// Chats
		authed.GET("/chat/history", h.ChatHistory)
		authed.POST("/chat/new", h.CreateChat)
		authed.GET("/chat/:chatId", h.GetChat)
		authed.POST("/chat/:chatId/message", h.PostMessage)
		authed.DELETE("/chat/:chatId", h.DeleteChat)

		// Quizzes
		authed.POST("/quiz/generate", h.GenerateQuiz)
		authed.POST("/quiz/submit", h.SubmitQuiz)
		authed.GET("/quiz/history", h.QuizHistory)

		// Dashboard
		authed.GET("/dashboard", h.Dashboard)

		// Videos
		authed.POST("/videos/recommend-videos", h.RecommendVideos)
	}
}

// healthHandler reports liveness with a wall-clock timestamp.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
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

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(strings.TrimRight(prefix, "/"))
}
