package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ctvnews/newsroom/internal/api/handler"
	"github.com/ctvnews/newsroom/internal/api/middleware"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// Dependencies is everything the router wires into handlers. Redis, Mongo,
// Audit and UploadDir are optional.
type Dependencies struct {
	Log      zerolog.Logger
	Tokens   ports.TokenCodec
	Auth     ports.AuthService
	Articles ports.ArticleService
	Taxonomy ports.TaxonomyService
	Site     ports.SiteConfigService
	Uploads  ports.UploadService
	Audit    ports.AuditReader

	Postgres handler.Pinger
	Redis    *redis.Client
	Mongo    *mongo.Database

	// UploadDir is served under /uploads when files are stored locally.
	UploadDir string
	// BodyLimit caps request bodies, e.g. "6M".
	BodyLimit string
	// TrustProxy takes the client address from X-Forwarded-For when the
	// request arrives from a loopback or private-network proxy. Otherwise
	// the connection's remote address is used.
	TrustProxy bool
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = echo.ExtractIPDirect()
	if d.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "newsroom",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}
	e.Use(middleware.Authenticate(d.Tokens))

	// --- Operational ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Postgres, d.Redis, d.Mongo)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	authHandler := handler.NewAuthHandler(d.Auth)
	articleHandler := handler.NewArticleHandler(d.Articles)
	taxonomyHandler := handler.NewTaxonomyHandler(d.Taxonomy)
	siteHandler := handler.NewSiteConfigHandler(d.Site)
	uploadHandler := handler.NewUploadHandler(d.Uploads)

	authenticated := middleware.Require(policy.Authenticated)
	adminOnly := middleware.Require(policy.AdminOnly)

	api := e.Group("/api")

	// --- Public ---
	// Registration guards itself: the first account needs no token.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/articles", articleHandler.List)
	api.GET("/articles/:slug", articleHandler.Get)
	api.POST("/articles/:slug/view", articleHandler.RegisterView)
	api.GET("/articles/:slug/tags", articleHandler.Tags)
	api.GET("/categories", taxonomyHandler.ListCategories)
	api.GET("/tags", taxonomyHandler.ListTags)
	api.GET("/site-config", siteHandler.Get)

	// --- Any signed-in account; ownership is checked per article ---
	api.POST("/articles", articleHandler.Create, authenticated)
	api.POST("/upload", uploadHandler.Upload, authenticated)

	admin := api.Group("/admin")
	admin.PUT("/articles/:id", articleHandler.Update, authenticated)
	admin.PUT("/articles/:id/tags", articleHandler.SetTags, authenticated)

	// --- Admins only ---
	admin.DELETE("/articles/:id", articleHandler.Delete, adminOnly)
	admin.PUT("/site-config", siteHandler.Update, adminOnly)
	admin.POST("/tags", taxonomyHandler.CreateTag, adminOnly)
	admin.DELETE("/tags/:id", taxonomyHandler.DeleteTag, adminOnly)
	admin.POST("/categories", taxonomyHandler.CreateCategory, adminOnly)
	if d.Audit != nil {
		admin.GET("/audit", handler.NewAuditHandler(d.Audit).Recent, adminOnly)
	}

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
