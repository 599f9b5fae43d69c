package http

import (
	"net/http"
	"time"

	"adventure-server/internal/delivery/http/middleware"
	"adventure-server/internal/domain"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// RouterConfig collects what NewRouter wires around the Handler.
type RouterConfig struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	// CredentialErr disables every /api route with 503 when not nil.
	CredentialErr error
	// SearchLimiter guards POST /api/search. Optional.
	SearchLimiter gin.HandlerFunc
	// Websocket serves GET /ws. Optional.
	Websocket http.Handler
	// Metrics instruments every route and serves GET /metrics. Optional.
	Metrics *ginprometheus.Prometheus
}

// NewRouter builds the gin engine with logging, recovery, CORS, the health probe, API docs,
// the websocket endpoint and the API. h may be nil when the game could not be set up; the API
// then only answers through the credential guard.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(cfg.Logger))
	router.Use(gin.Recovery())
	if cfg.Metrics != nil {
		cfg.Metrics.Use(router)
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.Websocket != nil {
		router.GET("/ws", gin.WrapH(cfg.Websocket))
	}

	api := router.Group("/api", RequireCredential(cfg.CredentialErr))
	if h != nil {
		h.RegisterRoutes(api, cfg.SearchLimiter)
	} else {
		api.Any("/*path", func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Code: ErrCodeMissingCredential, Message: domain.CredentialErrorMessage})
		})
	}
	return router
}

// RequireCredential rejects every request with 503 and the fixed credential message while
// err is not nil.
func RequireCredential(err error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
				Code:    ErrCodeMissingCredential,
				Message: domain.CredentialErrorMessage,
			})
			return
		}
		c.Next()
	}
}

// NewSearchLimiter limits search requests per client IP using store.
func NewSearchLimiter(store ratelimit.Store, logger *zap.Logger) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			logger.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    ErrCodeRateLimited,
				Message: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
