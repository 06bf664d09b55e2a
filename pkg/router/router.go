// Package router wires middleware, handlers and routes onto the gin
// engine.
package router

import (
	"net/http"
	"strings"

	"coolkid-chat/backend/internal/api"
	"coolkid-chat/backend/internal/ws"
	"coolkid-chat/backend/pkg/di"
	"coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/logger"
	"coolkid-chat/backend/pkg/middleware"
	"coolkid-chat/backend/pkg/observability"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router owns the gin engine and the websocket hub.
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Hub       *ws.Hub
}

// New builds the engine with the standard middleware chain: request
// logging, error formatting, panic recovery, then rate limiting.
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := container.Config
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	limiterOpts := middleware.DefaultRateLimiterOptions()
	if cfg.Security.RateLimit > 0 {
		limiterOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	}
	limiterOpts.Burst = cfg.Security.RateLimitBurst
	engine.Use(middleware.NewRateLimiter(container.Logger, limiterOpts).Middleware())

	hub := ws.NewHub(container.Chat, container.Characters, container.Sessions, container.Logger)
	go hub.Run()

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Hub:       hub,
	}
}

// SetupRoutes registers all application routes.
func (r *Router) SetupRoutes() {
	c := r.Container

	r.Engine.Use(corsMiddleware(c.Config.Security.AllowedOrigins))

	jwtAuth := middleware.JWTAuth(c.JWTService, r.Logger)
	optionalAuth := middleware.OptionalJWTAuth(c.JWTService)

	chatHandler := api.NewChatHandler(c.Chat)
	characterHandler := api.NewCharacterHandler(c.Characters, c.Users)
	sessionHandler := api.NewSessionHandler(c.Sessions)
	authHandler := api.NewAuthHandler(c.Users, c.JWTService, r.Logger)

	r.Engine.GET("/health", gin.WrapF(c.Health.HTTPHandler()))

	if metricsHandler, err := observability.SetupMetrics(); err == nil {
		r.Engine.GET("/metrics", gin.WrapH(metricsHandler))
	} else {
		r.Logger.Warn("Metrics endpoint disabled", "error", err.Error())
	}

	v1 := r.Engine.Group("/api/v1")
	{
		// The chat turn itself works anonymously; authentication only
		// attributes moderation state to the right account.
		v1.POST("/chat", optionalAuth, chatHandler.SendMessage)

		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", jwtAuth, authHandler.Me)
			authRoutes.PATCH("/profile", jwtAuth, authHandler.UpdateProfile)
		}

		characterRoutes := v1.Group("/characters")
		{
			characterRoutes.GET("", characterHandler.List)
			characterRoutes.GET("/mine", jwtAuth, characterHandler.Mine)
			characterRoutes.GET("/:id", characterHandler.Get)
			characterRoutes.POST("", jwtAuth, characterHandler.Create)
			characterRoutes.PATCH("/:id", jwtAuth, characterHandler.Update)
			characterRoutes.DELETE("/:id", jwtAuth, characterHandler.Delete)
		}

		sessionRoutes := v1.Group("/sessions")
		{
			sessionRoutes.GET("", sessionHandler.List)
			sessionRoutes.GET("/:characterId", sessionHandler.Get)
			sessionRoutes.DELETE("", sessionHandler.Clear)
		}
	}

	r.Engine.GET("/ws/chat", optionalAuth, func(c *gin.Context) {
		ws.ServeWs(r.Hub, c)
	})
}

// corsMiddleware reflects allowed origins and answers preflights. The
// header list includes the websocket upgrade headers.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
			// Same-origin or non-browser client.
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[strings.TrimRight(origin, "/")]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
