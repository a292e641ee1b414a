package router

import (
	"github.com/distributor/backend/internal/infrastructure/auth"
	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by handlers that register their own
// routes on the API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router owns the gin engine and the common middleware chain
type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
	log    *zap.Logger
}

// Config holds router construction dependencies
type Config struct {
	AppEnv     string
	HTTP       config.HTTPConfig
	JWTService *auth.JWTService
	Logger     *zap.Logger
}

// New builds the engine with the standard middleware chain and the
// /api/v1 group. Handlers attach through Register.
func New(cfg Config) *Router {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	middleware.SetupValidator()

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	api := engine.Group("/api/v1")
	if cfg.JWTService != nil {
		jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
		jwtConfig.Logger = cfg.Logger
		api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	}

	return &Router{
		engine: engine,
		api:    api,
		log:    cfg.Logger,
	}
}

// Register attaches handlers to the API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.api)
	}
}

// RegisterRoot attaches handlers directly on the engine, outside the
// API group and its auth middleware. Used for liveness probes.
func (r *Router) RegisterRoot(registrars ...RouteRegistrar) {
	root := r.engine.Group("")
	for _, registrar := range registrars {
		registrar.RegisterRoutes(root)
	}
}

// Engine exposes the underlying gin engine for the HTTP server
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
