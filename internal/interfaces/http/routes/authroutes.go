package routes

import (
	"github.com/gin-gonic/gin"

	"authrelay/internal/interfaces/http/handlers"
	"authrelay/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimit      gin.HandlerFunc // nil when rate limiting is disabled
}

// SetupAuthRoutes configures authentication routes. The /auth group
// carries the browser-facing flows, /api the JSON endpoints that app
// frontends and backends call directly.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.RateLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.RateLimit, h}
	}

	auth := engine.Group("/auth")
	{
		auth.GET("/:provider/callback", cfg.AuthHandler.OAuthCallback)
		auth.GET("/logout", cfg.AuthHandler.Logout)
	}

	api := engine.Group("/api")
	{
		api.POST("/register", limited(cfg.AuthHandler.Register)...)
		api.POST("/login", limited(cfg.AuthHandler.Login)...)
		api.POST("/server-auth", limited(cfg.AuthHandler.ServerAuth)...)
		api.POST("/validate-token", cfg.AuthHandler.ValidateToken)

		api.GET("/oauth/:provider/url", cfg.AuthHandler.GetOAuthURL)

		api.GET("/auth", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		api.GET("/token", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Token)
		api.GET("/user/apps", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.MyApps)
	}
}
