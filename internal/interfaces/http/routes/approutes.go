package routes

import (
	"github.com/gin-gonic/gin"

	"authrelay/internal/domain/user"
	"authrelay/internal/interfaces/http/handlers"
	"authrelay/internal/interfaces/http/middleware"
)

// AppRouteConfig holds dependencies for app ledger routes.
type AppRouteConfig struct {
	AppHandler     *handlers.AppHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAppRoutes configures app registration and usage routes.
// Registration requires any authenticated principal; the usage views
// are admin only.
func SetupAppRoutes(engine *gin.Engine, cfg *AppRouteConfig) {
	api := engine.Group("/api")
	{
		api.POST("/app-register", cfg.AuthMiddleware.RequireAuth(), cfg.AppHandler.Register)
		api.POST("/apps", cfg.AuthMiddleware.RequireAuth(), cfg.AppHandler.Create)

		admin := api.Group("/apps")
		admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(user.RoleAdmin))
		{
			admin.GET("", cfg.AppHandler.List)
			admin.GET("/:id/users", cfg.AppHandler.ListUsers)
			admin.DELETE("/:id", cfg.AppHandler.Delete)
		}
	}
}
