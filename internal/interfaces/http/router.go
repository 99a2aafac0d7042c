package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appusecases "authrelay/internal/application/app/usecases"
	authusecases "authrelay/internal/application/auth/usecases"
	"authrelay/internal/infrastructure/auth"
	"authrelay/internal/infrastructure/cache"
	"authrelay/internal/infrastructure/config"
	"authrelay/internal/infrastructure/ratelimit"
	"authrelay/internal/infrastructure/repository"
	"authrelay/internal/interfaces/http/handlers"
	"authrelay/internal/interfaces/http/middleware"
	"authrelay/internal/interfaces/http/routes"
	"authrelay/internal/shared/logger"
)

// Router wires repositories, use cases and handlers onto a gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the full HTTP surface. The redis client is optional;
// without it the replay guard and rate limiting are skipped.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	userRepo := repository.NewUserRepository(db, log)
	sessionRepo := repository.NewSessionRepository(db, log)
	ledger := repository.NewAppLedgerRepository(db, log)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(&cfg.Auth.JWT)

	providers := map[string]auth.Provider{}
	if cfg.OAuth.Google.ClientID != "" {
		providers["google"] = auth.NewGoogleOAuthClient(cfg.OAuth.Google)
	}
	if cfg.OAuth.Facebook.ClientID != "" {
		providers["facebook"] = auth.NewFacebookOAuthClient(cfg.OAuth.Facebook)
	}

	sessionTTL := time.Duration(cfg.Auth.Session.ExpDays) * 24 * time.Hour

	registerUC := authusecases.NewRegisterWithPasswordUseCase(
		userRepo, ledger, hasher, jwtService, cfg.Auth.Password.MinLength, log)
	loginUC := authusecases.NewLoginWithPasswordUseCase(userRepo, ledger, hasher, jwtService, log)
	serverAuthUC := authusecases.NewServerAuthUseCase(userRepo, ledger, jwtService, log)
	validateTokenUC := authusecases.NewValidateTokenUseCase(userRepo, jwtService, log)
	initiateOAuthUC := authusecases.NewInitiateOAuthLoginUseCase(providers, log)
	handleOAuthUC := authusecases.NewHandleOAuthCallbackUseCase(
		providers, userRepo, sessionRepo, ledger, jwtService, sessionTTL, log)
	logoutUC := authusecases.NewLogoutUseCase(sessionRepo, log)

	registerAppUC := appusecases.NewRegisterAppUseCase(ledger, log)
	createAppUC := appusecases.NewCreateAppUseCase(ledger, log)
	listAppsUC := appusecases.NewListAppsUseCase(ledger, log)
	listAppUsersUC := appusecases.NewListAppUsersUseCase(ledger, log)
	deleteAppUC := appusecases.NewDeleteAppUseCase(ledger, log)
	listUserAppsUC := appusecases.NewListUserAppsUseCase(ledger, log)

	var loginRateLimit gin.HandlerFunc
	if redisClient != nil {
		handleOAuthUC.SetReplayGuard(cache.NewStateGuard(redisClient, "oauth:state:", 10*time.Minute))

		if cfg.RateLimit.Enabled {
			limiter := ratelimit.NewRedisRateLimiter(redisClient)
			loginRateLimit = middleware.RateLimit(limiter, cfg.RateLimit.LoginPerMin, log)
		}
	}

	authHandler := handlers.NewAuthHandler(
		registerUC, loginUC, serverAuthUC, validateTokenUC,
		initiateOAuthUC, handleOAuthUC, logoutUC, listUserAppsUC,
		jwtService, log,
		&cfg.Auth.Session,
		cfg.Server.DashboardURL,
		cfg.Server.AllowedOrigins,
	)
	appHandler := handlers.NewAppHandler(registerAppUC, createAppUC, listAppsUC, listAppUsersUC, deleteAppUC, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo, sessionRepo, &cfg.Auth.Session, log)

	engine.GET("/health", handlers.NewHealthHandler(db).Check)

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		RateLimit:      loginRateLimit,
	})
	routes.SetupAppRoutes(engine, &routes.AppRouteConfig{
		AppHandler:     appHandler,
		AuthMiddleware: authMiddleware,
	})

	return &Router{engine: engine}
}

// GetEngine returns the gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
