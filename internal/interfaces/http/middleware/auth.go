package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"authrelay/internal/domain/user"
	"authrelay/internal/infrastructure/auth"
	"authrelay/internal/shared/config"
	"authrelay/internal/shared/constants"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService    *auth.JWTService
	userRepo      user.Repository
	sessionRepo   user.SessionRepository
	sessionConfig *config.SessionConfig
	logger        logger.Interface
}

func NewAuthMiddleware(
	jwtService *auth.JWTService,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	sessionConfig *config.SessionConfig,
	logger logger.Interface,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:    jwtService,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		sessionConfig: sessionConfig,
		logger:        logger,
	}
}

// RequireAuth accepts either a bearer token or a session cookie.
// A present but unusable bearer token fails the request outright;
// the session fallback only applies when no token was sent at all.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			m.authenticateWithToken(c, authHeader)
			return
		}

		m.authenticateWithSession(c)
	}
}

func (m *AuthMiddleware) authenticateWithToken(c *gin.Context, authHeader string) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.ErrorResponseWithError(c, sharederrors.NewTokenMalformedError())
		c.Abort()
		return
	}

	claims, err := m.jwtService.Verify(parts[1])
	if err != nil {
		if sharederrors.ShouldLogAuthError(err) {
			m.logger.Warnw("rejected bearer token",
				"path", c.Request.URL.Path, "client_ip", c.ClientIP(), "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		c.Abort()
		return
	}

	subject, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to load user")
		c.Abort()
		return
	}
	if subject == nil {
		utils.ErrorResponseWithError(c, sharederrors.NewTokenMalformedError())
		c.Abort()
		return
	}

	c.Set(constants.ContextKeyUser, subject)
	c.Set(constants.ContextKeyAuthMethod, constants.AuthMethodToken)
	c.Next()
}

func (m *AuthMiddleware) authenticateWithSession(c *gin.Context) {
	sessionID, err := c.Cookie(m.sessionConfig.CookieName)
	if err != nil || sessionID == "" {
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		c.Abort()
		return
	}

	session, err := m.sessionRepo.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to load session")
		c.Abort()
		return
	}
	if session == nil || session.IsExpired() {
		utils.ClearSessionCookie(c, m.sessionConfig)
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		c.Abort()
		return
	}

	subject, err := m.userRepo.GetByID(c.Request.Context(), session.UserID)
	if err != nil || subject == nil {
		utils.ClearSessionCookie(c, m.sessionConfig)
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		c.Abort()
		return
	}

	c.Set(constants.ContextKeyUser, subject)
	c.Set(constants.ContextKeyAuthMethod, constants.AuthMethodSession)
	c.Next()
}

// RequireRole ensures the authenticated user holds at least the given
// privilege level. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(required user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := CurrentUser(c)
		if current == nil {
			utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
			c.Abort()
			return
		}

		if !current.HasRole(required) {
			utils.ErrorResponseWithError(c,
				sharederrors.NewForbiddenError("insufficient privileges"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user from the request context,
// or nil when the request did not pass RequireAuth.
func CurrentUser(c *gin.Context) *user.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	current, ok := value.(*user.User)
	if !ok {
		return nil
	}
	return current
}

// AuthMethod returns how the current request authenticated.
func AuthMethod(c *gin.Context) string {
	return c.GetString(constants.ContextKeyAuthMethod)
}
