package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	appusecases "authrelay/internal/application/app/usecases"
	"authrelay/internal/application/auth/usecases"
	"authrelay/internal/domain/user"
	"authrelay/internal/interfaces/http/middleware"
	"authrelay/internal/shared/config"
	"authrelay/internal/shared/constants"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase      *usecases.RegisterWithPasswordUseCase
	loginUseCase         *usecases.LoginWithPasswordUseCase
	serverAuthUseCase    *usecases.ServerAuthUseCase
	validateTokenUseCase *usecases.ValidateTokenUseCase
	initiateOAuthUseCase *usecases.InitiateOAuthLoginUseCase
	handleOAuthUseCase   *usecases.HandleOAuthCallbackUseCase
	logoutUseCase        *usecases.LogoutUseCase
	listUserAppsUseCase  *appusecases.ListUserAppsUseCase
	tokens               usecases.TokenIssuer
	logger               logger.Interface
	sessionConfig        *config.SessionConfig
	dashboardURL         string
	allowedOrigins       []string
}

func NewAuthHandler(
	registerUC *usecases.RegisterWithPasswordUseCase,
	loginUC *usecases.LoginWithPasswordUseCase,
	serverAuthUC *usecases.ServerAuthUseCase,
	validateTokenUC *usecases.ValidateTokenUseCase,
	initiateOAuthUC *usecases.InitiateOAuthLoginUseCase,
	handleOAuthUC *usecases.HandleOAuthCallbackUseCase,
	logoutUC *usecases.LogoutUseCase,
	listUserAppsUC *appusecases.ListUserAppsUseCase,
	tokens usecases.TokenIssuer,
	logger logger.Interface,
	sessionConfig *config.SessionConfig,
	dashboardURL string,
	allowedOrigins []string,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:      registerUC,
		loginUseCase:         loginUC,
		serverAuthUseCase:    serverAuthUC,
		validateTokenUseCase: validateTokenUC,
		initiateOAuthUseCase: initiateOAuthUC,
		handleOAuthUseCase:   handleOAuthUC,
		logoutUseCase:        logoutUC,
		listUserAppsUseCase:  listUserAppsUC,
		tokens:               tokens,
		logger:               logger,
		sessionConfig:        sessionConfig,
		dashboardURL:         dashboardURL,
		allowedOrigins:       allowedOrigins,
	}
}

type RegisterRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Password2      string `json:"password2" binding:"required,eqfield=Password"`
	AppName        string `json:"app_name"`
	AppDisplayName string `json:"app_display_name"`
	AppDescription string `json:"app_description"`
}

type LoginRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	AppName        string `json:"app_name"`
	AppDisplayName string `json:"app_display_name"`
	AppDescription string `json:"app_description"`
}

type ServerAuthRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"max=100"`
	Provider       string `json:"provider" binding:"max=50"`
	AppName        string `json:"app_name"`
	AppDisplayName string `json:"app_display_name"`
	AppDescription string `json:"app_description"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// userView is the public projection of an account.
type userView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Role     string `json:"role"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Provider: u.Provider,
		Role:     u.Role.String(),
	}
}

func usageView(usage *usecases.UsageOutcome) gin.H {
	if usage == nil {
		return nil
	}
	return gin.H{
		"app_name":     usage.App.Name,
		"is_new_user":  usage.IsNewUser,
		"login_count":  usage.LoginCount,
		"display_name": usage.App.DisplayName,
	}
}

func appContext(name, displayName, description string) usecases.AppContext {
	return usecases.AppContext{
		Name:        utils.SanitizeText(name),
		DisplayName: utils.SanitizeText(displayName),
		Description: utils.SanitizeText(description),
	}
}

// Register creates a password-backed account and returns a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), usecases.RegisterWithPasswordCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		App:      appContext(req.AppName, req.AppDisplayName, req.AppDescription),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "registration successful", gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
		"usage": usageView(result.Usage),
	})
}

// Login exchanges email and password for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginWithPasswordCommand{
		Email:    req.Email,
		Password: req.Password,
		App:      appContext(req.AppName, req.AppDisplayName, req.AppDescription),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
		"usage": usageView(result.Usage),
	})
}

// ServerAuth is the non-interactive identity assertion for trusted
// backends. The caller vouches for the email, so unknown identities
// are created rather than rejected.
func (h *AuthHandler) ServerAuth(c *gin.Context) {
	var req ServerAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.serverAuthUseCase.Execute(c.Request.Context(), usecases.ServerAuthCommand{
		Email:    req.Email,
		Name:     utils.SanitizeText(req.Name),
		Provider: utils.SanitizeText(req.Provider),
		App:      appContext(req.AppName, req.AppDisplayName, req.AppDescription),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "authentication successful", gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
		"usage": usageView(result.Usage),
	})
}

// ValidateToken checks a bearer token on behalf of an app backend.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.validateTokenUseCase.Execute(c.Request.Context(), usecases.ValidateTokenCommand{
		Token: req.Token,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "token is valid", gin.H{
		"valid":      true,
		"user":       toUserView(result.User),
		"expires_at": result.Claims.ExpiresAt.Unix(),
	})
}

// GetOAuthURL builds the provider consent URL for a cross-domain app.
func (h *AuthHandler) GetOAuthURL(c *gin.Context) {
	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context(), usecases.InitiateOAuthLoginCommand{
		Provider:    c.Param("provider"),
		RedirectURI: c.Query("redirect_uri"),
		App: appContext(
			c.Query("app_name"),
			c.Query("app_display_name"),
			c.Query("app_description"),
		),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"auth_url": result.AuthURL,
	})
}

// OAuthCallback finishes the provider round-trip. Cross-domain flows
// answer with the popup completion page; session flows set the cookie
// and redirect.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	// The provider reports user denial and its own failures here
	if errCode := c.Query("error"); errCode != "" {
		h.logger.Warnw("provider rejected oauth flow",
			"provider", providerName, "code", errCode)
		h.renderOAuthError(c, constants.GetOAuthErrorMessageFromString(errCode))
		return
	}

	result, err := h.handleOAuthUseCase.Execute(c.Request.Context(), usecases.HandleOAuthCallbackCommand{
		Provider:  providerName,
		Code:      c.Query("code"),
		State:     c.Query("state"),
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.renderOAuthError(c, "Authentication failed. Please try again.")
		return
	}

	maxAge := int(result.Session.ExpiresAt.Sub(result.Session.CreatedAt).Seconds())
	utils.SetSessionCookie(c, h.sessionConfig, result.Session.ID, maxAge)

	if result.State != nil && result.State.IsCrossDomain() {
		h.renderOAuthSuccess(c, result)
		return
	}

	// The state blob is attacker-craftable, so the session flow always
	// lands on the fixed post-login location.
	c.Redirect(http.StatusFound, h.dashboardURL)
}

// Me reports the authenticated user and which credential was used.
func (h *AuthHandler) Me(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"user":        toUserView(current),
		"auth_method": middleware.AuthMethod(c),
	})
}

// Token issues a fresh bearer token to a session-authenticated user,
// bridging the cookie flow back into the token flow.
func (h *AuthHandler) Token(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		return
	}

	token, err := h.tokens.IssueInteractive(current)
	if err != nil {
		h.logger.Errorw("failed to issue token", "user_id", current.ID, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"token": token,
		"user":  toUserView(current),
	})
}

// MyApps lists the apps the authenticated user has logged into.
func (h *AuthHandler) MyApps(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		utils.ErrorResponseWithError(c, sharederrors.NewAuthenticationRequiredError())
		return
	}

	result, err := h.listUserAppsUseCase.Execute(c.Request.Context(), appusecases.ListUserAppsCommand{
		UserID: current.ID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	apps := make([]gin.H, 0, len(result.Apps))
	for _, summary := range result.Apps {
		apps = append(apps, gin.H{
			"app_name":       summary.App.Name,
			"display_name":   summary.App.DisplayName,
			"description":    summary.App.Description,
			"first_login_at": summary.FirstLoginAt,
			"last_login_at":  summary.LastLoginAt,
			"login_count":    summary.LoginCount,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"apps": apps})
}

// Logout drops the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.sessionConfig.CookieName)

	if err := h.logoutUseCase.Execute(c.Request.Context(), usecases.LogoutCommand{
		SessionID: sessionID,
	}); err != nil {
		h.logger.Warnw("logout cleanup failed", "error", err)
	}

	utils.ClearSessionCookie(c, h.sessionConfig)

	// Only origins on the allow-list may be logout targets; anything
	// else would make this an open redirector.
	if redirect := c.Query("redirect_uri"); redirect != "" && h.isAllowedRedirect(redirect) {
		c.Redirect(http.StatusFound, redirect)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) isAllowedRedirect(raw string) bool {
	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() || target.Host == "" {
		return false
	}
	origin := target.Scheme + "://" + target.Host
	for _, allowed := range h.allowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}
