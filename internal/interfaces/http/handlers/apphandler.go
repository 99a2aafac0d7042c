package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"authrelay/internal/application/app/usecases"
	"authrelay/internal/domain/app"
	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

type AppHandler struct {
	registerUseCase  *usecases.RegisterAppUseCase
	createUseCase    *usecases.CreateAppUseCase
	listUseCase      *usecases.ListAppsUseCase
	listUsersUseCase *usecases.ListAppUsersUseCase
	deleteUseCase    *usecases.DeleteAppUseCase
	logger           logger.Interface
}

func NewAppHandler(
	registerUC *usecases.RegisterAppUseCase,
	createUC *usecases.CreateAppUseCase,
	listUC *usecases.ListAppsUseCase,
	listUsersUC *usecases.ListAppUsersUseCase,
	deleteUC *usecases.DeleteAppUseCase,
	logger logger.Interface,
) *AppHandler {
	return &AppHandler{
		registerUseCase:  registerUC,
		createUseCase:    createUC,
		listUseCase:      listUC,
		listUsersUseCase: listUsersUC,
		deleteUseCase:    deleteUC,
		logger:           logger,
	}
}

type RegisterAppRequest struct {
	AppName        string `json:"app_name" binding:"required,max=100"`
	AppDisplayName string `json:"app_display_name" binding:"max=255"`
	AppDescription string `json:"app_description" binding:"max=1000"`
}

func appView(a *app.App) gin.H {
	return gin.H{
		"id":           a.ID,
		"app_name":     a.Name,
		"display_name": a.DisplayName,
		"description":  a.Description,
		"created_at":   a.CreatedAt,
	}
}

// Register declares an app before its first login so the dashboard can
// show it with its metadata. Registration is idempotent.
func (h *AppHandler) Register(c *gin.Context) {
	var req RegisterAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), usecases.RegisterAppCommand{
		Name:        req.AppName,
		DisplayName: req.AppDisplayName,
		Description: req.AppDescription,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusOK
	if result.IsNew {
		status = http.StatusCreated
	}

	utils.SuccessResponse(c, status, "app registered", gin.H{
		"app":    appView(result.App),
		"is_new": result.IsNew,
	})
}

// Create is the find-or-create variant: it never rewrites metadata on
// an app that already exists.
func (h *AppHandler) Create(c *gin.Context) {
	var req RegisterAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateAppCommand{
		Name:        req.AppName,
		DisplayName: req.AppDisplayName,
		Description: req.AppDescription,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "app created", gin.H{
		"app": appView(result.App),
	})
}

// List returns every known app with its distinct user count.
func (h *AppHandler) List(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	apps := make([]gin.H, 0, len(result.Apps))
	for _, entry := range result.Apps {
		view := appView(entry.App)
		view["user_count"] = entry.UserCount
		apps = append(apps, view)
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"apps": apps})
}

// ListUsers returns the usage rows for one app, most recent login first.
func (h *AppHandler) ListUsers(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUsersUseCase.Execute(c.Request.Context(), usecases.ListAppUsersCommand{
		AppID: appID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	users := make([]gin.H, 0, len(result.Users))
	for _, usage := range result.Users {
		users = append(users, gin.H{
			"user_id":        usage.UserID,
			"name":           usage.UserName,
			"email":          usage.UserEmail,
			"provider":       usage.Provider,
			"first_login_at": usage.FirstLoginAt,
			"last_login_at":  usage.LastLoginAt,
			"login_count":    usage.LoginCount,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"app":   appView(result.App),
		"users": users,
	})
}

// Delete removes an app and its usage history.
func (h *AppHandler) Delete(c *gin.Context) {
	appID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), usecases.DeleteAppCommand{
		AppID: appID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "app deleted", nil)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, sharederrors.NewValidationError("invalid id parameter")
	}
	return uint(id), nil
}
