package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	sharederrors "authrelay/internal/shared/errors"
	"authrelay/internal/shared/utils"
)

// HealthHandler answers liveness probes. The SDK monitor polls this
// endpoint and counts consecutive failures.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports ok when the process can reach its storage.
func (h *HealthHandler) Check(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.ErrorResponseWithError(c, sharederrors.NewStorageUnavailableError(err.Error()))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
}
