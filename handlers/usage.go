package handlers

import (
	"errors"
	"net/http"
	"strings"

	"barberremind/services/usage"
	"barberremind/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UsageHandler exposes the admin usage report.
type UsageHandler struct {
	Service usage.UsageService
}

func NewUsageHandler(svc usage.UsageService) *UsageHandler {
	return &UsageHandler{Service: svc}
}

// GetUsageHandler returns every shop's cumulative sent total. The caller
// authenticates with the admin secret as a bearer token.
func (h *UsageHandler) GetUsageHandler(c *gin.Context) {
	secret := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	report, err := h.Service.GetUsage(c.Request.Context(), secret)
	if err != nil {
		if errors.Is(err, usage.ErrUnauthorized) {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "invalid admin secret")
			return
		}
		utils.GetLogger().Error("Failed to build usage report", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to get usage", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"shops": report})
}
