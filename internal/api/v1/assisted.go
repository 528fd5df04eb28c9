package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shulepay/shulepay/internal/api/dto"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/service"
)

type AssistedUpgradeHandler struct {
	service service.AssistedUpgradeService
	log     *logger.Logger
}

func NewAssistedUpgradeHandler(service service.AssistedUpgradeService, log *logger.Logger) *AssistedUpgradeHandler {
	return &AssistedUpgradeHandler{service: service, log: log}
}

// @Summary Request an assisted upgrade
// @Description Ask the fulfillment team to complete a premium upgrade out-of-band
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.AssistedUpgradeRequest true "Upgrade request"
// @Success 202 {object} dto.AssistedUpgradeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/assisted-request [post]
func (h *AssistedUpgradeHandler) Request(c *gin.Context) {
	var req dto.AssistedUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to dispatch assisted upgrade request", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}
