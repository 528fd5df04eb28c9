package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shulepay/shulepay/internal/api/dto"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/service"
)

type BillingHandler struct {
	subscriptionService service.SubscriptionService
	pricingService      service.PricingService
	log                 *logger.Logger
}

func NewBillingHandler(subscriptionService service.SubscriptionService, pricingService service.PricingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		subscriptionService: subscriptionService,
		pricingService:      pricingService,
		log:                 log,
	}
}

// @Summary Get the current subscription
// @Description Get the tenant's subscription tier, status and expiry
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/subscription [get]
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	resp, err := h.subscriptionService.Get(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Price a plan selection
// @Description Compute the discounted total, action and projected expiry for a plan and duration
// @Tags Billing
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Plan selection"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/quote [post]
func (h *BillingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.pricingService.Quote(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to compute quote", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
