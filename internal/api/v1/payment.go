package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shulepay/shulepay/internal/api/dto"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/service"
	"github.com/shulepay/shulepay/internal/types"
)

type PaymentHandler struct {
	paymentService      service.PaymentService
	verificationService service.VerificationService
	log                 *logger.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, verificationService service.VerificationService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService:      paymentService,
		verificationService: verificationService,
		log:                 log,
	}
}

// @Summary Initiate a payment
// @Description Start a payment attempt for a plan change over the embedded or redirect transport
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body dto.InitiatePaymentRequest true "Plan selection"
// @Success 201 {object} dto.InitiatePaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /billing/initiate [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.Initiate(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to initiate payment", "error", err)
		c.Error(err)
		return
	}

	// The redirect transport leaves the page; polling picks up the
	// outcome even if the user never makes it back
	if resp.Transport == types.TransportKindRedirect {
		h.verificationService.StartPolling(c.Request.Context(), resp.Reference)
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get the pending payment
// @Description Get the outstanding payment attempt, if any, to resume after a reload
// @Tags Payments
// @Produce json
// @Success 200 {object} dto.PendingPaymentResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/pending [get]
func (h *PaymentHandler) GetPending(c *gin.Context) {
	resp, err := h.paymentService.GetPending(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	// A resumed pending payment gets its polling loop back too
	h.verificationService.StartPolling(c.Request.Context(), resp.Reference)

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel the pending payment
// @Description Abandon the outstanding payment attempt and clear the stored record
// @Tags Payments
// @Produce json
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/pending/cancel [post]
func (h *PaymentHandler) CancelPending(c *gin.Context) {
	if err := h.paymentService.Cancel(c.Request.Context()); err != nil {
		h.log.Error("Failed to cancel pending payment", "error", err)
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Report an inline payment result
// @Description Process a terminal event reported by the embedded payment popup
// @Tags Payments
// @Accept json
// @Produce json
// @Param result body dto.InlineResultRequest true "Inline flow outcome"
// @Success 200 {object} dto.VerifyPaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/inline-result [post]
func (h *PaymentHandler) InlineResult(c *gin.Context) {
	var req dto.InlineResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.HandleInlineResult(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to handle inline result", "error", err)
		c.Error(err)
		return
	}

	// A completed popup whose verification is still pending gets the
	// background loop until the gateway settles
	if !resp.Status.IsTerminalSuccess() && req.Event == types.InlineEventCompleted {
		h.verificationService.StartPolling(c.Request.Context(), req.Reference)
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Verify a payment
// @Description Run one verification cycle for a reference, falling back to the pending payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param verify body dto.VerifyPaymentRequest false "Reference to verify"
// @Success 200 {object} dto.VerifyPaymentResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /billing/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.verificationService.Verify(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to verify payment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Payment return callback
// @Description Landing endpoint for the hosted checkout redirect; verifies the returned reference
// @Tags Payments
// @Produce json
// @Param reference query string false "Gateway reference"
// @Param trxref query string false "Gateway reference (legacy name)"
// @Success 200 {object} dto.VerifyPaymentResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/return [get]
func (h *PaymentHandler) Return(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}

	resp, err := h.verificationService.Verify(c.Request.Context(), &dto.VerifyPaymentRequest{Reference: reference})
	if err != nil {
		h.log.Error("Failed to verify payment on return", "error", err)
		c.Error(err)
		return
	}

	if !resp.Status.IsTerminalSuccess() {
		h.verificationService.StartPolling(c.Request.Context(), resp.Reference)
	}

	c.JSON(http.StatusOK, resp)
}
