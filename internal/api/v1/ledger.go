package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/service"
)

type LedgerHandler struct {
	service service.LedgerService
	log     *logger.Logger
}

func NewLedgerHandler(service service.LedgerService, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{service: service, log: log}
}

// @Summary List transactions
// @Description List the tenant's payment history, newest first
// @Tags Transactions
// @Produce json
// @Success 200 {object} dto.TransactionListResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/transactions [get]
func (h *LedgerHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list transactions", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Export transactions
// @Description Export the payment history as CSV or JSON
// @Tags Transactions
// @Produce json
// @Param format query string false "Export format: csv or json" default(csv)
// @Success 200 {string} string "exported document"
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /billing/transactions/export [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	filename := fmt.Sprintf("transactions-%s", time.Now().UTC().Format("2006-01-02"))

	switch format {
	case "csv":
		data, err := h.service.ExportCSV(c.Request.Context())
		if err != nil {
			h.log.Error("Failed to export transactions", "error", err)
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", data)
	case "json":
		data, err := h.service.ExportJSON(c.Request.Context())
		if err != nil {
			h.log.Error("Failed to export transactions", "error", err)
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.Data(http.StatusOK, "application/json", data)
	default:
		c.Error(ierr.NewError("unsupported export format").
			WithHintf("Format %s is not supported, use csv or json", format).
			Mark(ierr.ErrValidation))
	}
}
