package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService   *service.PrinterService
	defaultLineWidth int
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService, defaultLineWidth int) *PrinterHandler {
	if defaultLineWidth == 0 {
		defaultLineWidth = service.DefaultLineWidth
	}
	return &PrinterHandler{printerService: printerService, defaultLineWidth: defaultLineWidth}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// PrintReceipt prints one of the caller's receipts.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseReceiptID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// the body is optional
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, bindError(err))
		return
	}
	lineWidth := req.LineLength
	if lineWidth == 0 {
		lineWidth = h.defaultLineWidth
	}

	text, err := h.printerService.PrintReceipt(c.Request.Context(), id, *userID, lineWidth)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{"text": text})
}
