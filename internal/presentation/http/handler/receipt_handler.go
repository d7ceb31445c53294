package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService   *service.ReceiptService
	defaultLineWidth int
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, defaultLineWidth int) *ReceiptHandler {
	if defaultLineWidth == 0 {
		defaultLineWidth = service.DefaultLineWidth
	}
	return &ReceiptHandler{receiptService: receiptService, defaultLineWidth: defaultLineWidth}
}

// Create handles recording a new receipt
func (h *ReceiptHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	method, err := enum.ParsePaymentMethod(req.Payment.Type)
	if err != nil {
		response.Error(c, apperror.NewInvalidReceiptError("Unknown payment type"))
		return
	}

	input := &service.CreateReceiptInput{
		Products: make([]service.ProductInput, len(req.Products)),
		Payment:  service.PaymentInput{Type: method, Amount: req.Payment.Amount},
	}
	for i, p := range req.Products {
		input.Products[i] = service.ProductInput{Name: p.Name, Price: p.Price, Quantity: p.Quantity}
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), *userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// Get handles fetching one of the caller's receipts
func (h *ReceiptHandler) Get(c *gin.Context) {
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

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// List handles listing the caller's receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var q request.ListReceiptsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	params, err := listParams(&q)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.receiptService.ListReceipts(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", response.NewReceiptList(page))
}

// View handles the public printable view of a receipt. No authentication:
// the unguessable public id is the credential.
func (h *ReceiptHandler) View(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewNotFoundError("Receipt"))
		return
	}

	lineWidth := h.defaultLineWidth
	if raw := c.Query("line_length"); raw != "" {
		lineWidth, err = strconv.Atoi(raw)
		if err != nil {
			response.Error(c, apperror.NewInvalidRenderWidthError("line_length must be an integer"))
			return
		}
	}

	text, err := h.receiptService.RenderPublicReceipt(c.Request.Context(), publicID, lineWidth)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	response.Text(c, http.StatusOK, text)
}

func parseReceiptID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		// a malformed id cannot name a receipt
		return 0, apperror.NewNotFoundError("Receipt")
	}
	return uint(id), nil
}

func listParams(q *request.ListReceiptsQuery) (*repository.ReceiptFilterParams, error) {
	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.OffsetParams{Limit: q.Limit, Offset: q.Offset},
	}

	if q.CreatedAfter != "" {
		t, err := time.Parse(time.RFC3339, q.CreatedAfter)
		if err != nil {
			return nil, apperror.NewBadRequestError("created_after must be an RFC3339 timestamp")
		}
		params.CreatedAfter = &t
	}

	if q.MinimumTotal != "" {
		min, err := decimal.NewFromString(q.MinimumTotal)
		if err != nil {
			return nil, apperror.NewBadRequestError("minimum_total must be a number")
		}
		params.MinimumTotal = &min
	}

	if q.PaymentType != "" {
		method, err := enum.ParsePaymentMethod(q.PaymentType)
		if err != nil {
			return nil, apperror.NewBadRequestError("payment_type must be one of: cash, card")
		}
		params.PaymentMethod = &method
	}

	return params, nil
}
