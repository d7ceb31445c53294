package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	receiptsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_created_total",
			Help: "Receipts recorded, by payment type",
		},
		[]string{"payment_type"},
	)

	receiptViewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_views_rendered_total",
			Help: "Public receipt views served, by cache outcome",
		},
		[]string{"cache"},
	)
)

// ReceiptService records receipts and serves them back to their owner or,
// by public id, to anyone.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	renderer    *TextRenderer
	textCache   repository.ReceiptTextCache
	log         *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	renderer *TextRenderer,
	textCache repository.ReceiptTextCache,
	log *zap.Logger,
) *ReceiptService {
	if renderer == nil {
		renderer = defaultTextRenderer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		renderer:    renderer,
		textCache:   textCache,
		log:         log,
	}
}

// ProductInput is one product line as submitted by the caller
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// PaymentInput is the tender as submitted by the caller
type PaymentInput struct {
	Type   enum.PaymentMethod
	Amount decimal.Decimal
}

// CreateReceiptInput represents the input for recording a receipt
type CreateReceiptInput struct {
	Products []ProductInput
	Payment  PaymentInput
}

// CreateReceipt validates the input, computes totals and stores the receipt.
// Nothing is written when validation fails.
func (s *ReceiptService) CreateReceipt(ctx context.Context, ownerID uuid.UUID, input *CreateReceiptInput) (*entity.Receipt, error) {
	if input == nil {
		return nil, apperror.NewInvalidReceiptError("Receipt is required")
	}

	products := make([]entity.ReceiptProduct, len(input.Products))
	for i, p := range input.Products {
		products[i] = entity.ReceiptProduct{
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  p.Quantity,
		}
	}

	receipt, err := entity.NewReceipt(ownerID, products, entity.Payment{
		Amount: input.Payment.Amount,
		Method: input.Payment.Type,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.receiptRepo.Save(ctx, receipt)
	if err != nil {
		s.log.Error("failed to save receipt",
			zap.String("owner_id", ownerID.String()),
			zap.Int("products", len(products)),
			zap.Error(err),
		)
		return nil, err
	}

	receiptsCreatedTotal.WithLabelValues(saved.Payment.Method.String()).Inc()
	s.log.Info("receipt created",
		zap.Uint("receipt_id", saved.ID),
		zap.String("owner_id", ownerID.String()),
		zap.String("total", saved.Total.StringFixed(2)),
	)
	return saved, nil
}

// GetReceipt returns one of the owner's receipts. Another owner's receipt is
// reported exactly like a missing one.
func (s *ReceiptService) GetReceipt(ctx context.Context, id uint, ownerID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		s.log.Error("failed to load receipt", zap.Uint("receipt_id", id), zap.Error(err))
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts returns a page of the owner's receipts in creation order along
// with the number of receipts matching the filters.
func (s *ReceiptService) ListReceipts(ctx context.Context, ownerID uuid.UUID, params *repository.ReceiptFilterParams) (*pagination.OffsetResult[entity.Receipt], error) {
	if params == nil {
		params = &repository.ReceiptFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultOffsetParams()
	}
	params.Pagination.Validate()

	receipts, total, err := s.receiptRepo.List(ctx, ownerID, params)
	if err != nil {
		s.log.Error("failed to list receipts", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, err
	}

	return pagination.NewOffsetResult(receipts, params.Pagination, total), nil
}

// GetPublicReceipt looks a receipt up by its public id, regardless of owner.
func (s *ReceiptService) GetPublicReceipt(ctx context.Context, publicID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		s.log.Error("failed to load public receipt", zap.String("public_id", publicID.String()), zap.Error(err))
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// RenderPublicReceipt renders the public view of a receipt at lineWidth.
// The width is checked before any lookup.
func (s *ReceiptService) RenderPublicReceipt(ctx context.Context, publicID uuid.UUID, lineWidth int) (string, error) {
	if err := ValidateLineWidth(lineWidth); err != nil {
		return "", err
	}

	if s.textCache != nil {
		text, ok, err := s.textCache.Get(ctx, publicID, lineWidth)
		if err != nil {
			s.log.Warn("receipt text cache read failed", zap.String("public_id", publicID.String()), zap.Error(err))
		} else if ok {
			receiptViewsTotal.WithLabelValues("hit").Inc()
			return text, nil
		}
	}

	receipt, err := s.GetPublicReceipt(ctx, publicID)
	if err != nil {
		return "", err
	}

	text, err := s.renderer.Render(receipt, lineWidth)
	if err != nil {
		return "", err
	}

	if s.textCache != nil {
		if err := s.textCache.Set(ctx, publicID, lineWidth, text); err != nil {
			s.log.Warn("receipt text cache write failed", zap.String("public_id", publicID.String()), zap.Error(err))
		}
	}
	receiptViewsTotal.WithLabelValues("miss").Inc()
	return text, nil
}
