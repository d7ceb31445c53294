package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ReceiptRepository defines the interface for receipt data operations.
// Lookups that find nothing return (nil, nil); storage failures are
// returned as apperror persistence errors.
type ReceiptRepository interface {
	// Save assigns id, public id and creation time, then writes the receipt
	// and its products in one transaction. It returns the stored form.
	Save(ctx context.Context, receipt *entity.Receipt) (*entity.Receipt, error)
	// GetByID only returns receipts owned by ownerID.
	GetByID(ctx context.Context, id uint, ownerID uuid.UUID) (*entity.Receipt, error)
	// GetByPublicID is not owner scoped.
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Receipt, error)
	// List returns one page in creation order plus the size of the filtered set.
	List(ctx context.Context, ownerID uuid.UUID, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries.
// Nil filters are not applied; the rest are ANDed.
type ReceiptFilterParams struct {
	Pagination    *pagination.OffsetParams
	CreatedAfter  *time.Time // inclusive
	MinimumTotal  *decimal.Decimal
	PaymentMethod *enum.PaymentMethod
}
