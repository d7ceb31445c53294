package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return NewReceiptRepositoryWithClock(db, time.Now)
}

// NewReceiptRepositoryWithClock creates a receipt repository that stamps
// creation times from now.
func NewReceiptRepositoryWithClock(db *gorm.DB, now func() time.Time) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db, now: now}
}

func (r *receiptRepository) Save(ctx context.Context, receipt *entity.Receipt) (*entity.Receipt, error) {
	if receipt == nil {
		return nil, apperror.NewInvalidReceiptError("Receipt is required")
	}

	row := entity.Receipt{
		PublicID:  uuid.New(),
		OwnerID:   receipt.OwnerID,
		Payment:   receipt.Payment,
		Total:     receipt.Total,
		Rest:      receipt.Rest,
		CreatedAt: r.now().UTC().Truncate(time.Microsecond), // postgres keeps microseconds
		Products:  make([]entity.ReceiptProduct, len(receipt.Products)),
	}
	for i, p := range receipt.Products {
		row.Products[i] = entity.ReceiptProduct{
			Position:  i,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  p.Quantity,
			Total:     p.Total,
		}
	}

	var saved entity.Receipt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Scopes(ProductsInOrder).First(&saved, "id = ?", row.ID).Error
	})
	if err != nil {
		return nil, apperror.NewPersistenceError(fmt.Errorf("save receipt: %w", err))
	}
	return &saved, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id uint, ownerID uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID), ProductsInOrder).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewPersistenceError(fmt.Errorf("get receipt %d: %w", id, err))
	}
	return &receipt, nil
}

func (r *receiptRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Scopes(ProductsInOrder).
		First(&receipt, "public_id = ?", publicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewPersistenceError(fmt.Errorf("get receipt by public id: %w", err))
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	if params == nil {
		params = &domainRepo.ReceiptFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultOffsetParams()
	}
	params.Pagination.Validate()

	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).Scopes(OwnerScope(ownerID))

	if params.CreatedAfter != nil {
		query = query.Where("created_at >= ?", params.CreatedAfter.UTC())
	}

	if params.MinimumTotal != nil {
		query = query.Where("total >= ?", *params.MinimumTotal)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.NewPersistenceError(fmt.Errorf("count receipts: %w", err))
	}

	err := query.Scopes(ProductsInOrder).
		Order("created_at ASC").
		Order("id ASC").
		Offset(params.Pagination.Offset).
		Limit(params.Pagination.Limit).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, apperror.NewPersistenceError(fmt.Errorf("list receipts: %w", err))
	}

	return receipts, total, nil
}
