package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxInputScale is the number of decimal places accepted on prices,
// quantities and payment amounts. Derived columns keep twice that so a
// line total and the sums built from it are stored exactly.
const MaxInputScale = 4

// Payment is the single tender recorded on a receipt.
type Payment struct {
	Amount decimal.Decimal    `gorm:"type:numeric(18,4);not null" json:"amount"`
	Method enum.PaymentMethod `gorm:"size:16;not null;index" json:"type"`
}

// ReceiptProduct is one line item. Position keeps the order in which the
// caller supplied the products.
type ReceiptProduct struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	ReceiptID uint            `gorm:"not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:numeric(28,8);not null" json:"total"`
}

// TableName returns the table name for the ReceiptProduct model
func (ReceiptProduct) TableName() string {
	return "receipt_products"
}

// MarshalJSON renders money and quantities as JSON numbers
func (p ReceiptProduct) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity float64 `json:"quantity"`
		Total    float64 `json:"total"`
	}{
		Name:     p.Name,
		Price:    p.UnitPrice.InexactFloat64(),
		Quantity: p.Quantity.InexactFloat64(),
		Total:    p.Total.InexactFloat64(),
	})
}

// Receipt is an immutable record of a sale.
type Receipt struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID  uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	OwnerID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"-"`
	Payment   Payment          `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Total     decimal.Decimal  `gorm:"type:numeric(28,8);not null;index" json:"total"`
	Rest      decimal.Decimal  `gorm:"type:numeric(28,8);not null" json:"rest"`
	CreatedAt time.Time        `gorm:"not null;index" json:"created_at"`
	Products  []ReceiptProduct `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"products"`
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// BeforeCreate assigns the public identifier before the row is inserted
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.PublicID == uuid.Nil {
		r.PublicID = uuid.New()
	}
	return nil
}

// MarshalJSON custom marshaler to convert decimals to numbers for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type payment struct {
		Type   enum.PaymentMethod `json:"type"`
		Amount float64            `json:"amount"`
	}
	products := r.Products
	if products == nil {
		products = []ReceiptProduct{}
	}
	return json.Marshal(&struct {
		ID        uint             `json:"id"`
		PublicID  uuid.UUID        `json:"public_id"`
		Total     float64          `json:"total"`
		Rest      float64          `json:"rest"`
		Payment   payment          `json:"payment"`
		Products  []ReceiptProduct `json:"products"`
		CreatedAt time.Time        `json:"created_at"`
	}{
		ID:        r.ID,
		PublicID:  r.PublicID,
		Total:     r.Total.InexactFloat64(),
		Rest:      r.Rest.InexactFloat64(),
		Payment:   payment{Type: r.Payment.Method, Amount: r.Payment.Amount.InexactFloat64()},
		Products:  products,
		CreatedAt: r.CreatedAt,
	})
}

// NewReceipt builds an unsaved receipt and computes its totals.
func NewReceipt(ownerID uuid.UUID, products []ReceiptProduct, payment Payment) (*Receipt, error) {
	total, rest, err := ComputeReceiptTotals(products, payment)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptProduct, len(products))
	for i, p := range products {
		lines[i] = ReceiptProduct{
			Position:  i,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  p.Quantity,
			Total:     ComputeLineTotal(p),
		}
	}

	return &Receipt{
		OwnerID:  ownerID,
		Payment:  payment,
		Total:    total,
		Rest:     rest,
		Products: lines,
	}, nil
}

// ComputeLineTotal returns unit price times quantity at full precision.
func ComputeLineTotal(p ReceiptProduct) decimal.Decimal {
	return p.UnitPrice.Mul(p.Quantity)
}

// ComputeReceiptTotals returns the grand total and the change due.
// Cash change may be negative when the tender is short; card change is zero.
func ComputeReceiptTotals(products []ReceiptProduct, payment Payment) (total, rest decimal.Decimal, err error) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Receipt must contain at least one product")
	}
	if !payment.Method.IsValid() {
		return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Unknown payment type")
	}
	if !payment.Amount.IsPositive() {
		return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Payment amount must be positive")
	}
	if !withinScale(payment.Amount) {
		return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError(
			fmt.Sprintf("Payment amount must have at most %d decimal places", MaxInputScale))
	}

	total = decimal.Zero
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Product name must not be empty")
		}
		if p.UnitPrice.IsNegative() {
			return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Product price must not be negative")
		}
		if !p.Quantity.IsPositive() {
			return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError("Product quantity must be positive")
		}
		if !withinScale(p.UnitPrice) || !withinScale(p.Quantity) {
			return decimal.Zero, decimal.Zero, apperror.NewInvalidReceiptError(
				fmt.Sprintf("Product price and quantity must have at most %d decimal places", MaxInputScale))
		}
		total = total.Add(ComputeLineTotal(p))
	}

	rest = decimal.Zero
	if payment.Method == enum.PaymentMethodCash {
		rest = payment.Amount.Sub(total)
	}
	return total, rest, nil
}

// withinScale reports whether v is stored unchanged in a column of MaxInputScale places.
func withinScale(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(MaxInputScale))
}
