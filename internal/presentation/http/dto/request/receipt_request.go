package request

import "github.com/shopspring/decimal"

// ProductRequest is one product line of a new receipt. Amount rules are
// enforced by the receipt domain so they report as invalid receipts.
type ProductRequest struct {
	Name     string          `json:"name" binding:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PaymentRequest is the tender of a new receipt
type PaymentRequest struct {
	Type   string          `json:"type" binding:"required,payment_method"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateReceiptRequest represents a create receipt request
type CreateReceiptRequest struct {
	Products []ProductRequest `json:"products" binding:"dive"`
	Payment  PaymentRequest   `json:"payment"`
}

// ListReceiptsQuery holds the list filters taken from the query string
type ListReceiptsQuery struct {
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
	CreatedAfter string `form:"created_after"`
	MinimumTotal string `form:"minimum_total"`
	PaymentType  string `form:"payment_type" binding:"omitempty,payment_method"`
}

// PrintReceiptRequest is the optional body of a print request
type PrintReceiptRequest struct {
	LineLength int `json:"line_length" binding:"omitempty,min=8,max=128"`
}
