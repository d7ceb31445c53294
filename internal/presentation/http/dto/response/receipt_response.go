package response

import (
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/pkg/pagination"
)

// ReceiptList is the body of a receipt list response
type ReceiptList struct {
	Receipts   []entity.Receipt `json:"receipts"`
	TotalCount int64            `json:"total_count"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	HasNext    bool             `json:"has_next"`
}

// NewReceiptList converts a page of receipts into the list body
func NewReceiptList(page *pagination.OffsetResult[entity.Receipt]) *ReceiptList {
	return &ReceiptList{
		Receipts:   page.Items,
		TotalCount: page.TotalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
		HasNext:    page.HasNext,
	}
}

// AuthTokens is the body of signin and refresh responses
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
