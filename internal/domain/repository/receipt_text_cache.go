package repository

import (
	"context"

	"github.com/google/uuid"
)

// ReceiptTextCache stores rendered public receipt views. Receipts never
// change once saved, so an entry stays valid until it expires.
type ReceiptTextCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, publicID uuid.UUID, lineWidth int) (text string, ok bool, err error)
	Set(ctx context.Context, publicID uuid.UUID, lineWidth int, text string) error
}
