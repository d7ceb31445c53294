package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productInput(name, price, qty string) ProductInput {
	return ProductInput{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(qty),
	}
}

func sampleInput(method enum.PaymentMethod, amount string) *CreateReceiptInput {
	return &CreateReceiptInput{
		Products: []ProductInput{
			productInput("Item 1", "10.50", "2"),
			productInput("Item 2", "5.75", "3"),
		},
		Payment: PaymentInput{Type: method, Amount: decimal.RequireFromString(amount)},
	}
}

func newTestReceiptService() (*ReceiptService, *memoryReceiptRepo, *memoryTextCache) {
	repo := newMemoryReceiptRepo()
	textCache := newMemoryTextCache()
	return NewReceiptService(repo, nil, textCache, nil), repo, textCache
}

func TestCreateReceiptCash(t *testing.T) {
	svc, _, _ := newTestReceiptService()
	owner := uuid.New()

	r, err := svc.CreateReceipt(context.Background(), owner, sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	assert.NotZero(t, r.ID)
	assert.NotEqual(t, uuid.Nil, r.PublicID)
	assert.Equal(t, owner, r.OwnerID)
	assert.Equal(t, "38.25", r.Total.StringFixed(2))
	assert.Equal(t, "11.75", r.Rest.StringFixed(2))
	require.Len(t, r.Products, 2)
	assert.Equal(t, "21.00", r.Products[0].Total.StringFixed(2))
	assert.Equal(t, "17.25", r.Products[1].Total.StringFixed(2))
}

func TestCreateReceiptCardHasNoRest(t *testing.T) {
	svc, _, _ := newTestReceiptService()

	r, err := svc.CreateReceipt(context.Background(), uuid.New(), sampleInput(enum.PaymentMethodCard, "38.25"))
	require.NoError(t, err)
	assert.Equal(t, "38.25", r.Total.StringFixed(2))
	assert.True(t, r.Rest.IsZero())
}

func TestCreateReceiptInvalidInputWritesNothing(t *testing.T) {
	svc, repo, _ := newTestReceiptService()

	empty := sampleInput(enum.PaymentMethodCash, "50")
	empty.Products = nil
	_, err := svc.CreateReceipt(context.Background(), uuid.New(), empty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidReceipt))

	_, err = svc.CreateReceipt(context.Background(), uuid.New(), nil)
	assert.True(t, errors.Is(err, apperror.ErrInvalidReceipt))

	assert.Zero(t, repo.calls)
	assert.Empty(t, repo.receipts)
}

func TestCreateReceiptPersistenceFailure(t *testing.T) {
	svc, repo, _ := newTestReceiptService()
	repo.saveErr = errors.New("connection reset")

	_, err := svc.CreateReceipt(context.Background(), uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrPersistence))
	assert.Equal(t, "Internal server error", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "connection reset")
}

func TestGetReceiptRoundTrip(t *testing.T) {
	svc, _, _ := newTestReceiptService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateReceipt(ctx, owner, sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	got, err := svc.GetReceipt(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, created.PublicID, got.PublicID)
	assert.True(t, created.Total.Equal(got.Total))
	assert.True(t, created.Rest.Equal(got.Rest))
	assert.Equal(t, created.Payment, got.Payment)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Item 1", got.Products[0].Name)
	assert.Equal(t, "Item 2", got.Products[1].Name)
}

func TestGetReceiptForeignOwnerLooksMissing(t *testing.T) {
	svc, _, _ := newTestReceiptService()
	ctx := context.Background()

	created, err := svc.CreateReceipt(ctx, uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	_, foreignErr := svc.GetReceipt(ctx, created.ID, uuid.New())
	_, missingErr := svc.GetReceipt(ctx, created.ID+100, uuid.New())

	require.Error(t, foreignErr)
	assert.True(t, errors.Is(foreignErr, apperror.ErrNotFound))
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
	assert.Equal(t, "Receipt not found", foreignErr.Error())
}

func TestListReceiptsMinimumTotalAndCount(t *testing.T) {
	svc, _, _ := newTestReceiptService()
	ctx := context.Background()
	owner := uuid.New()

	for _, price := range []string{"5", "15", "25", "35"} {
		_, err := svc.CreateReceipt(ctx, owner, &CreateReceiptInput{
			Products: []ProductInput{productInput("Item", price, "1")},
			Payment:  PaymentInput{Type: enum.PaymentMethodCard, Amount: decimal.RequireFromString(price)},
		})
		require.NoError(t, err)
	}

	min := decimal.NewFromInt(15)
	page, err := svc.ListReceipts(ctx, owner, &repository.ReceiptFilterParams{
		Pagination:   &pagination.OffsetParams{Limit: 2},
		MinimumTotal: &min,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "15.00", page.Items[0].Total.StringFixed(2))
	assert.Equal(t, "25.00", page.Items[1].Total.StringFixed(2))
	assert.True(t, page.HasNext)

	page, err = svc.ListReceipts(ctx, owner, &repository.ReceiptFilterParams{
		Pagination:   &pagination.OffsetParams{Limit: 2, Offset: 2},
		MinimumTotal: &min,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "35.00", page.Items[0].Total.StringFixed(2))
	assert.False(t, page.HasNext)
}

func TestListReceiptsDefaults(t *testing.T) {
	svc, _, _ := newTestReceiptService()

	page, err := svc.ListReceipts(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultLimit, page.Limit)
	assert.Zero(t, page.Offset)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.TotalCount)
}

func TestRenderPublicReceipt(t *testing.T) {
	svc, _, _ := newTestReceiptService()
	ctx := context.Background()

	created, err := svc.CreateReceipt(ctx, uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	text, err := svc.RenderPublicReceipt(ctx, created.PublicID, 32)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines, "СУМА"+sp(12)+sp(11)+"38.25")
	assert.Contains(t, lines, "Готівка"+sp(9)+sp(11)+"50.00")
	assert.Contains(t, lines, "Решта"+sp(11)+sp(11)+"11.75")
}

func TestRenderPublicReceiptUnknown(t *testing.T) {
	svc, _, _ := newTestReceiptService()

	_, err := svc.RenderPublicReceipt(context.Background(), uuid.New(), 32)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestRenderPublicReceiptInvalidWidthSkipsLookup(t *testing.T) {
	svc, repo, _ := newTestReceiptService()

	_, err := svc.RenderPublicReceipt(context.Background(), uuid.New(), 31)
	assert.True(t, errors.Is(err, apperror.ErrInvalidRenderWidth))
	assert.Zero(t, repo.calls)
}

func TestRenderPublicReceiptUsesCache(t *testing.T) {
	svc, repo, textCache := newTestReceiptService()
	ctx := context.Background()

	created, err := svc.CreateReceipt(ctx, uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	first, err := svc.RenderPublicReceipt(ctx, created.PublicID, 32)
	require.NoError(t, err)
	callsAfterFirst := repo.calls

	second, err := svc.RenderPublicReceipt(ctx, created.PublicID, 32)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, repo.calls, "second view is served from cache")

	_, err = svc.RenderPublicReceipt(ctx, created.PublicID, 48)
	require.NoError(t, err)
	assert.Len(t, textCache.entries, 2)
}

func TestRenderPublicReceiptCacheFailureFallsBack(t *testing.T) {
	svc, _, textCache := newTestReceiptService()
	ctx := context.Background()

	created, err := svc.CreateReceipt(ctx, uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)
	textCache.err = errors.New("redis down")

	text, err := svc.RenderPublicReceipt(ctx, created.PublicID, 32)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
