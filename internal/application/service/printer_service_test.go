package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReceipt(t *testing.T) {
	receipts, repo, _ := newTestReceiptService()
	ctx := context.Background()
	owner := uuid.New()
	created, err := receipts.CreateReceipt(ctx, owner, sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	p := &recordingPrinter{}
	svc := NewPrinterService(p, repo, nil, nil)

	text, err := svc.PrintReceipt(ctx, created.ID, owner, 32)
	require.NoError(t, err)
	require.Len(t, p.jobs, 1)
	assert.Equal(t, FormatReceipt(text), p.jobs[0])
	assert.True(t, bytes.Contains(p.jobs[0], []byte("Item 1")))
}

func TestPrintReceiptForeignOwner(t *testing.T) {
	receipts, repo, _ := newTestReceiptService()
	ctx := context.Background()
	created, err := receipts.CreateReceipt(ctx, uuid.New(), sampleInput(enum.PaymentMethodCash, "50"))
	require.NoError(t, err)

	p := &recordingPrinter{}
	_, err = NewPrinterService(p, repo, nil, nil).PrintReceipt(ctx, created.ID, uuid.New(), 32)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Empty(t, p.jobs)
}

func TestPrintReceiptPrinterFailure(t *testing.T) {
	receipts, repo, _ := newTestReceiptService()
	ctx := context.Background()
	owner := uuid.New()
	created, err := receipts.CreateReceipt(ctx, owner, sampleInput(enum.PaymentMethodCard, "38.25"))
	require.NoError(t, err)

	cause := errors.New("open /dev/usb/lp0: no such device")
	p := &recordingPrinter{err: cause}
	text, err := NewPrinterService(p, repo, nil, nil).PrintReceipt(ctx, created.ID, owner, 32)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrPrinter))
	assert.True(t, errors.Is(err, cause))

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 502, appErr.Code)
	assert.Equal(t, "Failed to print receipt", appErr.Message)
	assert.NotContains(t, appErr.Message, "/dev/usb")
	assert.NotEmpty(t, text)
}

func TestPrinterStatus(t *testing.T) {
	status := NewPrinterService(&recordingPrinter{}, newMemoryReceiptRepo(), nil, nil).GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "network", status.Type)
}
