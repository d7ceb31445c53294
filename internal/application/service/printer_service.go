package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService sends stored receipts to the thermal printer.
type PrinterService struct {
	printer     printer.Printer
	receiptRepo repository.ReceiptRepository
	renderer    *TextRenderer
	log         *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, receiptRepo repository.ReceiptRepository, renderer *TextRenderer, log *zap.Logger) *PrinterService {
	if renderer == nil {
		renderer = defaultTextRenderer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer:     p,
		receiptRepo: receiptRepo,
		renderer:    renderer,
		log:         log,
	}
}

// PrinterStatus reports what kind of printer is configured and whether it answers.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

// PrintReceipt renders one of the owner's receipts at lineWidth and prints it.
// The rendered text is returned so callers without hardware can still show it.
func (s *PrinterService) PrintReceipt(ctx context.Context, id uint, ownerID uuid.UUID, lineWidth int) (string, error) {
	if err := ValidateLineWidth(lineWidth); err != nil {
		return "", err
	}

	receipt, err := s.receiptRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	if receipt == nil {
		return "", apperror.NewNotFoundError("Receipt")
	}

	text, err := s.renderer.Render(receipt, lineWidth)
	if err != nil {
		return "", err
	}

	if err := s.printer.Print(ctx, FormatReceipt(text)); err != nil {
		s.log.Error("printer error", zap.Uint("receipt_id", id), zap.String("printer", s.printer.Type()), zap.Error(err))
		return text, apperror.NewPrinterError(err)
	}

	return text, nil
}

// FormatReceipt wraps rendered receipt text into an ESC/POS job ending in a partial cut.
func FormatReceipt(text string) []byte {
	return printer.NewDocument().
		Lines(text).
		FeedLines(3).
		PartialCut().
		Bytes()
}

