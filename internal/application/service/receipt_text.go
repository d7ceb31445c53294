package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultLineWidth fits 58mm paper
	DefaultLineWidth = 32
	// MinLineWidth is the narrowest layout that still fits a label and a value
	MinLineWidth = 8

	DefaultMerchantName = "ФОП Джонсонюк Борис"
	DefaultThankYou     = "Дякуємо за покупку!"

	receiptTimeLayout = "02.01.2006 15:04"

	labelTotal = "СУМА"
	labelCard  = "Картка"
	labelCash  = "Готівка"
	labelRest  = "Решта"
)

// TextRenderer lays out a stored receipt as fixed-width printer text.
type TextRenderer struct {
	MerchantName string
	ThankYou     string
	// Location, when set, is used to print the creation time. Otherwise the
	// timestamp is printed in the location it carries.
	Location *time.Location
}

// NewTextRenderer creates a renderer, falling back to the default header and
// footer for empty values.
func NewTextRenderer(merchantName, thankYou string, loc *time.Location) *TextRenderer {
	if merchantName == "" {
		merchantName = DefaultMerchantName
	}
	if thankYou == "" {
		thankYou = DefaultThankYou
	}
	return &TextRenderer{MerchantName: merchantName, ThankYou: thankYou, Location: loc}
}

var defaultTextRenderer = NewTextRenderer(DefaultMerchantName, DefaultThankYou, nil)

// RenderReceiptText renders r with the default header and footer.
func RenderReceiptText(r *entity.Receipt, lineWidth int) (string, error) {
	return defaultTextRenderer.Render(r, lineWidth)
}

// ValidateLineWidth rejects widths that are odd, non-positive or below MinLineWidth.
func ValidateLineWidth(lineWidth int) error {
	if lineWidth < MinLineWidth || lineWidth%2 != 0 {
		return apperror.NewInvalidRenderWidthError(
			fmt.Sprintf("Line width must be an even number of at least %d", MinLineWidth))
	}
	return nil
}

// Render produces the receipt text. Lines are joined with "\n" and there is
// no trailing newline. Output depends only on r, lineWidth and the renderer.
func (tr *TextRenderer) Render(r *entity.Receipt, lineWidth int) (string, error) {
	if err := ValidateLineWidth(lineWidth); err != nil {
		return "", err
	}
	if r == nil {
		return "", apperror.NewInvalidReceiptError("Receipt is required")
	}

	half := lineWidth / 2
	money := newMoneyFormatter()
	lines := make([]string, 0, 8+3*len(r.Products))

	lines = append(lines,
		center(tr.MerchantName, lineWidth),
		strings.Repeat("=", lineWidth),
	)

	for i, p := range r.Products {
		lines = append(lines, padRight(p.Quantity.StringFixed(2)+" x "+money.format(p.UnitPrice), lineWidth))

		nameLines := wrapWords(p.Name, half)
		last := len(nameLines) - 1
		nameLines[last] = padRight(nameLines[last], half) + padLeft(money.format(entity.ComputeLineTotal(p)), half)
		lines = append(lines, nameLines...)

		if i < len(r.Products)-1 {
			lines = append(lines, strings.Repeat("-", lineWidth))
		}
	}

	paymentLabel := labelCash
	if r.Payment.Method == enum.PaymentMethodCard {
		paymentLabel = labelCard
	}

	createdAt := r.CreatedAt
	if tr.Location != nil {
		createdAt = createdAt.In(tr.Location)
	}

	lines = append(lines,
		strings.Repeat("=", lineWidth),
		labelValue(labelTotal, money.format(r.Total), half),
		labelValue(paymentLabel, money.format(r.Payment.Amount), half),
		labelValue(labelRest, money.format(r.Rest), half),
		strings.Repeat("=", lineWidth),
		center(createdAt.Format(receiptTimeLayout), lineWidth),
		center(tr.ThankYou, lineWidth),
	)

	return strings.Join(lines, "\n"), nil
}

// moneyFormatter prints amounts with two decimals. The locale grouping
// separator is swapped for a plain space so only printer-safe characters remain.
type moneyFormatter struct {
	p *message.Printer
}

func newMoneyFormatter() moneyFormatter {
	return moneyFormatter{p: message.NewPrinter(language.English)}
}

func (m moneyFormatter) format(v decimal.Decimal) string {
	s := v.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	digits, cents, _ := strings.Cut(s, ".")

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// wider than int64; printed ungrouped
		return sign + digits + "." + cents
	}
	grouped := strings.ReplaceAll(m.p.Sprintf("%d", n), ",", " ")
	return sign + grouped + "." + cents
}

// wrapWords packs words greedily into lines of at most budget characters.
// A word longer than budget is kept whole on its own line.
func wrapWords(text string, budget int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case textWidth(current)+1+textWidth(word) <= budget:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

func labelValue(label, value string, half int) string {
	return padRight(label, half) + padLeft(value, half)
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}

func padRight(s string, width int) string {
	if n := width - textWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - textWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// center splits the padding evenly, with an odd remainder on the right.
func center(s string, width int) string {
	n := width - textWidth(s)
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
}
