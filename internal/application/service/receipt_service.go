package service

import (
	"context"
	"fmt"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/pkg/printer"
)

// ReceiptSink renders a closed bill's receipt. The print workflow awaits
// Render before reporting completion, but bill closure never depends on
// its outcome.
type ReceiptSink interface {
	Render(ctx context.Context, receipt *entity.Receipt) error
}

// ThermalSink formats receipts as ESC/POS and hands them to a printer.
type ThermalSink struct {
	printer printer.Printer
	width   int
}

// NewThermalSink creates a sink over the given printer driver.
func NewThermalSink(p printer.Printer, width int) *ThermalSink {
	if width <= 0 {
		width = 32
	}
	return &ThermalSink{printer: p, width: width}
}

func (s *ThermalSink) Render(ctx context.Context, receipt *entity.Receipt) error {
	data := FormatReceipt(receipt, s.width)
	if err := s.printer.Print(data); err != nil {
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// FormatReceipt converts a receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.CustomerName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text(r.CustomerCode)

	if r.CustomerPhone != "" {
		doc.Text(r.CustomerPhone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill No:", r.BillNo).
		KeyValue("Date:", r.Date).
		Separator('-')

	// Lines
	for _, line := range r.Lines {
		name := line.ItemName
		if line.SupplierCode != "" {
			name = fmt.Sprintf("%s (%s)", line.ItemName, line.SupplierCode)
		}
		detail := fmt.Sprintf("%skg @ %s", line.Weight.String(), line.PricePerKg.StringFixed(2))
		if line.Packs > 0 {
			detail = fmt.Sprintf("%s /%dp", detail, line.Packs)
		}
		doc.SaleLine(name, detail, line.Amount.StringFixed(2))
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", r.SubTotal.StringFixed(2))
	if r.PackCost.IsPositive() {
		doc.KeyValue("Pack cost:", r.PackCost.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.GrandTotal.StringFixed(2)).
		SetBold(false)

	if r.HasGivenAmount() {
		doc.KeyValue("Given:", r.GivenAmount.StringFixed(2)).
			KeyValue("Balance:", r.Balance.StringFixed(2))
	}
	if r.HasLoan() {
		doc.KeyValue("Prior loan:", r.LoanBalance.StringFixed(2)).
			KeyValue("Total with loan:", r.TotalWithLoan.StringFixed(2))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
