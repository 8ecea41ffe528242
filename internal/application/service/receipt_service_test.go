package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
)

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		CustomerCode: "C1",
		CustomerName: "Ceylon Traders",
		BillNo:       "777",
		Date:         "2026-01-15 09:30",
		Lines: []entity.ReceiptLine{
			{ItemName: "KELAWALLA", Weight: dec("12.5"), PricePerKg: dec("1450"), SupplierCode: "S01", Amount: dec("18125")},
			{ItemName: "HURULLA", Weight: dec("3"), PricePerKg: dec("400"), Packs: 2, Amount: dec("1204")},
		},
		SubTotal:      dec("19325"),
		PackCost:      dec("4"),
		GrandTotal:    dec("19329"),
		GivenAmount:   decimal.Zero,
		Balance:       decimal.Zero,
		LoanBalance:   decimal.Zero,
		TotalWithLoan: dec("19329"),
	}
}

func TestFormatReceiptContent(t *testing.T) {
	data := FormatReceipt(sampleReceipt(), 32)

	for _, want := range []string{
		"Ceylon Traders",
		"Bill No:",
		"777",
		"KELAWALLA (S01)",
		"12.5kg @ 1450.00",
		"/2p",
		"Subtotal:",
		"Pack cost:",
		"TOTAL:",
		"19329.00",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestFormatReceiptOmitsZeroSections(t *testing.T) {
	r := sampleReceipt()
	r.PackCost = decimal.Zero
	data := FormatReceipt(r, 32)

	for _, absent := range []string{"Pack cost:", "Given:", "Balance:", "Prior loan:"} {
		if bytes.Contains(data, []byte(absent)) {
			t.Errorf("receipt contains %q for a zero value", absent)
		}
	}
}

func TestFormatReceiptGivenAndLoanSections(t *testing.T) {
	r := sampleReceipt()
	r.GivenAmount = dec("20000")
	r.Balance = dec("-671")
	r.LoanBalance = dec("1500")
	r.TotalWithLoan = dec("20829")
	data := FormatReceipt(r, 32)

	for _, want := range []string{
		"Given:", "20000.00",
		"Balance:", "-671.00",
		"Prior loan:", "1500.00",
		"Total with loan:", "20829.00",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

type failingPrinter struct{}

func (failingPrinter) Print(data []byte) error { return errors.New("offline") }
func (failingPrinter) Close() error            { return nil }
func (failingPrinter) IsConnected() bool       { return false }

func TestThermalSinkWrapsPrinterError(t *testing.T) {
	sink := NewThermalSink(failingPrinter{}, 32)
	err := sink.Render(context.Background(), sampleReceipt())
	if err == nil {
		t.Fatal("printer failure swallowed")
	}
}
