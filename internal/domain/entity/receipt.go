package entity

import "github.com/shopspring/decimal"

// ReceiptLine is a single sale line as it appears on a printed bill.
type ReceiptLine struct {
	ItemName     string          `json:"item_name"`
	Weight       decimal.Decimal `json:"weight"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	Packs        int             `json:"packs"`
	SupplierCode string          `json:"supplier_code"`
	Amount       decimal.Decimal `json:"amount"`
}

// Receipt is a value object handed to the receipt sink when a bill is
// closed. It is not a stored record; it is composed from the ledger
// snapshot and reference data at print time.
type Receipt struct {
	CustomerCode  string          `json:"customer_code"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	BillNo        string          `json:"bill_no"`
	Date          string          `json:"date"`
	Lines         []ReceiptLine   `json:"lines"`
	SubTotal      decimal.Decimal `json:"sub_total"` // weight-based cost, pack due excluded
	PackCost      decimal.Decimal `json:"pack_cost"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	// GivenAmount and Balance are printed only when a given amount > 0 is
	// on record for the tab.
	GivenAmount decimal.Decimal `json:"given_amount"`
	Balance     decimal.Decimal `json:"balance"`
	// LoanBalance and TotalWithLoan are printed only when the customer has
	// a non-zero outstanding loan.
	LoanBalance   decimal.Decimal `json:"loan_balance"`
	TotalWithLoan decimal.Decimal `json:"total_with_loan"`
}

// HasGivenAmount reports whether the tendered-cash section prints.
func (r *Receipt) HasGivenAmount() bool {
	return r.GivenAmount.IsPositive()
}

// HasLoan reports whether the prior-loan section prints.
func (r *Receipt) HasLoan() bool {
	return !r.LoanBalance.IsZero()
}
