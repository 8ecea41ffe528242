package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

// SaleLine is one row of a transaction as the back-office API stores it.
// A line with ID == 0 is pending: it exists only as the entry form's
// in-progress contents and is not yet durable.
type SaleLine struct {
	ID           int64           `json:"id,omitempty"`
	CustomerCode string          `json:"customer_code"`
	SupplierCode string          `json:"supplier_code"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Weight       decimal.Decimal `json:"weight"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	Packs        int             `json:"packs"`
	// PackDue is the per-pack surcharge copied from the item master at
	// selection time. It is never recomputed from the master afterwards.
	PackDue decimal.Decimal `json:"pack_due"`
	// Total is nullable: an absent total means "not yet entered", which is
	// distinct from an entered zero charge.
	Total       decimal.NullDecimal `json:"total,omitempty"`
	BillPrinted enum.BillStatus     `json:"bill_printed,omitempty"`
	BillNo      string              `json:"bill_no,omitempty"`
	// GivenAmount is authoritative only on the earliest line of a
	// customer's open tab; later lines carry a copy for receipt display.
	GivenAmount *decimal.Decimal `json:"given_amount,omitempty"`

	Timestamp *time.Time `json:"timestamp,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

// IsPending reports whether the line has never been persisted.
func (l *SaleLine) IsPending() bool {
	return l.ID == 0
}

// LineAmount is the display amount of the line: the stored total when
// present and non-zero, otherwise weight times price. Pack due therefore
// only shows through a stored total.
func (l *SaleLine) LineAmount() decimal.Decimal {
	if l.Total.Valid && !l.Total.Decimal.IsZero() {
		return l.Total.Decimal
	}
	return l.Weight.Mul(l.PricePerKg)
}

// WeightCost is the weight-based portion of the line, excluding pack due.
func (l *SaleLine) WeightCost() decimal.Decimal {
	return l.Weight.Mul(l.PricePerKg)
}

// ComputeTotal returns weight*price + packs*pack_due rounded to 2 decimals.
func (l *SaleLine) ComputeTotal() decimal.Decimal {
	packs := decimal.NewFromInt(int64(l.Packs))
	return l.Weight.Mul(l.PricePerKg).Add(packs.Mul(l.PackDue)).Round(2)
}

// RecencyKey is the instant used for most-recent-line ordering. The backend
// populates the three timestamp columns unevenly, so the chain falls back
// timestamp, created_at, date; a line with none of them sorts by ID via
// RecencyTiebreak.
func (l *SaleLine) RecencyKey() time.Time {
	switch {
	case l.Timestamp != nil:
		return *l.Timestamp
	case l.CreatedAt != nil:
		return *l.CreatedAt
	case l.Date != nil:
		return *l.Date
	}
	return time.Time{}
}

// RecencyTiebreak orders lines with equal (or missing) recency keys.
func (l *SaleLine) RecencyTiebreak() int64 {
	return l.ID
}
