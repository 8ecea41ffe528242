package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
	"github.com/nethmavilhandesilva/trading-workspace/pkg/apperror"
)

// pickerSettleDelay gives picker components time to finish closing before
// focus lands on the packs field.
const pickerSettleDelay = 150 * time.Millisecond

// EntryForm holds the single in-progress pending row. Inputs stay as raw
// strings so an untouched field is distinguishable from an entered zero.
type EntryForm struct {
	CustomerCode string `json:"customer_code"`
	GivenAmount  string `json:"given_amount"`
	SupplierCode string `json:"supplier_code"`
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	Weight       string `json:"weight"`
	PricePerKg   string `json:"price_per_kg"`
	Packs        string `json:"packs"`
	PackDue      string `json:"pack_due"`
	// Total is recomputed on every quantity change. It renders blank, not
	// "0.00", when the inputs are empty or the result is zero.
	Total string `json:"total"`
}

// Reset blanks the form. The customer code survives when keepCustomer is
// set, so consecutive lines for one customer need no retyping.
func (f *EntryForm) Reset(keepCustomer bool) {
	customer := f.CustomerCode
	*f = EntryForm{}
	if keepCustomer {
		f.CustomerCode = customer
	}
}

// SetField writes one field and recomputes the total when a quantity
// changed. Computed fields (item name, total) ignore direct writes.
func (f *EntryForm) SetField(field enum.EntryField, value string) {
	switch field {
	case enum.FieldCustomerCode, enum.FieldCustomerPicker:
		f.CustomerCode = strings.ToUpper(strings.TrimSpace(value))
	case enum.FieldGivenAmount:
		f.GivenAmount = strings.TrimSpace(value)
	case enum.FieldSupplierCode:
		f.SupplierCode = strings.ToUpper(strings.TrimSpace(value))
	case enum.FieldWeight:
		f.Weight = strings.TrimSpace(value)
		f.recomputeTotal()
	case enum.FieldPricePerKg:
		f.PricePerKg = strings.TrimSpace(value)
		f.recomputeTotal()
	case enum.FieldPacks:
		f.Packs = strings.TrimSpace(value)
		f.recomputeTotal()
	}
}

// ApplyItem copies code, name and pack due from the item master. Unless an
// existing line is being edited, the quantities are cleared: each item
// starts from fresh figures.
func (f *EntryForm) ApplyItem(item entity.Item, editing bool) {
	f.ItemCode = item.Code
	f.ItemName = item.Name
	f.PackDue = item.PackDue.String()
	if !editing {
		f.Weight = ""
		f.PricePerKg = ""
		f.Packs = ""
		f.Total = ""
		return
	}
	f.recomputeTotal()
}

// LoadLine fills the form from an existing ledger line for editing.
func (f *EntryForm) LoadLine(line *entity.SaleLine) {
	*f = EntryForm{
		CustomerCode: line.CustomerCode,
		SupplierCode: line.SupplierCode,
		ItemCode:     line.ItemCode,
		ItemName:     line.ItemName,
		Weight:       line.Weight.String(),
		PricePerKg:   line.PricePerKg.String(),
		PackDue:      line.PackDue.String(),
	}
	if line.Packs != 0 {
		f.Packs = strconv.Itoa(line.Packs)
	}
	if line.GivenAmount != nil {
		f.GivenAmount = line.GivenAmount.String()
	}
	if line.Total.Valid {
		f.Total = line.Total.Decimal.StringFixed(2)
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f *EntryForm) recomputeTotal() {
	if f.Weight == "" && f.PricePerKg == "" && f.Packs == "" {
		f.Total = ""
		return
	}
	packs := parseDecimal(f.Packs)
	total := parseDecimal(f.Weight).Mul(parseDecimal(f.PricePerKg)).
		Add(packs.Mul(parseDecimal(f.PackDue))).Round(2)
	if total.IsZero() {
		f.Total = ""
		return
	}
	f.Total = total.StringFixed(2)
}

// Line converts the form into a pending sale line.
func (f *EntryForm) Line() entity.SaleLine {
	packs, _ := strconv.Atoi(f.Packs)
	line := entity.SaleLine{
		CustomerCode: f.CustomerCode,
		SupplierCode: f.SupplierCode,
		ItemCode:     f.ItemCode,
		ItemName:     f.ItemName,
		Weight:       parseDecimal(f.Weight),
		PricePerKg:   parseDecimal(f.PricePerKg),
		Packs:        packs,
		PackDue:      parseDecimal(f.PackDue),
	}
	if f.Total != "" {
		line.Total = decimal.NullDecimal{Decimal: parseDecimal(f.Total), Valid: true}
	}
	if f.GivenAmount != "" {
		given := parseDecimal(f.GivenAmount)
		line.GivenAmount = &given
	}
	return line
}

// Validate checks the form ahead of a submit. The caller resolves the
// customer fallback before calling.
func (f *EntryForm) Validate() error {
	if f.CustomerCode == "" {
		return apperror.ErrCustomerRequired
	}
	return nil
}

// AdvanceKind classifies what the advance key does from a given field.
type AdvanceKind int

const (
	// AdvanceFocus moves focus to the Next field.
	AdvanceFocus AdvanceKind = iota
	// AdvanceSubmitLine submits the full line instead of moving focus.
	AdvanceSubmitLine
	// AdvanceSubmitGivenAmount commits the given amount instead of moving.
	AdvanceSubmitGivenAmount
)

func (k AdvanceKind) String() string {
	switch k {
	case AdvanceSubmitLine:
		return "submit_line"
	case AdvanceSubmitGivenAmount:
		return "submit_given_amount"
	default:
		return "focus"
	}
}

// AdvanceAction is the outcome of pressing the advance key in a field.
type AdvanceAction struct {
	Kind AdvanceKind
	Next enum.EntryField
	// SettleDelay is how long the caller should wait before focusing Next,
	// letting picker widgets finish closing.
	SettleDelay time.Duration
}

// skipTargets jumps over picker-only fields in the advance order.
var skipTargets = map[enum.EntryField]enum.EntryField{
	enum.FieldCustomerCode: enum.FieldSupplierCode,
	enum.FieldSupplierCode: enum.FieldItemPicker,
	enum.FieldItemPicker:   enum.FieldWeight,
}

// Advance implements the keyboard focus-advance protocol over the fixed
// field order.
func (f *EntryForm) Advance(field enum.EntryField) AdvanceAction {
	switch field {
	case enum.FieldGivenAmount:
		if f.GivenAmount != "" {
			return AdvanceAction{Kind: AdvanceSubmitGivenAmount}
		}
	case enum.FieldPacks:
		return AdvanceAction{Kind: AdvanceSubmitLine}
	case enum.FieldPricePerKg:
		return AdvanceAction{Kind: AdvanceFocus, Next: enum.FieldPacks, SettleDelay: pickerSettleDelay}
	}

	if next, ok := skipTargets[field]; ok {
		return AdvanceAction{Kind: AdvanceFocus, Next: next}
	}
	next := field + 1
	if next > enum.FieldTotal {
		next = enum.FieldCustomerCode
	}
	return AdvanceAction{Kind: AdvanceFocus, Next: next}
}
