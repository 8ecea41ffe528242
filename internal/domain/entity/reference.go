package entity

import "github.com/shopspring/decimal"

// Customer is a reference record from the back-office customer master.
type Customer struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
	Phone     string `json:"telephone_no,omitempty"`
}

// Item is a reference record from the item master. PackDue is the per-pack
// surcharge sales entry copies onto a line at item-selection time.
type Item struct {
	Code    string          `json:"no"`
	Name    string          `json:"type"`
	PackDue decimal.Decimal `json:"pack_due"`
}

// Supplier is a reference record from the supplier master.
type Supplier struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}
