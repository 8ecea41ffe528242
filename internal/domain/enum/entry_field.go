package enum

import "encoding/json"

// EntryField identifies one input of the entry form. The declaration order
// is the keyboard focus-advance order.
type EntryField int

const (
	FieldCustomerCode EntryField = iota
	FieldCustomerPicker
	FieldGivenAmount
	FieldSupplierCode
	FieldItemPicker
	FieldItemName
	FieldWeight
	FieldPricePerKg
	FieldPacks
	FieldTotal
)

var fieldNames = [...]string{
	"customer_code",
	"customer_picker",
	"given_amount",
	"supplier_code",
	"item_picker",
	"item_name",
	"weight",
	"price_per_kg",
	"packs",
	"total",
}

func (f EntryField) String() string {
	if int(f) < 0 || int(f) >= len(fieldNames) {
		return "customer_code"
	}
	return fieldNames[f]
}

// ParseEntryField resolves a wire name to its field. Unknown names map to
// the customer code field, the form's starting position.
func ParseEntryField(name string) EntryField {
	for i, n := range fieldNames {
		if n == name {
			return EntryField(i)
		}
	}
	return FieldCustomerCode
}

func (f EntryField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *EntryField) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*f = ParseEntryField(str)
	return nil
}
