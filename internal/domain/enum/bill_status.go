package enum

// BillStatus is the billing state the backend stores on a sale line.
// The wire values are the backend's single-letter flags.
type BillStatus string

const (
	// BillStatusNone marks a line not yet held or printed.
	BillStatusNone BillStatus = ""
	// BillStatusPrinted marks a line closed into a numbered bill.
	BillStatusPrinted BillStatus = "Y"
	// BillStatusHeld marks a line on a customer's open, unprinted tab.
	BillStatusHeld BillStatus = "N"
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusPrinted:
		return "Printed"
	case BillStatusHeld:
		return "Held"
	default:
		return "None"
	}
}

// IsClosed reports whether the line belongs to a closed bill.
func (s BillStatus) IsClosed() bool {
	return s == BillStatusPrinted
}
